package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukerupert/nomadcloset/internal/auth"
	"github.com/dukerupert/nomadcloset/internal/export"
	"github.com/dukerupert/nomadcloset/internal/model"
	"github.com/dukerupert/nomadcloset/internal/store"
)

// cliSession marks actions taken from the command line.
const cliSession = "cli"

type exportOptions struct {
	email string
	out   string
	s3    bool
}

func exportCommand(a *app) *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a user's action log as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.export(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&opts.out, "out", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.s3, "s3", false, "Upload to the configured S3 bucket")
	cmd.MarkFlagRequired("email")
	return cmd
}

func (a *app) export(ctx context.Context, opts exportOptions, stdout io.Writer) error {
	if opts.s3 && !a.cfg.S3.Enabled() {
		return fmt.Errorf("s3 upload requested but s3.bucket, s3.access_key and s3.secret_key are not all set")
	}
	email, err := auth.NormalizeEmail(opts.email)
	if err != nil {
		return err
	}

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	user, err := store.NewUserStore(db).GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("no account for %s", email)
	}

	actions := store.NewActionStore(db)
	data, rows, err := export.Render(ctx, actions, user.ID)
	if err != nil {
		return err
	}

	switch {
	case opts.s3:
		key, err := export.NewArchiver(a.cfg.S3).Upload(ctx, user.ID, data)
		if err != nil {
			return err
		}
		a.logger.Info("export uploaded", "bucket", a.cfg.S3.Bucket, "key", key, "rows", rows)
	case opts.out != "":
		if err := os.WriteFile(opts.out, data, 0o600); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		a.logger.Info("export written", "path", opts.out, "rows", rows)
	default:
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
	}

	meta, _ := json.Marshal(map[string]int{"rows": rows})
	metaStr := string(meta)
	if _, err := actions.Log(ctx, model.Action{
		UserID:     user.ID,
		SessionID:  cliSession,
		ActionType: model.ActionExportCSV,
		Metadata:   &metaStr,
	}); err != nil {
		a.logger.Warn("log export action", "error", err)
	}
	return nil
}
