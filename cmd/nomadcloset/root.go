package main

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dukerupert/nomadcloset/internal/config"
	"github.com/dukerupert/nomadcloset/internal/database"
	"github.com/dukerupert/nomadcloset/internal/logging"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	v          *viper.Viper
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func rootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "nomadcloset",
		Short:         "Inventory of belongings spread over several homes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	flags.String("port", "", "HTTP listen port")
	flags.String("db-driver", "", "Database driver (sqlite or postgres)")
	flags.String("db-dsn", "", "Database DSN or SQLite file path")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log format (text or json)")

	for key, flag := range map[string]string{
		"port":       "port",
		"db.driver":  "db-driver",
		"db.dsn":     "db-dsn",
		"log.level":  "log-level",
		"log.format": "log-format",
	} {
		a.v.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		cfg, err := config.Load(a.v, a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
		a.logger = logging.Setup(cfg.Log.Level, cfg.Log.Format)
		return nil
	}

	rootCmd.AddCommand(
		serveCommand(a),
		migrateCommand(a),
		exportCommand(a),
		versionCommand(),
	)
	return rootCmd
}

func (a *app) openDB() (*sqlx.DB, error) {
	db, err := database.Open(a.cfg.DB.Driver, a.cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}
