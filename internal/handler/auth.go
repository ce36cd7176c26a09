package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/nomadcloset/internal/apperr"
	"github.com/dukerupert/nomadcloset/internal/auth"
	"github.com/dukerupert/nomadcloset/internal/model"
	"github.com/dukerupert/nomadcloset/internal/store"
	"github.com/dukerupert/nomadcloset/internal/viewstate"
)

type AuthHandler struct {
	userStore    *store.UserStore
	sessionStore *store.SessionStore
	views        *viewstate.Store
	sessionTTL   time.Duration
	secureCookie bool
	logger       *slog.Logger
}

func NewAuthHandler(
	us *store.UserStore,
	ss *store.SessionStore,
	views *viewstate.Store,
	sessionTTL time.Duration,
	secureCookie bool,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		userStore:    us,
		sessionStore: ss,
		views:        views,
		sessionTTL:   sessionTTL,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Signup creates an account with the default places and categories and logs
// it in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	email, err := auth.NormalizeEmail(req.Email)
	if err != nil {
		writeError(w, h.logger, apperr.Validation(err.Error()))
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		writeError(w, h.logger, apperr.Validation("password must be at least 6 characters"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}

	user, err := h.userStore.Create(r.Context(), email, hash)
	if err != nil {
		writeError(w, h.logger, apperr.Translate(err, "An account with this email already exists."))
		return
	}
	h.logger.Info("user signed up", "user_id", user.ID)

	if err := h.startSession(w, r, user); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{UserID: user.ID, Email: user.Email})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	email, err := auth.NormalizeEmail(req.Email)
	if err != nil {
		writeError(w, h.logger, apperr.Unauthorized(auth.ErrInvalidCredentials.Error()))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), email)
	if err != nil {
		writeError(w, h.logger, apperr.Remote(err))
		return
	}
	if user == nil {
		writeError(w, h.logger, apperr.Unauthorized(auth.ErrInvalidCredentials.Error()))
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		h.logger.Warn("failed login", "user_id", user.ID)
		writeError(w, h.logger, apperr.Unauthorized(err.Error()))
		return
	}

	if err := h.startSession(w, r, user); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{UserID: user.ID, Email: user.Email})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *model.User) error {
	sess, err := h.sessionStore.Create(r.Context(), user.ID, h.sessionTTL)
	if err != nil {
		return apperr.Remote(err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookie || r.TLS != nil,
	})
	return nil
}

// Session reports the logged-in identity.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	ac, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperr.Unauthorized("not authenticated"))
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{UserID: ac.UserID, Email: ac.Email})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if ac, ok := auth.FromContext(r.Context()); ok {
		if err := h.sessionStore.DeleteByToken(r.Context(), ac.Token); err != nil {
			h.logger.Error("delete session", "error", err)
		}
		h.views.Delete(ac.Token)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
