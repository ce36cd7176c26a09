package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dukerupert/nomadcloset/internal/auth"
	"github.com/dukerupert/nomadcloset/internal/config"
	"github.com/dukerupert/nomadcloset/internal/handler"
	"github.com/dukerupert/nomadcloset/internal/metrics"
	"github.com/dukerupert/nomadcloset/internal/middleware"
	"github.com/dukerupert/nomadcloset/internal/shopping"
	"github.com/dukerupert/nomadcloset/internal/store"
	"github.com/dukerupert/nomadcloset/internal/viewstate"
	"github.com/dukerupert/nomadcloset/internal/web"
	ws "github.com/dukerupert/nomadcloset/internal/websocket"
)

const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
	sweepInterval   = time.Hour
)

type Server struct {
	db             *sqlx.DB
	hub            *ws.Hub
	metrics        *metrics.Metrics
	authH          *handler.AuthHandler
	placeH         *handler.PlaceHandler
	categoryH      *handler.CategoryHandler
	itemH          *handler.ItemHandler
	viewH          *handler.ViewHandler
	packingH       *handler.PackingHandler
	shoppingH      *handler.ShoppingHandler
	exportH        *handler.ExportHandler
	sessionStore   *store.SessionStore
	userStore      *store.UserStore
	rateLimiter    *middleware.RateLimiter
	sweeper        *auth.Sweeper
	toggler        *shopping.Toggler
	originPatterns []string
	trustProxy     bool
	logger         *slog.Logger
}

func New(db *sqlx.DB, cfg *config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	m := metrics.New()

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	placeStore := store.NewPlaceStore(db)
	categoryStore := store.NewCategoryStore(db)
	itemStore := store.NewItemStore(db)
	packingStore := store.NewPackingListStore(db)
	shoppingStore := store.NewShoppingStore(db)
	actionStore := store.NewActionStore(db)

	views := viewstate.New(cfg.ViewState.TTL)
	recorder := handler.NewActionRecorder(actionStore, m, logger.With("component", "actions"))

	// A failed taken write is undone on every client of the user.
	toggler := shopping.NewToggler(shoppingStore, cfg.Toggle.Timeout, logger, func(userID string, undo shopping.Toggle, err error) {
		m.ToggleFailed()
		hub.Broadcast(userID, ws.NewMessage("shopping_item", ws.ActionRevert, undo.ItemID, map[string]any{
			"taken": undo.Taken,
			"error": err.Error(),
		}))
	})

	return &Server{
		db:             db,
		hub:            hub,
		metrics:        m,
		authH:          handler.NewAuthHandler(userStore, sessionStore, views, cfg.Session.TTL, cfg.Session.SecureCookie, logger.With("component", "auth")),
		placeH:         handler.NewPlaceHandler(placeStore, views, recorder, hub, logger.With("component", "place")),
		categoryH:      handler.NewCategoryHandler(categoryStore, hub, logger.With("component", "category")),
		itemH:          handler.NewItemHandler(itemStore, placeStore, categoryStore, recorder, hub, logger.With("component", "item")),
		viewH:          handler.NewViewHandler(itemStore, placeStore, packingStore, views, recorder, m, hub, logger.With("component", "view")),
		packingH:       handler.NewPackingHandler(packingStore, itemStore, placeStore, views, recorder, m, hub, logger.With("component", "packing")),
		shoppingH:      handler.NewShoppingHandler(shoppingStore, placeStore, toggler, hub, logger.With("component", "shopping")),
		exportH:        handler.NewExportHandler(actionStore, recorder, logger.With("component", "export")),
		sessionStore:   sessionStore,
		userStore:      userStore,
		rateLimiter:    middleware.NewRateLimiter(loginRateLimit, loginRateWindow),
		sweeper:        auth.NewSweeper(sessionStore, sweepInterval, logger),
		toggler:        toggler,
		originPatterns: originPatterns(cfg.BaseURL),
		trustProxy:     cfg.Server.TrustedProxy,
		logger:         logger,
	}
}

// originPatterns allows websocket upgrades from the configured public host.
func originPatterns(baseURL string) []string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{u.Host}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Sweeper returns the expired-session sweeper.
func (s *Server) Sweeper() *auth.Sweeper {
	return s.sweeper
}

// Toggler returns the shopping toggler so shutdown can wait for detached writes.
func (s *Server) Toggler() *shopping.Toggler {
	return s.toggler
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /login", web.Page("login.html"))
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler("login", s.authH.Login))
	outerMux.HandleFunc("POST /signup", s.rateLimitedHandler("signup", s.authH.Signup))
	outerMux.Handle("GET /static/", http.StripPrefix("/static/", web.FileServer()))
	outerMux.HandleFunc("GET /sw.js", web.ServiceWorker())
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.Handle("GET /metrics", s.metrics.Handler())

	// Protected routes
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	var h http.Handler = outerMux
	h = middleware.Metrics(s.metrics)(h)
	return middleware.RequestLogger(s.logger.With("component", "http"), s.trustProxy)(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check ping", "error", err)
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

// rateLimitedHandler budgets h per client IP, separately for each route.
func (s *Server) rateLimitedHandler(route string, h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return route + ":" + middleware.ClientIP(r, s.trustProxy)
	}
	return middleware.RateLimit(s.rateLimiter, keyFunc)(h).ServeHTTP
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Session
	mux.HandleFunc("GET /api/session", s.authH.Session)
	mux.HandleFunc("POST /logout", s.authH.Logout)

	// Places
	mux.HandleFunc("GET /api/places", s.placeH.List)
	mux.HandleFunc("POST /api/places", s.placeH.Create)
	mux.HandleFunc("PUT /api/places/{id}", s.placeH.Rename)
	mux.HandleFunc("DELETE /api/places/{id}", s.placeH.Delete)
	mux.HandleFunc("POST /api/places/{id}/luggage", s.placeH.SetLuggage)

	// Categories
	mux.HandleFunc("GET /api/categories", s.categoryH.List)
	mux.HandleFunc("POST /api/categories", s.categoryH.Create)
	mux.HandleFunc("PUT /api/categories/{id}", s.categoryH.Rename)
	mux.HandleFunc("DELETE /api/categories/{id}", s.categoryH.Delete)

	// Items
	mux.HandleFunc("POST /api/items", s.itemH.Create)
	mux.HandleFunc("PUT /api/items/{id}", s.itemH.Modify)
	mux.HandleFunc("POST /api/items/{id}/move", s.itemH.Move)
	mux.HandleFunc("DELETE /api/items/{id}", s.itemH.Delete)

	// View state and selection
	mux.HandleFunc("GET /api/view", s.viewH.Get)
	mux.HandleFunc("PUT /api/view", s.viewH.Switch)
	mux.HandleFunc("PUT /api/view/query", s.viewH.SetQuery)
	mux.HandleFunc("POST /api/selection/toggle", s.viewH.Toggle)
	mux.HandleFunc("POST /api/selection/all", s.viewH.SelectAll)
	mux.HandleFunc("DELETE /api/selection", s.viewH.ClearSelection)
	mux.HandleFunc("POST /api/selection/move", s.viewH.MoveSelection)
	mux.HandleFunc("POST /api/selection/delete", s.viewH.DeleteSelection)

	// Packing lists
	mux.HandleFunc("GET /api/packing-lists", s.packingH.List)
	mux.HandleFunc("POST /api/packing-lists", s.packingH.Create)
	mux.HandleFunc("DELETE /api/packing-lists/{id}", s.packingH.Delete)
	mux.HandleFunc("GET /api/packing-lists/{id}/reconcile", s.packingH.Reconcile)
	mux.HandleFunc("POST /api/packing-lists/{id}/pack", s.packingH.Pack)

	// Shopping boards
	mux.HandleFunc("GET /api/places/{id}/boards", s.shoppingH.ListBoards)
	mux.HandleFunc("POST /api/places/{id}/boards", s.shoppingH.CreateBoard)
	mux.HandleFunc("PUT /api/boards/{id}", s.shoppingH.RenameBoard)
	mux.HandleFunc("DELETE /api/boards/{id}", s.shoppingH.DeleteBoard)
	mux.HandleFunc("POST /api/boards/{id}/items", s.shoppingH.AddItem)
	mux.HandleFunc("DELETE /api/shopping-items/{id}", s.shoppingH.DeleteItem)
	mux.HandleFunc("POST /api/shopping-items/{id}/taken", s.shoppingH.SetTaken)

	// Action log
	mux.HandleFunc("GET /api/actions/export", s.exportH.Actions)

	// Page
	mux.HandleFunc("GET /{$}", web.Page("index.html"))

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket"), s.originPatterns))
}
