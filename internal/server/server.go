// Package server serves the parameter form over HTTP: the page, the
// activation endpoint that redirects to the computed target, the destination
// view and a small JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-paramform/internal/config"
	"github.com/goliatone/go-paramform/pkg/i18n"
	"github.com/goliatone/go-paramform/pkg/mount"
	"github.com/goliatone/go-paramform/pkg/params"
	"github.com/goliatone/go-paramform/pkg/render"
	"github.com/goliatone/go-paramform/pkg/renderers/vanilla"
)

// Version is reported in the OpenAPI document.
const Version = "0.1.0"

const (
	pagePath     = "/runscript"
	activatePath = "/runscript/activate"
	viewPath     = "/runscript/view"
	assetsPath   = "/assets/"

	localeParam = "locale"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and lifecycle logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCatalog sets the language packs used for labels and messages.
func WithCatalog(catalog *i18n.Catalog) Option {
	return func(s *Server) {
		s.catalog = catalog
	}
}

// WithSessionStore replaces the in-memory session store.
func WithSessionStore(store scs.Store) Option {
	return func(s *Server) {
		if store != nil {
			s.sessionStore = store
		}
	}
}

// Server holds the request-independent state. Every request builds its own
// form component.
type Server struct {
	cfg          config.Config
	params       params.Set
	logger       *slog.Logger
	catalog      *i18n.Catalog
	sessionStore scs.Store
	sessions     *scs.SessionManager
	renderer     *vanilla.Renderer
	mounter      *mount.Mounter
	router       chi.Router
	api          huma.API
}

// New validates cfg and wires the router.
func New(cfg config.Config, options ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Server{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	set, err := cfg.Form.ParamSet()
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s.params = set

	s.renderer, err = vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("server: vanilla renderer: %w", err)
	}
	registry := render.NewRegistry()
	if err := registry.Register(s.renderer); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	mountOptions, err := cfg.MountOptions(s.logger, s.catalog)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	mountOptions = append(mountOptions,
		mount.WithRegistry(registry),
		mount.WithDefaultRenderer(s.renderer.Name()),
		mount.WithEnvelope(),
	)
	s.mounter = mount.New(mountOptions...)

	s.sessions = newSessionManager(cfg.Server, s.sessionStore)
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(s.requestLogger)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, pagePath, http.StatusSeeOther)
	})
	router.Get(pagePath, s.handlePage)
	router.Post(activatePath, s.handleActivate)
	router.Get(viewPath, s.handleView)

	assets := http.StripPrefix(assetsPath, http.FileServer(http.FS(vanilla.AssetsFS())))
	router.Get(assetsPath+"*", func(w http.ResponseWriter, r *http.Request) {
		setNoCacheHeaders(w)
		assets.ServeHTTP(w, r)
	})

	api := humachi.New(router, huma.DefaultConfig("paramform", Version))
	registerAPI(api, s)

	s.router = router
	s.api = api
}

// Handler returns the router wrapped with session loading.
func (s *Server) Handler() http.Handler {
	return s.sessions.LoadAndSave(s.router)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// When i18n.watch is set, language packs are reloaded as they change.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.catalog != nil && s.cfg.I18n.Watch && strings.TrimSpace(s.cfg.I18n.Dir) != "" {
		go func() {
			if err := i18n.Watch(ctx, s.cfg.I18n.Dir, s.catalog, s.logger); err != nil {
				s.logger.Warn("language pack watcher stopped", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) locale(r *http.Request) string {
	if locale := strings.TrimSpace(r.URL.Query().Get(localeParam)); locale != "" {
		return locale
	}
	return s.cfg.I18n.Locale
}

func (s *Server) translate(locale, text string) string {
	if s.catalog == nil {
		return text
	}
	translated, err := s.catalog.Translate(locale, text)
	if err != nil || strings.TrimSpace(translated) == "" {
		return text
	}
	return i18n.SanitizeLabel(translated)
}

func setNoCacheHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
}
