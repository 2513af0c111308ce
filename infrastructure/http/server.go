package http

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	sharedcontext "skiphire/frontend/shared/context"
	"skiphire/frontend/skips"
	"skiphire/infrastructure/audit"
	"skiphire/infrastructure/cache"
	"skiphire/infrastructure/config"
	"skiphire/infrastructure/pricing"
	pagecookie "skiphire/infrastructure/session"
	"skiphire/infrastructure/sqlite"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed assets/*
var assets embed.FS

var ShutdownTimeout = 2 * time.Second

// PageIdleTimeout is how long an untouched page state stays in memory.
var PageIdleTimeout = 30 * time.Minute

var sweepInterval = time.Minute

// Server bundles dependencies and route wiring.
type Server struct {
	Addr   string
	ln     net.Listener
	server *http.Server
	router *chi.Mux
	done   chan struct{}

	DB       *sqlite.DB
	Pages    *cache.PageCache[*skips.Page]
	Audit    *audit.Service
	Source   pricing.Source
	Location pricing.Location
	ImageURL string
}

// NewServer creates a new http server.
func NewServer(cfg config.Config, db *sqlite.DB, src pricing.Source, pages *cache.PageCache[*skips.Page], auditSvc *audit.Service) *Server {
	s := &Server{
		Addr:     cfg.Addr,
		router:   chi.NewRouter(),
		DB:       db,
		Pages:    pages,
		Audit:    auditSvc,
		Source:   src,
		Location: pricing.Location{Postcode: cfg.Postcode, Area: cfg.Area},
		ImageURL: cfg.ImageBaseURL,
		server: &http.Server{
			MaxHeaderBytes:    1 << 20,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	// Secure headers first.
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("X-XSS-Protection", "1; mode=block")
			next.ServeHTTP(w, r)
		})
	})

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Compress(5))
	s.router.Use(s.CSRFMiddleware)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/skips", http.StatusSeeOther)
	})

	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Serve assets from embedded FS.
	var assetsFS fs.FS = assets
	if sub, err := fs.Sub(assets, "assets"); err == nil {
		assetsFS = sub
	} else {
		slog.Error("assets subfs init failed; serving fallback fs", slog.Any("err", err))
	}
	s.router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(assetsFS))))

	s.router.Group(func(r chi.Router) {
		r.Use(s.PageMiddleware)
		s.RegisterSkipRoutes(r)
	})
	s.RegisterAPIRoutes(s.router)

	s.server.Handler = s.router
	return s
}

// PageMiddleware ties the request to a page token, issuing a new one when the
// cookie is missing or malformed.
func (s *Server) PageMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if c, err := r.Cookie(pagecookie.CookieName); err == nil && pagecookie.ValidToken(c.Value) {
			token = c.Value
		} else {
			token = pagecookie.NewToken()
			http.SetCookie(w, pagecookie.PageCookie(token, pagecookie.DefaultMaxAge))
		}
		ctx := sharedcontext.NewContextWithPageToken(r.Context(), token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) deps() skips.Deps {
	return skips.Deps{
		DB:           s.DB,
		Pages:        s.Pages,
		Source:       s.Source,
		Location:     s.Location,
		ImageBaseURL: s.ImageURL,
		Audit:        s.Audit,
	}
}

// Start starts the HTTP server and the idle page sweeper.
func (s *Server) Start() error {
	var err error
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	s.done = make(chan struct{})
	go s.sweepPages(s.done)
	go s.server.Serve(s.ln)
	return nil
}

func (s *Server) sweepPages(done <-chan struct{}) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if n := s.Pages.Sweep(PageIdleTimeout); n > 0 {
				slog.Debug("swept idle pages", slog.Int("removed", n), slog.Int("remaining", s.Pages.Len()))
			}
		}
	}
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.ln == nil {
		return fmt.Errorf("HTTP server has not been started or is already stopped")
	}
	close(s.done)
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %v", err)
	}
	s.ln = nil
	return nil
}

// Listener exposes the bound address once Start has run.
func (s *Server) Listener() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}
