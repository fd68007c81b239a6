// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

// Package web serves the catalog, detail pages and download sessions over HTTP.
package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/janderssonse/appmod/internal/catalog"
	"github.com/janderssonse/appmod/internal/detail"
	"github.com/janderssonse/appmod/internal/download"
	"github.com/janderssonse/appmod/internal/logging"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
	refreshSeconds    = 1
)

// Options configures a Server.
type Options struct {
	// BasePath prefixes every route, e.g. "/app-mod". Empty serves from the root.
	BasePath string
	// PublicURL is the externally visible origin used for og:url. When empty
	// the request host is used.
	PublicURL   string
	SiteTitle   string
	DefaultIcon string
	// DataFile is served raw at {base}/databases/app.json when set.
	DataFile string
}

// Server is the HTTP front end.
type Server struct {
	opts     Options
	router   *mux.Router
	catalog  *catalog.Store
	details  *detail.Store
	registry *download.Registry
	render   *renderer
	logger   *log.Logger
}

// NewServer creates a server and registers its routes.
func NewServer(
	opts Options,
	catalogStore *catalog.Store,
	details *detail.Store,
	registry *download.Registry,
	logger *log.Logger,
) (*Server, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	opts.BasePath = strings.TrimRight(opts.BasePath, "/")

	if opts.SiteTitle == "" {
		opts.SiteTitle = "App Mod"
	}

	if opts.DefaultIcon == "" {
		opts.DefaultIcon = opts.BasePath + "/static/favicon.svg"
	}

	r, err := newRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:     opts,
		router:   mux.NewRouter(),
		catalog:  catalogStore,
		details:  details,
		registry: registry,
		render:   r,
		logger:   logger,
	}

	if err := s.setupRoutes(); err != nil {
		return nil, err
	}

	return s, nil
}

// setupRoutes configures the server routes.
func (s *Server) setupRoutes() error {
	static, err := fs.Sub(assets, "static")
	if err != nil {
		return fmt.Errorf("failed to open static assets: %w", err)
	}

	router := s.router
	if s.opts.BasePath != "" {
		s.router.Handle("/", http.RedirectHandler(s.opts.BasePath+"/", http.StatusMovedPermanently)).Methods(http.MethodGet)
		s.router.Handle(s.opts.BasePath, http.RedirectHandler(s.opts.BasePath+"/", http.StatusMovedPermanently)).Methods(http.MethodGet)
		router = s.router.PathPrefix(s.opts.BasePath).Subrouter()
	}

	router.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	router.HandleFunc("/contact", s.handleContact).Methods(http.MethodGet)
	router.HandleFunc("/apps/{slug}", s.handleDetail).Methods(http.MethodGet)
	router.HandleFunc("/apps/{slug}/download", s.handleStartDownload).Methods(http.MethodPost)
	router.HandleFunc("/downloads/{id}", s.handleDownloadStatus).Methods(http.MethodGet)
	router.HandleFunc("/downloads/{id}/cancel", s.handleCancelDownload).Methods(http.MethodPost)
	router.HandleFunc("/databases/app.json", s.handleDataFile).Methods(http.MethodGet)
	router.PathPrefix("/static/").Handler(
		http.StripPrefix(s.opts.BasePath+"/static/", http.FileServer(http.FS(static))),
	)

	s.router.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	s.router.Use(s.logRequests)

	return nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve accepts connections on ln until ctx ends, then shuts down gracefully.
// Download sessions are reaped in the background and released on shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	if s.registry != nil {
		go s.registry.Run(ctx)
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info("server started", "addr", ln.Addr().String(), "base", s.opts.BasePath+"/")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")

	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "took", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter

	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
