// Package api exposes the slideshow host commands over HTTP and streams
// rotation events over WebSocket.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/genricoloni/framed/internal/config"
	"github.com/genricoloni/framed/internal/domain"
	"github.com/genricoloni/framed/internal/rotation"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Controller is the slideshow command surface the API drives
type Controller interface {
	StartRotation(ctx context.Context, opts rotation.Options) error
	StopRotation(ctx context.Context) error
	SetInterval(ctx context.Context, interval time.Duration) error
	Next(ctx context.Context) (domain.Artwork, error)
	Previous(ctx context.Context) (domain.Artwork, error)
	ShowOverlay(ctx context.Context, data []byte) (domain.Artwork, error)

	Enqueue(ctx context.Context, art domain.Artwork) (bool, error)
	Dequeue(ctx context.Context, id string) (bool, error)
	SetQueue(ctx context.Context, arts []domain.Artwork) error
	ClearQueue(ctx context.Context) error
	Queue(ctx context.Context) ([]domain.Artwork, error)

	SetShuffle(ctx context.Context, enabled bool) error
	SetAutoRandom(ctx context.Context, enabled bool) error
	SetCategory(ctx context.Context, c domain.Category) error

	Current(ctx context.Context) (domain.Artwork, bool, error)
	PeekNext(ctx context.Context) (domain.Artwork, bool, error)
	PeekPrevious(ctx context.Context) (domain.Artwork, bool, error)
	Status(ctx context.Context) (rotation.Status, error)
	Subscribe() (<-chan rotation.Event, func())
}

// Previewer exposes the file currently shown by a local display surface
type Previewer interface {
	CurrentPath() (string, bool)
}

// Server is the HTTP control API
type Server struct {
	logger    *zap.Logger
	ctrl      Controller
	preview   Previewer
	validate  *validator.Validate
	defaults  rotation.Options
	srv       *http.Server
	wsTimeout time.Duration
}

// NewServer creates the API server; preview may be nil
func NewServer(logger *zap.Logger, cfg *config.AppConfig, ctrl Controller, preview Previewer) *Server {
	s := &Server{
		logger:   logger.Named("api"),
		ctrl:     ctrl,
		preview:  preview,
		validate: validator.New(),
		defaults: rotation.Options{
			Interval: cfg.Slideshow.Interval,
			Shuffle:  cfg.Slideshow.Shuffle,
			Category: domain.Category(cfg.Slideshow.Category),
		},
		wsTimeout: 60 * time.Second,
	}
	s.srv = &http.Server{
		Addr:              cfg.HTTP.Listen,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Routes builds the chi router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", s.handleWebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/current", s.handleCurrent)
		r.Get("/current/image", s.handleCurrentImage)
		r.Get("/next", s.handlePeekNext)
		r.Get("/previous", s.handlePeekPrevious)

		r.Route("/rotation", func(r chi.Router) {
			r.Post("/start", s.handleStart)
			r.Post("/stop", s.handleStop)
			r.Post("/next", s.handleNext)
			r.Post("/previous", s.handlePrevious)
			r.Put("/interval", s.handleInterval)
		})

		r.Route("/queue", func(r chi.Router) {
			r.Get("/", s.handleGetQueue)
			r.Put("/", s.handleReplaceQueue)
			r.Post("/", s.handleEnqueue)
			r.Delete("/", s.handleClearQueue)
			r.Delete("/{id}", s.handleDequeue)
		})

		r.Put("/settings", s.handleSettings)
		r.Post("/overlay", s.handleOverlay)
	})

	return r
}

// Start begins serving in the background
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	s.logger.Info("HTTP API listening", zap.String("addr", ln.Addr().String()))

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()
	return nil
}

// Stop shuts the server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP API stopping...")
	return s.srv.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("requestId", chimiddleware.GetReqID(r.Context())))
	})
}
