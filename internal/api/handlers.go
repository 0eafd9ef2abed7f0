package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/genricoloni/framed/internal/domain"
	"github.com/genricoloni/framed/internal/rotation"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	maxBodySize    = 1 << 20
	maxOverlaySize = 10 << 20
)

type startRequest struct {
	// Interval in minutes
	Interval int   `json:"interval" validate:"omitempty,gte=1,lte=1440"`
	Shuffle  *bool `json:"shuffle"`
	Category int   `json:"category" validate:"omitempty,oneof=2 4 8"`
}

type intervalRequest struct {
	Interval int `json:"interval" validate:"required,gte=1,lte=1440"`
}

type settingsRequest struct {
	Shuffle    *bool `json:"shuffle"`
	AutoRandom *bool `json:"auto_random"`
	Category   *int  `json:"category" validate:"omitempty,oneof=2 4 8"`
}

type artworkRequest struct {
	ID        string `json:"id" validate:"required"`
	Source    string `json:"source"`
	Title     string `json:"title"`
	ContentID string `json:"content_id"`
	URL       string `json:"url" validate:"omitempty,url"`
}

func (a artworkRequest) artwork() domain.Artwork {
	return domain.Artwork{ID: a.ID, Source: a.Source, Title: a.Title, ContentID: a.ContentID, URL: a.URL}
}

type queueRequest struct {
	Items []artworkRequest `json:"items" validate:"dive"`
}

type artworkResponse struct {
	Artwork *domain.Artwork `json:"artwork"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.ctrl.Status(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	s.writePeek(w, r, s.ctrl.Current)
}

func (s *Server) handlePeekNext(w http.ResponseWriter, r *http.Request) {
	s.writePeek(w, r, s.ctrl.PeekNext)
}

func (s *Server) handlePeekPrevious(w http.ResponseWriter, r *http.Request) {
	s.writePeek(w, r, s.ctrl.PeekPrevious)
}

func (s *Server) handleCurrentImage(w http.ResponseWriter, r *http.Request) {
	if s.preview == nil {
		http.NotFound(w, r)
		return
	}
	path, ok := s.preview.CurrentPath()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, path)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !s.decode(w, r, &req) {
		return
	}

	opts := s.defaults
	if req.Interval > 0 {
		opts.Interval = time.Duration(req.Interval) * time.Minute
	}
	if req.Shuffle != nil {
		opts.Shuffle = *req.Shuffle
	} else {
		// Keep whatever shuffle mode is in effect, e.g. set through /settings
		st, err := s.ctrl.Status(r.Context())
		if err != nil {
			s.writeError(w, err)
			return
		}
		opts.Shuffle = st.Shuffle
	}
	if req.Category != 0 {
		opts.Category = domain.Category(req.Category)
	}

	if err := s.ctrl.StartRotation(r.Context(), opts); err != nil {
		s.writeError(w, err)
		return
	}
	s.handleStatus(w, r)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.StopRotation(r.Context()); err != nil {
		// Native rotation failures are reported but the local timer is stopped
		s.logger.Warn("Stop reported an error", zap.Error(err))
	}
	s.handleStatus(w, r)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.writeAdvance(w, r, s.ctrl.Next)
}

func (s *Server) handlePrevious(w http.ResponseWriter, r *http.Request) {
	s.writeAdvance(w, r, s.ctrl.Previous)
}

func (s *Server) handleInterval(w http.ResponseWriter, r *http.Request) {
	var req intervalRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.ctrl.SetInterval(r.Context(), time.Duration(req.Interval)*time.Minute); err != nil {
		s.writeError(w, err)
		return
	}
	s.handleStatus(w, r)
}

func (s *Server) handleGetQueue(w http.ResponseWriter, r *http.Request) {
	items, err := s.ctrl.Queue(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if items == nil {
		items = []domain.Artwork{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleReplaceQueue(w http.ResponseWriter, r *http.Request) {
	var req queueRequest
	if !s.decode(w, r, &req) {
		return
	}
	arts := make([]domain.Artwork, 0, len(req.Items))
	for _, it := range req.Items {
		arts = append(arts, it.artwork())
	}
	if err := s.ctrl.SetQueue(r.Context(), arts); err != nil {
		s.writeError(w, err)
		return
	}
	s.handleGetQueue(w, r)
}

func (s *Server) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	var req artworkRequest
	if !s.decode(w, r, &req) {
		return
	}
	added, err := s.ctrl.Enqueue(r.Context(), req.artwork())
	if err != nil {
		s.writeError(w, err)
		return
	}
	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	s.writeJSON(w, status, map[string]bool{"added": added})
}

func (s *Server) handleDequeue(w http.ResponseWriter, r *http.Request) {
	removed, err := s.ctrl.Dequeue(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !removed {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "artwork not in queue"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearQueue(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.ClearQueue(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if !s.decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	if req.Category != nil {
		if err := s.ctrl.SetCategory(ctx, domain.Category(*req.Category)); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if req.Shuffle != nil {
		if err := s.ctrl.SetShuffle(ctx, *req.Shuffle); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if req.AutoRandom != nil {
		if err := s.ctrl.SetAutoRandom(ctx, *req.AutoRandom); err != nil {
			s.writeError(w, err)
			return
		}
	}
	s.handleStatus(w, r)
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxOverlaySize))
	if err != nil {
		s.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "overlay too large"})
		return
	}
	if http.DetectContentType(data) != "image/png" {
		s.writeJSON(w, http.StatusUnsupportedMediaType, errorResponse{Error: "overlay must be a PNG image"})
		return
	}
	s.writeAdvance(w, r, func(ctx context.Context) (domain.Artwork, error) {
		return s.ctrl.ShowOverlay(ctx, data)
	})
}

func (s *Server) writeAdvance(w http.ResponseWriter, r *http.Request, f func(ctx context.Context) (domain.Artwork, error)) {
	art, err := f(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, artworkResponse{Artwork: &art})
}

func (s *Server) writePeek(w http.ResponseWriter, r *http.Request, f func(ctx context.Context) (domain.Artwork, bool, error)) {
	art, ok, err := f(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !ok {
		s.writeJSON(w, http.StatusOK, artworkResponse{})
		return
	}
	s.writeJSON(w, http.StatusOK, artworkResponse{Artwork: &art})
}

// decode reads and validates a JSON body; an empty body decodes to the zero value
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
		return false
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, v); err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
			return false
		}
	}
	if err := s.validate.Struct(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, rotation.ErrNoArtwork):
		status = http.StatusConflict
	case errors.Is(err, rotation.ErrInvalidCategory):
		status = http.StatusBadRequest
	case errors.Is(err, rotation.ErrStopped):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.Error(err))
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}
