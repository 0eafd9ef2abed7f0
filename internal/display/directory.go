// Package display provides display surfaces the slideshow can drive.
package display

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/genricoloni/framed/internal/config"
	"github.com/genricoloni/framed/internal/domain"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnknownContent is returned when selecting an id that was never uploaded
var ErrUnknownContent = errors.New("unknown content id")

const (
	uploadsDir    = "uploads"
	currentPrefix = "current"
	contentPrefix = "MY_F-"
	originsFile   = "origins.json"
)

var fileTypeExt = map[string]string{
	"JPEG": ".jpg",
	"JPG":  ".jpg",
	"PNG":  ".png",
}

// DirectorySurface is a virtual frame backed by a directory. Uploads are
// stored under uploads/ and the selected artwork is copied to current.<ext>
// where any image viewer or the HTTP preview can pick it up. The origin of
// each upload is kept in uploads/origins.json.
type DirectorySurface struct {
	logger *zap.Logger
	dir    string

	mu       sync.Mutex
	current  string
	rotation time.Duration
	origins  map[string]domain.UploadOrigin
}

// NewDirectorySurface creates the surface and its directories
func NewDirectorySurface(logger *zap.Logger, cfg *config.AppConfig) (*DirectorySurface, error) {
	dir := cfg.Display.Directory
	if err := os.MkdirAll(filepath.Join(dir, uploadsDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create display directory: %w", err)
	}

	s := &DirectorySurface{
		logger:  logger.Named("display"),
		dir:     dir,
		origins: make(map[string]domain.UploadOrigin),
	}
	s.loadOrigins()

	logger.Info("Virtual frame ready", zap.String("dir", dir), zap.Int("uploads", len(s.origins)))
	return s, nil
}

// loadOrigins reads the upload index; a missing or unreadable index starts empty
func (s *DirectorySurface) loadOrigins() {
	data, err := os.ReadFile(s.originsPath())
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		s.logger.Warn("Failed to read upload index", zap.Error(err))
		return
	}
	origins := make(map[string]domain.UploadOrigin)
	if err := json.Unmarshal(data, &origins); err != nil {
		s.logger.Warn("Ignoring corrupt upload index", zap.Error(err))
		return
	}
	s.origins = origins
}

func (s *DirectorySurface) originsPath() string {
	return filepath.Join(s.dir, uploadsDir, originsFile)
}

// RecordUpload remembers where an upload came from
func (s *DirectorySurface) RecordUpload(ctx context.Context, contentID string, origin domain.UploadOrigin) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.lookup(contentID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.origins[contentID] = origin
	data, err := json.Marshal(s.origins)
	if err != nil {
		return fmt.Errorf("failed to encode upload index: %w", err)
	}
	if err := writeFileAtomic(s.originsPath(), data); err != nil {
		return fmt.Errorf("failed to write upload index: %w", err)
	}
	return nil
}

// FindUpload returns the stored upload of a provider artwork, if any
func (s *DirectorySurface) FindUpload(_ context.Context, source, originalID string) (string, bool) {
	if originalID == "" {
		return "", false
	}

	s.mu.Lock()
	var found []string
	for id, o := range s.origins {
		if !o.Overlay && o.Source == source && o.OriginalID == originalID {
			found = append(found, id)
		}
	}
	s.mu.Unlock()

	sort.Strings(found)
	for _, id := range found {
		if _, err := s.lookup(id); err == nil {
			return id, true
		}
	}
	return "", false
}

// Upload stores an image and returns its content id
func (s *DirectorySurface) Upload(ctx context.Context, data []byte, fileType string, matte string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext, ok := fileTypeExt[strings.ToUpper(fileType)]
	if !ok {
		return "", fmt.Errorf("unsupported file type %q", fileType)
	}
	if len(data) == 0 {
		return "", errors.New("empty upload")
	}

	id := contentPrefix + uuid.NewString()
	path := filepath.Join(s.dir, uploadsDir, id+ext)
	if err := writeFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	s.logger.Debug("Stored upload",
		zap.String("contentId", id),
		zap.String("matte", matte),
		zap.Int("bytes", len(data)))
	return id, nil
}

// Select shows an uploaded image by copying it to current.<ext>.
// With show=false the selection is recorded without touching the frame.
func (s *DirectorySurface) Select(ctx context.Context, contentID string, category domain.Category, show bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src, err := s.lookup(contentID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if show {
		data, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", contentID, err)
		}
		ext := filepath.Ext(src)
		for _, other := range fileTypeExt {
			if other != ext {
				_ = os.Remove(filepath.Join(s.dir, currentPrefix+other))
			}
		}
		if err := writeFileAtomic(filepath.Join(s.dir, currentPrefix+ext), data); err != nil {
			return fmt.Errorf("failed to display %s: %w", contentID, err)
		}
	}

	s.current = contentID
	s.logger.Debug("Selected",
		zap.String("contentId", contentID),
		zap.Stringer("category", category),
		zap.Bool("show", show))
	return nil
}

// NativeCatalog lists stored uploads, all of which belong to My Pictures.
// Overlays are left out and provider copies carry their origin.
func (s *DirectorySurface) NativeCatalog(ctx context.Context, category domain.Category) ([]domain.Artwork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if category != domain.CategoryMyPictures {
		return []domain.Artwork{}, nil
	}

	entries, err := os.ReadDir(filepath.Join(s.dir, uploadsDir))
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	arts := make([]domain.Artwork, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), contentPrefix) {
			continue
		}
		id := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		art := domain.Artwork{ID: id, ContentID: id, Title: id}
		if o, ok := s.origins[id]; ok {
			if o.Overlay {
				continue
			}
			art.Source = o.Source
			art.OriginalID = o.OriginalID
			if o.Title != "" {
				art.Title = o.Title
			}
		}
		arts = append(arts, art)
	}
	sort.Slice(arts, func(i, j int) bool { return arts[i].ID < arts[j].ID })
	return arts, nil
}

// SetAutoRotation records the requested native rotation; a directory has no
// rotation of its own so the local timer does the work
func (s *DirectorySurface) SetAutoRotation(_ context.Context, interval time.Duration, shuffle bool, category domain.Category) error {
	s.mu.Lock()
	s.rotation = interval
	s.mu.Unlock()

	s.logger.Debug("Auto-rotation status",
		zap.Duration("interval", interval),
		zap.Bool("shuffle", shuffle),
		zap.Stringer("category", category))
	return nil
}

// AutoRotation returns the last requested native rotation interval
func (s *DirectorySurface) AutoRotation() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotation
}

// Current returns the selected content id
func (s *DirectorySurface) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current != ""
}

// CurrentPath returns the file showing the selected artwork
func (s *DirectorySurface) CurrentPath() (string, bool) {
	for _, ext := range []string{".jpg", ".png"} {
		p := filepath.Join(s.dir, currentPrefix+ext)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}

func (s *DirectorySurface) lookup(contentID string) (string, error) {
	if contentID == "" || strings.ContainsAny(contentID, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrUnknownContent, contentID)
	}
	matches, err := filepath.Glob(filepath.Join(s.dir, uploadsDir, contentID+".*"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrUnknownContent, contentID)
	}
	return matches[0], nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), fs.FileMode(0o644)); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
