package provider

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/genricoloni/framed/internal/config"
	"github.com/genricoloni/framed/internal/domain"
)

// MediaFolderName is the display name of the local folder provider
const MediaFolderName = "Media Folder"

var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// MediaFolder lists images stored in a local directory
type MediaFolder struct {
	path      string
	patterns  []string
	recursive bool
}

// NewMediaFolder creates the local folder source
func NewMediaFolder(cfg config.MediaFolderConfig) *MediaFolder {
	return &MediaFolder{
		path:      cfg.Path,
		patterns:  splitPatterns(cfg.Patterns),
		recursive: cfg.Recursive,
	}
}

func (m *MediaFolder) Name() string { return MediaFolderName }
func (m *MediaFolder) Key() string  { return "media_folder" }

// Fetch walks the folder; the artwork id is the absolute file path
func (m *MediaFolder) Fetch(ctx context.Context) ([]domain.Artwork, error) {
	info, err := os.Stat(m.path)
	if err != nil {
		return nil, fmt.Errorf("media folder unavailable: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("media folder %s is not a directory", m.path)
	}

	root, err := filepath.Abs(m.path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", m.path, err)
	}

	var arts []domain.Artwork
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !m.recursive || isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !m.include(d.Name()) {
			return nil
		}
		arts = append(arts, domain.Artwork{
			ID:        path,
			Source:    MediaFolderName,
			Title:     strings.TrimSuffix(d.Name(), filepath.Ext(d.Name())),
			LocalPath: path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	return arts, nil
}

// Read returns the file contents
func (m *MediaFolder) Read(_ context.Context, art domain.Artwork) ([]byte, error) {
	path := art.LocalPath
	if path == "" {
		path = art.ID
	}
	return os.ReadFile(path)
}

func (m *MediaFolder) include(name string) bool {
	if isHidden(name) {
		return false
	}
	lower := strings.ToLower(name)
	if !supportedExtensions[filepath.Ext(lower)] {
		return false
	}
	if len(m.patterns) == 0 {
		return true
	}
	for _, pattern := range m.patterns {
		if ok, _ := filepath.Match(pattern, lower); ok {
			return true
		}
	}
	return false
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func splitPatterns(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
