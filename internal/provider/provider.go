// Package provider implements the artwork sources feeding the slideshow.
//
// Each variant (local folder, Bing, Google Arts) only knows how to list and
// read its artwork. Provider wraps a variant with the shared lifecycle:
// configuration gating, catalog retention across failed refreshes and the
// last error string used for diagnostics.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/genricoloni/framed/internal/domain"
	"github.com/genricoloni/framed/internal/metrics"
	"go.uber.org/zap"
)

// ErrUnknownArtwork is returned for ids that are not in the provider catalog
var ErrUnknownArtwork = errors.New("artwork not found")

// Source is a single artwork origin
type Source interface {
	// Name is the display name, stored as Artwork.Source
	Name() string
	// Key is the configuration key (e.g. "media_folder")
	Key() string
	// Fetch lists the artwork currently offered by the source
	Fetch(ctx context.Context) ([]domain.Artwork, error)
	// Read returns the raw image bytes of an artwork listed by Fetch
	Read(ctx context.Context, art domain.Artwork) ([]byte, error)
}

// Provider adds lifecycle and error bookkeeping to a Source
type Provider struct {
	logger  *zap.Logger
	source  Source
	enabled bool

	mu        sync.RWMutex
	state     domain.ProviderState
	catalog   []domain.Artwork
	lastError string
}

// New creates a provider; enabled comes from static configuration
func New(logger *zap.Logger, source Source, enabled bool) *Provider {
	return &Provider{
		logger:  logger.Named("provider").With(zap.String("provider", source.Name())),
		source:  source,
		enabled: enabled,
		state:   domain.ProviderDisabled,
	}
}

// Name returns the provider display name
func (p *Provider) Name() string { return p.source.Name() }

// Key returns the configuration key
func (p *Provider) Key() string { return p.source.Key() }

// IsEnabled reports whether the provider is turned on in configuration
func (p *Provider) IsEnabled() bool { return p.enabled }

// State returns the lifecycle state
func (p *Provider) State() domain.ProviderState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// LastError returns the message of the most recent failed load, or ""
func (p *Provider) LastError() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastError
}

// ArtworkCount returns the size of the retained catalog
func (p *Provider) ArtworkCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.catalog)
}

// Catalog returns a copy of the retained catalog
func (p *Provider) Catalog() []domain.Artwork {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]domain.Artwork(nil), p.catalog...)
}

// Initialize performs the first catalog load.
// Returns false when the provider is disabled or the load failed.
func (p *Provider) Initialize(ctx context.Context) bool {
	if !p.enabled {
		p.logger.Debug("Provider is disabled")
		return false
	}

	p.mu.Lock()
	p.state = domain.ProviderLoading
	p.mu.Unlock()

	arts := p.LoadArtworks(ctx)

	p.mu.Lock()
	p.state = domain.ProviderEnabled
	failed := p.lastError != ""
	p.mu.Unlock()

	if failed {
		return false
	}
	p.logger.Info("Provider initialized", zap.Int("artworks", len(arts)))
	return true
}

// LoadArtworks refreshes the catalog. On failure the error is logged and
// recorded, an empty slice is returned and the previous catalog is kept.
func (p *Provider) LoadArtworks(ctx context.Context) []domain.Artwork {
	if !p.enabled {
		return nil
	}

	arts, err := p.fetch(ctx)
	if err != nil {
		p.logger.Error("Failed to load artworks", zap.Error(err))
		metrics.ProviderErrors.WithLabelValues(p.Name()).Inc()

		p.mu.Lock()
		p.lastError = err.Error()
		p.mu.Unlock()
		return []domain.Artwork{}
	}

	p.mu.Lock()
	p.catalog = arts
	p.lastError = ""
	p.mu.Unlock()

	p.logger.Debug("Artworks loaded", zap.Int("count", len(arts)))
	return append([]domain.Artwork(nil), arts...)
}

// fetch calls the source, converting a panic into an error
func (p *Provider) fetch(ctx context.Context) (arts []domain.Artwork, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while loading: %v", r)
		}
	}()
	return p.source.Fetch(ctx)
}

// ArtworkData returns the image bytes of a catalog entry
func (p *Provider) ArtworkData(ctx context.Context, id string) ([]byte, error) {
	art, ok := p.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownArtwork, id)
	}

	data, err := p.source.Read(ctx, art)
	if err != nil {
		return nil, fmt.Errorf("failed to read artwork %s: %w", id, err)
	}

	p.logger.Debug("Artwork data read", zap.String("id", id), zap.Int("bytes", len(data)))
	return data, nil
}

func (p *Provider) lookup(id string) (domain.Artwork, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, art := range p.catalog {
		if art.ID == id {
			return art, true
		}
	}
	return domain.Artwork{}, false
}
