package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/genricoloni/framed/internal/config"
	"github.com/genricoloni/framed/internal/domain"
	"github.com/genricoloni/framed/internal/metrics"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type registration struct {
	key      string
	provider domain.ArtworkProvider
}

// Registry keeps the configured providers in registration order
type Registry struct {
	logger *zap.Logger

	mu        sync.RWMutex
	providers []registration
}

// NewRegistry creates an empty registry
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{logger: logger.Named("registry")}
}

// NewRegistryFromConfig registers every known provider. Disabled providers
// are registered too so their status can be reported.
func NewRegistryFromConfig(logger *zap.Logger, cfg *config.AppConfig, fetcher domain.Fetcher) *Registry {
	r := NewRegistry(logger)
	p := cfg.Providers

	sources := []struct {
		source  Source
		enabled bool
	}{
		{NewMediaFolder(p.MediaFolder), p.MediaFolder.Enabled},
		{NewGoogleArts(fetcher, p.GoogleArts), p.GoogleArts.Enabled},
		{NewBing(fetcher, p.Bing), p.Bing.Enabled},
	}
	for _, s := range sources {
		r.Register(s.source.Key(), New(logger, s.source, s.enabled))
	}
	return r
}

// Register adds a provider, replacing any provider with the same key
func (r *Registry) Register(key string, p domain.ArtworkProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, reg := range r.providers {
		if reg.key == key {
			r.providers[i].provider = p
			return
		}
	}
	r.providers = append(r.providers, registration{key: key, provider: p})
}

// Provider looks a provider up by configuration key
func (r *Registry) Provider(key string) (domain.ArtworkProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, reg := range r.providers {
		if reg.key == key {
			return reg.provider, true
		}
	}
	return nil, false
}

// ProviderByName looks a provider up by display name (Artwork.Source)
func (r *Registry) ProviderByName(name string) (domain.ArtworkProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, reg := range r.providers {
		if reg.provider.Name() == name {
			return reg.provider, true
		}
	}
	return nil, false
}

// Providers returns every registered provider
func (r *Registry) Providers() []domain.ArtworkProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ArtworkProvider, 0, len(r.providers))
	for _, reg := range r.providers {
		out = append(out, reg.provider)
	}
	return out
}

// EnabledProviders returns the providers turned on in configuration
func (r *Registry) EnabledProviders() []domain.ArtworkProvider {
	var out []domain.ArtworkProvider
	for _, p := range r.Providers() {
		if p.IsEnabled() {
			out = append(out, p)
		}
	}
	return out
}

type initializer interface {
	Initialize(ctx context.Context) bool
}

// InitializeAll runs the first load of every enabled provider and returns
// how many succeeded
func (r *Registry) InitializeAll(ctx context.Context) int {
	ok := 0
	for _, p := range r.EnabledProviders() {
		ini, supported := p.(initializer)
		if !supported {
			ok++
			continue
		}
		if ini.Initialize(ctx) {
			ok++
		}
	}
	r.logger.Info("Providers initialized", zap.Int("ready", ok))
	return ok
}

type errorReporter interface {
	LastError() string
}

// LoadAllArtworks loads every enabled provider, keyed by provider name.
// A failing provider maps to an empty slice and never aborts the others.
func (r *Registry) LoadAllArtworks(ctx context.Context) map[string][]domain.Artwork {
	result := make(map[string][]domain.Artwork)
	var errs error

	for _, p := range r.EnabledProviders() {
		name := p.Name()
		arts, err := safeLoad(ctx, p)
		if err == nil && len(arts) == 0 {
			if rep, ok := p.(errorReporter); ok && rep.LastError() != "" {
				err = fmt.Errorf("%s", rep.LastError())
			}
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
			arts = []domain.Artwork{}
		}
		result[name] = arts
		metrics.ProviderArtworks.WithLabelValues(name).Set(float64(len(arts)))
	}

	if errs != nil {
		r.logger.Warn("Some providers failed to load",
			zap.Int("failed", len(multierr.Errors(errs))),
			zap.Error(errs))
	}
	return result
}

func safeLoad(ctx context.Context, p domain.ArtworkProvider) (arts []domain.Artwork, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic while loading: %v", rec)
		}
	}()
	return p.LoadArtworks(ctx), nil
}
