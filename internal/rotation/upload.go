package rotation

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/genricoloni/framed/internal/domain"
	"github.com/genricoloni/framed/internal/metrics"
	"go.uber.org/zap"
)

// uploadCache maps provider artwork to its uploaded, displayable copy
type uploadCache struct {
	mu    sync.Mutex
	items map[string]domain.Artwork
}

func newUploadCache() *uploadCache {
	return &uploadCache{items: make(map[string]domain.Artwork)}
}

func cacheKey(art domain.Artwork) string {
	return art.Source + "\x00" + art.ID
}

func (c *uploadCache) get(art domain.Artwork) (domain.Artwork, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	up, ok := c.items[cacheKey(art)]
	return up, ok
}

func (c *uploadCache) put(art, uploaded domain.Artwork) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[cacheKey(art)] = uploaded
}

// loadPool builds the artwork pool: the display's native catalog followed by
// every provider's artwork, uploaded so it can be selected. Failures of
// individual items are logged and skipped.
func (d *Driver) loadPool(ctx context.Context, category domain.Category) []domain.Artwork {
	pool := d.nativeCatalog(ctx, category)

	if d.catalog == nil {
		return pool
	}

	byProvider := d.catalog.LoadAllArtworks(ctx)
	names := make([]string, 0, len(byProvider))
	for name := range byProvider {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		arts := byProvider[name]
		if len(arts) == 0 {
			continue
		}
		d.logger.Info("Loaded provider artwork", zap.String("provider", name), zap.Int("count", len(arts)))

		for _, art := range arts {
			if ctx.Err() != nil {
				return pool
			}
			up, err := d.ensureUploaded(ctx, art)
			if err != nil {
				d.logger.Warn("Skipping artwork",
					zap.String("id", art.ID), zap.String("provider", name), zap.Error(err))
				continue
			}
			pool = append(pool, up)
		}
	}

	d.logger.Info("Total available artwork", zap.Int("count", len(pool)))
	return pool
}

// nativeCatalog reads the display's own artwork, retrying once when the
// catalog is not ready yet
func (d *Driver) nativeCatalog(ctx context.Context, category domain.Category) []domain.Artwork {
	arts, err := d.surface.NativeCatalog(ctx, category)
	if err == nil && len(arts) == 0 {
		d.logger.Debug("Native catalog empty, retrying", zap.Duration("after", d.retryDelay))
		if d.retryDelay > 0 {
			select {
			case <-d.clock.After(d.retryDelay):
			case <-ctx.Done():
				return nil
			}
		}
		arts, err = d.surface.NativeCatalog(ctx, category)
	}
	if err != nil {
		metrics.DisplayErrors.WithLabelValues("catalog").Inc()
		d.logger.Warn("Failed to load native artwork", zap.Error(err))
		return nil
	}

	d.logger.Info("Loaded native artwork", zap.Int("count", len(arts)), zap.Stringer("category", category))
	return arts
}

// ensureUploaded returns a displayable copy of art, downloading it from its
// provider and uploading it to the display the first time. Concurrent calls
// for the same artwork share a single upload.
func (d *Driver) ensureUploaded(ctx context.Context, art domain.Artwork) (domain.Artwork, error) {
	if art.Displayable() {
		return art, nil
	}
	if up, ok := d.uploads.get(art); ok {
		return up, nil
	}

	v, err, shared := d.inflight.Do(cacheKey(art), func() (any, error) {
		if up, ok := d.uploads.get(art); ok {
			return up, nil
		}
		return d.upload(ctx, art)
	})
	if shared {
		d.logger.Debug("Joined in-flight upload", zap.String("id", art.ID))
	}
	if err != nil {
		return art, err
	}
	return v.(domain.Artwork), nil
}

// upload reuses an upload the display already holds or performs a new one
func (d *Driver) upload(ctx context.Context, art domain.Artwork) (domain.Artwork, error) {
	registry, hasRegistry := d.surface.(domain.UploadRegistry)
	if hasRegistry {
		if contentID, ok := registry.FindUpload(ctx, art.Source, art.ID); ok {
			up := uploadedCopy(art, contentID)
			d.uploads.put(art, up)
			metrics.Uploads.WithLabelValues("reused").Inc()
			d.logger.Debug("Reusing stored upload",
				zap.String("id", art.ID), zap.String("contentId", contentID))
			return up, nil
		}
	}

	if d.catalog == nil {
		return art, fmt.Errorf("no provider for %q", art.Source)
	}

	provider, ok := d.catalog.ProviderByName(art.Source)
	if !ok {
		return art, fmt.Errorf("no provider for %q", art.Source)
	}

	data, err := provider.ArtworkData(ctx, art.ID)
	if err != nil {
		metrics.Uploads.WithLabelValues("download_failed").Inc()
		return art, fmt.Errorf("failed to download: %w", err)
	}

	prepared, fileType, err := d.processor.Prepare(ctx, data)
	if err != nil {
		metrics.Uploads.WithLabelValues("prepare_failed").Inc()
		return art, fmt.Errorf("failed to prepare image: %w", err)
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return art, err
	}

	uctx, cancel := context.WithTimeout(ctx, d.uploadTimeout)
	defer cancel()

	contentID, err := d.surface.Upload(uctx, prepared, fileType, d.matte)
	if err != nil {
		metrics.Uploads.WithLabelValues("upload_failed").Inc()
		metrics.DisplayErrors.WithLabelValues("upload").Inc()
		return art, fmt.Errorf("failed to upload: %w", err)
	}

	if hasRegistry {
		origin := domain.UploadOrigin{Source: art.Source, OriginalID: art.ID, Title: art.Title}
		if err := registry.RecordUpload(ctx, contentID, origin); err != nil {
			d.logger.Warn("Failed to record upload origin", zap.String("contentId", contentID), zap.Error(err))
		}
	}

	up := uploadedCopy(art, contentID)
	d.uploads.put(art, up)

	metrics.Uploads.WithLabelValues("success").Inc()
	d.logger.Info("Uploaded artwork",
		zap.String("id", art.ID),
		zap.String("contentId", contentID),
		zap.String("source", art.Source),
		zap.Int("bytes", len(prepared)))
	return up, nil
}

func uploadedCopy(art domain.Artwork, contentID string) domain.Artwork {
	up := art
	up.ID = contentID
	up.ContentID = contentID
	up.OriginalID = art.ID
	return up
}
