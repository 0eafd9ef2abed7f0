package rotation

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/genricoloni/framed/internal/clock"
	"github.com/genricoloni/framed/internal/config"
	"github.com/genricoloni/framed/internal/display"
	"github.com/genricoloni/framed/internal/processor"
	"github.com/genricoloni/framed/internal/provider"
	"github.com/genricoloni/framed/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

// bootDriver wires a driver over the real virtual frame, media folder
// provider and pass-through processor
func bootDriver(t *testing.T, displayDir, mediaDir string) *Driver {
	t.Helper()

	cfg := &config.AppConfig{
		Display:    config.DisplayConfig{Directory: displayDir},
		Processing: config.ProcessingConfig{Mode: processor.ModeNone, Width: 3840, Height: 2160, Quality: 90},
	}
	surface, err := display.NewDirectorySurface(zap.NewNop(), cfg)
	require.NoError(t, err)

	registry := provider.NewRegistry(zap.NewNop())
	folder := provider.NewMediaFolder(config.MediaFolderConfig{Enabled: true, Path: mediaDir, Patterns: "*.png"})
	registry.Register("media_folder", provider.New(zap.NewNop(), folder, true))

	clk := clock.NewManual(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	d := New(Params{
		Logger:    zap.NewNop(),
		Queue:     queue.NewManager(zap.NewNop(), queue.Options{AutoRandom: true, Clock: clk}),
		Surface:   surface,
		Catalog:   registry,
		Processor: processor.NewFrameProcessor(zap.NewNop(), cfg),
		Clock:     clk,
	})
	require.NoError(t, d.Start(context.Background()))
	return d
}

func storedUploads(t *testing.T, displayDir string) int {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(displayDir, "uploads"))
	require.NoError(t, err)
	n := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "MY_F-") {
			n++
		}
	}
	return n
}

func TestDriver_RestartKeepsPoolStable(t *testing.T) {
	displayDir := t.TempDir()
	mediaDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(mediaDir, "lake.png"), encodePNG(t), 0o644))

	ctx := context.Background()
	for run := 1; run <= 3; run++ {
		d := bootDriver(t, displayDir, mediaDir)
		require.NoError(t, d.StartRotation(ctx, startOpts()), "run %d", run)

		if run == 1 {
			overlay, err := d.ShowOverlay(ctx, encodePNG(t))
			require.NoError(t, err)
			assert.Equal(t, overlaySource, overlay.Source)
		}

		st, err := d.Status(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, st.PoolSize, "run %d: overlays and earlier copies stay out of the pool", run)
		assert.Equal(t, 2, storedUploads(t, displayDir), "run %d: artwork is uploaded only once", run)

		var pool []string
		require.NoError(t, d.call(ctx, func() {
			for _, a := range d.queue.Pool() {
				pool = append(pool, a.OriginalID)
			}
		}))
		assert.Equal(t, []string{filepath.Join(mediaDir, "lake.png")}, pool, "run %d", run)

		require.NoError(t, d.Stop(ctx))
	}
}
