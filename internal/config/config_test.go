package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, cfg.Slideshow.Interval)
	assert.True(t, cfg.Slideshow.Shuffle)
	assert.True(t, cfg.Slideshow.AutoRandom)
	assert.Equal(t, 2, cfg.Slideshow.Category)
	assert.Equal(t, 50, cfg.Slideshow.HistorySize)
	assert.Equal(t, 20, cfg.Slideshow.RecentSize)
	assert.Equal(t, "fill", cfg.Processing.Mode)
	assert.Equal(t, "*.jpg,*.jpeg,*.png", cfg.Providers.MediaFolder.Patterns)
	assert.False(t, cfg.Providers.Bing.Enabled)
}

func TestLoad_FileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "framed.yaml")
	yml := `
slideshow:
  interval: 5m
  shuffle: false
providers:
  bing_wallpaper:
    enabled: true
    region: de-DE
  media_folder:
    enabled: true
    path: /srv/art
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	t.Setenv("FRAMED_SLIDESHOW__INTERVAL", "90s")
	t.Setenv("FRAMED_PROCESSING__MODE", "blur")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.Slideshow.Interval, "env must override file")
	assert.False(t, cfg.Slideshow.Shuffle, "file must override defaults")
	assert.Equal(t, "blur", cfg.Processing.Mode)
	assert.True(t, cfg.Providers.Bing.Enabled)
	assert.Equal(t, "de-DE", cfg.Providers.Bing.Region)
	assert.Equal(t, 7, cfg.Providers.Bing.HistoryDays)
	assert.Equal(t, "/srv/art", cfg.Providers.MediaFolder.Path)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown processing mode", env: map[string]string{"FRAMED_PROCESSING__MODE": "sepia"}},
		{name: "unknown category", env: map[string]string{"FRAMED_SLIDESHOW__CATEGORY": "3"}},
		{name: "media folder without path", env: map[string]string{"FRAMED_PROVIDERS__MEDIA_FOLDER__ENABLED": "true"}},
		{name: "zero upload rate", env: map[string]string{"FRAMED_UPLOAD__RATE_PER_SECOND": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to load config file")
}

func TestNewAppConfig_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("FRAMED_DISPLAY__DIRECTORY", "~/frame")

	cfg, err := NewAppConfig(zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "frame"), cfg.Display.Directory)
}
