package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const (
	envPrefix         = "FRAMED_"
	configPathEnvVar  = "FRAMED_CONFIG"
	defaultConfigFile = "framed.yaml"
)

// AppConfig holds application configuration
type AppConfig struct {
	Log        LogConfig        `koanf:"log"`
	HTTP       HTTPConfig       `koanf:"http"`
	Display    DisplayConfig    `koanf:"display"`
	Slideshow  SlideshowConfig  `koanf:"slideshow"`
	Processing ProcessingConfig `koanf:"processing"`
	Upload     UploadConfig     `koanf:"upload"`
	Providers  ProvidersConfig  `koanf:"providers"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level       string `koanf:"level" validate:"oneof=debug info warn error"`
	Development bool   `koanf:"development"`
}

// HTTPConfig configures the control API
type HTTPConfig struct {
	Listen string `koanf:"listen" validate:"required"`
}

// DisplayConfig configures the virtual frame display surface
type DisplayConfig struct {
	Directory string `koanf:"directory" validate:"required"`
}

// SlideshowConfig holds the rotation defaults
type SlideshowConfig struct {
	Interval    time.Duration `koanf:"interval" validate:"gte=0"`
	Shuffle     bool          `koanf:"shuffle"`
	AutoRandom  bool          `koanf:"auto_random"`
	Category    int           `koanf:"category" validate:"oneof=2 4 8"`
	AutoStart   bool          `koanf:"auto_start"`
	HistorySize int           `koanf:"history_size" validate:"gte=2"`
	RecentSize  int           `koanf:"recent_size" validate:"gte=1"`
}

// ProcessingConfig configures how external artwork is prepared for upload
type ProcessingConfig struct {
	Mode       string  `koanf:"mode" validate:"oneof=fill blur none"`
	Width      int     `koanf:"width" validate:"gt=0"`
	Height     int     `koanf:"height" validate:"gt=0"`
	Quality    int     `koanf:"quality" validate:"gte=1,lte=100"`
	BlurRadius float64 `koanf:"blur_radius" validate:"gte=0"`
}

// UploadConfig throttles uploads to the display
type UploadConfig struct {
	RatePerSecond float64       `koanf:"rate_per_second" validate:"gt=0"`
	Burst         int           `koanf:"burst" validate:"gte=1"`
	Timeout       time.Duration `koanf:"timeout" validate:"gt=0"`
	Matte         string        `koanf:"matte"`
}

// ProvidersConfig groups the artwork provider settings
type ProvidersConfig struct {
	MediaFolder MediaFolderConfig `koanf:"media_folder"`
	GoogleArts  GoogleArtsConfig  `koanf:"google_arts"`
	Bing        BingConfig        `koanf:"bing_wallpaper"`
}

// MediaFolderConfig configures the local folder provider
type MediaFolderConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Path      string `koanf:"path" validate:"required_if=Enabled true"`
	Patterns  string `koanf:"patterns"`
	Recursive bool   `koanf:"recursive"`
}

// GoogleArtsConfig configures the Google Arts & Culture provider
type GoogleArtsConfig struct {
	Enabled bool   `koanf:"enabled"`
	FeedURL string `koanf:"feed_url" validate:"omitempty,url"`
}

// BingConfig configures the Bing daily wallpaper provider
type BingConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Region      string `koanf:"region"`
	HistoryDays int    `koanf:"history_days"`
	APIURL      string `koanf:"api_url" validate:"omitempty,url"`
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Log:     LogConfig{Level: "info"},
		HTTP:    HTTPConfig{Listen: "127.0.0.1:8765"},
		Display: DisplayConfig{Directory: "/tmp/framed"},
		Slideshow: SlideshowConfig{
			Interval:    10 * time.Minute,
			Shuffle:     true,
			AutoRandom:  true,
			Category:    2,
			HistorySize: 50,
			RecentSize:  20,
		},
		Processing: ProcessingConfig{
			Mode:       "fill",
			Width:      3840,
			Height:     2160,
			Quality:    90,
			BlurRadius: 15.0,
		},
		Upload: UploadConfig{
			RatePerSecond: 0.5,
			Burst:         1,
			Timeout:       30 * time.Second,
		},
		Providers: ProvidersConfig{
			MediaFolder: MediaFolderConfig{
				Patterns:  "*.jpg,*.jpeg,*.png",
				Recursive: true,
			},
			Bing: BingConfig{
				Region:      "en-US",
				HistoryDays: 7,
			},
		},
	}
}

// NewAppConfig loads configuration from defaults, the optional YAML file and
// FRAMED_* environment variables, in increasing priority
func NewAppConfig(logger *zap.Logger) (*AppConfig, error) {
	path := os.Getenv(configPathEnvVar)
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	logger.Info("Configuration loaded",
		zap.String("file", path),
		zap.String("displayDir", cfg.Display.Directory),
		zap.Duration("interval", cfg.Slideshow.Interval),
		zap.String("mode", cfg.Processing.Mode),
		zap.Bool("mediaFolder", cfg.Providers.MediaFolder.Enabled),
		zap.Bool("googleArts", cfg.Providers.GoogleArts.Enabled),
		zap.Bool("bing", cfg.Providers.Bing.Enabled))

	return cfg, nil
}

// Load builds the configuration; path may be empty when no file is used
func Load(path string) (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// FRAMED_SLIDESHOW__INTERVAL -> slideshow.interval
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &AppConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.Display.Directory = expandPath(cfg.Display.Directory)
	cfg.Providers.MediaFolder.Path = expandPath(cfg.Providers.MediaFolder.Path)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
}

// expandPath resolves environment variables and a leading ~
func expandPath(p string) string {
	p = os.ExpandEnv(p)
	if len(p) > 0 && p[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}
