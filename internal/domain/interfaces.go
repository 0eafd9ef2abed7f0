package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/genricoloni/framed/internal/domain ArtworkProvider,DisplaySurface,AutoRotator,UploadRegistry,ImageProcessor,Fetcher

// ArtworkProvider is a source of artwork (local folder, daily wallpaper feeds, ...)
type ArtworkProvider interface {
	// Name returns the human readable provider name, used as Artwork.Source
	Name() string

	// IsEnabled reports whether the provider is turned on in configuration
	IsEnabled() bool

	// LoadArtworks refreshes and returns the provider catalog.
	// It never fails: errors are logged, recorded as the last error and an
	// empty slice is returned while the previous catalog is retained.
	LoadArtworks(ctx context.Context) []Artwork

	// ArtworkData returns the raw image bytes for a previously listed artwork id
	ArtworkData(ctx context.Context, id string) ([]byte, error)
}

// DisplaySurface is the TV (or anything acting like one) that shows artwork
type DisplaySurface interface {
	// Select shows the artwork with the given TV content id
	Select(ctx context.Context, contentID string, category Category, show bool) error

	// Upload stores raw image bytes on the display and returns the new content id
	Upload(ctx context.Context, data []byte, fileType string, matte string) (string, error)

	// NativeCatalog lists artwork already stored on the display.
	// An empty result may only mean the display has not answered yet.
	NativeCatalog(ctx context.Context, category Category) ([]Artwork, error)
}

// AutoRotator is implemented by displays with a built-in slideshow
type AutoRotator interface {
	// SetAutoRotation enables the native slideshow; an interval of 0 disables it
	SetAutoRotation(ctx context.Context, interval time.Duration, shuffle bool, category Category) error
}

// UploadRegistry is implemented by displays that remember where their
// uploads came from, so artwork survives restarts without being uploaded again
type UploadRegistry interface {
	// RecordUpload stores the origin of an uploaded content id
	RecordUpload(ctx context.Context, contentID string, origin UploadOrigin) error

	// FindUpload returns the content id of an earlier upload of the given
	// provider artwork
	FindUpload(ctx context.Context, source, originalID string) (string, bool)
}

// ImageProcessor prepares raw artwork bytes for upload to the display
type ImageProcessor interface {
	// Prepare transforms image data to fit the display.
	// Returns the processed bytes and the upload file type ("JPEG" or "PNG").
	Prepare(ctx context.Context, data []byte) ([]byte, string, error)
}

// Fetcher retrieves remote resources
type Fetcher interface {
	// Fetch downloads image data from a URL
	Fetch(ctx context.Context, url string) ([]byte, error)

	// FetchJSON downloads a JSON document from a URL
	FetchJSON(ctx context.Context, url string) ([]byte, error)
}
