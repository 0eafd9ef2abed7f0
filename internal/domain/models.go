package domain

import (
	"fmt"
	"time"
)

// Category identifies an artwork collection on the display
type Category int

const (
	// CategoryMyPictures holds images uploaded by the user
	CategoryMyPictures Category = 2
	// CategoryFavorites holds artwork marked as favorite on the TV
	CategoryFavorites Category = 4
	// CategoryStoreArt holds artwork from the vendor art store
	CategoryStoreArt Category = 8
)

// String returns the category id understood by the TV (e.g. "MY-C0002")
func (c Category) String() string {
	return fmt.Sprintf("MY-C%04d", int(c))
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryMyPictures, CategoryFavorites, CategoryStoreArt:
		return true
	}
	return false
}

// Artwork describes one displayable image, whatever its source.
//
// TV-native artwork carries the TV content id in both ID and ContentID.
// Artwork coming from an external provider has an empty ContentID until it
// has been uploaded; the uploaded copy gets the new content id as ID and
// keeps the provider id in OriginalID.
type Artwork struct {
	// ID is unique within Source and is the dedup key everywhere
	ID string `json:"id"`
	// Source is the provider display name ("Media Folder", "Bing Wallpaper"), empty for TV-native
	Source string `json:"source,omitempty"`
	// Title is an optional display name
	Title string `json:"title,omitempty"`
	// ContentID is the TV-assigned content id; required before Select
	ContentID string `json:"content_id,omitempty"`
	// URL is the remote location for downloadable artwork
	URL string `json:"url,omitempty"`
	// LocalPath is the file path for artwork read from disk
	LocalPath string `json:"local_path,omitempty"`
	// OriginalID is the provider id of an uploaded external artwork
	OriginalID string `json:"original_id,omitempty"`
	// Date is the publication date when the provider reports one (YYYY-MM-DD)
	Date string `json:"date,omitempty"`
	// Copyright is the attribution text when the provider reports one
	Copyright string `json:"copyright,omitempty"`
}

// Displayable reports whether the artwork can be selected on the display as-is
func (a Artwork) Displayable() bool {
	return a.ContentID != ""
}

// UploadOrigin describes where an uploaded image came from
type UploadOrigin struct {
	// Source and OriginalID identify provider artwork; both empty for overlays
	Source     string `json:"source,omitempty"`
	OriginalID string `json:"original_id,omitempty"`
	Title      string `json:"title,omitempty"`
	// Overlay marks one-shot overlay frames, which never join the rotation
	Overlay bool `json:"overlay,omitempty"`
}

// HistoryEntry records when an artwork was handed out for display
type HistoryEntry struct {
	Artwork Artwork   `json:"artwork"`
	ShownAt time.Time `json:"shown_at"`
}

// ProviderState is the lifecycle state of an artwork provider
type ProviderState string

const (
	// ProviderDisabled means the provider is turned off in configuration
	ProviderDisabled ProviderState = "disabled"
	// ProviderLoading means the first catalog load is in progress
	ProviderLoading ProviderState = "loading"
	// ProviderEnabled means the provider is serving its catalog
	ProviderEnabled ProviderState = "enabled"
)
