package provider

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/genricoloni/framed/internal/config"
	"github.com/genricoloni/framed/internal/domain"
	"github.com/goccy/go-json"
)

const (
	// GoogleArtsName is the display name of the Google Arts & Culture provider
	GoogleArtsName = "Google Arts & Culture"

	defaultGoogleArtsFeed = "https://www.gstatic.com/culturalinstitute/searchar/jsonparsers_daily.json"
	googleImageURL        = "https://lh3.googleusercontent.com/%s=s2048"
)

// GoogleArts lists the daily artworks published by Google Arts & Culture
type GoogleArts struct {
	fetcher domain.Fetcher
	feedURL string
}

// NewGoogleArts creates the Google Arts source
func NewGoogleArts(fetcher domain.Fetcher, cfg config.GoogleArtsConfig) *GoogleArts {
	feed := cfg.FeedURL
	if feed == "" {
		feed = defaultGoogleArtsFeed
	}
	return &GoogleArts{fetcher: fetcher, feedURL: feed}
}

func (g *GoogleArts) Name() string { return GoogleArtsName }
func (g *GoogleArts) Key() string  { return "google_arts" }

// Fetch downloads and parses the daily feed.
// The feed is either a bare list of items or an object with an "items" list.
func (g *GoogleArts) Fetch(ctx context.Context) ([]domain.Artwork, error) {
	body, err := g.fetcher.FetchJSON(ctx, g.feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google arts feed: %w", err)
	}

	items, err := decodeFeed(body)
	if err != nil {
		return nil, err
	}

	arts := make([]domain.Artwork, 0, len(items))
	for _, item := range items {
		id := stringField(item, "id")
		asset := stringField(item, "asset_id")
		if asset == "" {
			asset = id
		}
		if asset == "" {
			continue
		}
		if id == "" {
			id = asset
		}

		title := stringField(item, "title")
		if title == "" {
			title = stringField(item, "name")
		}
		if title == "" {
			title = "Untitled"
		}

		arts = append(arts, domain.Artwork{
			ID:        "google_arts_" + id,
			Source:    GoogleArtsName,
			Title:     title,
			URL:       fmt.Sprintf(googleImageURL, asset),
			Copyright: stringField(item, "creator"),
		})
	}
	return arts, nil
}

// Read downloads the image
func (g *GoogleArts) Read(ctx context.Context, art domain.Artwork) ([]byte, error) {
	if art.URL == "" {
		return nil, fmt.Errorf("artwork %s has no url", art.ID)
	}
	return g.fetcher.Fetch(ctx, art.URL)
}

func decodeFeed(body []byte) ([]map[string]any, error) {
	var list []map[string]any
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode google arts feed: %w", err)
	}
	if wrapped.Items == nil {
		return nil, errors.New("google arts feed has no items")
	}
	return wrapped.Items, nil
}

func stringField(item map[string]any, key string) string {
	switch v := item[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
