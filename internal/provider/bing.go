package provider

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"net/url"
	"strconv"
	"time"

	"github.com/genricoloni/framed/internal/config"
	"github.com/genricoloni/framed/internal/domain"
	"github.com/goccy/go-json"
)

const (
	// BingName is the display name of the Bing wallpaper provider
	BingName = "Bing Wallpaper"

	defaultBingAPIURL = "https://www.bing.com/HPImageArchive.aspx"
	bingImageBase     = "https://www.bing.com"
	maxBingDays       = 8
)

// Bing lists the recent Bing daily wallpapers in UHD resolution
type Bing struct {
	fetcher domain.Fetcher
	apiURL  string
	region  string
	days    int
}

type bingArchive struct {
	Images []bingImage `json:"images"`
}

type bingImage struct {
	StartDate string `json:"startdate"`
	URLBase   string `json:"urlbase"`
	Title     string `json:"title"`
	Copyright string `json:"copyright"`
}

// NewBing creates the Bing source
func NewBing(fetcher domain.Fetcher, cfg config.BingConfig) *Bing {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultBingAPIURL
	}
	region := cfg.Region
	if region == "" {
		region = "en-US"
	}
	return &Bing{
		fetcher: fetcher,
		apiURL:  apiURL,
		region:  region,
		days:    min(max(cfg.HistoryDays, 1), maxBingDays),
	}
}

func (b *Bing) Name() string { return BingName }
func (b *Bing) Key() string  { return "bing_wallpaper" }

// Fetch queries the image archive for the last configured days
func (b *Bing) Fetch(ctx context.Context) ([]domain.Artwork, error) {
	q := url.Values{}
	q.Set("format", "js")
	q.Set("idx", "0")
	q.Set("n", strconv.Itoa(b.days))
	q.Set("mkt", b.region)

	body, err := b.fetcher.FetchJSON(ctx, b.apiURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to query bing archive: %w", err)
	}

	var archive bingArchive
	if err := json.Unmarshal(body, &archive); err != nil {
		return nil, fmt.Errorf("failed to decode bing archive: %w", err)
	}
	if len(archive.Images) == 0 {
		return nil, errors.New("bing archive returned no images")
	}

	arts := make([]domain.Artwork, 0, len(archive.Images))
	for _, img := range archive.Images {
		if img.URLBase == "" {
			continue
		}
		arts = append(arts, img.artwork())
	}
	return arts, nil
}

// Read downloads the UHD image
func (b *Bing) Read(ctx context.Context, art domain.Artwork) ([]byte, error) {
	if art.URL == "" {
		return nil, fmt.Errorf("artwork %s has no url", art.ID)
	}
	return b.fetcher.Fetch(ctx, art.URL)
}

func (img bingImage) artwork() domain.Artwork {
	date := "unknown"
	if img.StartDate != "" {
		date = img.StartDate
		if t, err := time.Parse("20060102", img.StartDate); err == nil {
			date = t.Format(time.DateOnly)
		}
	}

	title := img.Title
	if title == "" {
		title = BingName
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(img.URLBase))

	return domain.Artwork{
		ID:        fmt.Sprintf("bing_%s_%08x", img.StartDate, h.Sum32()),
		Source:    BingName,
		Title:     fmt.Sprintf("%s (%s)", title, date),
		URL:       bingImageBase + img.URLBase + "_UHD.jpg",
		Date:      date,
		Copyright: img.Copyright,
	}
}
