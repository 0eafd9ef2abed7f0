package provider

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/genricoloni/framed/internal/config"
	"github.com/genricoloni/framed/internal/domain/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const bingResponse = `{
  "images": [
    {"startdate": "20240115", "urlbase": "/th?id=OHR.Alps_EN-US123", "title": "Winter Alps", "copyright": "Someone"},
    {"startdate": "20240114", "urlbase": "/th?id=OHR.Sea_EN-US456", "title": ""},
    {"startdate": "20240113", "urlbase": ""}
  ]
}`

func TestBing_Fetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)

	f.EXPECT().
		FetchJSON(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, url string) ([]byte, error) {
			assert.True(t, strings.HasPrefix(url, "https://www.bing.com/HPImageArchive.aspx?"))
			assert.Contains(t, url, "n=8")
			assert.Contains(t, url, "mkt=de-DE")
			assert.Contains(t, url, "format=js")
			return []byte(bingResponse), nil
		})

	b := NewBing(f, config.BingConfig{Region: "de-DE", HistoryDays: 30})
	arts, err := b.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, arts, 2)

	first := arts[0]
	assert.True(t, strings.HasPrefix(first.ID, "bing_20240115_"))
	assert.Equal(t, "Winter Alps (2024-01-15)", first.Title)
	assert.Equal(t, "https://www.bing.com/th?id=OHR.Alps_EN-US123_UHD.jpg", first.URL)
	assert.Equal(t, "2024-01-15", first.Date)
	assert.Equal(t, BingName, first.Source)
	assert.Equal(t, "Someone", first.Copyright)

	assert.Equal(t, "Bing Wallpaper (2024-01-14)", arts[1].Title)
	assert.NotEqual(t, arts[0].ID, arts[1].ID)
}

func TestBing_FetchErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
	}{
		{name: "network", err: errors.New("dial tcp: refused")},
		{name: "malformed", body: `{"images": [`},
		{name: "empty", body: `{"images": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			f := mocks.NewMockFetcher(ctrl)
			f.EXPECT().FetchJSON(gomock.Any(), gomock.Any()).Return([]byte(tt.body), tt.err)

			_, err := NewBing(f, config.BingConfig{}).Fetch(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestBing_ReadDownloadsURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)
	f.EXPECT().FetchJSON(gomock.Any(), gomock.Any()).Return([]byte(bingResponse), nil)
	f.EXPECT().Fetch(gomock.Any(), "https://www.bing.com/th?id=OHR.Alps_EN-US123_UHD.jpg").Return([]byte("img"), nil)

	b := NewBing(f, config.BingConfig{})
	arts, err := b.Fetch(context.Background())
	require.NoError(t, err)

	data, err := b.Read(context.Background(), arts[0])
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), data)
}

func TestGoogleArts_Fetch(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "bare list",
			body: `[{"id": "abc", "title": "Starry Night", "asset_id": "AF1Qxyz"}, {"title": "no asset"}]`,
			want: []string{"google_arts_abc"},
		},
		{
			name: "wrapped items",
			body: `{"items": [{"id": 42, "name": "Water Lilies"}]}`,
			want: []string{"google_arts_42"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			f := mocks.NewMockFetcher(ctrl)
			f.EXPECT().FetchJSON(gomock.Any(), defaultGoogleArtsFeed).Return([]byte(tt.body), nil)

			arts, err := NewGoogleArts(f, config.GoogleArtsConfig{}).Fetch(context.Background())
			require.NoError(t, err)

			var ids []string
			for _, a := range arts {
				ids = append(ids, a.ID)
				assert.Equal(t, GoogleArtsName, a.Source)
				assert.True(t, strings.HasSuffix(a.URL, "=s2048"))
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestGoogleArts_AssetURLAndTitle(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)
	f.EXPECT().FetchJSON(gomock.Any(), gomock.Any()).
		Return([]byte(`[{"id": "abc", "title": "Starry Night", "asset_id": "AF1Qxyz"}, {"id": "def"}]`), nil)

	arts, err := NewGoogleArts(f, config.GoogleArtsConfig{}).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, arts, 2)

	assert.Equal(t, "https://lh3.googleusercontent.com/AF1Qxyz=s2048", arts[0].URL)
	assert.Equal(t, "Starry Night", arts[0].Title)
	assert.Equal(t, "https://lh3.googleusercontent.com/def=s2048", arts[1].URL)
	assert.Equal(t, "Untitled", arts[1].Title)
}

func TestGoogleArts_FeedError(t *testing.T) {
	ctrl := gomock.NewController(t)
	f := mocks.NewMockFetcher(ctrl)
	f.EXPECT().FetchJSON(gomock.Any(), gomock.Any()).Return([]byte(`"nope"`), nil)

	_, err := NewGoogleArts(f, config.GoogleArtsConfig{}).Fetch(context.Background())
	assert.ErrorContains(t, err, "failed to decode google arts feed")
}
