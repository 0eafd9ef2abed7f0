package provider

import (
	"context"
	"testing"

	"github.com/genricoloni/framed/internal/config"
	"github.com/genricoloni/framed/internal/domain"
	"github.com/genricoloni/framed/internal/domain/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func mockProvider(ctrl *gomock.Controller, name string, enabled bool) *mocks.MockArtworkProvider {
	p := mocks.NewMockArtworkProvider(ctrl)
	p.EXPECT().Name().Return(name).AnyTimes()
	p.EXPECT().IsEnabled().Return(enabled).AnyTimes()
	return p
}

func TestRegistry_LoadAllArtworksIsolatesFailures(t *testing.T) {
	ctrl := gomock.NewController(t)

	good := mockProvider(ctrl, "Good", true)
	good.EXPECT().LoadArtworks(gomock.Any()).Return([]domain.Artwork{{ID: "a", Source: "Good"}})

	panicky := mockProvider(ctrl, "Panicky", true)
	panicky.EXPECT().LoadArtworks(gomock.Any()).DoAndReturn(func(context.Context) []domain.Artwork {
		panic("provider exploded")
	})

	off := mockProvider(ctrl, "Off", false)

	r := NewRegistry(zap.NewNop())
	r.Register("good", good)
	r.Register("panicky", panicky)
	r.Register("off", off)

	result := r.LoadAllArtworks(context.Background())

	require.Len(t, result, 2)
	assert.Len(t, result["Good"], 1)
	assert.NotNil(t, result["Panicky"])
	assert.Empty(t, result["Panicky"])
	_, ok := result["Off"]
	assert.False(t, ok, "disabled providers are not loaded")
}

func TestRegistry_Lookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := mockProvider(ctrl, "Alpha", true)
	b := mockProvider(ctrl, "Beta", false)
	replacement := mockProvider(ctrl, "Alpha v2", true)

	r := NewRegistry(zap.NewNop())
	r.Register("alpha", a)
	r.Register("beta", b)

	got, ok := r.Provider("beta")
	require.True(t, ok)
	assert.Same(t, b, got)

	got, ok = r.ProviderByName("Alpha")
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = r.ProviderByName("Gamma")
	assert.False(t, ok)

	assert.Len(t, r.Providers(), 2)
	assert.Len(t, r.EnabledProviders(), 1)

	r.Register("alpha", replacement)
	got, _ = r.Provider("alpha")
	assert.Same(t, replacement, got)
	assert.Len(t, r.Providers(), 2)
}

func TestRegistry_FromConfigWithBrokenMediaFolder(t *testing.T) {
	cfg := &config.AppConfig{}
	cfg.Providers.MediaFolder = config.MediaFolderConfig{
		Enabled:  true,
		Path:     "/definitely/not/here",
		Patterns: "*.jpg",
	}

	r := NewRegistryFromConfig(zap.NewNop(), cfg, nil)
	require.Len(t, r.Providers(), 3)
	require.Len(t, r.EnabledProviders(), 1)

	assert.Equal(t, 0, r.InitializeAll(context.Background()))

	result := r.LoadAllArtworks(context.Background())
	assert.Empty(t, result[MediaFolderName])

	p, ok := r.Provider("media_folder")
	require.True(t, ok)
	assert.Contains(t, p.(*Provider).LastError(), "media folder unavailable")
}
