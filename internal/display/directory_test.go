package display

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/genricoloni/framed/internal/config"
	"github.com/genricoloni/framed/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSurface(t *testing.T) (*DirectorySurface, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.AppConfig{Display: config.DisplayConfig{Directory: dir}}
	s, err := NewDirectorySurface(zap.NewNop(), cfg)
	require.NoError(t, err)
	return s, dir
}

func TestDirectorySurface_UploadAndSelect(t *testing.T) {
	s, dir := newSurface(t)
	ctx := context.Background()

	jpgID, err := s.Upload(ctx, []byte("jpeg"), "JPEG", "shadowbox_polar")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(jpgID, "MY_F-"))

	pngID, err := s.Upload(ctx, []byte("png"), "png", "none")
	require.NoError(t, err)
	assert.NotEqual(t, jpgID, pngID)

	require.NoError(t, s.Select(ctx, jpgID, domain.CategoryMyPictures, true))
	path, ok := s.CurrentPath()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "current.jpg"), path)

	require.NoError(t, s.Select(ctx, pngID, domain.CategoryMyPictures, true))
	path, ok = s.CurrentPath()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "current.png"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)

	cur, _ := s.Current()
	assert.Equal(t, pngID, cur)
}

func TestDirectorySurface_SelectWithoutShow(t *testing.T) {
	s, _ := newSurface(t)
	ctx := context.Background()

	id, err := s.Upload(ctx, []byte("jpeg"), "JPEG", "")
	require.NoError(t, err)

	require.NoError(t, s.Select(ctx, id, domain.CategoryMyPictures, false))
	_, ok := s.CurrentPath()
	assert.False(t, ok)
	cur, _ := s.Current()
	assert.Equal(t, id, cur)
}

func TestDirectorySurface_Errors(t *testing.T) {
	s, _ := newSurface(t)
	ctx := context.Background()

	_, err := s.Upload(ctx, []byte("gif"), "GIF", "")
	assert.ErrorContains(t, err, "unsupported file type")

	_, err = s.Upload(ctx, nil, "JPEG", "")
	assert.Error(t, err)

	assert.ErrorIs(t, s.Select(ctx, "MY_F-missing", domain.CategoryMyPictures, true), ErrUnknownContent)
	assert.ErrorIs(t, s.Select(ctx, "../etc/passwd", domain.CategoryMyPictures, true), ErrUnknownContent)
}

func TestDirectorySurface_NativeCatalog(t *testing.T) {
	s, _ := newSurface(t)
	ctx := context.Background()

	a, _ := s.Upload(ctx, []byte("a"), "JPEG", "")
	b, _ := s.Upload(ctx, []byte("b"), "PNG", "")

	arts, err := s.NativeCatalog(ctx, domain.CategoryMyPictures)
	require.NoError(t, err)
	require.Len(t, arts, 2)

	var ids []string
	for _, art := range arts {
		assert.True(t, art.Displayable())
		ids = append(ids, art.ID)
	}
	assert.ElementsMatch(t, []string{a, b}, ids)

	fav, err := s.NativeCatalog(ctx, domain.CategoryFavorites)
	require.NoError(t, err)
	assert.Empty(t, fav)
}

func TestDirectorySurface_AutoRotation(t *testing.T) {
	s, _ := newSurface(t)

	require.NoError(t, s.SetAutoRotation(context.Background(), 5*time.Minute, true, domain.CategoryMyPictures))
	assert.Equal(t, 5*time.Minute, s.AutoRotation())

	require.NoError(t, s.SetAutoRotation(context.Background(), 0, true, domain.CategoryMyPictures))
	assert.Zero(t, s.AutoRotation())
}

func TestDirectorySurface_UploadOriginsSurviveRestart(t *testing.T) {
	s, dir := newSurface(t)
	ctx := context.Background()

	artID, err := s.Upload(ctx, []byte("jpeg"), "JPEG", "")
	require.NoError(t, err)
	overlayID, err := s.Upload(ctx, []byte("png"), "PNG", "none")
	require.NoError(t, err)
	plainID, err := s.Upload(ctx, []byte("jpeg2"), "JPEG", "")
	require.NoError(t, err)

	require.NoError(t, s.RecordUpload(ctx, artID, domain.UploadOrigin{Source: "Bing Wallpaper", OriginalID: "bing_1", Title: "Lake"}))
	require.NoError(t, s.RecordUpload(ctx, overlayID, domain.UploadOrigin{Overlay: true}))
	assert.ErrorIs(t, s.RecordUpload(ctx, "MY_F-missing", domain.UploadOrigin{Overlay: true}), ErrUnknownContent)

	reopened, err := NewDirectorySurface(zap.NewNop(), &config.AppConfig{Display: config.DisplayConfig{Directory: dir}})
	require.NoError(t, err)

	id, ok := reopened.FindUpload(ctx, "Bing Wallpaper", "bing_1")
	require.True(t, ok)
	assert.Equal(t, artID, id)

	_, ok = reopened.FindUpload(ctx, "Google Arts & Culture", "bing_1")
	assert.False(t, ok, "origin is matched on source and id")
	_, ok = reopened.FindUpload(ctx, "", "")
	assert.False(t, ok)

	arts, err := reopened.NativeCatalog(ctx, domain.CategoryMyPictures)
	require.NoError(t, err)
	require.Len(t, arts, 2, "overlays are not part of the catalog")

	byID := map[string]domain.Artwork{}
	for _, a := range arts {
		byID[a.ID] = a
	}
	assert.Equal(t, domain.Artwork{ID: artID, ContentID: artID, Source: "Bing Wallpaper", OriginalID: "bing_1", Title: "Lake"}, byID[artID])
	assert.Equal(t, domain.Artwork{ID: plainID, ContentID: plainID, Title: plainID}, byID[plainID])
}

func TestDirectorySurface_FindUploadIgnoresDeletedFiles(t *testing.T) {
	s, dir := newSurface(t)
	ctx := context.Background()

	id, err := s.Upload(ctx, []byte("jpeg"), "JPEG", "")
	require.NoError(t, err)
	require.NoError(t, s.RecordUpload(ctx, id, domain.UploadOrigin{Source: "Media Folder", OriginalID: "/pics/a.jpg"}))
	require.NoError(t, os.Remove(filepath.Join(dir, "uploads", id+".jpg")))

	_, ok := s.FindUpload(ctx, "Media Folder", "/pics/a.jpg")
	assert.False(t, ok)
}

func TestDirectorySurface_CorruptUploadIndexStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "uploads"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uploads", "origins.json"), []byte("{not json"), 0o644))

	s, err := NewDirectorySurface(zap.NewNop(), &config.AppConfig{Display: config.DisplayConfig{Directory: dir}})
	require.NoError(t, err)

	_, ok := s.FindUpload(context.Background(), "Media Folder", "/pics/a.jpg")
	assert.False(t, ok)
}
