package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ikkim/foodgram-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeDataURI(t *testing.T) {
	raw := pngBytes(t)
	encoded := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name    string
		uri     string
		wantExt string
		wantErr error
	}{
		{name: "png", uri: "data:image/png;base64," + encoded, wantExt: "png"},
		{name: "surrounding whitespace", uri: "  data:image/png;base64," + encoded + "\n", wantExt: "png"},
		{name: "declared type mismatch", uri: "data:image/jpeg;base64," + encoded, wantErr: ErrInvalidImage},
		{name: "not an image type", uri: "data:text/plain;base64," + encoded, wantErr: ErrInvalidImage},
		{name: "missing base64 marker", uri: "data:image/png," + encoded, wantErr: ErrInvalidImage},
		{name: "plain base64", uri: encoded, wantErr: ErrInvalidImage},
		{name: "broken payload", uri: "data:image/png;base64,@@@", wantErr: ErrInvalidImage},
		{name: "empty payload", uri: "data:image/png;base64,", wantErr: ErrInvalidImage},
		{name: "empty", uri: "", wantErr: ErrInvalidImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeDataURI(tt.uri)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, img)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, img.Ext)
			assert.Equal(t, raw, img.Data)
		})
	}
}

func TestDecodeDataURI_TooLarge(t *testing.T) {
	payload := strings.Repeat("A", base64.StdEncoding.EncodedLen(MaxImageBytes+1024))
	_, err := DecodeDataURI("data:image/png;base64," + payload)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewLocalStorage(root, "http://testserver/media/")

	key, err := store.Save(ctx, RecipeImageFolder, "png", []byte("image"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "recipes/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, []byte("image"), data)

	other, err := store.Save(ctx, RecipeImageFolder, "png", []byte("image"))
	require.NoError(t, err)
	assert.NotEqual(t, key, other, "keys are assigned by the server")

	assert.Equal(t, "http://testserver/media/"+key, store.URL(key))
	assert.Empty(t, store.URL(""))

	objects, err := store.List(ctx, RecipeImageFolder)
	require.NoError(t, err)
	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		keys = append(keys, obj.Key)
		assert.False(t, obj.ModifiedAt.IsZero())
	}
	assert.ElementsMatch(t, []string{key, other}, keys)

	require.NoError(t, store.Delete(ctx, key))
	require.NoError(t, store.Delete(ctx, key), "deleting twice is fine")

	objects, err = store.List(ctx, RecipeImageFolder)
	require.NoError(t, err)
	assert.Len(t, objects, 1)

	empty, err := store.List(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNew(t *testing.T) {
	cfg := &config.StorageConfig{Driver: "local", MediaRoot: t.TempDir(), MediaURL: "/media"}

	store, err := New(context.Background(), cfg, "http://example.com")
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, store)
	assert.Equal(t, "http://example.com/media/recipes/a.png", store.URL("recipes/a.png"))

	cfg.Driver = "ftp"
	_, err = New(context.Background(), cfg, "")
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
