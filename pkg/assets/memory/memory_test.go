package memory_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdevsint/coffee-lab-api/pkg/assets"
	"github.com/webdevsint/coffee-lab-api/pkg/assets/memory"
)

func TestSaveOpenRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()

	content := []byte("hello")
	require.NoError(t, backend.Save(ctx, "file.txt", bytes.NewReader(content)))

	rc, err := backend.Open(ctx, "file.txt")
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestOpenMissing(t *testing.T) {
	backend := memory.New()
	_, err := backend.Open(context.Background(), "missing.txt")
	assert.ErrorIs(t, err, assets.ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()

	require.NoError(t, backend.Save(ctx, "file.txt", bytes.NewReader([]byte("x"))))
	require.NoError(t, backend.Delete(ctx, "file.txt"))

	_, err := backend.Open(ctx, "file.txt")
	assert.ErrorIs(t, err, assets.ErrNotFound)

	assert.ErrorIs(t, backend.Delete(ctx, "file.txt"), assets.ErrNotFound)
}

func TestURLUnsupported(t *testing.T) {
	backend := memory.New()
	_, err := backend.URL(context.Background(), "file.txt")
	assert.ErrorIs(t, err, assets.ErrNoDirectURL)
}

func TestMetaSniffsContentType(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()

	pngHeader := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	require.NoError(t, backend.Save(ctx, "photo.png", bytes.NewReader(pngHeader)))

	meta, err := backend.Meta(ctx, "photo.png")
	require.NoError(t, err)
	assert.Equal(t, "photo.png", meta.Name)
	assert.Equal(t, int64(len(pngHeader)), meta.Size)
	assert.Equal(t, "image/png", meta.ContentType)

	_, err = backend.Meta(ctx, "missing.png")
	assert.ErrorIs(t, err, assets.ErrNotFound)
}
