package service_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/devsamp/devsamp-bfa-go/internal/domain"
	"github.com/devsamp/devsamp-bfa-go/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockAssetStore struct {
	key         string
	contentType string
	body        []byte
}

func (m *mockAssetStore) Put(_ context.Context, key, contentType string, body io.Reader, _ int64) (string, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.key, m.contentType, m.body = key, contentType, b
	return "https://cdn.example.com/" + key, nil
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestUpload_SniffsTypeAndKeepsBody(t *testing.T) {
	store := &mockAssetStore{}
	svc := service.NewUploadService(store, 1<<20, zap.NewNop())

	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 5000)...)
	res, err := svc.Upload(context.Background(), "logo.bin", bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)

	assert.Equal(t, "image/png", res.ContentType)
	assert.True(t, strings.HasPrefix(res.Key, "uploads/"))
	assert.True(t, strings.HasSuffix(res.Key, ".png"))
	assert.Equal(t, "https://cdn.example.com/"+res.Key, res.URL)
	assert.Equal(t, body, store.body)
}

func TestUpload_Limits(t *testing.T) {
	svc := service.NewUploadService(&mockAssetStore{}, 10, zap.NewNop())
	var ve *domain.ErrValidation

	_, err := svc.Upload(context.Background(), "a.txt", strings.NewReader(""), 0)
	require.ErrorAs(t, err, &ve)

	_, err = svc.Upload(context.Background(), "a.txt", strings.NewReader("01234567890"), 11)
	require.ErrorAs(t, err, &ve)
}

func TestUpload_WithoutStoreIsUnavailable(t *testing.T) {
	svc := service.NewUploadService(nil, 10, zap.NewNop())
	_, err := svc.Upload(context.Background(), "a.txt", strings.NewReader("hi"), 2)
	var un *domain.ErrUnavailable
	require.ErrorAs(t, err, &un)
}
