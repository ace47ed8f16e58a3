package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxegear-backend/internal/config"
)

func TestObjectKey(t *testing.T) {
	key, err := ObjectKey("image/PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "products/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	_, err = ObjectKey("application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestPublicBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
		want string
	}{
		{"explicit", config.StorageConfig{Bucket: "b", PublicBaseURL: "https://cdn.example.com/"}, "https://cdn.example.com"},
		{"path style endpoint", config.StorageConfig{Bucket: "b", Endpoint: "http://minio:9000", UsePathStyle: true}, "http://minio:9000/b"},
		{"virtual host endpoint", config.StorageConfig{Bucket: "b", Endpoint: "https://b.r2.example.com"}, "https://b.r2.example.com"},
		{"aws", config.StorageConfig{Bucket: "b", Region: "eu-west-1"}, "https://b.s3.eu-west-1.amazonaws.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicBaseURL(tt.cfg))
		})
	}
}

func TestNewS3ImageStorageRequiresBucket(t *testing.T) {
	_, err := NewS3ImageStorage(context.Background(), config.StorageConfig{Region: "us-east-1"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")
}

func TestUploadImage(t *testing.T) {
	var (
		mu          sync.Mutex
		gotPath     string
		gotBody     string
		contentType string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		defer mu.Unlock()
		if r.Method == http.MethodPut {
			gotPath = r.URL.Path
			gotBody = string(body)
			contentType = r.Header.Get("Content-Type")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, err := NewS3ImageStorage(context.Background(), config.StorageConfig{
		Bucket:          "images",
		Region:          "us-east-1",
		Endpoint:        srv.URL,
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
	}, nil)
	require.NoError(t, err)

	url, err := s.UploadImage(context.Background(), []byte("png-bytes"), "image/png")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, strings.HasPrefix(gotPath, "/images/products/"), gotPath)
	assert.Contains(t, gotBody, "png-bytes")
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, srv.URL+gotPath, url)
}

func TestUploadImageRejectsUnknownType(t *testing.T) {
	s, err := NewS3ImageStorage(context.Background(), config.StorageConfig{
		Bucket: "images", Region: "us-east-1", Endpoint: "http://127.0.0.1:1",
		AccessKeyID: "k", SecretAccessKey: "s", UsePathStyle: true,
	}, nil)
	require.NoError(t, err)

	_, err = s.UploadImage(context.Background(), []byte("x"), "text/plain")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
