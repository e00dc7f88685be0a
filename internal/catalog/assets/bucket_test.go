package assets_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneai-dev/oneai/internal/catalog/assets"
)

// storageStub fakes the storage REST API: bucket lookup plus object upload.
type storageStub struct {
	bucketExists bool
	uploadStatus int
	created      bool
	uploads      []string
}

func (s *storageStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /bucket/agent-logos", func(w http.ResponseWriter, _ *http.Request) {
		if s.bucketExists {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("POST /bucket", func(w http.ResponseWriter, _ *http.Request) {
		s.created = true
		s.bucketExists = true
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("POST /object/agent-logos/{name}", func(w http.ResponseWriter, r *http.Request) {
		s.uploads = append(s.uploads, r.PathValue("name"))
		status := s.uploadStatus
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
	})
	return mux
}

func TestBucketStoreUpload(t *testing.T) {
	stub := &storageStub{bucketExists: true}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	store := assets.NewBucketStore(srv.URL, "key", srv.Client())
	url, err := store.Upload(context.Background(), []byte{1, 2, 3}, "image/png", "logo.png")
	require.NoError(t, err)

	require.Len(t, stub.uploads, 1)
	assert.True(t, strings.HasSuffix(stub.uploads[0], ".png"))
	assert.Equal(t, srv.URL+"/object/public/agent-logos/"+stub.uploads[0], url)
}

func TestBucketStoreCreatesMissingBucket(t *testing.T) {
	stub := &storageStub{bucketExists: false}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	store := assets.NewBucketStore(srv.URL, "key", srv.Client())
	_, err := store.Upload(context.Background(), []byte{1}, "image/png", "logo.png")
	require.NoError(t, err)
	assert.True(t, stub.created)

	// The ensure result is cached, a second upload skips the lookup.
	_, err = store.Upload(context.Background(), []byte{2}, "image/png", "logo.png")
	require.NoError(t, err)
	assert.Len(t, stub.uploads, 2)
}

func TestBucketStoreObjectNamesNeverCollide(t *testing.T) {
	stub := &storageStub{bucketExists: true}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	store := assets.NewBucketStore(srv.URL, "key", srv.Client())
	_, err := store.Upload(context.Background(), []byte{1}, "image/png", "logo.png")
	require.NoError(t, err)
	_, err = store.Upload(context.Background(), []byte{1}, "image/png", "logo.png")
	require.NoError(t, err)

	require.Len(t, stub.uploads, 2)
	assert.NotEqual(t, stub.uploads[0], stub.uploads[1])
}

func TestBucketStoreTaggedErrors(t *testing.T) {
	tests := []struct {
		name         string
		contentType  string
		uploadStatus int
		wantErr      error
	}{
		{name: "non-image rejected locally", contentType: "application/pdf", wantErr: assets.ErrInvalidContent},
		{name: "quota exceeded", contentType: "image/png", uploadStatus: http.StatusRequestEntityTooLarge, wantErr: assets.ErrQuota},
		{name: "storage full", contentType: "image/png", uploadStatus: http.StatusInsufficientStorage, wantErr: assets.ErrQuota},
		{name: "unsupported media", contentType: "image/png", uploadStatus: http.StatusUnsupportedMediaType, wantErr: assets.ErrInvalidContent},
		{name: "server error maps to connection", contentType: "image/png", uploadStatus: http.StatusInternalServerError, wantErr: assets.ErrConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &storageStub{bucketExists: true, uploadStatus: tt.uploadStatus}
			srv := httptest.NewServer(stub.handler())
			defer srv.Close()

			store := assets.NewBucketStore(srv.URL, "key", srv.Client())
			_, err := store.Upload(context.Background(), []byte{1}, tt.contentType, "logo.png")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBucketStoreUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := srv.Client()
	url := srv.URL
	srv.Close()

	store := assets.NewBucketStore(url, "key", client)
	_, err := store.Upload(context.Background(), []byte{1}, "image/png", "logo.png")
	assert.ErrorIs(t, err, assets.ErrConnection)
}
