package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const logoBucket = "agent-logos"

// BucketStore talks to a Supabase-compatible storage REST API. Objects land
// in a public bucket which is created on first use.
type BucketStore struct {
	baseURL string
	apiKey  string
	client  *http.Client

	mu            sync.Mutex
	bucketEnsured bool
}

// NewBucketStore creates a store against the given storage endpoint.
func NewBucketStore(baseURL, apiKey string, client *http.Client) *BucketStore {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &BucketStore{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

// Upload stores the asset in the logo bucket and returns its public URL.
// Object names combine a millisecond timestamp with a random suffix so
// repeated uploads of the same file never collide.
func (s *BucketStore) Upload(ctx context.Context, data []byte, contentType, filename string) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: %s", ErrInvalidContent, contentType)
	}

	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}

	ext := path.Ext(filename)
	objectName := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)

	uploadURL := fmt.Sprintf("%s/object/%s/%s", s.baseURL, logoBucket, objectName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")
	req.Header.Set("x-upsert", "true")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return fmt.Sprintf("%s/object/public/%s/%s", s.baseURL, logoBucket, objectName), nil
	case resp.StatusCode == http.StatusRequestEntityTooLarge || resp.StatusCode == http.StatusInsufficientStorage:
		return "", fmt.Errorf("%w: status %d", ErrQuota, resp.StatusCode)
	case resp.StatusCode == http.StatusUnsupportedMediaType:
		return "", fmt.Errorf("%w: status %d", ErrInvalidContent, resp.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: upload failed with status %d: %s", ErrConnection, resp.StatusCode, body)
	}
}

// ensureBucket creates the public logo bucket if it does not exist yet. The
// result is cached for the process lifetime.
func (s *BucketStore) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bucketEnsured {
		return nil
	}

	getURL := fmt.Sprintf("%s/bucket/%s", s.baseURL, logoBucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, getURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	_ = resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		s.bucketEnsured = true
		return nil
	}
	if resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("%w: bucket lookup failed with status %d", ErrConnection, resp.StatusCode)
	}

	payload, err := json.Marshal(map[string]any{"name": logoBucket, "public": true})
	if err != nil {
		return err
	}
	createReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/bucket", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	createReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	createReq.Header.Set("Content-Type", "application/json")

	createResp, err := s.client.Do(createReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	_ = createResp.Body.Close()

	if createResp.StatusCode != http.StatusOK && createResp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%w: bucket creation failed with status %d", ErrConnection, createResp.StatusCode)
	}

	s.bucketEnsured = true
	return nil
}
