package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Storage is the blob-store gateway. The pipeline consumes only Download;
// Upload and SignedURL exist for the upload layer and the UI respectively.
type Storage interface {
	Download(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	Upload(ctx context.Context, bucket, key string, data io.Reader, contentType string) error
	SignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, bucket, key string) error
}

// Error marks a failure originating in the blob store so the pipeline can
// classify it without inspecting message text.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type SupabaseStorage struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

func NewSupabaseStorage(supabaseURL, serviceKey string) *SupabaseStorage {
	return &SupabaseStorage{
		baseURL:    supabaseURL + "/storage/v1",
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

func (s *SupabaseStorage) Download(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	url := fmt.Sprintf("%s/object/%s/%s", s.baseURL, bucket, key)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, &Error{Op: "download", Key: key, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Op: "download", Key: key, Err: err}
	}

	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, &Error{Op: "download", Key: key, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	return resp.Body, nil
}

func (s *SupabaseStorage) Upload(ctx context.Context, bucket, key string, data io.Reader, contentType string) error {
	url := fmt.Sprintf("%s/object/%s/%s", s.baseURL, bucket, key)

	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, data); err != nil {
		return &Error{Op: "upload", Key: key, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, buf)
	if err != nil {
		return &Error{Op: "upload", Key: key, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &Error{Op: "upload", Key: key, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return &Error{Op: "upload", Key: key, Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(body))}
	}

	return nil
}

func (s *SupabaseStorage) SignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	url := fmt.Sprintf("%s/object/sign/%s/%s", s.baseURL, bucket, key)

	payload, err := json.Marshal(map[string]int{"expiresIn": int(ttl.Seconds())})
	if err != nil {
		return "", &Error{Op: "sign", Key: key, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return "", &Error{Op: "sign", Key: key, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &Error{Op: "sign", Key: key, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &Error{Op: "sign", Key: key, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var signed struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return "", &Error{Op: "sign", Key: key, Err: err}
	}

	return s.baseURL + signed.SignedURL, nil
}

func (s *SupabaseStorage) Delete(ctx context.Context, bucket, key string) error {
	url := fmt.Sprintf("%s/object/%s/%s", s.baseURL, bucket, key)

	req, err := http.NewRequestWithContext(ctx, "DELETE", url, nil)
	if err != nil {
		return &Error{Op: "delete", Key: key, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &Error{Op: "delete", Key: key, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &Error{Op: "delete", Key: key, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	return nil
}
