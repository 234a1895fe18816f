package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	storageclient "github.com/supabase-community/storage-go"
)

type SupabaseConfig struct {
	ProjectURL string
	ServiceKey string
	Bucket     string
}

// SupabaseBlobStore stores source scripts in a Supabase Storage bucket.
type SupabaseBlobStore struct {
	client *storageclient.Client
	bucket string
}

func NewSupabaseBlobStore(cfg SupabaseConfig) (*SupabaseBlobStore, error) {
	projectURL := strings.TrimSuffix(strings.TrimSpace(cfg.ProjectURL), "/")
	if projectURL == "" {
		return nil, errors.New("supabase project url is required")
	}
	if strings.TrimSpace(cfg.ServiceKey) == "" {
		return nil, errors.New("supabase service key is required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		bucket = "scripts"
	}

	client := storageclient.NewClient(projectURL+"/storage/v1", cfg.ServiceKey, nil)
	return &SupabaseBlobStore{client: client, bucket: bucket}, nil
}

func (s *SupabaseBlobStore) Put(_ context.Context, key string, data []byte) error {
	contentType := "text/plain"
	upsert := true
	_, err := s.client.UploadFile(s.bucket, key, bytes.NewReader(data), storageclient.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}
	return nil
}

func (s *SupabaseBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := s.client.DownloadFile(s.bucket, key)
	if err != nil {
		if isObjectMissing(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download blob %s: %w", key, err)
	}
	return data, nil
}

func (s *SupabaseBlobStore) Delete(_ context.Context, key string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{key})
	if err != nil {
		if isObjectMissing(err) {
			return nil
		}
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}

// isObjectMissing sniffs the storage API error body; the client surfaces
// missing objects as plain errors rather than a sentinel.
func isObjectMissing(err error) bool {
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "not_found") ||
		strings.Contains(message, "not found") ||
		strings.Contains(message, "404")
}
