package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore writes images below a directory that the API serves under its media URL.
type LocalStore struct {
	root    string
	baseURL string
	now     func() time.Time
}

// NewLocalStore creates root if needed.
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("local storage: media root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("local storage: %w", err)
	}
	if baseURL == "" {
		baseURL = "/media/"
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &LocalStore{root: root, baseURL: baseURL, now: time.Now}, nil
}

// Root is the directory images are written to.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) Save(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	key, err := objectKey(name, s.now())
	if err != nil {
		return "", err
	}
	dst := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("local storage: %w", err)
	}
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("local storage: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("local storage: write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("local storage: %w", err)
	}
	return s.baseURL + key, nil
}
