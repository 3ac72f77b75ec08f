package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"donationtracker/internal/domain"
)

// Config selects and configures the image store.
type Config struct {
	Provider string // s3 or local

	MediaRoot string
	MediaURL  string

	S3Bucket          string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3PublicBaseURL   string
}

// NewImageStore returns the ImageStore named by config.Provider.
func NewImageStore(config Config) (domain.ImageStore, error) {
	switch config.Provider {
	case "s3":
		return newS3Store(config)
	case "local", "":
		return NewLocalStore(config.MediaRoot, config.MediaURL)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", config.Provider)
	}
}

// objectKey builds a unique key under events/ that keeps the upload's extension.
func objectKey(filename string, now time.Time) (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate image key: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path.Base(filepath.ToSlash(filename))))
	if len(ext) > 10 {
		ext = ""
	}
	return fmt.Sprintf("events/%s/%s%s", now.UTC().Format("2006/01"), hex.EncodeToString(b), ext), nil
}
