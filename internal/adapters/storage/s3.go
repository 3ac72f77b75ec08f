package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API is the subset of the S3 client the store uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Store struct {
	client  s3API
	bucket  string
	baseURL string
	now     func() time.Time
}

func newS3Store(config Config) (*s3Store, error) {
	if config.S3Bucket == "" || config.S3Region == "" {
		return nil, fmt.Errorf("s3 storage: bucket and region are required")
	}
	awsCfg := aws.Config{
		Region: config.S3Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				config.S3AccessKeyID,
				config.S3SecretAccessKey,
				"",
			),
		),
	}
	baseURL := config.S3PublicBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", config.S3Bucket, config.S3Region)
	}
	return &s3Store{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  config.S3Bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		now:     time.Now,
	}, nil
}

func (s *s3Store) Save(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	key, err := objectKey(name, s.now())
	if err != nil {
		return "", err
	}
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload image to S3: %w", err)
	}
	log.Printf("[STORAGE] Image uploaded to s3://%s/%s", s.bucket, key)
	return s.baseURL + "/" + key, nil
}
