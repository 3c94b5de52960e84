package archive

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "office-backend/internal/config"
	"office-backend/internal/timeutil"
)

// Uploader keeps raw bulk upload files in an S3-compatible bucket so a
// disputed import can be audited against the exact bytes received.
type Uploader struct {
	client *s3.Client
	bucket string
}

// New returns nil without error when the archive store is not configured;
// callers treat a nil Uploader as "archiving disabled".
func New(cfg *appconfig.Config) (*Uploader, error) {
	if cfg.Archive.Endpoint == "" || cfg.Archive.Bucket == "" {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Archive.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Archive.AccessKey, cfg.Archive.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load archive credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Archive.Endpoint)
	})

	return &Uploader{client: client, bucket: cfg.Archive.Bucket}, nil
}

// StoreImportFile uploads the raw bytes of a bulk import under a dated key.
// Failures are logged and swallowed: archiving never blocks an import.
func (u *Uploader) StoreImportFile(ctx context.Context, filename string, data []byte) {
	if u == nil {
		return
	}

	key := path.Join("bulk-imports",
		timeutil.Now().Format("2006/01/02"),
		fmt.Sprintf("%d-%s", timeutil.Now().UnixNano(), filename))

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		log.Printf("[Archive] Failed to store %s: %v", key, err)
		return
	}
	log.Printf("[Archive] Stored %s (%d bytes)", key, len(data))
}
