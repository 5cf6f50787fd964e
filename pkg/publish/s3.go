// Package publish uploads finished renders to S3-compatible object storage.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/df07/go-weekend-raytracer/pkg/config"
	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/output"
)

// UploadTimeout bounds a single upload
const UploadTimeout = 30 * time.Second

// ObjectPutter is the part of the S3 client the publisher needs
type ObjectPutter interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads files under a key prefix in one bucket
type S3Publisher struct {
	client ObjectPutter
	bucket string
	prefix string
	logger core.Logger
}

// NewS3Publisher creates a session from cfg and returns a publisher using it
func NewS3Publisher(cfg config.S3Config, logger core.Logger) (*S3Publisher, error) {
	if !cfg.Enabled() {
		return nil, errors.New("S3 bucket is not configured")
	}

	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return NewS3PublisherWithClient(s3.New(sess), cfg.Bucket, cfg.Prefix, logger), nil
}

// NewS3PublisherWithClient creates a publisher around an existing client
func NewS3PublisherWithClient(client ObjectPutter, bucket, prefix string, logger core.Logger) *S3Publisher {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &S3Publisher{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
	}
}

// Key returns the object key for a file rendered from sceneName: <prefix>/<scene>/<filename>
func (p *S3Publisher) Key(sceneName, filePath string) string {
	return path.Join(p.prefix, sceneName, filepath.Base(filePath))
}

// UploadFile uploads the file at filePath and returns its object key
func (p *S3Publisher) UploadFile(ctx context.Context, sceneName, filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	key := p.Key(sceneName, filePath)
	if err := p.Upload(ctx, key, data, output.ContentType(filePath)); err != nil {
		return "", err
	}
	return key, nil
}

// Upload puts data under key
func (p *S3Publisher) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	size := int64(len(data))
	_, err := p.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	p.logger.Printf("Uploaded s3://%s/%s (%d bytes)\n", p.bucket, key, size)
	return nil
}
