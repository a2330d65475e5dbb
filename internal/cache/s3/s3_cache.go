package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"grokimg/internal/config"
	"grokimg/internal/domain"
	"grokimg/internal/port"
)

// ObjectAPI is the subset of the S3 client used by the cache.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	manager.UploadAPIClient
}

type s3Cache struct {
	client   ObjectAPI
	uploader *manager.Uploader
	bucket   string
	prefix   string
	now      func() time.Time
}

var (
	_ port.ImageCache = (*s3Cache)(nil)
	_ port.Pinger     = (*s3Cache)(nil)
)

// NewS3Cache creates an S3-backed ImageCache. Object expiry is recorded
// on each object; bucket lifecycle rules are expected to purge old objects.
func NewS3Cache(cfg *config.S3Config, keyPrefix string) (port.ImageCache, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return NewS3CacheWithClient(s3.NewFromConfig(awsCfg, s3Opts...), cfg.Bucket, keyPrefix), nil
}

// NewS3CacheWithClient builds the cache around an existing S3 client.
func NewS3CacheWithClient(client ObjectAPI, bucket, keyPrefix string) port.ImageCache {
	return &s3Cache{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   keyPrefix,
		now:      time.Now,
	}
}

func (c *s3Cache) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.prefix + key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("s3 get: %w", err)
	}
	defer result.Body.Close()

	if result.Expires != nil && !c.now().Before(*result.Expires) {
		return nil, nil
	}

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 get read: %w", err)
	}

	return &domain.CacheEntry{
		Value:       data,
		ContentType: aws.ToString(result.ContentType),
	}, nil
}

func (c *s3Cache) Put(ctx context.Context, key string, entry domain.CacheEntry, ttl time.Duration) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(c.prefix + key),
		Body:        bytes.NewReader(entry.Value),
		ContentType: aws.String(entry.ContentType),
	}
	if ttl > 0 {
		input.Expires = aws.Time(c.now().Add(ttl))
	}
	if _, err := c.uploader.Upload(ctx, input); err != nil {
		return fmt.Errorf("s3 upload: %w", err)
	}
	return nil
}

func (c *s3Cache) Ping(ctx context.Context) error {
	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)})
	if err != nil {
		return fmt.Errorf("s3 head bucket: %w", err)
	}
	return nil
}
