package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rohits-web03/filebridge/internal/apperr"
	"github.com/rohits-web03/filebridge/internal/config"
)

// ObjectStore is the gateway to the S3-compatible bucket holding file
// content. It performs no retries of its own beyond the SDK's transport
// retryer; callers decide what a failure means.
type ObjectStore struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	timeout   time.Duration
}

// NewObjectStore builds the S3 client. Static credentials are used when
// configured, otherwise the SDK's default credential chain.
func NewObjectStore(ctx context.Context, cfg config.S3Config) (*ObjectStore, error) {
	var awsCfg aws.Config
	if cfg.AccessKeyID != "" {
		awsCfg = aws.Config{
			Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			Region:      cfg.Region,
		}
	} else {
		loaded, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		awsCfg = loaded
	}

	client := s3.NewFromConfig(awsCfg, clientOptions(cfg.Endpoint, cfg.UsePathStyle))

	presignClient := client
	if cfg.PublicEndpoint != "" {
		// Signatures cover the host, so URLs for the public host must be
		// signed by a client configured with it.
		presignClient = s3.NewFromConfig(awsCfg, clientOptions(cfg.PublicEndpoint, cfg.UsePathStyle))
	}

	return &ObjectStore{
		client:    client,
		presigner: s3.NewPresignClient(presignClient),
		bucket:    cfg.BucketName,
		timeout:   cfg.Timeout,
	}, nil
}

func clientOptions(endpoint string, usePathStyle bool) func(*s3.Options) {
	return func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = usePathStyle
		// MinIO and R2 reject some of the newer default checksum modes.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	}
}

func (s *ObjectStore) Bucket() string {
	return s.bucket
}

// Put uploads size bytes from body under key.
func (s *ObjectStore) Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return apperr.New(apperr.KindStorageWriteFailed, "Failed to store file", err)
	}
	return nil
}

// Presign returns a GET URL valid for ttl. The object's existence is checked
// first so callers never hand out links to missing objects.
func (s *ObjectStore) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	exists, err := s.Exists(ctx, key)
	if err != nil {
		return "", apperr.New(apperr.KindPresignFailed, "Failed to generate download URL", err)
	}
	if !exists {
		return "", apperr.New(apperr.KindNotFound, "Object not found", nil)
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", apperr.New(apperr.KindPresignFailed, "Failed to generate download URL", err)
	}
	return req.URL, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *ObjectStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isNotFound(err) {
		return apperr.New(apperr.KindStorageDeleteFailed, "Failed to delete file from storage", err)
	}
	return nil
}

// Exists checks if a given object key exists in the bucket.
// Returns true if the object exists, false if not, and an error if something went wrong.
func (s *ObjectStore) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		// Other error (e.g. auth, network)
		return false, err
	}
	return true, nil
}

// List returns the keys of every object under prefix, following
// continuation tokens.
func (s *ObjectStore) List(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	input := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var keys []string
	pages := s3.NewListObjectsV2Paginator(s.client, input)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, apperr.New(apperr.KindInternal, "Failed to list stored objects", err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

// Ping checks that the bucket is reachable with the configured credentials.
func (s *ObjectStore) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

func (s *ObjectStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func isNotFound(err error) bool {
	var nf *s3types.NotFound
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nf) || errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
