package storage

import (
	"context"
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"clinic-backend/config"
	domainStorage "clinic-backend/internal/domain/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ObjectAPI is the subset of the S3 client used by S3Storage
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Storage struct {
	client    ObjectAPI
	bucket    string
	prefix    string
	publicURL string
	log       *logrus.Logger
}

// NewS3Client builds an S3 client from the storage config. A custom endpoint
// switches to path style addressing for S3 compatible servers.
func NewS3Client(ctx context.Context, cfg config.StorageConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return client, nil
}

func NewS3Storage(client ObjectAPI, cfg config.StorageConfig, log *logrus.Logger) *S3Storage {
	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &S3Storage{
		client:    client,
		bucket:    cfg.Bucket,
		prefix:    strings.Trim(cfg.Prefix, "/"),
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       log,
	}
}

// Upload stores the file under a fresh key and returns its public URL
func (s *S3Storage) Upload(ctx context.Context, file *domainStorage.File) (string, error) {
	if file.IsEmpty() {
		return "", domainStorage.ErrEmptyFile
	}

	key := s.objectKey(file.Name, time.Now())

	contentType := file.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(file.Name))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          file.Content,
		ContentLength: aws.Int64(file.Size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", file.Name, err)
	}

	url := s.publicURL + "/" + key
	s.log.Infof("Uploaded object %s", key)
	return url, nil
}

// Delete removes the object behind a URL previously returned by Upload
func (s *S3Storage) Delete(ctx context.Context, url string) error {
	key, err := s.KeyFromURL(url)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	s.log.Infof("Deleted object %s", key)
	return nil
}

// KeyFromURL strips the public base URL from an object URL
func (s *S3Storage) KeyFromURL(url string) (string, error) {
	key := strings.TrimPrefix(url, s.publicURL+"/")
	if key == url || key == "" {
		return "", fmt.Errorf("object url %q does not belong to bucket %s", url, s.bucket)
	}
	return key, nil
}

func (s *S3Storage) objectKey(name string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(name))
	return path.Join(s.prefix, now.Format("2006"), now.Format("01"), uuid.NewString()+ext)
}
