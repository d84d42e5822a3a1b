// Package media stores user-uploaded images in an S3-compatible bucket.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"neighborconnect/internal/config"
	"neighborconnect/internal/model"
)

// Folders group objects by use.
const (
	FolderAvatars = "avatars"
	FolderCovers  = "covers"
	FolderEvents  = "events"
)

// MaxUploadBytes bounds a single image.
const MaxUploadBytes = 5 << 20

var (
	// ErrUnsupportedType is returned for anything other than JPEG or PNG.
	ErrUnsupportedType = errors.New("only jpg, jpeg and png images are allowed")
	// ErrTooLarge is returned for images above MaxUploadBytes.
	ErrTooLarge = errors.New("image exceeds the upload size limit")
	// ErrUnavailable is returned when the bucket cannot be reached or the
	// breaker is open.
	ErrUnavailable = errors.New("media service unavailable")
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// ObjectAPI is the subset of the S3 client used by Store.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store uploads and deletes images.
type Store struct {
	client    ObjectAPI
	bucket    string
	publicURL string
	breaker   *gobreaker.CircuitBreaker
	log       *zap.Logger
}

// NewS3Client builds a client for the configured endpoint with static
// credentials. An empty endpoint uses AWS defaults.
func NewS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	}), nil
}

// NewStore wraps client. publicURL is the prefix objects are served from;
// when empty it is derived from endpoint and bucket.
func NewStore(client ObjectAPI, cfg config.S3Config, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return &Store{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
		log:       log,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "media-s3",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn("circuit breaker state change",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		}),
	}
}

// Upload validates data as a JPEG or PNG image and stores it under folder.
func (s *Store) Upload(ctx context.Context, folder string, data []byte) (*model.Image, error) {
	if len(data) > MaxUploadBytes {
		return nil, ErrTooLarge
	}
	mt := mimetype.Detect(data)
	ext, ok := allowedTypes[mt.String()]
	if !ok {
		return nil, ErrUnsupportedType
	}

	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(mt.String()),
		})
	})
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}

	return &model.Image{URL: s.publicURL + "/" + key, Key: key}, nil
}

// Delete removes an object. Failures are logged and never returned; the
// shared default event image is never removed.
func (s *Store) Delete(ctx context.Context, key string) {
	if key == "" || key == model.DefaultEventImage.Key {
		return
	}
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
	})
	if err != nil {
		s.log.Warn("delete media object", zap.String("key", key), zap.Error(err))
	}
}
