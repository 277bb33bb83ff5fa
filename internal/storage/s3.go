// Package storage uploads menu images to S3-compatible object storage (Cloudflare R2).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MaxImageSize is the largest image accepted for upload
const MaxImageSize = 5 << 20

var ErrUnsupportedType = errors.New("only jpeg, png, webp and gif images are allowed")

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Uploader stores an image and returns its public URL
type Uploader interface {
	Upload(ctx context.Context, restaurantID, contentType string, body io.Reader) (string, error)
}

// ObjectPutter is the subset of *s3.Client used for uploads
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configure an S3 uploader
type Options struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

// S3Uploader puts objects into one bucket
type S3Uploader struct {
	client  ObjectPutter
	bucket  string
	baseURL string
}

// NewS3Uploader builds an S3 client pointed at opts.Endpoint with static credentials
func NewS3Uploader(ctx context.Context, opts Options) (*S3Uploader, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		),
		config.WithEndpointResolverWithOptions(
			aws.EndpointResolverWithOptionsFunc(
				func(service, region string, options ...interface{}) (aws.Endpoint, error) {
					if service == s3.ServiceID {
						return aws.Endpoint{
							URL:           opts.Endpoint,
							SigningRegion: "auto",
						}, nil
					}
					return aws.Endpoint{}, &aws.EndpointNotFoundError{}
				},
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	return NewS3UploaderWithClient(s3.NewFromConfig(cfg), opts.Bucket, opts.PublicBaseURL), nil
}

func NewS3UploaderWithClient(client ObjectPutter, bucket, baseURL string) *S3Uploader {
	return &S3Uploader{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ObjectKey is menus/<restaurantID>/<uuid><ext>
func ObjectKey(restaurantID, contentType string) (string, error) {
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return "", ErrUnsupportedType
	}
	return path.Join("menus", restaurantID, uuid.New().String()+ext), nil
}

// Upload stores body under a fresh key and returns its public URL
func (u *S3Uploader) Upload(ctx context.Context, restaurantID, contentType string, body io.Reader) (string, error) {
	key, err := ObjectKey(restaurantID, contentType)
	if err != nil {
		return "", err
	}

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return fmt.Sprintf("%s/%s", u.baseURL, key), nil
}
