package objectstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/imamik/k8xform/internal/config"
)

// Client talks to the result object store.
type Client struct {
	s3 *s3.Client
}

// NewClient creates a client for the configured store. The store is
// addressed path-style, as MinIO expects.
func NewClient(ctx context.Context, store config.ObjectStoreConfig) (*Client, error) {
	if store.URL == "" {
		return nil, config.NewError(config.EnvObjectStoreURL, "is required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(store.AccessKey, store.SecretKey, "")),
		awsconfig.WithRegion(store.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load object store config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(Endpoint(store.URL, store.UseTLS))
		o.UsePathStyle = true
	})

	return &Client{s3: client}, nil
}

// Endpoint turns the worker-facing store address (host:port) into a URL.
// Addresses that already carry a scheme are returned unchanged.
func Endpoint(url string, useTLS bool) string {
	if strings.Contains(url, "://") {
		return url
	}
	if useTLS {
		return "https://" + url
	}
	return "http://" + url
}

// EnsureBucket creates the bucket unless it already exists. created reports
// whether this call made it.
func (c *Client) EnsureBucket(ctx context.Context, bucket string) (created bool, err error) {
	exists, err := c.BucketExists(ctx, bucket)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	_, err = c.s3.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		// Lost a race with another launcher; the bucket is there.
		if isBucketAlreadyOwnedByYou(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return true, nil
}

// BucketExists checks if a bucket exists and is accessible.
func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	return true, nil
}

// IsAccessDenied reports whether the store rejected the credentials.
// Such failures are not worth retrying.
func IsAccessDenied(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return true
		}
	}
	return false
}

func isBucketAlreadyOwnedByYou(err error) bool {
	var owned *types.BucketAlreadyOwnedByYou
	if errors.As(err, &owned) {
		return true
	}

	// S3-compatible stores do not always return the SDK's typed errors.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "BucketAlreadyOwnedByYou"
	}
	return false
}

func isNotFoundError(err error) bool {
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchBucket", "404":
			return true
		}
	}
	return false
}
