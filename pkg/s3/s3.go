// Package s3 stores appointment attachments in an S3 compatible bucket.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/Alijeyrad/scheduleease/config"
)

var ErrNoBucket = errors.New("s3: bucket is required")

type Client struct {
	api    *s3.Client
	bucket string
}

// New builds a client for cfg.Bucket. Static keys win over the default AWS
// credential chain, and a custom endpoint switches to path style addressing
// for MinIO and similar servers.
func New(ctx context.Context, cfg config.S3Config) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, ErrNoBucket
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint == "" {
			return
		}
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})
	return &Client{api: api, bucket: cfg.Bucket}, nil
}

func loadOptions(cfg config.S3Config) []func(*awscfg.LoadOptions) error {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
		opts = append(opts, awscfg.WithCredentialsProvider(creds))
	}
	return opts
}

func (c *Client) Bucket() string { return c.bucket }

// Upload writes a private object. size must match the body length.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	in := &s3.PutObjectInput{
		Bucket:        &c.bucket,
		Key:           &key,
		Body:          body,
		ContentLength: &size,
		ACL:           types.ObjectCannedACLPrivate,
	}
	if contentType != "" {
		in.ContentType = &contentType
	}
	if _, err := c.api.PutObject(ctx, in); err != nil {
		return fmt.Errorf("s3: put %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// Delete is idempotent: S3 reports success for missing keys.
func (c *Client) Delete(ctx context.Context, key string) error {
	if _, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &c.bucket, Key: &key}); err != nil {
		return fmt.Errorf("s3: delete %s/%s: %w", c.bucket, key, err)
	}
	return nil
}
