package erase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/deploytypes"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/internal/awsapi"
)

// maxBatchSize is the most keys a single DeleteObjects request accepts.
const maxBatchSize = 1000

// Result summarizes an erase.
type Result struct {
	// Iterations is the number of list cycles performed
	Iterations int

	// Deleted is the number of objects removed
	Deleted int
}

// Eraser lists and deletes objects under a prefix.
type Eraser struct {
	client        awsapi.S3API
	logger        *slog.Logger
	maxIterations int
}

// Option configures an Eraser.
type Option func(*Eraser)

// WithMaxIterations caps the number of list+delete cycles.
func WithMaxIterations(n int) Option {
	return func(e *Eraser) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}

// WithLogger sets the logger used for cycle progress.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Eraser) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates a new Eraser.
func New(client awsapi.S3API, opts ...Option) *Eraser {
	e := &Eraser{
		client:        client,
		logger:        slog.New(slog.DiscardHandler),
		maxIterations: deploytypes.DefaultMaxEraseIterations,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Erase deletes every object whose key starts with prefix. An empty prefix
// erases the whole bucket.
func (e *Eraser) Erase(ctx context.Context, bucket, prefix string) (*Result, error) {
	result := &Result{}

	for {
		if result.Iterations >= e.maxIterations {
			return result, errors.NewError("erase", errors.ErrErase).
				WithBucket(bucket).
				WithMessage(fmt.Sprintf("prefix %q still listed objects after %d cycles", prefix, result.Iterations))
		}
		result.Iterations++

		listing, err := e.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:  aws.String(bucket),
			Prefix:  aws.String(prefix),
			MaxKeys: aws.Int32(maxBatchSize),
		})
		if err != nil {
			return result, errors.Wrap("erase", errors.ErrErase, errors.FromAWS("listObjects", err)).
				WithBucket(bucket)
		}

		keys := make([]types.ObjectIdentifier, 0, len(listing.Contents))
		for _, obj := range listing.Contents {
			if obj.Key == nil {
				continue
			}
			keys = append(keys, types.ObjectIdentifier{Key: obj.Key})
		}

		if len(keys) == 0 {
			e.logger.Debug("erase finished",
				"bucket", bucket, "prefix", prefix,
				"cycles", result.Iterations, "deleted", result.Deleted)
			return result, nil
		}

		deleted, err := e.deleteBatch(ctx, bucket, keys)
		result.Deleted += deleted
		if err != nil {
			return result, err
		}

		e.logger.Debug("erase cycle",
			"bucket", bucket, "prefix", prefix,
			"cycle", result.Iterations, "deleted", deleted)

		if !aws.ToBool(listing.IsTruncated) {
			return result, nil
		}
	}
}

// deleteBatch removes one listing page and reports how many keys went away.
func (e *Eraser) deleteBatch(ctx context.Context, bucket string, keys []types.ObjectIdentifier) (int, error) {
	output, err := e.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{
			Objects: keys,
			Quiet:   aws.Bool(false),
		},
	})
	if err != nil {
		return 0, errors.Wrap("erase", errors.ErrErase, errors.FromAWS("deleteObjects", err)).
			WithBucket(bucket)
	}

	if len(output.Errors) > 0 {
		failed := make([]string, 0, len(output.Errors))
		for _, keyErr := range output.Errors {
			failed = append(failed, fmt.Sprintf("%s (%s: %s)",
				aws.ToString(keyErr.Key), aws.ToString(keyErr.Code), aws.ToString(keyErr.Message)))
		}
		return len(keys) - len(output.Errors), errors.NewError("erase", errors.ErrErase).
			WithBucket(bucket).
			WithMessage(fmt.Sprintf("%d objects not deleted: %s", len(failed), strings.Join(failed, ", ")))
	}

	return len(keys), nil
}
