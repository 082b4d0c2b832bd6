package upload

import (
	"bytes"
	"context"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dustin/go-humanize"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/deploytypes"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/internal/awsapi"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/internal/contenttype"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/internal/sourcefs"
)

// DefaultMultipartThreshold is the body size from which uploads are split
// into parts.
const DefaultMultipartThreshold int64 = 100 * 1024 * 1024

// Result describes one uploaded object.
type Result struct {
	Key         string
	Size        int64
	ContentType string
	Duration    time.Duration
}

// Pipeline uploads the files of a target.
type Pipeline struct {
	client             awsapi.S3API
	filesystem         billy.Filesystem
	logger             *slog.Logger
	multipartThreshold int64
	uploader           *manager.Uploader
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for per-file progress.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMultipartThreshold sets the body size from which the upload manager is used.
func WithMultipartThreshold(size int64) Option {
	return func(p *Pipeline) {
		if size > 0 {
			p.multipartThreshold = size
		}
	}
}

// New creates a new Pipeline reading files from filesystem.
func New(client awsapi.S3API, filesystem billy.Filesystem, opts ...Option) *Pipeline {
	p := &Pipeline{
		client:             client,
		filesystem:         filesystem,
		logger:             slog.New(slog.DiscardHandler),
		multipartThreshold: DefaultMultipartThreshold,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.uploader = manager.NewUploader(client)
	return p
}

// ObjectKey joins prefix and filename into an object key. Backslashes in
// either part become slashes.
func ObjectKey(prefix, filename string) string {
	prefix = strings.ReplaceAll(prefix, `\`, "/")
	filename = strings.ReplaceAll(filename, `\`, "/")
	if prefix == "" {
		return path.Clean(filename)
	}
	return path.Join(prefix, filename)
}

// NewJob builds the upload job for a file body without issuing any request.
func NewJob(
	target deploytypes.AssetTarget,
	group deploytypes.FileGroup,
	bucket, filename string,
	body []byte,
) *deploytypes.UploadJob {
	acl := target.ACL
	if acl == "" {
		acl = deploytypes.DefaultACL
	}
	return &deploytypes.UploadJob{
		Bucket:      bucket,
		Key:         ObjectKey(target.Prefix, filename),
		Body:        body,
		ContentType: contenttype.ResolveContent(filename, group.DefaultContentType, body, group.SniffContentType),
		ACL:         acl,
		Headers:     group.Headers,
	}
}

// PutObjectInput converts a job into the request parameters, merging the
// job headers over the computed fields.
func PutObjectInput(job *deploytypes.UploadJob) (*s3.PutObjectInput, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(job.Bucket),
		Key:         aws.String(job.Key),
		Body:        bytes.NewReader(job.Body),
		ContentType: aws.String(job.ContentType),
		ACL:         awstypes.ObjectCannedACL(job.ACL),
	}
	if err := applyHeaders(input, job.Headers); err != nil {
		return nil, errors.Wrap("upload", errors.ErrInvalidConfig, err).
			WithBucket(job.Bucket).
			WithKey(job.Key)
	}
	return input, nil
}

// UploadFile reads filename, relative to the group source, and uploads it
// to bucket under the target prefix. Absolute sources are read from where
// they point.
func (p *Pipeline) UploadFile(
	ctx context.Context,
	target deploytypes.AssetTarget,
	group deploytypes.FileGroup,
	bucket, filename string,
) (*Result, error) {
	startTime := time.Now()

	filesystem, source := sourcefs.Open(p.filesystem, group.Source)
	localPath := filesystem.Join(source, filepath.FromSlash(filename))
	body, err := util.ReadFile(filesystem, localPath)
	if err != nil {
		return nil, errors.Wrap("upload", errors.ErrFilesystem, err).WithKey(localPath)
	}

	job := NewJob(target, group, bucket, filename, body)
	p.logger.Debug("uploading file",
		"bucket", job.Bucket,
		"key", job.Key,
		"contentType", job.ContentType,
		"size", humanize.Bytes(uint64(len(body))))

	input, err := PutObjectInput(job)
	if err != nil {
		return nil, err
	}

	// Headers may redirect the object, so report what was actually sent.
	bucket, key := aws.ToString(input.Bucket), aws.ToString(input.Key)

	size := int64(len(body))
	if size >= p.multipartThreshold {
		if _, err := p.uploader.Upload(ctx, input); err != nil {
			return nil, errors.Wrap("upload", errors.ErrUpload, errors.FromAWS("uploadMultipart", err)).
				WithBucket(bucket).
				WithKey(key)
		}
	} else {
		input.ContentLength = aws.Int64(size)
		if _, err := p.client.PutObject(ctx, input); err != nil {
			return nil, errors.Wrap("upload", errors.ErrUpload, errors.FromAWS("putObject", err)).
				WithBucket(bucket).
				WithKey(key)
		}
	}

	result := &Result{
		Key:         key,
		Size:        size,
		ContentType: aws.ToString(input.ContentType),
		Duration:    time.Since(startTime),
	}

	p.logger.Debug("file uploaded",
		"bucket", bucket,
		"key", key,
		"duration", result.Duration)

	return result, nil
}
