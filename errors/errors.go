// Package errors provides error types and handling for asset deployment operations.
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// Error represents a deployment operation error with context about the operation that failed.
// It wraps the underlying AWS SDK or filesystem error with additional context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "upload", "erase", "resolve")
	Op string

	// Bucket is the S3 bucket name (if applicable)
	Bucket string

	// Key is the S3 object key or local path (if applicable)
	Key string

	// Err is the underlying error
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("s3deploy.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("s3deploy.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("s3deploy.%s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("s3deploy.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key or path context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// Wrap ties a sentinel to the error that caused it, so that both
// errors.Is(err, sentinel) and errors.Is(err, cause) hold.
// A nil cause yields the sentinel itself.
func Wrap(op string, sentinel, cause error) *Error {
	if cause == nil {
		return NewError(op, sentinel)
	}
	return NewError(op, fmt.Errorf("%w: %w", sentinel, cause))
}

// Sentinel errors for deployment failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrFilesystem indicates a source directory or file could not be read
	ErrFilesystem = errors.New("s3deploy: filesystem error")

	// ErrInvalidBucketSpec indicates a malformed bucket specification
	ErrInvalidBucketSpec = errors.New("s3deploy: invalid bucket specification")

	// ErrUnresolvedReference indicates a bucket reference has no matching stack resource
	ErrUnresolvedReference = errors.New("s3deploy: unresolved bucket reference")

	// ErrInventoryLoad indicates the stack resource listing failed
	ErrInventoryLoad = errors.New("s3deploy: inventory load failed")

	// ErrUpload indicates an object upload request failed
	ErrUpload = errors.New("s3deploy: upload failed")

	// ErrErase indicates listing or deleting objects under a prefix failed
	ErrErase = errors.New("s3deploy: erase failed")

	// ErrInvalidConfig indicates the project configuration is malformed
	ErrInvalidConfig = errors.New("s3deploy: invalid configuration")

	// ErrAccessDenied indicates that access to the resource is denied
	ErrAccessDenied = errors.New("s3deploy: access denied")

	// ErrBucketNotFound indicates that the target bucket does not exist
	ErrBucketNotFound = errors.New("s3deploy: bucket not found")

	// ErrStackNotFound indicates that the CloudFormation stack does not exist
	ErrStackNotFound = errors.New("s3deploy: stack not found")
)

// FromAWS classifies an AWS SDK error by its API error code and wraps it
// under op. Unknown codes keep only the original error in the chain.
func FromAWS(op string, err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return NewError(op, err)
	}

	switch apiErr.ErrorCode() {
	case "AccessDenied", "AccessDeniedException", "Forbidden":
		return Wrap(op, ErrAccessDenied, err)
	case "NoSuchBucket":
		return Wrap(op, ErrBucketNotFound, err)
	case "ValidationError":
		// CloudFormation reports missing stacks as validation errors.
		if strings.Contains(apiErr.ErrorMessage(), "does not exist") {
			return Wrap(op, ErrStackNotFound, err)
		}
	}
	return NewError(op, err)
}

// IsFilesystem checks if an error indicates a local read failure.
func IsFilesystem(err error) bool {
	return errors.Is(err, ErrFilesystem)
}

// IsUnresolvedReference checks if an error indicates a bucket reference could not be resolved.
func IsUnresolvedReference(err error) bool {
	return errors.Is(err, ErrUnresolvedReference)
}

// IsInvalidBucketSpec checks if an error indicates a malformed bucket specification.
func IsInvalidBucketSpec(err error) bool {
	return errors.Is(err, ErrInvalidBucketSpec)
}

// IsInventoryLoad checks if an error indicates the stack inventory could not be loaded.
func IsInventoryLoad(err error) bool {
	return errors.Is(err, ErrInventoryLoad)
}

// IsUpload checks if an error indicates an upload failure.
func IsUpload(err error) bool {
	return errors.Is(err, ErrUpload)
}

// IsErase checks if an error indicates an erase failure.
func IsErase(err error) bool {
	return errors.Is(err, ErrErase)
}

// IsInvalidConfig checks if an error indicates a configuration problem.
func IsInvalidConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsAccessDenied checks if an error indicates access was denied.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}
