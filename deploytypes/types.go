// Package deploytypes provides shared type definitions for the s3deploy module.
package deploytypes

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/go-git/go-billy/v5"
)

// Defaults applied during configuration normalization.
const (
	// DefaultContentType is used when no other content type can be determined
	DefaultContentType = "application/octet-stream"

	// DefaultUploadConcurrency is the number of targets processed at once
	DefaultUploadConcurrency = 3

	// DefaultMaxEraseIterations caps list+delete cycles for a single erase
	DefaultMaxEraseIterations = 1000
)

// ObjectACL represents the canned access control list for uploaded objects.
type ObjectACL string

// Predefined canned ACLs
const (
	// ACLPrivate grants private access (default)
	ACLPrivate ObjectACL = "private"

	// ACLPublicRead grants public read access
	ACLPublicRead ObjectACL = "public-read"

	// ACLPublicReadWrite grants public read and write access
	ACLPublicReadWrite ObjectACL = "public-read-write"

	// ACLAuthenticatedRead grants authenticated users read access
	ACLAuthenticatedRead ObjectACL = "authenticated-read"

	// ACLBucketOwnerRead grants bucket owner read access
	ACLBucketOwnerRead ObjectACL = "bucket-owner-read"

	// ACLBucketOwnerFullControl grants bucket owner full control
	ACLBucketOwnerFullControl ObjectACL = "bucket-owner-full-control"

	// DefaultACL is the canned ACL applied when a target does not set one
	DefaultACL = ACLPrivate
)

// BucketKind tells the two BucketSpec variants apart.
type BucketKind int

const (
	// BucketInvalid is a missing or malformed bucket; it never resolves
	BucketInvalid BucketKind = iota

	// BucketLiteral is a bucket given by its physical name
	BucketLiteral

	// BucketReference is a bucket given by the logical id of a stack resource
	BucketReference
)

// String implements fmt.Stringer.
func (k BucketKind) String() string {
	switch k {
	case BucketLiteral:
		return "literal"
	case BucketReference:
		return "reference"
	default:
		return "invalid"
	}
}

// BucketSpec is either a literal bucket name or a reference to a stack
// resource whose physical id is the bucket name.
type BucketSpec struct {
	kind  BucketKind
	value string
}

// LiteralBucket returns a spec for a bucket known by name.
func LiteralBucket(name string) BucketSpec {
	return BucketSpec{kind: BucketLiteral, value: name}
}

// ReferenceBucket returns a spec for a bucket known only by its logical resource id.
func ReferenceBucket(logicalID string) BucketSpec {
	return BucketSpec{kind: BucketReference, value: logicalID}
}

// InvalidBucket returns a spec that fails resolution with reason. It keeps a
// malformed bucket entry from aborting the other targets.
func InvalidBucket(reason string) BucketSpec {
	return BucketSpec{kind: BucketInvalid, value: reason}
}

// Kind reports which variant the spec holds.
func (b BucketSpec) Kind() BucketKind { return b.kind }

// Name returns the literal bucket name, or "" for references.
func (b BucketSpec) Name() string {
	if b.kind != BucketLiteral {
		return ""
	}
	return b.value
}

// LogicalID returns the referenced logical resource id, or "" for literals.
func (b BucketSpec) LogicalID() string {
	if b.kind != BucketReference {
		return ""
	}
	return b.value
}

// Reason explains why an invalid spec does not resolve.
func (b BucketSpec) Reason() string {
	if b.kind != BucketInvalid {
		return ""
	}
	if b.value == "" {
		return "bucket is required"
	}
	return b.value
}

// String implements fmt.Stringer.
func (b BucketSpec) String() string {
	switch b.kind {
	case BucketLiteral:
		return b.value
	case BucketReference:
		return fmt.Sprintf("{ref: %s}", b.value)
	default:
		return "<invalid bucket>"
	}
}

// DeploymentConfig is the normalized assets configuration of a project.
// It is built once and not modified afterwards.
type DeploymentConfig struct {
	// Auto runs the deployment after every stack deployment
	Auto bool

	// ResolveReferences enables bucket references and the stack inventory lookup
	ResolveReferences bool

	// Verbose enables phase-level logging
	Verbose bool

	// UploadConcurrency is the number of targets processed concurrently
	UploadConcurrency int

	// Targets are processed in this order
	Targets []AssetTarget
}

// AssetTarget is one destination bucket and the file groups uploaded to it.
type AssetTarget struct {
	// Bucket is the destination bucket
	Bucket BucketSpec

	// Prefix is prepended to every object key
	Prefix string

	// ACL is the canned ACL for every uploaded object
	ACL ObjectACL

	// Empty erases all objects under Prefix before uploading
	Empty bool

	// Files are uploaded in order
	Files []FileGroup
}

// FileGroup is one glob rule rooted at a source directory.
type FileGroup struct {
	// Source is the base directory the globs are matched against
	Source string

	// Globs are unioned; a file matched twice is uploaded once
	Globs []string

	// DefaultContentType is used when the extension is not recognized
	DefaultContentType string

	// SniffContentType inspects file content when the extension is not recognized
	SniffContentType bool

	// Headers override the computed object parameters
	Headers map[string]string
}

// ResourceRecord is one resource of the deployed stack.
type ResourceRecord struct {
	LogicalID  string
	PhysicalID string
}

// UploadJob describes a single object upload. It is created right before
// the request is issued and discarded afterwards.
type UploadJob struct {
	Bucket      string
	Key         string
	Body        []byte
	ContentType string
	ACL         ObjectACL
	Headers     map[string]string
}

// Trigger tells how a deployment was started.
type Trigger int

const (
	// TriggerCommand is an explicit deploy request
	TriggerCommand Trigger = iota

	// TriggerDeployFinished fires after a stack deployment; it only runs when Auto is set
	TriggerDeployFinished
)

// String implements fmt.Stringer.
func (t Trigger) String() string {
	if t == TriggerDeployFinished {
		return "deploy-finished"
	}
	return "command"
}

// TargetStatus is the terminal state of one target.
type TargetStatus int

const (
	StatusPending TargetStatus = iota
	StatusSkipped
	StatusFailed
	StatusCompleted
)

// String implements fmt.Stringer.
func (s TargetStatus) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	case StatusCompleted:
		return "completed"
	default:
		return "pending"
	}
}

// FileError records a single file that could not be uploaded.
type FileError struct {
	// Path is the file path relative to the group source
	Path string

	// Key is the object key the file was headed for, if known
	Key string

	// Err is the underlying error
	Err error
}

// TargetResult is the outcome of one target.
type TargetResult struct {
	// Index is the position of the target in the configuration
	Index int

	// Bucket is the resolved bucket name, empty when resolution failed
	Bucket string

	// Status is the terminal state
	Status TargetStatus

	// Err is the reason for StatusFailed
	Err error

	// FilesUploaded counts successful uploads
	FilesUploaded int

	// FilesFailed counts failed files, see Errors
	FilesFailed int

	// BytesUploaded is the total size of uploaded bodies
	BytesUploaded int64

	// ObjectsErased is the number of objects removed before uploading
	ObjectsErased int

	// Errors holds file-level failures that did not stop the target
	Errors []FileError
}

// Report is the outcome of a deployment run.
type Report struct {
	// Targets holds one result per configured target, in configuration order
	Targets []TargetResult

	// Skipped is set when the trigger did not start a run
	Skipped bool

	// Duration is how long the run took
	Duration time.Duration
}

// Failed reports whether any target failed or any file could not be uploaded.
func (r *Report) Failed() bool {
	for _, t := range r.Targets {
		if t.Status == StatusFailed || t.FilesFailed > 0 {
			return true
		}
	}
	return false
}

// Warnings returns every target and file error in configuration order.
func (r *Report) Warnings() []error {
	var warnings []error
	for _, t := range r.Targets {
		if t.Err != nil {
			warnings = append(warnings, t.Err)
		}
		for _, fe := range t.Errors {
			warnings = append(warnings, fe.Err)
		}
	}
	return warnings
}

// Configuration types for functional options

// ClientConfig holds configuration for the Deployer.
type ClientConfig struct {
	Region             string
	Endpoint           string
	StackName          string
	MaxRetries         int
	CustomAWSConfig    *aws.Config
	Logger             *slog.Logger
	Filesystem         billy.Filesystem
	MaxEraseIterations int
	MultipartThreshold int64
}

// DeployOptionConfig holds configuration for a single deployment run.
type DeployOptionConfig struct {
	// BucketFilter restricts the run to targets whose bucket resolves to this name
	BucketFilter string
}

type (
	// Option is a functional option for configuring the Deployer.
	Option func(*ClientConfig)
	// DeployOption is a functional option for configuring a deployment run.
	DeployOption func(*DeployOptionConfig)
)
