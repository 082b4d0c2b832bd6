// Package s3deploy provides functional options for configuring the Deployer.
// These options follow the functional options pattern for clean, composable configuration.
package s3deploy

import (
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/go-git/go-billy/v5"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/deploytypes"
)

// WithLogger configures the Deployer with a custom logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) deploytypes.Option {
	return func(c *deploytypes.ClientConfig) {
		c.Logger = logger
	}
}

// WithRegion sets the AWS region.
// If not specified, uses the region from the default credential chain.
func WithRegion(region string) deploytypes.Option {
	return func(c *deploytypes.ClientConfig) {
		c.Region = region
	}
}

// WithEndpoint sets a custom endpoint for S3 and CloudFormation.
// This is useful for local testing with LocalStack. Path-style addressing
// is enabled for S3 when an endpoint is set.
func WithEndpoint(endpoint string) deploytypes.Option {
	return func(c *deploytypes.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithStackName sets the CloudFormation stack used to resolve bucket references.
func WithStackName(stackName string) deploytypes.Option {
	return func(c *deploytypes.ClientConfig) {
		c.StackName = stackName
	}
}

// WithMaxRetries sets the maximum number of attempts for failed AWS requests.
// Default is 3.
func WithMaxRetries(maxRetries int) deploytypes.Option {
	return func(c *deploytypes.ClientConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithAWSConfig allows providing a custom AWS configuration.
// This overrides the default configuration loading behavior.
func WithAWSConfig(config *aws.Config) deploytypes.Option {
	return func(c *deploytypes.ClientConfig) {
		c.CustomAWSConfig = config
	}
}

// WithFilesystem sets the filesystem source directories are read from.
// If not specified, defaults to the OS filesystem rooted at the working directory.
func WithFilesystem(filesystem billy.Filesystem) deploytypes.Option {
	return func(c *deploytypes.ClientConfig) {
		c.Filesystem = filesystem
	}
}

// WithMaxEraseIterations caps the list and delete cycles of a single erase.
// Default is 1000.
func WithMaxEraseIterations(n int) deploytypes.Option {
	return func(c *deploytypes.ClientConfig) {
		if n > 0 {
			c.MaxEraseIterations = n
		}
	}
}

// WithMultipartThreshold sets the file size from which uploads use multipart.
// Default is 100MB.
func WithMultipartThreshold(size int64) deploytypes.Option {
	return func(c *deploytypes.ClientConfig) {
		if size > 0 {
			c.MultipartThreshold = size
		}
	}
}

// WithBucketFilter restricts a run to the targets whose bucket resolves to name.
// Other targets are reported as skipped.
func WithBucketFilter(name string) deploytypes.DeployOption {
	return func(c *deploytypes.DeployOptionConfig) {
		c.BucketFilter = name
	}
}
