// Package s3deploy provides Deployer initialization and configuration.
package s3deploy

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/deploytypes"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/internal/awsapi"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/internal/operations/erase"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/internal/operations/upload"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/internal/scanner"
)

// Deployer runs asset deployments for one configuration.
// It is safe for concurrent use; each Deploy call is an independent run.
type Deployer struct {
	// config is the normalized deployment configuration
	config *deploytypes.DeploymentConfig

	// s3Client is used for erasing and uploading
	s3Client awsapi.S3API

	// cfnClient is used to load the stack inventory
	cfnClient awsapi.CloudFormationAPI

	// stackName is the stack whose resources resolve bucket references
	stackName string

	logger   *slog.Logger
	scanner  *scanner.Scanner
	eraser   *erase.Eraser
	pipeline *upload.Pipeline
}

// New creates a Deployer for cfg. It loads AWS credentials using the
// default credential chain and applies the specified options.
//
// Example:
//
//	deployer, err := s3deploy.New(ctx, cfg,
//	    s3deploy.WithRegion("eu-west-1"),
//	    s3deploy.WithStackName("my-app-dev"),
//	)
func New(ctx context.Context, cfg *deploytypes.DeploymentConfig, opts ...deploytypes.Option) (*Deployer, error) {
	clientCfg := newClientConfig(opts)

	var awsCfg aws.Config
	if clientCfg.CustomAWSConfig != nil {
		awsCfg = *clientCfg.CustomAWSConfig
	} else {
		var loadOpts []func(*config.LoadOptions) error
		if clientCfg.Region != "" {
			loadOpts = append(loadOpts, config.WithRegion(clientCfg.Region))
		}

		var err error
		awsCfg, err = config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, errors.NewError("client initialization", err)
		}
	}

	if clientCfg.Region != "" {
		awsCfg.Region = clientCfg.Region
	} else if awsCfg.Region == "" {
		awsCfg.Region = "us-east-1"
	}

	if clientCfg.MaxRetries > 0 {
		awsCfg.RetryMaxAttempts = clientCfg.MaxRetries
	}

	var (
		s3Opts  []func(*s3.Options)
		cfnOpts []func(*cloudformation.Options)
	)
	if clientCfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(clientCfg.Endpoint)
			o.UsePathStyle = true
		})
		cfnOpts = append(cfnOpts, func(o *cloudformation.Options) {
			o.BaseEndpoint = aws.String(clientCfg.Endpoint)
		})
	}

	return newDeployer(
		cfg,
		s3.NewFromConfig(awsCfg, s3Opts...),
		cloudformation.NewFromConfig(awsCfg, cfnOpts...),
		clientCfg,
	)
}

// NewWithClients creates a Deployer with custom S3 and CloudFormation
// implementations. This is primarily used for testing with mocked clients.
func NewWithClients(
	cfg *deploytypes.DeploymentConfig,
	s3Client awsapi.S3API,
	cfnClient awsapi.CloudFormationAPI,
	opts ...deploytypes.Option,
) (*Deployer, error) {
	return newDeployer(cfg, s3Client, cfnClient, newClientConfig(opts))
}

func newClientConfig(opts []deploytypes.Option) *deploytypes.ClientConfig {
	clientCfg := &deploytypes.ClientConfig{
		MaxRetries:         3,
		MaxEraseIterations: deploytypes.DefaultMaxEraseIterations,
		MultipartThreshold: upload.DefaultMultipartThreshold,
	}
	for _, opt := range opts {
		opt(clientCfg)
	}
	return clientCfg
}

func newDeployer(
	cfg *deploytypes.DeploymentConfig,
	s3Client awsapi.S3API,
	cfnClient awsapi.CloudFormationAPI,
	clientCfg *deploytypes.ClientConfig,
) (*Deployer, error) {
	if cfg == nil {
		return nil, errors.NewError("client initialization", errors.ErrInvalidConfig).
			WithMessage("deployment configuration is nil")
	}

	logger := clientCfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	filesystem := clientCfg.Filesystem
	if filesystem == nil {
		filesystem = defaultFilesystem()
	}

	return &Deployer{
		config:    cfg,
		s3Client:  s3Client,
		cfnClient: cfnClient,
		stackName: clientCfg.StackName,
		logger:    logger,
		scanner:   scanner.NewScanner(filesystem),
		eraser: erase.New(s3Client,
			erase.WithMaxIterations(clientCfg.MaxEraseIterations),
			erase.WithLogger(logger),
		),
		pipeline: upload.New(s3Client, filesystem,
			upload.WithMultipartThreshold(clientCfg.MultipartThreshold),
			upload.WithLogger(logger),
		),
	}, nil
}

// defaultFilesystem is the OS filesystem rooted at the working directory,
// so relative source directories resolve the usual way.
func defaultFilesystem() billy.Filesystem {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return osfs.New(wd)
}

// Config returns the deployment configuration the Deployer was created with.
func (d *Deployer) Config() *deploytypes.DeploymentConfig {
	return d.config
}
