// Package config loads the project descriptor and normalizes its assets
// section into a deployment configuration.
//
// The descriptor is a serverless.yml style document. Only the keys needed
// to deploy assets are read:
//
//	service: my-app
//	provider:
//	  stage: dev
//	  region: eu-west-1
//	custom:
//	  assets:
//	    auto: true
//	    targets:
//	      - bucket: { ref: AssetsBucket }
//	        prefix: static/
//	        files:
//	          - source: dist
//	            globs: "**/*.js"
//
// Older descriptors list the targets directly under assets, or describe a
// single target without the targets key. Both shapes are accepted.
package config

import (
	"fmt"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/deploytypes"
)

// Defaults for descriptor fields that are not set.
const (
	DefaultPath   = "serverless.yml"
	DefaultStage  = "dev"
	DefaultRegion = "us-east-1"
)

// Project is a loaded project descriptor.
type Project struct {
	// Service is the service name
	Service string

	// Stage is the deployment stage
	Stage string

	// Region is the AWS region
	Region string

	// Stack overrides the derived stack name when set
	Stack string

	// Assets is the normalized assets configuration
	Assets *deploytypes.DeploymentConfig
}

// StackName returns the CloudFormation stack that holds the project
// resources: the explicit stack name when set, otherwise "<service>-<stage>".
func (p *Project) StackName() string {
	if p.Stack != "" {
		return p.Stack
	}
	if p.Service == "" {
		return ""
	}
	return fmt.Sprintf("%s-%s", p.Service, p.Stage)
}
