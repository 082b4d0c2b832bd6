package config

import (
	"fmt"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/deploytypes"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/internal/operations/upload"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/internal/scanner"
)

// validate checks a normalized configuration and reports every problem
// with the index of the offending target and file group. Bucket problems
// are left to resolution so they fail only their own target.
func validate(cfg *deploytypes.DeploymentConfig) error {
	var problems []string

	if cfg.UploadConcurrency < 1 {
		problems = append(problems,
			fmt.Sprintf("uploadConcurrency must be at least 1, got %d", cfg.UploadConcurrency))
	}

	for i, target := range cfg.Targets {
		for j, group := range target.Files {
			if group.Source == "" {
				problems = append(problems, fmt.Sprintf("targets[%d].files[%d].source: source is required", i, j))
			}
			if err := scanner.ValidatePatterns(group.Globs); err != nil {
				problems = append(problems, fmt.Sprintf("targets[%d].files[%d].globs: %v", i, j, err))
			}
			if err := upload.ValidateHeaders(group.Headers); err != nil {
				problems = append(problems, fmt.Sprintf("targets[%d].files[%d].headers: %v", i, j, err))
			}
		}
	}

	if len(problems) > 0 {
		return errors.NewError("config", errors.ErrInvalidConfig).
			WithMessage(strings.Join(problems, "; "))
	}
	return nil
}
