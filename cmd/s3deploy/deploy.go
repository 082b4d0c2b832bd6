package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/config"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/deploytypes"
)

func newDeployCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "deploy every configured asset target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDeploy(cmd, loadSettings(v), deploytypes.TriggerCommand)
		},
	}
}

// runDeploy loads the descriptor, runs the deployment and reports the
// outcome. Target and file failures are printed as warnings; only a failed
// run returns an error.
func runDeploy(cmd *cobra.Command, s settings, trigger deploytypes.Trigger) error {
	path, err := filepath.Abs(s.Config)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	// Sources are relative to the descriptor's directory.
	projectFS := osfs.New(filepath.Dir(path))
	project, err := config.Load(projectFS, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", s.Config, err)
	}

	if s.Stage != "" {
		project.Stage = s.Stage
	}
	if s.Region != "" {
		project.Region = s.Region
	}
	if s.Stack != "" {
		project.Stack = s.Stack
	}

	verbose := s.Verbose || project.Assets.Verbose
	logger := newLogger(cmd.ErrOrStderr(), verbose)

	deployer, err := s3deploy.New(cmd.Context(), project.Assets,
		s3deploy.WithRegion(project.Region),
		s3deploy.WithEndpoint(s.Endpoint),
		s3deploy.WithStackName(project.StackName()),
		s3deploy.WithFilesystem(projectFS),
		s3deploy.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create deployer: %w", err)
	}

	report, err := deployer.Deploy(cmd.Context(), trigger, s3deploy.WithBucketFilter(s.Bucket))
	if err != nil {
		return fmt.Errorf("deployment failed: %w", err)
	}

	printReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), report, verbose)
	return nil
}

// printReport writes warnings to errOut. The per-target summary is only
// written in verbose mode, so a successful quiet run prints nothing.
func printReport(out, errOut io.Writer, report *deploytypes.Report, verbose bool) {
	for _, warning := range report.Warnings() {
		fmt.Fprintf(errOut, "warning: %v\n", warning)
	}

	if !verbose {
		return
	}

	if report.Skipped {
		fmt.Fprintln(out, "auto deployment disabled, nothing to do")
		return
	}

	for _, t := range report.Targets {
		bucket := t.Bucket
		if bucket == "" {
			bucket = "-"
		}
		fmt.Fprintf(out, "target %d: %s bucket=%s uploaded=%d failed=%d size=%s\n",
			t.Index, t.Status, bucket, t.FilesUploaded, t.FilesFailed,
			humanize.Bytes(uint64(t.BytesUploaded)))
	}
}
