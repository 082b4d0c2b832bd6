package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3deploy/deploytypes"
)

// newHookCmd groups the lifecycle hooks a deployment pipeline can call.
func newHookCmd(v *viper.Viper) *cobra.Command {
	hook := &cobra.Command{
		Use:   "hook",
		Short: "run a deployment lifecycle hook",
	}

	hook.AddCommand(&cobra.Command{
		Use:   "deploy-finished",
		Short: "deploy assets after a stack deployment when auto is enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDeploy(cmd, loadSettings(v), deploytypes.TriggerDeployFinished)
		},
	})

	return hook
}
