package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "S3DEPLOY"

// settings are the resolved values of the persistent flags.
type settings struct {
	Config   string
	Bucket   string
	Stage    string
	Region   string
	Stack    string
	Endpoint string
	Verbose  bool
}

// newRootCmd builds the command tree. Flags can also be set through
// S3DEPLOY_* environment variables, e.g. S3DEPLOY_STAGE=prod.
func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "s3deploy",
		Short: "deploy static assets to S3 buckets",
		Long: `s3deploy uploads the files listed in the custom.assets section of a
project descriptor to S3. Buckets are given by name or by the logical id
of a resource in the project's CloudFormation stack.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "serverless.yml", "project descriptor path")
	flags.StringP("bucket", "b", "", "only deploy targets whose bucket has this name")
	flags.StringP("stage", "s", "", "deployment stage (overrides provider.stage)")
	flags.StringP("region", "r", "", "AWS region (overrides provider.region)")
	flags.String("stack", "", "CloudFormation stack name (default <service>-<stage>)")
	flags.String("endpoint", "", "custom AWS endpoint, e.g. a LocalStack URL")
	flags.BoolP("verbose", "v", false, "log every step of the deployment")

	_ = v.BindPFlags(flags)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(newDeployCmd(v), newHookCmd(v))
	return root
}

// loadSettings reads the flag values through viper so that environment
// variables apply when a flag is not given.
func loadSettings(v *viper.Viper) settings {
	s := settings{
		Config:   v.GetString("config"),
		Bucket:   v.GetString("bucket"),
		Stage:    v.GetString("stage"),
		Region:   v.GetString("region"),
		Stack:    v.GetString("stack"),
		Endpoint: v.GetString("endpoint"),
		Verbose:  v.GetBool("verbose"),
	}
	if os.Getenv("SLS_DEBUG") != "" {
		s.Verbose = true
	}
	return s
}

// newLogger logs to w. Only warnings are shown unless verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
