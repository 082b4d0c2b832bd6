package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDescriptor writes a descriptor into a fresh directory and returns its path.
func writeDescriptor(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "serverless.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dist"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dist", "app.js"), []byte("x"), 0o644))
	return path
}

// execute runs the command tree with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("SLS_DEBUG", "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

const literalDescriptor = `
service: site
provider:
  region: eu-west-1
custom:
  assets:
    targets:
      - bucket: assets
        files:
          - source: dist
            globs: "**/*.js"
`

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd()

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{name: "config", shorthand: "c", defValue: "serverless.yml"},
		{name: "bucket", shorthand: "b", defValue: ""},
		{name: "stage", shorthand: "s", defValue: ""},
		{name: "region", shorthand: "r", defValue: ""},
		{name: "stack", defValue: ""},
		{name: "endpoint", defValue: ""},
		{name: "verbose", shorthand: "v", defValue: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}

	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "deploy")
	assert.Contains(t, names, "hook")
}

func TestHookDeployFinished_AutoDisabled(t *testing.T) {
	path := writeDescriptor(t, literalDescriptor)

	t.Run("quiet", func(t *testing.T) {
		out, errOut, err := execute(t, "hook", "deploy-finished", "--config", path)
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.Empty(t, errOut)
	})

	t.Run("verbose", func(t *testing.T) {
		out, _, err := execute(t, "hook", "deploy-finished", "--config", path, "-v")
		require.NoError(t, err)
		assert.Contains(t, out, "auto deployment disabled")
	})
}

func TestDeploy_NoTargets(t *testing.T) {
	path := writeDescriptor(t, "service: site\n")

	out, errOut, err := execute(t, "deploy", "-c", path)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Empty(t, errOut)
}

func TestDeploy_BucketFilter(t *testing.T) {
	path := writeDescriptor(t, literalDescriptor)

	t.Run("quiet on success", func(t *testing.T) {
		out, errOut, err := execute(t, "deploy", "-c", path, "-b", "other")
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.Empty(t, errOut)
	})

	t.Run("verbose flag", func(t *testing.T) {
		out, errOut, err := execute(t, "deploy", "-c", path, "-b", "other", "-v")
		require.NoError(t, err)
		assert.Contains(t, out, "target 0: skipped bucket=assets")
		assert.Contains(t, errOut, "skipping target, bucket filtered out")
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("S3DEPLOY_BUCKET", "other")
		t.Setenv("S3DEPLOY_VERBOSE", "true")

		out, _, err := execute(t, "deploy", "-c", path)
		require.NoError(t, err)
		assert.Contains(t, out, "target 0: skipped bucket=assets")
	})
}

func TestDeploy_VerboseFromDescriptor(t *testing.T) {
	path := writeDescriptor(t, `
service: site
provider:
  region: eu-west-1
custom:
  assets:
    verbose: true
    targets:
      - bucket: assets
        files:
          - source: dist
            globs: "**/*.js"
`)

	out, errOut, err := execute(t, "deploy", "-c", path, "-b", "other")
	require.NoError(t, err)
	assert.Contains(t, out, "target 0: skipped bucket=assets")
	assert.Contains(t, errOut, "level=DEBUG")
	assert.Contains(t, errOut, "skipping target, bucket filtered out")
}

func TestDeploy_WarningsAlwaysShown(t *testing.T) {
	path := writeDescriptor(t, `
service: site
provider:
  region: eu-west-1
custom:
  assets:
    targets:
      - bucket: [not, a, name]
        files:
          - source: dist
            globs: "**/*.js"
`)

	out, errOut, err := execute(t, "deploy", "-c", path)
	require.NoError(t, err, "target failures do not fail the command")
	assert.Empty(t, out)
	assert.Contains(t, errOut, "warning:")
	assert.Contains(t, errOut, "invalid bucket")
}

func TestDeploy_Errors(t *testing.T) {
	t.Run("missing descriptor", func(t *testing.T) {
		_, _, err := execute(t, "deploy", "-c", filepath.Join(t.TempDir(), "missing.yml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load")
	})

	t.Run("invalid descriptor", func(t *testing.T) {
		path := writeDescriptor(t, `
custom:
  assets:
    targets:
      - bucket: assets
        files:
          - globs: "*.js"
`)
		_, _, err := execute(t, "deploy", "-c", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "targets[0].files[0].source")
	})

	t.Run("unexpected argument", func(t *testing.T) {
		_, _, err := execute(t, "deploy", "extra")
		require.Error(t, err)
	})
}

func TestLoadSettings(t *testing.T) {
	t.Run("sls debug forces verbose", func(t *testing.T) {
		t.Setenv("SLS_DEBUG", "*")

		s := loadSettings(viper.New())
		assert.True(t, s.Verbose)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("SLS_DEBUG", "")

		s := loadSettings(viper.New())
		assert.False(t, s.Verbose)
		assert.Empty(t, s.Bucket)
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	newLogger(&buf, false).Debug("hidden")
	newLogger(&buf, false).Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	newLogger(&buf, true).Debug("detail")
	assert.Contains(t, buf.String(), "detail")
}
