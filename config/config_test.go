package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
job:
  left_root: /data/expected
  right_root: /data/actual
  mode: sampled
  sample_rate: 0.25
  extensions: [".parquet"]
  key_columns: ["id", "region"]
  ignore_columns: ["loaded_at"]
  sorted_columns: ["tags"]
server:
  port: "8080"
  prefork: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/expected", cfg.Job.LeftRoot)
	assert.Equal(t, "/data/actual", cfg.Job.RightRoot)
	assert.Equal(t, "sampled", cfg.Job.Mode)
	assert.Equal(t, 0.25, cfg.Job.SampleRate)
	assert.Equal(t, []string{".parquet"}, cfg.Job.Extensions)
	assert.Equal(t, []string{"id", "region"}, cfg.Job.KeyColumns)
	assert.Equal(t, []string{"loaded_at"}, cfg.Job.IgnoreColumns)
	assert.Equal(t, []string{"tags"}, cfg.Job.SortedColumns)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.Prefork)

	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateRequiresRoots(t *testing.T) {
	cfg := &Config{Job: JobConfig{RightRoot: "/data/actual"}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "left_root is required")

	cfg = &Config{Job: JobConfig{LeftRoot: "/data/expected"}}
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "right_root is required")
}

func TestValidateMode(t *testing.T) {
	base := JobConfig{LeftRoot: "/l", RightRoot: "/r"}

	for _, mode := range []string{"", "exact", "deep"} {
		jc := base
		jc.Mode = mode
		assert.NoError(t, jc.Validate(), "mode %q", mode)
	}

	jc := base
	jc.Mode = "fuzzy"
	err := jc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateSampledRate(t *testing.T) {
	jc := JobConfig{LeftRoot: "/l", RightRoot: "/r", Mode: "sampled"}
	err := jc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sample_rate")

	jc.SampleRate = 1.5
	assert.Error(t, jc.Validate())

	jc.SampleRate = 0.5
	assert.NoError(t, jc.Validate())
}
