package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sboussekeyt/spring-batch-rs/internal/config"
)

func TestLoad_MergesEmbeddedYAMLOverDefaults(t *testing.T) {
	yamlDoc := []byte(`
job:
  name: nightly-export
  commit_interval: 50
database:
  type: postgres
  dsn: postgres://localhost/batch
`)
	cfg, err := config.Load("", yamlDoc)
	require.NoError(t, err)
	assert.Equal(t, "nightly-export", cfg.Job.Name)
	assert.Equal(t, 50, cfg.Job.CommitInterval)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, 0, cfg.Job.SkipLimit, "unset fields keep their default")
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://env-wins/batch")

	yamlDoc := []byte(`
database:
  dsn: postgres://yaml-loses/batch
`)
	cfg, err := config.Load("", yamlDoc)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env-wins/batch", cfg.Database.DSN)
}
