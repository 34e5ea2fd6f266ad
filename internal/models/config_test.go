package models

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 60, cfg.SimulationHorizon)
	assert.Equal(t, 5, cfg.ArrivalDenominator)
	assert.Equal(t, 8, cfg.ServiceDurationMin)
	assert.Equal(t, 12, cfg.ServiceDurationMax)
	assert.Equal(t, []int{3, 5, 8}, cfg.AgentPoolSizes)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero horizon is allowed", func(c *Config) { c.SimulationHorizon = 0 }, ""},
		{"single rider pool", func(c *Config) { c.AgentPoolSizes = []int{1} }, ""},
		{"equal service bounds", func(c *Config) { c.ServiceDurationMin, c.ServiceDurationMax = 10, 10 }, ""},
		{"negative horizon", func(c *Config) { c.SimulationHorizon = -5 }, "simulation_horizon"},
		{"zero denominator", func(c *Config) { c.ArrivalDenominator = 0 }, "arrival_probability_denominator"},
		{"zero service min", func(c *Config) { c.ServiceDurationMin = 0 }, "service_duration_min"},
		{"negative service max", func(c *Config) { c.ServiceDurationMax = -1 }, "service_duration_max"},
		{"min above max", func(c *Config) { c.ServiceDurationMin, c.ServiceDurationMax = 13, 12 }, "service_duration_min"},
		{"empty pools", func(c *Config) { c.AgentPoolSizes = []int{} }, "agent_pool_sizes"},
		{"zero pool", func(c *Config) { c.AgentPoolSizes = []int{3, 0} }, "agent_pool_sizes[1]"},
		{"negative workers", func(c *Config) { c.MaxWorkers = -2 }, "max_workers"},
		{"unknown format", func(c *Config) { c.OutputFormat = "xml" }, "output_format"},
		{"s3 without bucket", func(c *Config) {
			c.OutputFormat = OutputFormatParquet
			c.OutputDestination = OutputDestinationS3
		}, "cloud_storage.bucket_name"},
		{"gcs provider", func(c *Config) {
			c.OutputFormat = OutputFormatParquet
			c.OutputDestination = OutputDestinationS3
			c.CloudStorage.BucketName = "bucket"
			c.CloudStorage.Provider = "gcs"
		}, "cloud_storage.provider"},
		{"s3 needs parquet", func(c *Config) {
			c.OutputFormat = OutputFormatJSON
			c.OutputDestination = OutputDestinationS3
			c.CloudStorage.BucketName = "bucket"
		}, "output_destination"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestConfig_ValidateReportsEveryField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SimulationHorizon = -1
	cfg.ArrivalDenominator = 0
	cfg.AgentPoolSizes = []int{0}

	err := cfg.Validate()
	require.Error(t, err)
	for _, field := range []string{"simulation_horizon", "arrival_probability_denominator", "agent_pool_sizes[0]"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer func() { _ = os.Chdir(wd) }()

	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().AgentPoolSizes, cfg.AgentPoolSizes)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoadConfig_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ridersim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
seed: 7
simulation_horizon: 120
arrival_probability_denominator: 3
service_duration_min: 5
service_duration_max: 9
agent_pool_sizes: [2, 4, 6, 10]
parallel: true
output_format: parquet
output_destination: s3
cloud_storage:
  provider: s3
  region: eu-west-1
  bucket_name: rider-results
database:
  enabled: true
  host: localhost
  port: "5432"
  dbname: ridersim
`), 0o644))

	cfg, err := LoadConfig(viper.New(), path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 120, cfg.SimulationHorizon)
	assert.Equal(t, 3, cfg.ArrivalDenominator)
	assert.Equal(t, 5, cfg.ServiceDurationMin)
	assert.Equal(t, 9, cfg.ServiceDurationMax)
	assert.Equal(t, []int{2, 4, 6, 10}, cfg.AgentPoolSizes)
	assert.True(t, cfg.Parallel)
	assert.Equal(t, "rider-results", cfg.CloudStorage.BucketName)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Contains(t, cfg.Database.ConnString(), "dbname=ridersim")
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ridersim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation_horizon: 120\n"), 0o644))

	t.Setenv("RIDERSIM_SIMULATION_HORIZON", "30")
	t.Setenv("RIDERSIM_AGENT_POOL_SIZES", "1,2,3")

	cfg, err := LoadConfig(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.SimulationHorizon)
	assert.Equal(t, []int{1, 2, 3}, cfg.AgentPoolSizes)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
