package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	OutputFormatConsole = "console"
	OutputFormatJSON    = "json"
	OutputFormatCSV     = "csv"
	OutputFormatParquet = "parquet"

	OutputDestinationLocal = "local"
	OutputDestinationS3    = "s3"
)

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ConnString returns a libpq style connection string understood by pgxpool.
func (d DatabaseConfig) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type Config struct {
	Seed               int64  `mapstructure:"seed"`
	SimulationHorizon  int    `mapstructure:"simulation_horizon"` // minutes
	ArrivalDenominator int    `mapstructure:"arrival_probability_denominator"`
	ServiceDurationMin int    `mapstructure:"service_duration_min"`
	ServiceDurationMax int    `mapstructure:"service_duration_max"`
	AgentPoolSizes     []int  `mapstructure:"agent_pool_sizes"`
	Parallel           bool   `mapstructure:"parallel"`
	MaxWorkers         int    `mapstructure:"max_workers"`
	EmitEvents         bool   `mapstructure:"emit_events"`
	ShowProgress       bool   `mapstructure:"show_progress"`
	LogLevel           string `mapstructure:"log_level"`

	OutputFormat      string             `mapstructure:"output_format"`
	OutputDestination string             `mapstructure:"output_destination"`
	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`

	KafkaEnabled     bool   `mapstructure:"kafka_enabled"`
	KafkaBrokerList  string `mapstructure:"kafka_broker_list"`
	SessionTimeoutMs int    `mapstructure:"session_timeout_ms"`

	Database DatabaseConfig `mapstructure:"database"`
}

// DefaultConfig mirrors the classic experiment: one hour, an order every five
// minutes on average, 8-12 minute deliveries, pools of 3, 5 and 8 riders.
func DefaultConfig() *Config {
	return &Config{
		Seed:               42,
		SimulationHorizon:  60,
		ArrivalDenominator: 5,
		ServiceDurationMin: 8,
		ServiceDurationMax: 12,
		AgentPoolSizes:     []int{3, 5, 8},
		LogLevel:           "info",
		OutputFormat:       OutputFormatConsole,
		OutputDestination:  OutputDestinationLocal,
		OutputFolder:       "simulation_output",
		KafkaBrokerList:    "localhost:9092",
	}
}

// SetDefaults registers DefaultConfig values on v so that config files, env
// vars and flags only need to override what they change.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("seed", d.Seed)
	v.SetDefault("simulation_horizon", d.SimulationHorizon)
	v.SetDefault("arrival_probability_denominator", d.ArrivalDenominator)
	v.SetDefault("service_duration_min", d.ServiceDurationMin)
	v.SetDefault("service_duration_max", d.ServiceDurationMax)
	v.SetDefault("agent_pool_sizes", d.AgentPoolSizes)
	v.SetDefault("parallel", d.Parallel)
	v.SetDefault("max_workers", d.MaxWorkers)
	v.SetDefault("emit_events", d.EmitEvents)
	v.SetDefault("show_progress", d.ShowProgress)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("output_format", d.OutputFormat)
	v.SetDefault("output_destination", d.OutputDestination)
	v.SetDefault("output_path", d.OutputPath)
	v.SetDefault("output_folder", d.OutputFolder)
	v.SetDefault("kafka_enabled", d.KafkaEnabled)
	v.SetDefault("kafka_broker_list", d.KafkaBrokerList)
	v.SetDefault("session_timeout_ms", d.SessionTimeoutMs)
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.sslmode", "disable")
}

// LoadConfig reads the configuration through v. An explicit cfgFile must
// exist; without one, a missing ridersim.yaml in the working directory is not
// an error and defaults apply.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("ridersim")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("ridersim")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}

// Validate reports every invalid field at once. The returned error matches
// ErrInvalidConfig.
func (cfg *Config) Validate() error {
	var errs []error
	if cfg.SimulationHorizon < 0 {
		errs = append(errs, newConfigError("simulation_horizon", "must not be negative, got %d", cfg.SimulationHorizon))
	}
	if cfg.ArrivalDenominator < 1 {
		errs = append(errs, newConfigError("arrival_probability_denominator", "must be at least 1, got %d", cfg.ArrivalDenominator))
	}
	if cfg.ServiceDurationMin <= 0 {
		errs = append(errs, newConfigError("service_duration_min", "must be positive, got %d", cfg.ServiceDurationMin))
	}
	if cfg.ServiceDurationMax <= 0 {
		errs = append(errs, newConfigError("service_duration_max", "must be positive, got %d", cfg.ServiceDurationMax))
	}
	if cfg.ServiceDurationMin > cfg.ServiceDurationMax {
		errs = append(errs, newConfigError("service_duration_min", "%d exceeds service_duration_max %d", cfg.ServiceDurationMin, cfg.ServiceDurationMax))
	}
	if len(cfg.AgentPoolSizes) == 0 {
		errs = append(errs, newConfigError("agent_pool_sizes", "must list at least one pool size"))
	}
	for i, n := range cfg.AgentPoolSizes {
		if n <= 0 {
			errs = append(errs, newConfigError(fmt.Sprintf("agent_pool_sizes[%d]", i), "must be positive, got %d", n))
		}
	}
	if cfg.MaxWorkers < 0 {
		errs = append(errs, newConfigError("max_workers", "must not be negative, got %d", cfg.MaxWorkers))
	}
	switch cfg.OutputFormat {
	case "", OutputFormatConsole, OutputFormatJSON, OutputFormatCSV, OutputFormatParquet:
	default:
		errs = append(errs, newConfigError("output_format", "unsupported format %q", cfg.OutputFormat))
	}
	switch cfg.OutputDestination {
	case "", OutputDestinationLocal:
	case OutputDestinationS3:
		if cfg.OutputFormat != OutputFormatParquet {
			errs = append(errs, newConfigError("output_destination", "s3 requires parquet output, got %q", cfg.OutputFormat))
		}
		if cfg.CloudStorage.BucketName == "" {
			errs = append(errs, newConfigError("cloud_storage.bucket_name", "required for s3 output"))
		}
		if p := cfg.CloudStorage.Provider; p != "" && p != OutputDestinationS3 {
			errs = append(errs, newConfigError("cloud_storage.provider", "unsupported provider %q", p))
		}
	default:
		errs = append(errs, newConfigError("output_destination", "unsupported destination %q", cfg.OutputDestination))
	}
	return errors.Join(errs...)
}
