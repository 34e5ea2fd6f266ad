package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/chrisdamba/ridersim/internal/models"
	"github.com/chrisdamba/ridersim/internal/output"
	"github.com/chrisdamba/ridersim/internal/report"
	"github.com/chrisdamba/ridersim/internal/repositories"
	"github.com/chrisdamba/ridersim/internal/repositories/postgres"
	"github.com/chrisdamba/ridersim/internal/simulator"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ridersim",
	Short: "Simulates a pool of delivery riders serving a stream of orders",
	Long: `ridersim steps a delivery rider pool through a fixed horizon one minute at a time,
queueing random order arrivals and assigning them to free riders in order. It runs the
simulation once per configured pool size and reports waiting time, throughput and queue length.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(viper.GetViper(), cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", cfg.LogLevel)
		}
		logrus.SetLevel(level)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		if err := runExperiment(ctx, cfg, os.Stdout); err != nil {
			logrus.WithError(err).Fatal("Simulation failed")
		}
	},
}

// flagKeys maps CLI flags onto configuration keys.
var flagKeys = map[string]string{
	"seed":                "seed",
	"horizon":             "simulation_horizon",
	"arrival-denominator": "arrival_probability_denominator",
	"service-min":         "service_duration_min",
	"service-max":         "service_duration_max",
	"riders":              "agent_pool_sizes",
	"parallel":            "parallel",
	"workers":             "max_workers",
	"emit-events":         "emit_events",
	"progress":            "show_progress",
	"log-level":           "log_level",
	"output-format":       "output_format",
	"output-path":         "output_path",
	"kafka-enabled":       "kafka_enabled",
	"kafka-broker-list":   "kafka_broker_list",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./ridersim.yaml)")

	d := models.DefaultConfig()
	rootCmd.Flags().Int64("seed", d.Seed, "Random seed for simulation")
	rootCmd.Flags().Int("horizon", d.SimulationHorizon, "Minutes to simulate")
	rootCmd.Flags().Int("arrival-denominator", d.ArrivalDenominator, "An order arrives each minute with probability 1/N")
	rootCmd.Flags().Int("service-min", d.ServiceDurationMin, "Shortest delivery in minutes")
	rootCmd.Flags().Int("service-max", d.ServiceDurationMax, "Longest delivery in minutes")
	rootCmd.Flags().IntSlice("riders", d.AgentPoolSizes, "Rider pool sizes to compare")
	rootCmd.Flags().Bool("parallel", d.Parallel, "Simulate pool sizes concurrently")
	rootCmd.Flags().Int("workers", d.MaxWorkers, "Concurrent runs when parallel (0 = no limit)")
	rootCmd.Flags().Bool("emit-events", d.EmitEvents, "Publish one record per rider assignment")
	rootCmd.Flags().Bool("progress", d.ShowProgress, "Show a progress bar")
	rootCmd.Flags().String("log-level", d.LogLevel, "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.Flags().String("output-format", d.OutputFormat, "Record sink format (console, json, csv, parquet)")
	rootCmd.Flags().String("output-path", d.OutputPath, "Base directory for file output")
	rootCmd.Flags().Bool("kafka-enabled", d.KafkaEnabled, "Publish records to Kafka")
	rootCmd.Flags().String("kafka-broker-list", d.KafkaBrokerList, "Kafka broker list")

	for flag, key := range flagKeys {
		cobra.CheckErr(viper.BindPFlag(key, rootCmd.Flags().Lookup(flag)))
	}
}

// runExperiment runs the configured experiment, prints the summary to stdout
// and hands the results to whichever sinks are configured.
func runExperiment(ctx context.Context, cfg *models.Config, stdout io.Writer) error {
	driver := simulator.NewDriver(cfg, logrus.StandardLogger())
	exp, err := driver.Run(ctx)
	if err != nil {
		return err
	}

	if err := report.PrintSummary(stdout, exp.Results); err != nil {
		return err
	}

	if cfg.KafkaEnabled || (cfg.OutputFormat != "" && cfg.OutputFormat != models.OutputFormatConsole) {
		if err := publish(ctx, cfg, exp); err != nil {
			return err
		}
	}

	if cfg.Database.Enabled {
		if err := persist(ctx, cfg, exp); err != nil {
			return err
		}
	}
	return nil
}

func publish(ctx context.Context, cfg *models.Config, exp *simulator.Experiment) (err error) {
	dest, err := output.NewDestination(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := dest.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing output: %w", closeErr)
		}
	}()

	return output.NewPublisher(dest, logrus.StandardLogger()).Publish(exp)
}

func persist(ctx context.Context, cfg *models.Config, exp *simulator.Experiment) error {
	pool, err := postgres.Connect(ctx, cfg.Database.ConnString())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer pool.Close()

	repo := postgres.NewSimulationResultRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("error preparing schema: %w", err)
	}
	if err := repo.BulkCreate(ctx, repositories.NewStoredResults(exp.ID, exp.Seed, exp.Results)); err != nil {
		return fmt.Errorf("error storing results: %w", err)
	}
	logrus.WithField("experiment", exp.ID).Infof("Stored %d results in PostgreSQL", len(exp.Results))
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
