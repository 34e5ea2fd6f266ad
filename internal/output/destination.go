package output

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/chrisdamba/ridersim/internal/cloudwriter"
	"github.com/chrisdamba/ridersim/internal/models"
)

const (
	TopicSimulationResults = "simulation_results"
	TopicChartPoints       = "chart_points"
	TopicAssignmentEvents  = "rider_assignment_events"
)

// Destination receives serialised records grouped by topic.
type Destination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

type ConsoleOutput struct {
	w io.Writer
}

func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleOutput{w: w}
}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	if _, err := fmt.Fprintf(c.w, "[%s] %s\n", topic, msg); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error {
	return nil
}

// NewDestination picks the sink described by config. Kafka wins over file
// output; with neither configured records go to stdout.
func NewDestination(ctx context.Context, config *models.Config) (Destination, error) {
	if config.KafkaEnabled {
		return NewSaramaProducer(config)
	}

	switch config.OutputFormat {
	case models.OutputFormatJSON:
		return NewJSONOutput(config.OutputPath, config.OutputFolder), nil
	case models.OutputFormatCSV:
		return NewCSVOutput(config.OutputPath, config.OutputFolder), nil
	case models.OutputFormatParquet:
		var factory cloudwriter.CloudWriterFactory
		if config.OutputDestination == models.OutputDestinationS3 {
			s3Factory, err := cloudwriter.NewS3WriterFactory(ctx, config.CloudStorage.Region)
			if err != nil {
				return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
			}
			factory = s3Factory
		}
		return NewParquetOutput(config.OutputPath, config.OutputFolder, factory, config.CloudStorage.BucketName), nil
	case "", models.OutputFormatConsole:
		return NewConsoleOutput(os.Stdout), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", config.OutputFormat)
	}
}
