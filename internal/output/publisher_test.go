package output

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chrisdamba/ridersim/internal/models"
	"github.com/chrisdamba/ridersim/internal/simulator"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	topic string
	msg   []byte
}

type recordingDestination struct {
	records []record
	failOn  string
}

func (r *recordingDestination) WriteMessage(topic string, msg []byte) error {
	if topic == r.failOn {
		return errors.New("broker unavailable")
	}
	r.records = append(r.records, record{topic: topic, msg: msg})
	return nil
}

func (r *recordingDestination) Close() error { return nil }

func (r *recordingDestination) topics() []string {
	topics := make([]string, len(r.records))
	for i, rec := range r.records {
		topics[i] = rec.topic
	}
	return topics
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func sampleExperiment() *simulator.Experiment {
	return &simulator.Experiment{
		ID:        "ckexp0001",
		Seed:      42,
		StartedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Results: []models.SimulationResult{
			{NumRiders: 3, CompletedOrders: 10, AvgWait: 2.5, MaxWait: 7, CallsWaited: 4, MaxQueue: 3, TotalArrivals: 11, StillQueued: 1},
			{NumRiders: 5, CompletedOrders: 11, AvgWait: 0.5, MaxWait: 2, CallsWaited: 1, MaxQueue: 1, TotalArrivals: 11},
		},
	}
}

func TestPublisher_ResultsThenChartPoints(t *testing.T) {
	dest := &recordingDestination{}
	require.NoError(t, NewPublisher(dest, quietLogger()).Publish(sampleExperiment()))

	require.Len(t, dest.records, 2+3*2)
	assert.Equal(t, TopicSimulationResults, dest.records[0].topic)
	assert.Equal(t, TopicSimulationResults, dest.records[1].topic)
	for _, rec := range dest.records[2:] {
		assert.Equal(t, TopicChartPoints, rec.topic)
	}

	var first ResultMessage
	require.NoError(t, json.Unmarshal(dest.records[0].msg, &first))
	assert.Equal(t, ResultMessage{
		ExperimentID:    "ckexp0001",
		Seed:            42,
		RecordedAt:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).Unix(),
		Position:        0,
		NumRiders:       3,
		CompletedOrders: 10,
		AvgWait:         2.5,
		MaxWait:         7,
		CallsWaited:     4,
		MaxQueue:        3,
		TotalArrivals:   11,
		StillQueued:     1,
	}, first)

	var point ChartPointMessage
	require.NoError(t, json.Unmarshal(dest.records[2].msg, &point))
	assert.Equal(t, ChartPointMessage{ExperimentID: "ckexp0001", Chart: "average_waiting_time", Label: "3 Riders", NumRiders: 3, Value: 2.5}, point)
}

func TestPublisher_AssignmentEvents(t *testing.T) {
	exp := sampleExperiment()
	exp.Events = [][]models.AssignmentEvent{
		{{NumRiders: 3, Minute: 0, OrderID: "order-000001", RiderID: "rider-1", RiderName: "Ada Lovelace", DeliveryMinutes: 9, BusyUntil: 9}},
		nil,
	}

	dest := &recordingDestination{}
	require.NoError(t, NewPublisher(dest, quietLogger()).Publish(exp))

	topics := dest.topics()
	require.Len(t, topics, 9)
	assert.Equal(t, TopicAssignmentEvents, topics[8])

	var event AssignmentMessage
	require.NoError(t, json.Unmarshal(dest.records[8].msg, &event))
	assert.Equal(t, "Ada Lovelace", event.RiderName)
	assert.Equal(t, int64(9), event.BusyUntil)
	assert.Equal(t, "ckexp0001", event.ExperimentID)
}

func TestPublisher_StopsOnWriteError(t *testing.T) {
	dest := &recordingDestination{failOn: TopicChartPoints}
	err := NewPublisher(dest, quietLogger()).Publish(sampleExperiment())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
	assert.Len(t, dest.records, 2)
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	out := NewConsoleOutput(&buf)

	require.NoError(t, out.WriteMessage(TopicSimulationResults, []byte(`{"num_riders":3}`)))
	require.NoError(t, out.Close())
	assert.Equal(t, "[simulation_results] {\"num_riders\":3}\n", buf.String())
}

func TestNewDestination(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		format string
		want   interface{}
	}{
		{models.OutputFormatConsole, &ConsoleOutput{}},
		{"", &ConsoleOutput{}},
		{models.OutputFormatJSON, &JSONOutput{}},
		{models.OutputFormatCSV, &CSVOutput{}},
		{models.OutputFormatParquet, &ParquetOutput{}},
	}
	for _, tt := range tests {
		t.Run("format "+tt.format, func(t *testing.T) {
			cfg := models.DefaultConfig()
			cfg.OutputFormat = tt.format
			cfg.OutputPath = t.TempDir()

			dest, err := NewDestination(ctx, cfg)
			require.NoError(t, err)
			defer dest.Close()
			assert.IsType(t, tt.want, dest)
		})
	}

	cfg := models.DefaultConfig()
	cfg.OutputFormat = "xml"
	_, err := NewDestination(ctx, cfg)
	assert.Error(t, err)
}

func TestPublisher_EndToEndJSON(t *testing.T) {
	dir := t.TempDir()
	dest := NewJSONOutput(dir, "out")
	require.NoError(t, NewPublisher(dest, quietLogger()).Publish(sampleExperiment()))
	require.NoError(t, dest.Close())

	lines := readLines(t, filepath.Join(dir, "out", TopicSimulationResults, "data.json"))
	require.Len(t, lines, 2)
	assert.True(t, strings.Contains(lines[1], `"num_riders":5`))
}
