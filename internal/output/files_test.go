package output

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	return lines
}

func TestJSONOutput_WritesOneFilePerTopic(t *testing.T) {
	dir := t.TempDir()
	out := NewJSONOutput(dir, "run")

	require.NoError(t, out.WriteMessage(TopicSimulationResults, []byte(`{"num_riders":3}`)))
	require.NoError(t, out.WriteMessage(TopicSimulationResults, []byte(`{"num_riders":5}`)))
	require.NoError(t, out.WriteMessage(TopicChartPoints, []byte(`{"chart":"completed_orders"}`)))
	require.NoError(t, out.Close())

	results := readLines(t, filepath.Join(dir, "run", TopicSimulationResults, "data.json"))
	assert.Equal(t, []string{`{"num_riders":3}`, `{"num_riders":5}`}, results)

	points := readLines(t, filepath.Join(dir, "run", TopicChartPoints, "data.json"))
	assert.Len(t, points, 1)
}

func TestJSONOutput_RejectsInvalidJSON(t *testing.T) {
	out := NewJSONOutput(t.TempDir(), "run")
	defer out.Close()

	assert.Error(t, out.WriteMessage(TopicSimulationResults, []byte("not json")))
}

func TestCSVOutput_SortedHeaderAndRows(t *testing.T) {
	dir := t.TempDir()
	out := NewCSVOutput(dir, "run")

	first, err := json.Marshal(ResultMessage{ExperimentID: "exp", Seed: 9007199254740993, NumRiders: 3, AvgWait: 2.5})
	require.NoError(t, err)
	second, err := json.Marshal(ResultMessage{ExperimentID: "exp", Position: 1, NumRiders: 5})
	require.NoError(t, err)

	require.NoError(t, out.WriteMessage(TopicSimulationResults, first))
	require.NoError(t, out.WriteMessage(TopicSimulationResults, second))
	require.NoError(t, out.Close())

	f, err := os.Open(filepath.Join(dir, "run", TopicSimulationResults, "data.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	header := rows[0]
	assert.Equal(t, []string{
		"avg_wait", "calls_waited", "completed_orders", "experiment_id", "max_queue", "max_wait",
		"num_riders", "position", "recorded_at", "seed", "still_queued", "total_arrivals",
	}, header)

	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("missing column %s", name)
		return -1
	}
	assert.Equal(t, "3", rows[1][col("num_riders")])
	assert.Equal(t, "2.5", rows[1][col("avg_wait")])
	assert.Equal(t, "9007199254740993", rows[1][col("seed")], "large integers keep full precision")
	assert.Equal(t, "5", rows[2][col("num_riders")])
	assert.Equal(t, "1", rows[2][col("position")])
}

func TestCSVOutput_RejectsInvalidJSON(t *testing.T) {
	out := NewCSVOutput(t.TempDir(), "run")
	defer out.Close()

	assert.Error(t, out.WriteMessage(TopicChartPoints, []byte("{")))
}
