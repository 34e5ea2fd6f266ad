package report

import (
	"fmt"

	"github.com/chrisdamba/ridersim/internal/models"
)

const (
	ChartAverageWaitingTime = "average_waiting_time"
	ChartCompletedOrders    = "completed_orders"
	ChartMaxQueueLength     = "max_queue_length"
)

// ChartSeries is one bar chart: a value per rider pool, in experiment order.
type ChartSeries struct {
	Name   string    `json:"name"`
	Title  string    `json:"title"`
	YLabel string    `json:"y_label"`
	Values []float64 `json:"values"`
}

// ChartData is what a chart renderer needs; it never draws anything itself.
type ChartData struct {
	Labels    []string      `json:"labels"`
	NumRiders []int         `json:"num_riders"`
	Series    []ChartSeries `json:"series"`
}

// ChartPoint is one bar, flattened for row oriented sinks.
type ChartPoint struct {
	Chart     string  `json:"chart"`
	Label     string  `json:"label"`
	NumRiders int     `json:"num_riders"`
	Value     float64 `json:"value"`
}

func RiderLabel(numRiders int) string {
	return fmt.Sprintf("%d Riders", numRiders)
}

// BuildChartData projects results into average wait, completed orders and
// max queue series, each paired with the "N Riders" labels.
func BuildChartData(results []models.SimulationResult) ChartData {
	data := ChartData{
		Labels:    make([]string, len(results)),
		NumRiders: make([]int, len(results)),
	}
	avgWaits := make([]float64, len(results))
	completed := make([]float64, len(results))
	maxQueues := make([]float64, len(results))

	for i, r := range results {
		data.Labels[i] = RiderLabel(r.NumRiders)
		data.NumRiders[i] = r.NumRiders
		avgWaits[i] = r.AvgWait
		completed[i] = float64(r.CompletedOrders)
		maxQueues[i] = float64(r.MaxQueue)
	}

	data.Series = []ChartSeries{
		{Name: ChartAverageWaitingTime, Title: "Average Waiting Time", YLabel: "Minutes", Values: avgWaits},
		{Name: ChartCompletedOrders, Title: "Completed Orders", YLabel: "Orders", Values: completed},
		{Name: ChartMaxQueueLength, Title: "Maximum Queue Length", YLabel: "Orders Waiting", Values: maxQueues},
	}
	return data
}

// SeriesByName looks a chart up by name.
func (c ChartData) SeriesByName(name string) (ChartSeries, bool) {
	for _, s := range c.Series {
		if s.Name == name {
			return s, true
		}
	}
	return ChartSeries{}, false
}

func (c ChartData) Points() []ChartPoint {
	points := make([]ChartPoint, 0, len(c.Series)*len(c.Labels))
	for _, s := range c.Series {
		for i, v := range s.Values {
			points = append(points, ChartPoint{
				Chart:     s.Name,
				Label:     c.Labels[i],
				NumRiders: c.NumRiders[i],
				Value:     v,
			})
		}
	}
	return points
}
