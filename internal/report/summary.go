package report

import (
	"fmt"
	"io"

	"github.com/chrisdamba/ridersim/internal/models"
)

// PrintSummary writes one summary block per result, in the given order.
func PrintSummary(w io.Writer, results []models.SimulationResult) error {
	for _, r := range results {
		_, err := fmt.Fprintf(w,
			"\n--- Simulation Summary ---\n"+
				"Number of riders: %d\n"+
				"Total deliveries completed: %d\n"+
				"Average waiting time: %.2f minutes\n"+
				"Maximum waiting time: %d minutes\n"+
				"Orders that had to wait: %d\n"+
				"Maximum queue length: %d\n"+
				"Orders still waiting at close: %d\n",
			r.NumRiders, r.CompletedOrders, r.AvgWait, r.MaxWait, r.CallsWaited, r.MaxQueue, r.StillQueued,
		)
		if err != nil {
			return fmt.Errorf("failed to write summary for %d riders: %w", r.NumRiders, err)
		}
	}
	return nil
}
