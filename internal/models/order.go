package models

import "fmt"

// Order is one arrival. It only exists while it waits in the queue; once a
// rider takes it, it is folded into the run's counters.
type Order struct {
	ID          string `json:"id"`
	ArrivalTime int    `json:"arrival_time"` // minute the order entered the queue
}

func OrderID(seq int) string {
	return fmt.Sprintf("order-%06d", seq)
}
