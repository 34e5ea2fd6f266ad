package models

// SimulationResult summarises one run for one pool size.
type SimulationResult struct {
	NumRiders       int     `json:"num_riders"`
	CompletedOrders int     `json:"completed_orders"`
	AvgWait         float64 `json:"avg_wait"`
	MaxWait         int     `json:"max_wait"`
	CallsWaited     int     `json:"calls_waited"`
	MaxQueue        int     `json:"max_queue"`
	TotalArrivals   int     `json:"total_arrivals"`
	StillQueued     int     `json:"still_queued"`
}

// AssignmentEvent is emitted each time a free rider takes the front order.
type AssignmentEvent struct {
	NumRiders       int    `json:"num_riders"`
	Minute          int    `json:"minute"`
	OrderID         string `json:"order_id"`
	RiderID         string `json:"rider_id"`
	RiderName       string `json:"rider_name,omitempty"`
	WaitMinutes     int    `json:"wait_minutes"`
	DeliveryMinutes int    `json:"delivery_minutes"`
	BusyUntil       int    `json:"busy_until"`
}
