package output

// Message payloads. The json tags are the wire format on every sink; the
// parquet tags give each topic a typed schema.

type ResultMessage struct {
	ExperimentID    string  `json:"experiment_id" parquet:"name=experiment_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Seed            int64   `json:"seed" parquet:"name=seed, type=INT64"`
	RecordedAt      int64   `json:"recorded_at" parquet:"name=recorded_at, type=INT64"`
	Position        int64   `json:"position" parquet:"name=position, type=INT64"`
	NumRiders       int64   `json:"num_riders" parquet:"name=num_riders, type=INT64"`
	CompletedOrders int64   `json:"completed_orders" parquet:"name=completed_orders, type=INT64"`
	AvgWait         float64 `json:"avg_wait" parquet:"name=avg_wait, type=DOUBLE"`
	MaxWait         int64   `json:"max_wait" parquet:"name=max_wait, type=INT64"`
	CallsWaited     int64   `json:"calls_waited" parquet:"name=calls_waited, type=INT64"`
	MaxQueue        int64   `json:"max_queue" parquet:"name=max_queue, type=INT64"`
	TotalArrivals   int64   `json:"total_arrivals" parquet:"name=total_arrivals, type=INT64"`
	StillQueued     int64   `json:"still_queued" parquet:"name=still_queued, type=INT64"`
}

type ChartPointMessage struct {
	ExperimentID string  `json:"experiment_id" parquet:"name=experiment_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Chart        string  `json:"chart" parquet:"name=chart, type=BYTE_ARRAY, convertedtype=UTF8"`
	Label        string  `json:"label" parquet:"name=label, type=BYTE_ARRAY, convertedtype=UTF8"`
	NumRiders    int64   `json:"num_riders" parquet:"name=num_riders, type=INT64"`
	Value        float64 `json:"value" parquet:"name=value, type=DOUBLE"`
}

type AssignmentMessage struct {
	ExperimentID    string `json:"experiment_id" parquet:"name=experiment_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	NumRiders       int64  `json:"num_riders" parquet:"name=num_riders, type=INT64"`
	Minute          int64  `json:"minute" parquet:"name=minute, type=INT64"`
	OrderID         string `json:"order_id" parquet:"name=order_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	RiderID         string `json:"rider_id" parquet:"name=rider_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	RiderName       string `json:"rider_name" parquet:"name=rider_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	WaitMinutes     int64  `json:"wait_minutes" parquet:"name=wait_minutes, type=INT64"`
	DeliveryMinutes int64  `json:"delivery_minutes" parquet:"name=delivery_minutes, type=INT64"`
	BusyUntil       int64  `json:"busy_until" parquet:"name=busy_until, type=INT64"`
}
