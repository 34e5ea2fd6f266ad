package output

import (
	"encoding/json"
	"fmt"

	"github.com/chrisdamba/ridersim/internal/report"
	"github.com/chrisdamba/ridersim/internal/simulator"
	"github.com/sirupsen/logrus"
)

// Publisher turns a finished experiment into topic records on a Destination.
// Records keep experiment order: results by position, then chart points chart
// by chart, then assignment events run by run.
type Publisher struct {
	dest   Destination
	logger logrus.FieldLogger
}

func NewPublisher(dest Destination, logger logrus.FieldLogger) *Publisher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Publisher{dest: dest, logger: logger}
}

func (p *Publisher) Publish(exp *simulator.Experiment) error {
	var count int

	for i, r := range exp.Results {
		msg := ResultMessage{
			ExperimentID:    exp.ID,
			Seed:            exp.Seed,
			RecordedAt:      exp.StartedAt.Unix(),
			Position:        int64(i),
			NumRiders:       int64(r.NumRiders),
			CompletedOrders: int64(r.CompletedOrders),
			AvgWait:         r.AvgWait,
			MaxWait:         int64(r.MaxWait),
			CallsWaited:     int64(r.CallsWaited),
			MaxQueue:        int64(r.MaxQueue),
			TotalArrivals:   int64(r.TotalArrivals),
			StillQueued:     int64(r.StillQueued),
		}
		if err := p.write(TopicSimulationResults, msg); err != nil {
			return err
		}
		count++
	}

	for _, point := range report.BuildChartData(exp.Results).Points() {
		msg := ChartPointMessage{
			ExperimentID: exp.ID,
			Chart:        point.Chart,
			Label:        point.Label,
			NumRiders:    int64(point.NumRiders),
			Value:        point.Value,
		}
		if err := p.write(TopicChartPoints, msg); err != nil {
			return err
		}
		count++
	}

	for _, events := range exp.Events {
		for _, e := range events {
			msg := AssignmentMessage{
				ExperimentID:    exp.ID,
				NumRiders:       int64(e.NumRiders),
				Minute:          int64(e.Minute),
				OrderID:         e.OrderID,
				RiderID:         e.RiderID,
				RiderName:       e.RiderName,
				WaitMinutes:     int64(e.WaitMinutes),
				DeliveryMinutes: int64(e.DeliveryMinutes),
				BusyUntil:       int64(e.BusyUntil),
			}
			if err := p.write(TopicAssignmentEvents, msg); err != nil {
				return err
			}
			count++
		}
	}

	p.logger.WithField("experiment", exp.ID).Infof("Published %d records", count)
	return nil
}

func (p *Publisher) write(topic string, record interface{}) error {
	msg, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize %s record: %w", topic, err)
	}
	if err := p.dest.WriteMessage(topic, msg); err != nil {
		return fmt.Errorf("failed to write %s record: %w", topic, err)
	}
	return nil
}
