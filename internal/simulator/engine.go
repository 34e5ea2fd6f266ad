package simulator

import (
	"math/rand"

	"github.com/chrisdamba/ridersim/internal/models"
)

// RiderFactory builds the riders of a run. Index runs 0..numRiders-1 and is
// also the scan order used for assignment.
type RiderFactory interface {
	CreateRider(index int) *models.Rider
}

type defaultRiderFactory struct{}

func (defaultRiderFactory) CreateRider(index int) *models.Rider {
	return &models.Rider{ID: models.RiderID(index), Index: index}
}

// AssignmentObserver is told about every assignment as it happens.
type AssignmentObserver interface {
	OnAssignment(event models.AssignmentEvent)
}

type ObserverFunc func(event models.AssignmentEvent)

func (f ObserverFunc) OnAssignment(event models.AssignmentEvent) { f(event) }

// Engine steps a single rider pool through the configured horizon one minute
// at a time.
type Engine struct {
	Config       *models.Config
	RiderFactory RiderFactory
	Observer     AssignmentObserver
}

func NewEngine(config *models.Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		Config:       config,
		RiderFactory: defaultRiderFactory{},
	}, nil
}

// RunSimulation validates config and runs a single pool of numRiders.
func RunSimulation(config *models.Config, numRiders int, rng *rand.Rand) (models.SimulationResult, error) {
	engine, err := NewEngine(config)
	if err != nil {
		return models.SimulationResult{}, err
	}
	return engine.Run(numRiders, rng)
}

// runState is owned by one call to Run and dropped when it returns.
type runState struct {
	queue  *OrderQueue
	riders []*models.Rider

	arrivals         int
	completedOrders  int
	totalWaitingTime int
	maxWaitTime      int
	callsThatWaited  int
	maxQueueLength   int
}

// Run simulates numRiders riders with rng as the only source of randomness.
// Draws happen in a fixed order (arrival check, then one duration per
// assignment), so the same seed always gives the same result.
func (e *Engine) Run(numRiders int, rng *rand.Rand) (models.SimulationResult, error) {
	if numRiders <= 0 {
		return models.SimulationResult{}, models.NewConfigError("num_riders", "must be positive, got %d", numRiders)
	}

	factory := e.RiderFactory
	if factory == nil {
		factory = defaultRiderFactory{}
	}

	state := &runState{
		queue:  NewOrderQueue(),
		riders: make([]*models.Rider, numRiders),
	}
	for i := range state.riders {
		rider := factory.CreateRider(i)
		rider.Index = i
		rider.BusyUntil = 0
		state.riders[i] = rider
	}

	for timeNow := 0; timeNow < e.Config.SimulationHorizon; timeNow++ {
		e.simulateTimeStep(state, timeNow, rng)
	}

	var avgWait float64
	if state.completedOrders > 0 {
		avgWait = float64(state.totalWaitingTime) / float64(state.completedOrders)
	}

	return models.SimulationResult{
		NumRiders:       numRiders,
		CompletedOrders: state.completedOrders,
		AvgWait:         avgWait,
		MaxWait:         state.maxWaitTime,
		CallsWaited:     state.callsThatWaited,
		MaxQueue:        state.maxQueueLength,
		TotalArrivals:   state.arrivals,
		StillQueued:     state.queue.Len(),
	}, nil
}

func (e *Engine) simulateTimeStep(state *runState, timeNow int, rng *rand.Rand) {
	if rng.Intn(e.Config.ArrivalDenominator) == 0 {
		state.arrivals++
		state.queue.Enqueue(&models.Order{
			ID:          models.OrderID(state.arrivals),
			ArrivalTime: timeNow,
		})
	}

	// sampled after arrival, before any rider takes an order
	state.maxQueueLength = max(state.maxQueueLength, state.queue.Len())

	for _, rider := range state.riders {
		if state.queue.IsEmpty() {
			break
		}
		if !rider.IsFree(timeNow) {
			continue
		}
		e.assignOrder(state, rider, timeNow, rng)
	}
}

func (e *Engine) assignOrder(state *runState, rider *models.Rider, timeNow int, rng *rand.Rand) {
	order := state.queue.Dequeue()

	waitingTime := timeNow - order.ArrivalTime
	state.totalWaitingTime += waitingTime
	if waitingTime > 0 {
		state.callsThatWaited++
	}
	state.maxWaitTime = max(state.maxWaitTime, waitingTime)

	deliveryDuration := e.Config.ServiceDurationMin + rng.Intn(e.Config.ServiceDurationMax-e.Config.ServiceDurationMin+1)
	rider.BusyUntil = timeNow + deliveryDuration
	rider.Deliveries++
	state.completedOrders++

	if e.Observer != nil {
		e.Observer.OnAssignment(models.AssignmentEvent{
			NumRiders:       len(state.riders),
			Minute:          timeNow,
			OrderID:         order.ID,
			RiderID:         rider.ID,
			RiderName:       rider.Name,
			WaitMinutes:     waitingTime,
			DeliveryMinutes: deliveryDuration,
			BusyUntil:       rider.BusyUntil,
		})
	}
}
