package simulator

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chrisdamba/ridersim/internal/factories"
	"github.com/chrisdamba/ridersim/internal/models"
	"github.com/lucsky/cuid"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Experiment is the ordered outcome of running every configured pool size.
// Results[i] and Events[i] belong to Config.AgentPoolSizes[i].
type Experiment struct {
	ID        string
	Seed      int64
	StartedAt time.Time
	Results   []models.SimulationResult
	Events    [][]models.AssignmentEvent // nil unless EmitEvents is set
}

type Driver struct {
	Config         *models.Config
	RNG            *ExperimentRNG
	Logger         logrus.FieldLogger
	ProgressWriter io.Writer
}

func NewDriver(config *models.Config, logger logrus.FieldLogger) *Driver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Driver{
		Config:         config,
		RNG:            NewExperimentRNG(config.Seed),
		Logger:         logger,
		ProgressWriter: os.Stderr,
	}
}

// Run validates the whole configuration up front, then simulates each pool
// size once. Either every result is returned, in input order, or none is.
func (d *Driver) Run(ctx context.Context) (*Experiment, error) {
	if err := d.Config.Validate(); err != nil {
		return nil, err
	}

	exp := &Experiment{
		ID:        cuid.New(),
		Seed:      d.RNG.Seed(),
		StartedAt: time.Now().UTC(),
		Results:   make([]models.SimulationResult, len(d.Config.AgentPoolSizes)),
	}
	if d.Config.EmitEvents {
		exp.Events = make([][]models.AssignmentEvent, len(d.Config.AgentPoolSizes))
	}

	d.Logger.WithFields(logrus.Fields{
		"experiment": exp.ID,
		"seed":       exp.Seed,
		"horizon":    d.Config.SimulationHorizon,
		"pools":      d.Config.AgentPoolSizes,
		"parallel":   d.Config.Parallel,
	}).Info("Starting rider pool experiment")

	var bar *progressbar.ProgressBar
	if d.Config.ShowProgress {
		bar = progressbar.NewOptions(len(d.Config.AgentPoolSizes),
			progressbar.OptionSetWriter(d.ProgressWriter),
			progressbar.OptionSetDescription("simulating rider pools"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var err error
	if d.Config.Parallel {
		err = d.runParallel(ctx, exp, bar)
	} else {
		err = d.runSequential(ctx, exp, bar)
	}
	if err != nil {
		return nil, err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	d.Logger.WithField("experiment", exp.ID).Infof("Experiment completed with %d runs", len(exp.Results))
	return exp, nil
}

func (d *Driver) runSequential(ctx context.Context, exp *Experiment, bar *progressbar.ProgressBar) error {
	for i, numRiders := range d.Config.AgentPoolSizes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.runInto(exp, i, numRiders); err != nil {
			return err
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return nil
}

// runParallel fans runs out over an errgroup. Each run writes only its own
// slot of exp, so no locking is needed and input order is kept.
func (d *Driver) runParallel(ctx context.Context, exp *Experiment, bar *progressbar.ProgressBar) error {
	g, ctx := errgroup.WithContext(ctx)
	if d.Config.MaxWorkers > 0 {
		g.SetLimit(d.Config.MaxWorkers)
	}
	for i, numRiders := range d.Config.AgentPoolSizes {
		i, numRiders := i, numRiders
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := d.runInto(exp, i, numRiders); err != nil {
				return err
			}
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	return g.Wait()
}

func (d *Driver) runInto(exp *Experiment, index, numRiders int) error {
	engine := &Engine{
		Config:       d.Config,
		RiderFactory: defaultRiderFactory{},
	}

	var events []models.AssignmentEvent
	if d.Config.EmitEvents {
		engine.RiderFactory = factories.NewRiderFactory(d.RNG.RosterSeed(index, numRiders))
		engine.Observer = ObserverFunc(func(event models.AssignmentEvent) {
			events = append(events, event)
		})
	}

	start := time.Now()
	result, err := engine.Run(numRiders, d.RNG.ForRun(index, numRiders))
	if err != nil {
		return fmt.Errorf("simulating %d riders: %w", numRiders, err)
	}

	d.Logger.WithFields(logrus.Fields{
		"experiment": exp.ID,
		"riders":     numRiders,
		"completed":  result.CompletedOrders,
		"avg_wait":   result.AvgWait,
		"max_queue":  result.MaxQueue,
		"elapsed":    time.Since(start),
	}).Debug("Run finished")

	exp.Results[index] = result
	if exp.Events != nil {
		exp.Events[index] = events
	}
	return nil
}

// RunExperiment runs every configured pool size with a default driver and
// returns only the ordered results.
func RunExperiment(ctx context.Context, config *models.Config) ([]models.SimulationResult, error) {
	exp, err := NewDriver(config, nil).Run(ctx)
	if err != nil {
		return nil, err
	}
	return exp.Results, nil
}
