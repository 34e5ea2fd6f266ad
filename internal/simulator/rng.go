package simulator

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// ExperimentRNG hands every run of an experiment its own generator. The seed
// of a run depends only on the master seed, the run's position and its pool
// size, so runs can execute in any order or concurrently and still reproduce.
type ExperimentRNG struct {
	seed int64
}

func NewExperimentRNG(seed int64) *ExperimentRNG {
	return &ExperimentRNG{seed: seed}
}

func (e *ExperimentRNG) Seed() int64 {
	return e.seed
}

// RunSeed derives the seed for the run at position index simulating numRiders.
func (e *ExperimentRNG) RunSeed(index, numRiders int) int64 {
	return e.seed ^ fnv1a64(fmt.Sprintf("run_%d_riders_%d", index, numRiders))
}

// ForRun returns a fresh generator for one run. Never shared between runs.
func (e *ExperimentRNG) ForRun(index, numRiders int) *rand.Rand {
	return rand.New(rand.NewSource(e.RunSeed(index, numRiders)))
}

// RosterSeed is the seed for generating rider identities of a run. It is kept
// apart from the run's stream so naming riders never shifts the simulation.
func (e *ExperimentRNG) RosterSeed(index, numRiders int) int64 {
	return e.RunSeed(index, numRiders) ^ fnv1a64("roster")
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
