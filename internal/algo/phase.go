package algo

import (
	"context"
	"time"
)

// Phase is a state of one train or predict cycle. A cycle moves forward
// through the phases in order and aborts on the first failure.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseDataAcquired
	PhaseModelsLoaded
	PhaseComputed
	PhasePersisted
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseDataAcquired:
		return "data_acquired"
	case PhaseModelsLoaded:
		return "models_loaded"
	case PhaseComputed:
		return "computed"
	case PhasePersisted:
		return "persisted"
	}
	return "unknown"
}

// Observer is notified when a cycle reaches a phase, with the time spent
// getting there from the previous phase.
type Observer interface {
	PhaseReached(ctx context.Context, command string, phase Phase, elapsed time.Duration)
	ModelsLoaded(ctx context.Context, n int)
}

type nopObserver struct{}

func (nopObserver) PhaseReached(context.Context, string, Phase, time.Duration) {}
func (nopObserver) ModelsLoaded(context.Context, int)                          {}
