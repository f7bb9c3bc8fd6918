package pipeline

import (
	"errors"
	"fmt"
)

// ErrNoPopulationsSucceeded is returned by Aggregate when every population
// failed. Any single population failing is only a warning.
var ErrNoPopulationsSucceeded = errors.New("pipeline: no populations succeeded")

// PopulationError wraps a failure confined to one population's pipeline.
type PopulationError struct {
	Population string
	Stage      string
	Err        error
}

func (e *PopulationError) Error() string {
	return fmt.Sprintf("population %s: %s: %s", e.Population, e.Stage, e.Err)
}

func (e *PopulationError) Unwrap() error {
	return e.Err
}
