package trackers

import (
	"fmt"

	ts "github.com/gorlkit/gorlkit/timestep"
)

// Return tracks and saves the episodic return in an experiment. The
// Tracker extracts the reward from every TimeStep it is sent and
// accumulates the return of each episode separately, detecting episode
// boundaries from the step types.
//
// An episode must finish for its return to be saved. If the last
// episode in an experiment does not finish, that episode's return is
// dropped.
type Return struct {
	lastTimeStep   int
	currentReturn  float64
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new Return Tracker saving to the
// argument file
func NewReturn(filename string) Tracker {
	return &Return{lastTimeStep: -1, filename: filename}
}

// Track accumulates the reward seen on a timestep into the current
// episode's return, caching the episodic return when the episode ends.
// Track panics if it is called on non-sequential timesteps.
func (r *Return) Track(step ts.TimeStep) {
	if r.lastTimeStep+1 != step.Number {
		panic(fmt.Sprintf("track: non-sequential timesteps tracked: "+
			"timestep %v --> timestep %v", r.lastTimeStep, step.Number))
	}

	r.currentReturn += step.Reward
	if step.Last() {
		// Episode ended: cache its return and start a fresh episode
		r.episodeReturns = append(r.episodeReturns, r.currentReturn)
		r.currentReturn = 0.0
		r.lastTimeStep = -1
	} else {
		r.lastTimeStep = step.Number
	}
}

// Returns returns the episodic returns cached so far
func (r *Return) Returns() []float64 {
	return r.episodeReturns
}

// Save saves the data tracked by the Return Tracker to disk
func (r *Return) Save() error {
	return saveData(r.filename, r.episodeReturns)
}
