package trackers

import ts "github.com/gorlkit/gorlkit/timestep"

// EpisodeLength tracks and saves the number of timesteps in each
// episode of an experiment
type EpisodeLength struct {
	currentLength  int
	episodeLengths []float64
	filename       string
}

// NewEpisodeLength creates and returns a new EpisodeLength Tracker
// saving to the argument file
func NewEpisodeLength(filename string) Tracker {
	return &EpisodeLength{filename: filename}
}

// Track counts a timestep toward the current episode's length, caching
// the length when the episode ends
func (e *EpisodeLength) Track(step ts.TimeStep) {
	if step.First() {
		e.currentLength = 0
		return
	}

	e.currentLength++
	if step.Last() {
		e.episodeLengths = append(e.episodeLengths, float64(e.currentLength))
		e.currentLength = 0
	}
}

// Lengths returns the episode lengths cached so far
func (e *EpisodeLength) Lengths() []float64 {
	return e.episodeLengths
}

// Save saves the data tracked by the EpisodeLength Tracker to disk
func (e *EpisodeLength) Save() error {
	return saveData(e.filename, e.episodeLengths)
}
