// Package experiment implements functionality for running an
// experiment: driving the interaction loop between an agent and an
// environment while recording the data it generates.
package experiment

import (
	ts "github.com/gorlkit/gorlkit/timestep"

	"github.com/gorlkit/gorlkit/experiment/trackers"
)

// Experiment outlines structs that can run experiments. An Experiment
// caches each environment TimeStep in its Trackers; Save then writes
// all cached data to disk, usually after the experiment has been run.
// Run runs episodes until the experiment's timestep limit is reached,
// and RunEpisode runs a single episode.
//
// Trackers determine which data generated during the experiment is
// saved. The Experiment sends every TimeStep to each Tracker through
// its Track method. New Trackers can be registered through the
// constructor or through Register.
type Experiment interface {
	Run() error

	// RunEpisode runs a single episode, returning whether the
	// experiment's timestep limit has been reached
	RunEpisode() (bool, error)

	// Save writes all tracked data to disk
	Save() error

	// Register adds a Tracker to the (possibly already running)
	// experiment
	Register(t trackers.Tracker)
}

// track sends a timestep to every tracker
func track(t ts.TimeStep, trs []trackers.Tracker) {
	for _, tracker := range trs {
		tracker.Track(t)
	}
}
