package experiment

import (
	"fmt"
	"time"

	"github.com/gorlkit/gorlkit/agent"
	env "github.com/gorlkit/gorlkit/environment"
	"github.com/gorlkit/gorlkit/experiment/trackers"
	"github.com/gorlkit/gorlkit/utils/progressbar"
)

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online struct {
	env.Environment
	agent.Agent
	maxSteps     uint
	currentSteps uint
	trackers     []trackers.Tracker
	showProgress bool
}

// NewOnline creates and returns a new online experiment of a given
// agent on a given environment. The steps parameter determines how
// many timesteps the experiment is run for, and t determines which
// data generated during the experiment is saved.
func NewOnline(e env.Environment, a agent.Agent, steps uint,
	t ...trackers.Tracker) *Online {
	return &Online{Environment: e, Agent: a, maxSteps: steps, trackers: t}
}

// Register registers a Tracker with the experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t trackers.Tracker) {
	o.trackers = append(o.trackers, t)
}

// ShowProgress makes Run display a progress bar over the experiment's
// timesteps
func (o *Online) ShowProgress() {
	o.showProgress = true
}

// RunEpisode runs a single episode of the experiment, returning
// whether the experiment's timestep limit has been reached
func (o *Online) RunEpisode() (bool, error) {
	return o.runEpisode(nil)
}

func (o *Online) runEpisode(pbar *progressbar.ProgressBar) (bool, error) {
	step := o.Environment.Reset()
	if err := o.Agent.ObserveFirst(step); err != nil {
		return false, fmt.Errorf("runepisode: %v", err)
	}
	track(step, o.trackers)

	for !step.Last() && o.currentSteps < o.maxSteps {
		o.currentSteps++

		// Select an action and step in the environment
		action := o.Agent.SelectAction(step)
		step, _ = o.Environment.Step(action)

		track(step, o.trackers)

		// Observe the timestep and step the agent
		if err := o.Agent.Observe(action, step); err != nil {
			return false, fmt.Errorf("runepisode: %v", err)
		}
		if err := o.Agent.Step(); err != nil {
			return false, fmt.Errorf("runepisode: %v", err)
		}

		if pbar != nil {
			pbar.Increment()
		}
	}

	if err := o.Agent.EndEpisode(); err != nil {
		return false, fmt.Errorf("runepisode: %v", err)
	}

	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all timesteps
func (o *Online) Run() error {
	var pbar *progressbar.ProgressBar
	if o.showProgress {
		pbar = progressbar.New(50, int(o.maxSteps), time.Second, false)
		pbar.Display()
		defer pbar.Close()
	}

	for {
		ended, err := o.runEpisode(pbar)
		if err != nil {
			return fmt.Errorf("run: %v", err)
		}
		if ended {
			return nil
		}
	}
}

// Save saves all the data cached by the experiment's Trackers to disk
func (o *Online) Save() error {
	for _, tracker := range o.trackers {
		if err := tracker.Save(); err != nil {
			return fmt.Errorf("save: %v", err)
		}
	}
	return nil
}
