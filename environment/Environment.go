// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"

	ts "github.com/gorlkit/gorlkit/timestep"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() mat.Vector
}

// Task implements the reward scheme and goal states for acting in some
// environment
type Task interface {
	Starter

	// GetReward returns the reward for taking an action in a state,
	// leading to the next state
	GetReward(state, action, nextState mat.Vector) float64

	// AtGoal returns whether the argument state is a goal state
	AtGoal(state mat.Vector) bool

	// MaxSteps returns the episode step limit, after which episodes
	// are cut off
	MaxSteps() int
}

// Environment implements a simulated environment, which includes a
// Task to complete. Environments step one control timestep at a time;
// stepping is assumed infallible given a legal action.
type Environment interface {
	Task

	// Reset resets the environment between episodes, returning the
	// first timestep of the new episode
	Reset() ts.TimeStep

	// Step takes one environmental step given an action, returning
	// the next timestep and whether it is the last in the episode
	Step(action mat.Vector) (ts.TimeStep, bool)

	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
