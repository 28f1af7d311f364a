// Package agent defines an agent interface
package agent

import (
	"gonum.org/v1/gonum/mat"

	ts "github.com/gorlkit/gorlkit/timestep"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns weights, and a Policy
// which chooses actions in each state. The Policy chooses which actions
// are taken, and the Learner uses these actions to update the Policy.
type Agent interface {
	Learner
	Policy
}

// Learner implements a learning algorithm that defines how weights are
// updated.
type Learner interface {
	// Step performs a single update to the learner
	Step() error

	// Observe records that an action lead to some timestep
	Observe(action mat.Vector, nextObs ts.TimeStep) error

	// ObserveFirst records the first timestep in an episode
	ObserveFirst(ts.TimeStep) error

	// EndEpisode performs cleanup at the end of an episode
	EndEpisode() error
}

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. For a given agent, the
// Policy and Learner should share weights so that any changes the
// learner makes to the weights are reflected in the actions the Policy
// chooses.
type Policy interface {
	SelectAction(t ts.TimeStep) *mat.VecDense
	Eval()        // Set policy to evaluation mode
	Train()       // Set policy to training mode
	IsEval() bool // Indicates if in evaluation mode
}

// ValueEstimator is a state-value function approximator. The rollout
// machinery consumes but does not own one: values are predicted while
// filling a rollout buffer and the estimator is fit separately by
// regression toward the computed returns.
type ValueEstimator interface {
	// Predict returns the value estimate of a single state
	Predict(state mat.Vector) float64

	// PredictBatch returns the value estimate of each row of a batch
	// of states
	PredictBatch(states *mat.Dense) []float64

	// Learn regresses the estimator toward the argument targets,
	// returning the loss before the update
	Learn(states *mat.Dense, targets []float64) (float64, error)
}

// StochasticPolicy is a parameterized stochastic policy whose
// log-probabilities can be queried for externally chosen actions, so
// advantage estimates can weight its gradient in a separate update
// step.
type StochasticPolicy interface {
	// Act samples an action in the argument state
	Act(state mat.Vector) (*mat.VecDense, error)

	// LogProb returns the log-probability of taking the argument
	// action in the argument state
	LogProb(state, action mat.Vector) (float64, error)
}
