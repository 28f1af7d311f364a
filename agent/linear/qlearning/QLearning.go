// Package qlearning implements the Q-Learning algorithm with linear
// function approximation. With one-hot state observations, such as
// those of a gridworld, the algorithm reduces to tabular Q-Learning.
package qlearning

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/gorlkit/gorlkit/agent/linear/policy"
	ts "github.com/gorlkit/gorlkit/timestep"
)

// QLearning implements the off-policy Q-Learning algorithm. Actions
// are selected by an ε-greedy behaviour policy over the learned action
// values, while the update target always bootstraps from the greedy
// action.
type QLearning struct {
	*policy.EGreedy
	weights      *mat.Dense // actions × features, shared with the policy
	learningRate float64

	step     ts.TimeStep
	action   int
	nextStep ts.TimeStep
}

// New creates a new QLearning agent acting on state feature vectors of
// the argument length and choosing between the argument number of
// actions
func New(features, actions int, c Config, seed uint64) (*QLearning, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	behaviour, err := policy.NewEGreedy(c.Epsilon, features, actions, seed)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	return &QLearning{
		EGreedy:      behaviour,
		weights:      behaviour.Weights(),
		learningRate: c.LearningRate,
	}, nil
}

// ObserveFirst observes and records the first episodic timestep
func (q *QLearning) ObserveFirst(t ts.TimeStep) error {
	if !t.First() {
		fmt.Fprintf(os.Stderr, "warning: ObserveFirst() should only be "+
			"called on the first timestep (current timestep = %d)\n",
			t.Number)
	}
	q.step = ts.TimeStep{}
	q.nextStep = t
	return nil
}

// Observe observes and records any timestep other than the first
func (q *QLearning) Observe(action mat.Vector, nextStep ts.TimeStep) error {
	if action.Len() != 1 {
		return fmt.Errorf("observe: value-based methods need "+
			"1-dimensional actions \n\thave(%v)", action.Len())
	}
	q.step = q.nextStep
	q.action = int(action.AtVec(0))
	q.nextStep = nextStep
	return nil
}

// Step updates the action values toward the bootstrapped target
// r + ℽ max_a q(s', a). The bootstrap is cut when the observed
// timestep ends the episode.
func (q *QLearning) Step() error {
	numActions, _ := q.weights.Dims()

	// Maximum action value in the next state
	actionValues := mat.NewVecDense(numActions, nil)
	actionValues.MulVec(q.weights, q.nextStep.Observation)
	maxVal := mat.Max(actionValues)

	discount := q.nextStep.Discount
	if q.nextStep.Last() {
		discount = 0.0
	}
	target := q.nextStep.Reward + discount*maxVal

	// Current estimate of the taken action
	weights := q.weights.RowView(q.action)
	state := q.step.Observation
	currentEstimate := mat.Dot(weights, state)

	// Semi-gradient descent: ∇weights = (target - estimate) * state
	scale := q.learningRate * (target - currentEstimate)
	newWeights := mat.NewVecDense(weights.Len(), nil)
	newWeights.AddScaledVec(weights, scale, state)
	q.weights.SetRow(q.action, mat.Col(nil, 0, newWeights))

	return nil
}

// EndEpisode performs cleanup at the end of an episode
func (q *QLearning) EndEpisode() error {
	return nil
}

// TdError returns the TD error of a transition under the current
// action values
func (q *QLearning) TdError(t ts.Transition) float64 {
	numActions, _ := q.weights.Dims()

	actionValues := mat.NewVecDense(numActions, nil)
	actionValues.MulVec(q.weights, t.NextState)

	estimate := mat.Dot(q.weights.RowView(int(t.Action.AtVec(0))), t.State)
	return t.Reward + t.Discount*mat.Max(actionValues) - estimate
}
