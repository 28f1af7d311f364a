// Package distribution implements the action distributions of
// stochastic policies. Discrete and continuous action spaces share the
// Distribution capability, so learners can sample actions and weight
// log-probabilities without knowing which concrete family a policy
// emits.
package distribution

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Distribution is a parameterized distribution over actions. A policy
// produces one Distribution per state; learners sample actions from it
// and query the log-probability of actions taken.
type Distribution interface {
	// Sample draws an action from the distribution
	Sample() *mat.VecDense

	// LogProb returns the log-probability (or log-density for
	// continuous families) of the argument action
	LogProb(action mat.Vector) (float64, error)
}

var errIllegalSupport = errors.New("action outside distribution support")

var errIllegalParameters = errors.New("illegal distribution parameters")
