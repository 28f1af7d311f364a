// Package policy implements policies using linear function
// approximation
package policy

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/gorlkit/gorlkit/distribution"
)

// Softmax implements a categorical policy over discrete actions with
// linear action preferences: π(a|s) ∝ exp(W_a · s). Actions are
// represented as 1-dimensional vectors holding the action index.
type Softmax struct {
	weights *mat.Dense // actions × features
	source  rand.Source
}

// NewSoftmax constructs a new zero-initialized Softmax policy over the
// argument number of actions and state features. Zero preferences make
// the initial policy uniform.
func NewSoftmax(features, actions int, seed uint64) (*Softmax, error) {
	if features < 1 || actions < 2 {
		return nil, fmt.Errorf("newsoftmax: need at least one feature "+
			"and two actions \n\thave(%v, %v)", features, actions)
	}

	return &Softmax{
		weights: mat.NewDense(actions, features, nil),
		source:  rand.NewSource(seed),
	}, nil
}

// Actions returns the number of actions the policy chooses between
func (p *Softmax) Actions() int {
	actions, _ := p.weights.Dims()
	return actions
}

// Probs returns the action probabilities of the policy in the argument
// state
func (p *Softmax) Probs(state mat.Vector) []float64 {
	actions, _ := p.weights.Dims()

	preferences := mat.NewVecDense(actions, nil)
	preferences.MulVec(p.weights, state)

	// Shift by the max preference so the exponentials cannot overflow
	probs := make([]float64, actions)
	max := mat.Max(preferences)
	for i := range probs {
		probs[i] = math.Exp(preferences.AtVec(i) - max)
	}
	floats.Scale(1/floats.Sum(probs), probs)

	return probs
}

// Dist returns the action distribution of the policy in the argument
// state
func (p *Softmax) Dist(state mat.Vector) (distribution.Distribution, error) {
	return distribution.NewCategorical(p.Probs(state), p.source)
}

// Act samples an action in the argument state
func (p *Softmax) Act(state mat.Vector) (*mat.VecDense, error) {
	dist, err := p.Dist(state)
	if err != nil {
		return nil, fmt.Errorf("act: %v", err)
	}
	return dist.Sample(), nil
}

// LogProb returns the log-probability of taking the argument action in
// the argument state
func (p *Softmax) LogProb(state, action mat.Vector) (float64, error) {
	dist, err := p.Dist(state)
	if err != nil {
		return 0, fmt.Errorf("logprob: %v", err)
	}
	return dist.LogProb(action)
}

// Update performs one gradient-ascent step on the policy's
// log-probability of the argument action, weighted by scale:
//
//	W += scale ∇_W log π(action|state)
//
// For linear softmax preferences the gradient of row j is
// (1{j=action} - π(j|state)) state. The scale argument usually packages
// the learning rate with a return or advantage estimate.
func (p *Softmax) Update(state mat.Vector, action int, scale float64) error {
	actions, _ := p.weights.Dims()
	if action < 0 || action >= actions {
		return fmt.Errorf("update: illegal action %d", action)
	}

	probs := p.Probs(state)
	for j := 0; j < actions; j++ {
		coeff := -probs[j]
		if j == action {
			coeff++
		}

		row := p.weights.RawRowView(j)
		rowVec := mat.NewVecDense(len(row), row)
		rowVec.AddScaledVec(rowVec, scale*coeff, state)
	}

	return nil
}
