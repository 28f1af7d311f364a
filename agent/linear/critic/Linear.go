// Package critic implements state-value function approximators using
// linear function approximation
package critic

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Linear is a linear state-value function v(s) = w · s, fit by
// gradient descent on the mean squared error toward regression
// targets, usually the discounted returns of a rollout.
type Linear struct {
	weights      *mat.VecDense
	learningRate float64
}

// NewLinear returns a zero-initialized linear state-value function
// over feature vectors of the argument length
func NewLinear(features int, learningRate float64) (*Linear, error) {
	if features < 1 {
		return nil, fmt.Errorf("newlinear: need at least one feature")
	}
	if learningRate <= 0 {
		return nil, fmt.Errorf("newlinear: learning rate must be positive")
	}

	return &Linear{
		weights:      mat.NewVecDense(features, nil),
		learningRate: learningRate,
	}, nil
}

// Predict returns the value estimate of a single state
func (l *Linear) Predict(state mat.Vector) float64 {
	return mat.Dot(l.weights, state)
}

// PredictBatch returns the value estimate of each row of a batch of
// states
func (l *Linear) PredictBatch(states *mat.Dense) []float64 {
	rows, _ := states.Dims()
	predictions := mat.NewVecDense(rows, nil)
	predictions.MulVec(states, l.weights)

	return predictions.RawVector().Data
}

// Learn performs one gradient-descent step of the mean squared error
// between the estimator's predictions and the argument targets,
// returning the loss before the update
func (l *Linear) Learn(states *mat.Dense, targets []float64) (float64,
	error) {
	rows, cols := states.Dims()
	if rows != len(targets) {
		return 0, fmt.Errorf("learn: illegal target length "+
			"\n\twant(%v)\n\thave(%v)", rows, len(targets))
	}
	if cols != l.weights.Len() {
		return 0, fmt.Errorf("learn: illegal state feature length "+
			"\n\twant(%v)\n\thave(%v)", l.weights.Len(), cols)
	}

	// Prediction errors v(s) - target
	errs := mat.NewVecDense(rows, nil)
	errs.MulVec(states, l.weights)
	errs.AddScaledVec(errs, -1, mat.NewVecDense(rows, targets))

	loss := mat.Dot(errs, errs) / float64(rows)

	// ∇w MSE = statesᵀ errs / n
	grad := mat.NewVecDense(cols, nil)
	grad.MulVec(states.T(), errs)
	l.weights.AddScaledVec(l.weights, -l.learningRate/float64(rows), grad)

	return loss, nil
}
