package distribution

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Categorical is a distribution over a finite set of discrete actions,
// enumerated from 0. Actions are represented as 1-dimensional vectors
// holding the action index.
type Categorical struct {
	probs []float64
	dist  distuv.Categorical
}

// NewCategorical returns a Categorical distribution with the argument
// action probabilities. The weights need not sum to 1; they are
// normalized. At least one weight must be positive and none may be
// negative.
func NewCategorical(weights []float64, source rand.Source) (*Categorical,
	error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("newcategorical: %w", errIllegalParameters)
	}

	sum := floats.Sum(weights)
	if sum <= 0 {
		return nil, fmt.Errorf("newcategorical: %w: weights must have "+
			"positive sum", errIllegalParameters)
	}
	probs := make([]float64, len(weights))
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("newcategorical: %w: negative weight "+
				"at index %d", errIllegalParameters, i)
		}
		probs[i] = w / sum
	}

	return &Categorical{
		probs: probs,
		dist:  distuv.NewCategorical(probs, source),
	}, nil
}

// Dims returns the number of actions in the distribution's support.
func (c *Categorical) Dims() int {
	return len(c.probs)
}

// Sample draws an action index from the distribution.
func (c *Categorical) Sample() *mat.VecDense {
	return mat.NewVecDense(1, []float64{c.dist.Rand()})
}

// LogProb returns the log-probability of the argument action index.
func (c *Categorical) LogProb(action mat.Vector) (float64, error) {
	if action.Len() != 1 {
		return 0, fmt.Errorf("logprob: discrete actions must be "+
			"1-dimensional \n\twant(1)\n\thave(%v)", action.Len())
	}

	i := int(action.AtVec(0))
	if i < 0 || i >= len(c.probs) {
		return 0, fmt.Errorf("logprob: action %d: %w", i, errIllegalSupport)
	}
	return math.Log(c.probs[i]), nil
}
