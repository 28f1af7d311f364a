package distribution

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DiagonalGaussian is a multivariate normal distribution over
// continuous actions with a diagonal covariance, parameterized by a
// mean and a standard deviation per action dimension.
type DiagonalGaussian struct {
	dims  int
	dists []distuv.Normal
}

// NewDiagonalGaussian returns a DiagonalGaussian with the argument
// per-dimension means and standard deviations. All standard deviations
// must be positive.
func NewDiagonalGaussian(mean, std []float64,
	source rand.Source) (*DiagonalGaussian, error) {
	if len(mean) == 0 || len(mean) != len(std) {
		return nil, fmt.Errorf("newdiagonalgaussian: %w: mean length %d, "+
			"std length %d", errIllegalParameters, len(mean), len(std))
	}

	dists := make([]distuv.Normal, len(mean))
	for i := range mean {
		if std[i] <= 0 {
			return nil, fmt.Errorf("newdiagonalgaussian: %w: non-positive "+
				"standard deviation at index %d", errIllegalParameters, i)
		}
		dists[i] = distuv.Normal{Mu: mean[i], Sigma: std[i], Src: source}
	}

	return &DiagonalGaussian{dims: len(mean), dists: dists}, nil
}

// Dims returns the number of action dimensions.
func (d *DiagonalGaussian) Dims() int {
	return d.dims
}

// Sample draws an action from the distribution.
func (d *DiagonalGaussian) Sample() *mat.VecDense {
	action := mat.NewVecDense(d.dims, nil)
	for i := range d.dists {
		action.SetVec(i, d.dists[i].Rand())
	}
	return action
}

// LogProb returns the log-density of the argument action, the sum of
// the per-dimension normal log-densities.
func (d *DiagonalGaussian) LogProb(action mat.Vector) (float64, error) {
	if action.Len() != d.dims {
		return 0, fmt.Errorf("logprob: illegal action length "+
			"\n\twant(%v)\n\thave(%v)", d.dims, action.Len())
	}

	var logProb float64
	for i := range d.dists {
		logProb += d.dists[i].LogProb(action.AtVec(i))
	}
	return logProb, nil
}
