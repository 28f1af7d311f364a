package policy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/gorlkit/gorlkit/distribution"
	ts "github.com/gorlkit/gorlkit/timestep"
	"github.com/gorlkit/gorlkit/utils/matutils"
)

// EGreedy implements an ε-greedy policy over linear action values
// q(s, a) = W_a · s. With probability ε a uniformly random action is
// selected, and the greedy action otherwise.
type EGreedy struct {
	weights *mat.Dense // actions × features
	epsilon float64
	source  rand.Source
	eval    bool
}

// NewEGreedy constructs a new EGreedy policy, where e is the
// probability with which a random action is selected
func NewEGreedy(e float64, features, actions int,
	seed uint64) (*EGreedy, error) {
	if e < 0 || e > 1 {
		return nil, fmt.Errorf("newegreedy: epsilon out of range "+
			"\n\twant([0, 1])\n\thave(%v)", e)
	}
	if features < 1 || actions < 1 {
		return nil, fmt.Errorf("newegreedy: need at least one feature "+
			"and action \n\thave(%v, %v)", features, actions)
	}

	return &EGreedy{
		weights: mat.NewDense(actions, features, nil),
		epsilon: e,
		source:  rand.NewSource(seed),
	}, nil
}

// Weights returns the action-value weights underlying the policy.
// Learners mutate these weights directly; the policy reads them on
// every action selection.
func (p *EGreedy) Weights() *mat.Dense {
	return p.weights
}

// SelectAction selects an action from an ε-greedy policy. In
// evaluation mode the greedy action is always selected.
func (p *EGreedy) SelectAction(t ts.TimeStep) *mat.VecDense {
	numActions, _ := p.weights.Dims()

	// Calculate all action values
	actionValues := mat.NewVecDense(numActions, nil)
	actionValues.MulVec(p.weights, t.Observation)
	greedyAction := matutils.MaxVec(actionValues)

	epsilon := p.epsilon
	if p.eval {
		epsilon = 0.0
	}

	// ε probability mass spread over all actions, the rest on the
	// greedy action
	probs := make([]float64, numActions)
	for i := range probs {
		probs[i] = epsilon / float64(numActions)
	}
	probs[greedyAction] += 1.0 - epsilon

	dist, err := distribution.NewCategorical(probs, p.source)
	if err != nil {
		panic(fmt.Sprintf("selectaction: %v", err))
	}
	return dist.Sample()
}

// Eval sets the policy to evaluation mode
func (p *EGreedy) Eval() {
	p.eval = true
}

// Train sets the policy to training mode
func (p *EGreedy) Train() {
	p.eval = false
}

// IsEval indicates if the policy is in evaluation mode
func (p *EGreedy) IsEval() bool {
	return p.eval
}
