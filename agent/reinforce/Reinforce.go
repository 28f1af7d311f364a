// Package reinforce implements the REINFORCE algorithm, the Monte
// Carlo policy gradient, with a linear softmax policy. Each completed
// episode's rewards-to-go weight one gradient-ascent step on the
// log-probabilities of the actions taken.
package reinforce

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/gorlkit/gorlkit/agent/linear/policy"
	"github.com/gorlkit/gorlkit/rollout"
	ts "github.com/gorlkit/gorlkit/timestep"
	"github.com/gorlkit/gorlkit/utils/matutils"
)

// Config implements a configuration of the REINFORCE algorithm
type Config struct {
	// LearningRate scales the policy-gradient step
	LearningRate float64

	// Gamma is the discount factor applied to future rewards
	Gamma float64

	// StandardizeReturns standardizes the episodic rewards-to-go to
	// mean 0 and standard deviation 1 before they weight the policy
	// gradient, bounding the step magnitude
	StandardizeReturns bool
}

// Validate returns an error describing why the configuration is
// illegal, or nil if it is legal
func (c Config) Validate() error {
	if c.LearningRate <= 0 {
		return fmt.Errorf("validate: learning rate must be positive "+
			"\n\thave(%v)", c.LearningRate)
	}
	if c.Gamma <= 0 || c.Gamma > 1 {
		return fmt.Errorf("validate: gamma out of range "+
			"\n\twant((0, 1])\n\thave(%v)", c.Gamma)
	}
	return nil
}

// REINFORCE implements the Monte Carlo policy-gradient algorithm. The
// agent stores one episode of interaction and updates its policy only
// when the episode ends.
type REINFORCE struct {
	policy       *policy.Softmax
	learningRate float64
	gamma        float64
	standardize  bool
	eval         bool

	// Current episode
	states   []mat.Vector
	actions  []int
	rewards  []float64
	prevStep ts.TimeStep
}

// New creates a new REINFORCE agent acting on state feature vectors of
// the argument length and choosing between the argument number of
// actions
func New(features, actions int, c Config, seed uint64) (*REINFORCE, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	p, err := policy.NewSoftmax(features, actions, seed)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	return &REINFORCE{
		policy:       p,
		learningRate: c.LearningRate,
		gamma:        c.Gamma,
		standardize:  c.StandardizeReturns,
	}, nil
}

// SelectAction samples an action from the policy in the argument
// timestep's state. In evaluation mode the mode of the policy is
// selected instead.
func (r *REINFORCE) SelectAction(t ts.TimeStep) *mat.VecDense {
	if r.eval {
		probs := r.policy.Probs(t.Observation)
		greedy := matutils.MaxVec(mat.NewVecDense(len(probs), probs))
		return mat.NewVecDense(1, []float64{float64(greedy)})
	}

	action, err := r.policy.Act(t.Observation)
	if err != nil {
		panic(fmt.Sprintf("selectaction: %v", err))
	}
	return action
}

// ObserveFirst records the first timestep in an episode, clearing the
// stored episode
func (r *REINFORCE) ObserveFirst(t ts.TimeStep) error {
	if !t.First() {
		fmt.Fprintf(os.Stderr, "warning: ObserveFirst() should only be "+
			"called on the first timestep (current timestep = %d)\n",
			t.Number)
	}

	r.states = r.states[:0]
	r.actions = r.actions[:0]
	r.rewards = r.rewards[:0]
	r.prevStep = t
	return nil
}

// Observe records that an action led to some timestep
func (r *REINFORCE) Observe(action mat.Vector, nextStep ts.TimeStep) error {
	if action.Len() != 1 {
		return fmt.Errorf("observe: discrete actions must be "+
			"1-dimensional \n\thave(%v)", action.Len())
	}

	r.states = append(r.states, r.prevStep.Observation)
	r.actions = append(r.actions, int(action.AtVec(0)))
	r.rewards = append(r.rewards, nextStep.Reward)
	r.prevStep = nextStep
	return nil
}

// Step is a no-op: REINFORCE updates only at episode boundaries
func (r *REINFORCE) Step() error {
	return nil
}

// EndEpisode computes the rewards-to-go of the completed episode and
// performs one policy-gradient step per recorded timestep
func (r *REINFORCE) EndEpisode() error {
	if r.eval || len(r.rewards) == 0 {
		return nil
	}

	// A stored episode never crosses an episode boundary, so no done
	// flags are set
	dones := make([]float64, len(r.rewards))
	returns, err := rollout.Returns(r.rewards, dones, 1, r.gamma)
	if err != nil {
		return fmt.Errorf("endepisode: %v", err)
	}
	if r.standardize && len(returns) > 1 {
		rollout.Standardize(returns)
	}

	for i := range r.states {
		err := r.policy.Update(r.states[i], r.actions[i],
			r.learningRate*returns[i])
		if err != nil {
			return fmt.Errorf("endepisode: %v", err)
		}
	}

	return nil
}

// Eval sets the agent to evaluation mode
func (r *REINFORCE) Eval() {
	r.eval = true
}

// Train sets the agent to training mode
func (r *REINFORCE) Train() {
	r.eval = false
}

// IsEval indicates if the agent is in evaluation mode
func (r *REINFORCE) IsEval() bool {
	return r.eval
}

// LogProb returns the log-probability of taking the argument action in
// the argument state under the current policy
func (r *REINFORCE) LogProb(state, action mat.Vector) (float64, error) {
	return r.policy.LogProb(state, action)
}
