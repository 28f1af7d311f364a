// Package a2c implements the synchronous advantage actor-critic
// algorithm with a linear softmax policy and a linear state-value
// critic. The agent collects fixed-length rollouts from a batch of
// environment copies and weights its policy gradient with generalized
// advantage estimates computed over the rollout.
//
// See:
//
//	https://arxiv.org/abs/1602.01783
//	https://arxiv.org/abs/1506.02438
package a2c

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/gorlkit/gorlkit/agent"
	"github.com/gorlkit/gorlkit/agent/linear/critic"
	"github.com/gorlkit/gorlkit/agent/linear/policy"
	env "github.com/gorlkit/gorlkit/environment"
	"github.com/gorlkit/gorlkit/environment/vecenv"
	"github.com/gorlkit/gorlkit/rollout"
)

// A2C implements the synchronous advantage actor-critic algorithm over
// a vectorized environment. The critic is held through the
// agent.ValueEstimator capability: the rollout machinery only predicts
// values while collecting and regresses toward the computed returns.
type A2C struct {
	policy *policy.Softmax
	critic agent.ValueEstimator
	buffer *rollout.Buffer
	vec    *vecenv.VecEnv
	config Config

	// Most recent observation batch, carried across rollouts so a
	// rollout can start mid-episode
	obs *mat.Dense
}

// New creates a new A2C agent interacting with the argument vectorized
// environment, whose copies must have discrete 1-dimensional actions
func New(vec *vecenv.VecEnv, c Config, seed uint64) (*A2C, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	spec := vec.ActionSpec()
	if spec.Cardinality != env.Discrete || spec.Shape.Len() != 1 {
		return nil, fmt.Errorf("new: need discrete 1-dimensional actions")
	}
	actions := int(spec.UpperBound.AtVec(0)-spec.LowerBound.AtVec(0)) + 1

	p, err := policy.NewSoftmax(vec.ObsSize(), actions, seed)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	v, err := critic.NewLinear(vec.ObsSize(), c.CriticLearningRate)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	var opts []rollout.Option
	if c.TailBootstrap {
		opts = append(opts, rollout.WithTailBootstrap())
	}
	buffer, err := rollout.New(c.RolloutLength, vec.Len(), c.Gamma,
		c.Lambda, opts...)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	return &A2C{
		policy: p,
		critic: v,
		buffer: buffer,
		vec:    vec,
		config: c,
	}, nil
}

// RunEpoch collects one rollout of RolloutLength timesteps from every
// environment copy and updates the policy and critic from it. It
// returns the mean reward per collected timestep.
func (a *A2C) RunEpoch() (float64, error) {
	T := a.config.RolloutLength
	E := a.vec.Len()

	if a.obs == nil {
		a.obs = a.vec.Reset()
	}

	// Collection: act, step, and store one row per timestep. States and
	// actions are kept outside the buffer for the policy update.
	states := mat.NewDense(T*E, a.vec.ObsSize(), nil)
	actions := make([]int, T*E)
	rewardSum := 0.0

	for t := 0; t < T; t++ {
		actionBatch := mat.NewDense(E, 1, nil)
		values := make([]float64, E)
		for e := 0; e < E; e++ {
			state := a.obs.RowView(e)
			action, err := a.policy.Act(state)
			if err != nil {
				return 0, fmt.Errorf("runepoch: %v", err)
			}

			i := t*E + e
			states.SetRow(i, mat.Row(nil, e, a.obs))
			actions[i] = int(action.AtVec(0))
			actionBatch.Set(e, 0, action.AtVec(0))
			values[e] = a.critic.Predict(state)
		}

		obs, rewards, dones, err := a.vec.Step(actionBatch)
		if err != nil {
			return 0, fmt.Errorf("runepoch: %v", err)
		}
		if err := a.buffer.Store(rewards, dones, values); err != nil {
			return 0, fmt.Errorf("runepoch: %v", err)
		}

		for e := range rewards {
			rewardSum += rewards[e]
		}
		a.obs = obs
	}

	// Estimation: value the states beyond the horizon, then read the
	// standardized advantages and returns
	if err := a.buffer.Finish(a.critic.PredictBatch(a.obs)); err != nil {
		return 0, fmt.Errorf("runepoch: %v", err)
	}
	advantages, returns, err := a.buffer.Get()
	if err != nil {
		return 0, fmt.Errorf("runepoch: %v", err)
	}

	// Policy gradient, averaged over the rollout
	n := float64(T * E)
	for i := range actions {
		err := a.policy.Update(states.RowView(i), actions[i],
			a.config.PolicyLearningRate*advantages[i]/n)
		if err != nil {
			return 0, fmt.Errorf("runepoch: %v", err)
		}
	}

	// Critic regression toward the rollout returns
	for k := 0; k < a.config.CriticGradSteps; k++ {
		if _, err := a.critic.Learn(states, returns); err != nil {
			return 0, fmt.Errorf("runepoch: %v", err)
		}
	}

	return rewardSum / n, nil
}

// Train runs the argument number of epochs and returns the mean reward
// per timestep of each
func (a *A2C) Train(epochs int) ([]float64, error) {
	rewards := make([]float64, epochs)
	for i := range rewards {
		reward, err := a.RunEpoch()
		if err != nil {
			return nil, fmt.Errorf("train: epoch %d: %v", i, err)
		}
		rewards[i] = reward
	}
	return rewards, nil
}

// Policy returns the agent's policy
func (a *A2C) Policy() agent.StochasticPolicy {
	return a.policy
}

// Critic returns the agent's state-value critic
func (a *A2C) Critic() agent.ValueEstimator {
	return a.critic
}
