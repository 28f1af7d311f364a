// Package vecenv implements a vectorized environment, stepping a
// number of independent environment copies in lockstep. Each outer
// control timestep steps every copy once; copies whose episodes end
// are reset automatically so the batch always exposes a live state per
// copy.
//
// All copies are stepped sequentially within a single control thread.
// This is chosen for implementation simplicity rather than throughput;
// stepping a simulated environment is assumed infallible, so there is
// no backpressure or partial-failure handling.
package vecenv

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	env "github.com/gorlkit/gorlkit/environment"
)

// VecEnv steps E independent environment copies in lockstep
type VecEnv struct {
	envs    []env.Environment
	obsSize int
	actSize int
}

// New returns a VecEnv over the argument environment copies. All
// copies must share observation and action shapes. Copies should be
// constructed with distinct seeds so their episodes decorrelate.
func New(envs []env.Environment) (*VecEnv, error) {
	if len(envs) == 0 {
		return nil, fmt.Errorf("new: need at least one environment copy")
	}

	obsSize := envs[0].ObservationSpec().Shape.Len()
	actSize := envs[0].ActionSpec().Shape.Len()
	for i, e := range envs {
		if e.ObservationSpec().Shape.Len() != obsSize {
			return nil, fmt.Errorf("new: environment copy %d observation "+
				"shape \n\twant(%v)\n\thave(%v)", i, obsSize,
				e.ObservationSpec().Shape.Len())
		}
		if e.ActionSpec().Shape.Len() != actSize {
			return nil, fmt.Errorf("new: environment copy %d action shape "+
				"\n\twant(%v)\n\thave(%v)", i, actSize,
				e.ActionSpec().Shape.Len())
		}
	}

	return &VecEnv{envs: envs, obsSize: obsSize, actSize: actSize}, nil
}

// Len returns the number of environment copies E
func (v *VecEnv) Len() int {
	return len(v.envs)
}

// ObsSize returns the number of features in a single observation
func (v *VecEnv) ObsSize() int {
	return v.obsSize
}

// ActionSpec returns the action specification shared by the copies
func (v *VecEnv) ActionSpec() env.Spec {
	return v.envs[0].ActionSpec()
}

// ObservationSpec returns the observation specification shared by the
// copies
func (v *VecEnv) ObservationSpec() env.Spec {
	return v.envs[0].ObservationSpec()
}

// Reset resets every environment copy and returns the E × obsSize
// matrix of starting observations
func (v *VecEnv) Reset() *mat.Dense {
	obs := mat.NewDense(len(v.envs), v.obsSize, nil)
	for e, environ := range v.envs {
		step := environ.Reset()
		setRow(obs, e, step.Observation)
	}
	return obs
}

// Step steps every environment copy once with its row of the
// E × actSize action matrix. It returns the next observations, the
// reward and done flag per copy, and resets any copy whose episode
// ended, exposing the post-reset observation in that copy's row.
func (v *VecEnv) Step(actions *mat.Dense) (*mat.Dense, []float64, []bool,
	error) {
	r, c := actions.Dims()
	if r != len(v.envs) || c != v.actSize {
		return nil, nil, nil, fmt.Errorf("step: illegal action shape "+
			"\n\twant(%v × %v)\n\thave(%v × %v)", len(v.envs), v.actSize,
			r, c)
	}

	obs := mat.NewDense(len(v.envs), v.obsSize, nil)
	rewards := make([]float64, len(v.envs))
	dones := make([]bool, len(v.envs))

	for e, environ := range v.envs {
		step, last := environ.Step(actions.RowView(e))
		rewards[e] = step.Reward
		dones[e] = last

		if last {
			step = environ.Reset()
		}
		setRow(obs, e, step.Observation)
	}

	return obs, rewards, dones, nil
}

// setRow copies a state observation into row e of an observation batch
func setRow(obs *mat.Dense, e int, state mat.Vector) {
	for j := 0; j < state.Len(); j++ {
		obs.Set(e, j, state.AtVec(j))
	}
}
