// Package rollout implements return and generalized advantage
// estimation over fixed-length rollouts of vectorized environments.
//
// All arrays in this package are flat, row-major [timestep, env]
// views: index [t*envs + e] holds the entry for timestep t of
// environment copy e. The recursions follow
// https://arxiv.org/abs/1506.02438 and are adapted from the forward
// view GAE(λ) buffer of:
//
// https://github.com/openai/spinningup/tree/master/spinup/algos/tf1/vpg
package rollout

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// StdOffset is added to the standard deviation when standardizing
// advantage estimates so that a constant array does not divide by zero.
const StdOffset float64 = 1e-8

// Returns computes the discounted return of each (timestep, env)
// entry by a backward scan over the rollout:
//
//	G[T-1] = R[T-1]
//	G[t]   = R[t] + γ(1-D[t])G[t+1]
//
// Done flags cut the recursion, so no reward beyond an episode
// boundary leaks into the return of an earlier state. The final row is
// never bootstrapped; callers wanting a bootstrap beyond the buffer end
// should add γ(1-D[T-1])V(s_T) into the final reward row first.
//
// The dones argument holds 0.0 (not done) or 1.0 (done) flags and must
// have the same length as rewards.
func Returns(rewards, dones []float64, envs int, gamma float64) ([]float64,
	error) {
	if err := validateShape("returns", rewards, dones, envs); err != nil {
		return nil, err
	}
	if gamma <= 0 || gamma > 1 {
		return nil, &Error{Op: "returns", Err: errInvalidParameter}
	}

	return discountedScan(rewards, continues(dones), envs, gamma), nil
}

// Residuals computes the one-step temporal-difference residual of each
// (timestep, env) entry:
//
//	δ[t] = R[t] + γ(1-D[t])V[t+1] - V[t]
//
// The values argument holds the value estimate of the state at each
// buffered timestep, and lastValues holds one value estimate per
// environment copy for the state following the final buffered timestep,
// which is needed as V[T]. Done flags mask the next-state value, so a
// terminal step contributes R[t] - V[t] only.
func Residuals(rewards, dones, values, lastValues []float64, envs int,
	gamma float64) ([]float64, error) {
	if err := validateShape("residuals", rewards, dones, envs); err != nil {
		return nil, err
	}
	if len(values) != len(rewards) || len(lastValues) != envs {
		return nil, &Error{Op: "residuals", Err: errShapeMismatch}
	}
	if gamma <= 0 || gamma > 1 {
		return nil, &Error{Op: "residuals", Err: errInvalidParameter}
	}

	steps := len(rewards) / envs
	deltas := make([]float64, len(rewards))

	for t := steps - 1; t >= 0; t-- {
		row := deltas[t*envs : (t+1)*envs]

		var nextVals []float64
		if t == steps-1 {
			nextVals = lastValues
		} else {
			nextVals = values[(t+1)*envs : (t+2)*envs]
		}

		for e := 0; e < envs; e++ {
			i := t*envs + e
			row[e] = rewards[i] + gamma*(1-dones[i])*nextVals[e] - values[i]
		}
	}

	return deltas, nil
}

// Advantages computes the generalized advantage estimate GAE(λ) from
// temporal-difference residuals by the backward scan
//
//	A[T-1] = δ[T-1]
//	A[t]   = δ[t] + γλ(1-D[t])A[t+1]
//
// With λ = 0 the estimate reduces to the one-step residual itself (pure
// bootstrap, low variance). With λ = 1 and no done flags set it
// telescopes to the Monte-Carlo advantage, return minus value.
func Advantages(deltas, dones []float64, envs int, gamma,
	lambda float64) ([]float64, error) {
	if err := validateShape("advantages", deltas, dones, envs); err != nil {
		return nil, err
	}
	if gamma <= 0 || gamma > 1 {
		return nil, &Error{Op: "advantages", Err: errInvalidParameter}
	}
	if lambda < 0 || lambda > 1 {
		return nil, &Error{Op: "advantages", Err: errInvalidParameter}
	}

	return discountedScan(deltas, continues(dones), envs, gamma*lambda), nil
}

// Standardize normalizes x in place to mean 0 and standard deviation 1
// across the whole array. Applying Standardize to an already
// standardized array is a no-op up to floating-point tolerance.
//
// The sample standard deviation of fewer than two entries is undefined,
// so arrays shorter than two are left unchanged.
func Standardize(x []float64) {
	if len(x) < 2 {
		return
	}

	vec := mat.NewVecDense(len(x), x)
	ones := vecOnes(len(x))

	mean := stat.Mean(x, nil)
	std := stat.StdDev(x, nil) + StdOffset
	stdVec := mat.NewVecDense(len(x), nil)
	stdVec.AddScaledVec(stdVec, std, ones)

	vec.AddScaledVec(vec, -mean, ones)
	vec.DivElemVec(vec, stdVec)
}

// discountedScan performs the shared backward recursion of Returns and
// Advantages:
//
//	out[T-1] = x[T-1]
//	out[t]   = x[t] + decay * cont[t] ⊙ out[t+1]
//
// The scan is strictly sequential over timesteps; only the inner env
// dimension is vectorized.
func discountedScan(x, cont []float64, envs int, decay float64) []float64 {
	steps := len(x) / envs
	out := make([]float64, len(x))
	copy(out[(steps-1)*envs:], x[(steps-1)*envs:])

	carry := mat.NewVecDense(envs, nil)
	for t := steps - 2; t >= 0; t-- {
		row := mat.NewVecDense(envs, out[t*envs:(t+1)*envs])
		next := mat.NewVecDense(envs, out[(t+1)*envs:(t+2)*envs])
		mask := mat.NewVecDense(envs, cont[t*envs:(t+1)*envs])
		base := mat.NewVecDense(envs, x[t*envs:(t+1)*envs])

		carry.MulElemVec(mask, next)
		row.AddScaledVec(base, decay, carry)
	}

	return out
}

// continues converts done flags into the (1-D[t]) continuation mask
// used by the recursions.
func continues(dones []float64) []float64 {
	cont := make([]float64, len(dones))
	for i, d := range dones {
		cont[i] = 1 - d
	}
	return cont
}

// validateShape checks the shared array-shape preconditions of the
// recursions.
func validateShape(op string, x, dones []float64, envs int) error {
	if envs < 1 {
		return &Error{Op: op, Err: errInvalidParameter}
	}
	if len(x) == 0 {
		return &Error{Op: op, Err: errEmptyBuffer}
	}
	if len(dones) != len(x) || len(x)%envs != 0 {
		return &Error{Op: op, Err: errShapeMismatch}
	}
	return nil
}

// vecOnes returns a vector of ones
func vecOnes(n int) *mat.VecDense {
	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1.0
	}
	return mat.NewVecDense(n, ones)
}
