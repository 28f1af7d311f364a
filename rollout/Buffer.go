package rollout

// Buffer implements a fixed-shape rollout buffer over a vectorized
// environment. It stores the reward, done flag, and state-value
// estimate of each (timestep, env) pair, filled one timestep row at a
// time and consumed in bulk once full.
//
// After the buffer fills, Finish computes the discounted returns and
// GAE(λ) advantage estimates for every stored entry, and Get hands
// both out, with advantages standardized to mean 0 and standard
// deviation 1 for use as a policy-gradient weighting signal.
type Buffer struct {
	steps int // T, rollout length
	envs  int // E, parallel environment copies

	currentPos int // Next timestep row to fill
	estimated  bool

	lambda float64 // λ for GAE(λ) calculation
	gamma  float64 // Discount factor ℽ

	// tailBootstrap controls whether ℽ(1-D[T-1])V(s_T) is added into
	// the final reward row before computing returns. Off by default;
	// without it the return recursion never reaches past the buffer
	// end.
	tailBootstrap bool

	// Buffers for storing data, row-major [timestep, env]
	rewBuffer  []float64
	doneBuffer []float64
	valBuffer  []float64
	advBuffer  []float64
	retBuffer  []float64
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithTailBootstrap makes the buffer add the discounted value estimate
// of the state following the final timestep into the final reward row
// before computing returns, accounting for timesteps beyond the
// rollout horizon.
func WithTailBootstrap() Option {
	return func(b *Buffer) {
		b.tailBootstrap = true
	}
}

// New creates and returns a new rollout buffer holding steps timesteps
// of envs parallel environment copies.
func New(steps, envs int, gamma, lambda float64, opts ...Option) (*Buffer,
	error) {
	if steps < 1 {
		return nil, &Error{Op: "new", Err: errEmptyBuffer}
	}
	if envs < 1 {
		return nil, &Error{Op: "new", Err: errInvalidParameter}
	}
	if gamma <= 0 || gamma > 1 {
		return nil, &Error{Op: "new", Err: errInvalidParameter}
	}
	if lambda < 0 || lambda > 1 {
		return nil, &Error{Op: "new", Err: errInvalidParameter}
	}

	b := &Buffer{
		steps:      steps,
		envs:       envs,
		gamma:      gamma,
		lambda:     lambda,
		rewBuffer:  make([]float64, steps*envs),
		doneBuffer: make([]float64, steps*envs),
		valBuffer:  make([]float64, steps*envs),
		advBuffer:  make([]float64, steps*envs),
		retBuffer:  make([]float64, steps*envs),
	}

	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Steps returns the rollout length T of the buffer.
func (b *Buffer) Steps() int {
	return b.steps
}

// Envs returns the number of parallel environment copies E the buffer
// stores data for.
func (b *Buffer) Envs() int {
	return b.envs
}

// Full returns whether all T timestep rows have been stored.
func (b *Buffer) Full() bool {
	return b.currentPos >= b.steps
}

// Store stores one timestep row: the reward, done flag, and value
// estimate of every environment copy at the current timestep.
func (b *Buffer) Store(rewards []float64, dones []bool,
	values []float64) error {
	if b.Full() {
		return &Error{Op: "store", Err: errBufferFull}
	}
	if len(rewards) != b.envs || len(dones) != b.envs ||
		len(values) != b.envs {
		return &Error{Op: "store", Err: errShapeMismatch}
	}

	start := b.currentPos * b.envs
	copy(b.rewBuffer[start:start+b.envs], rewards)
	copy(b.valBuffer[start:start+b.envs], values)
	for e, done := range dones {
		if done {
			b.doneBuffer[start+e] = 1.0
		} else {
			b.doneBuffer[start+e] = 0.0
		}
	}

	b.currentPos++
	return nil
}

// Finish computes the returns and GAE(λ) advantage estimates of the
// filled buffer. The lastValues argument holds one value estimate per
// environment copy for the state following the final stored timestep;
// it bootstraps the temporal-difference residual of the final row and,
// when WithTailBootstrap is set, the return of the final row as well.
// Pass zeros if every environment copy ended on a terminal state.
func (b *Buffer) Finish(lastValues []float64) error {
	if !b.Full() {
		return &Error{Op: "finish", Err: errBufferNotFull}
	}
	if len(lastValues) != b.envs {
		return &Error{Op: "finish", Err: errShapeMismatch}
	}

	rewards := b.rewBuffer
	if b.tailBootstrap {
		rewards = make([]float64, len(b.rewBuffer))
		copy(rewards, b.rewBuffer)
		last := (b.steps - 1) * b.envs
		for e := 0; e < b.envs; e++ {
			rewards[last+e] += b.gamma * (1 - b.doneBuffer[last+e]) *
				lastValues[e]
		}
	}

	returns, err := Returns(rewards, b.doneBuffer, b.envs, b.gamma)
	if err != nil {
		return err
	}
	copy(b.retBuffer, returns)

	deltas, err := Residuals(b.rewBuffer, b.doneBuffer, b.valBuffer,
		lastValues, b.envs, b.gamma)
	if err != nil {
		return err
	}

	advantages, err := Advantages(deltas, b.doneBuffer, b.envs, b.gamma,
		b.lambda)
	if err != nil {
		return err
	}
	copy(b.advBuffer, advantages)

	b.estimated = true
	return nil
}

// Get returns the advantage estimates and returns stored in the buffer
// and resets it for the next rollout. Advantages are first
// standardized to mean 0 and standard deviation 1. Finish must have
// been called on the filled buffer.
func (b *Buffer) Get() (advantages, returns []float64, err error) {
	if !b.Full() {
		return nil, nil, &Error{Op: "get", Err: errBufferNotFull}
	}
	if !b.estimated {
		return nil, nil, &Error{Op: "get", Err: errBufferNotFull}
	}

	advantages = make([]float64, len(b.advBuffer))
	copy(advantages, b.advBuffer)
	Standardize(advantages)

	returns = make([]float64, len(b.retBuffer))
	copy(returns, b.retBuffer)

	b.Reset()
	return advantages, returns, nil
}

// Reset empties the buffer so a new rollout can be stored.
func (b *Buffer) Reset() {
	b.currentPos = 0
	b.estimated = false
}
