package cartpole

import (
	"math"

	"gonum.org/v1/gonum/mat"

	env "github.com/gorlkit/gorlkit/environment"
)

// FailAngle is the default pole angle beyond which the Balance task
// considers the pole fallen
const FailAngle float64 = 12 * 2 * math.Pi / 360

// Balance implements the classic Cartpole balancing task. The agent
// earns +1 on every timestep the pole stays above the fail angle and
// -1 on the step where it falls. Episodes end when the pole falls or
// a step limit is reached.
type Balance struct {
	env.Starter
	failAngle float64
	maxSteps  int
}

// NewBalance creates and returns a new Balance task
func NewBalance(s env.Starter, maxSteps int, failAngle float64) *Balance {
	return &Balance{s, failAngle, maxSteps}
}

// GetReward returns the reward for an action taken in some state,
// resulting in a transition to nextState
func (b *Balance) GetReward(_, _, nextState mat.Vector) float64 {
	// An angle of 0 is pointing straight up
	if math.Abs(nextState.AtVec(2)) < b.failAngle {
		return 1.0
	}
	return -1.0
}

// AtGoal returns whether the episode-ending condition, the pole
// falling below the fail angle, has been reached
func (b *Balance) AtGoal(state mat.Vector) bool {
	return math.Abs(state.AtVec(2)) > b.failAngle
}

// MaxSteps returns the episode step limit of the task
func (b *Balance) MaxSteps() int {
	return b.maxSteps
}
