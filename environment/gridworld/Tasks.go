package gridworld

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	env "github.com/gorlkit/gorlkit/environment"
)

// Goal represents the task of reaching a goal cell in a GridWorld.
// Every step costs timeStepReward (usually negative), and reaching the
// goal earns goalReward and ends the episode.
type Goal struct {
	env.Starter
	goal           int // Flattened index of the goal cell
	r, c           int
	timeStepReward float64
	goalReward     float64
	maxSteps       int
}

// NewGoal returns a Goal task whose goal cell is at column x, row y of
// an r × c gridworld
func NewGoal(s env.Starter, x, y, r, c int, timeStepReward,
	goalReward float64, maxSteps int) (*Goal, error) {
	if x < 0 || x >= c || y < 0 || y >= r {
		return nil, fmt.Errorf("newgoal: goal (%d, %d) outside %d × %d "+
			"grid", x, y, r, c)
	}

	return &Goal{
		Starter:        s,
		goal:           coordsToIndex(x, y, c),
		r:              r,
		c:              c,
		timeStepReward: timeStepReward,
		goalReward:     goalReward,
		maxSteps:       maxSteps,
	}, nil
}

// GetReward returns the reward for transitioning to nextState
func (g *Goal) GetReward(state, action, nextState mat.Vector) float64 {
	if g.AtGoal(nextState) {
		return g.goalReward
	}
	return g.timeStepReward
}

// AtGoal returns whether the argument state is the goal state
func (g *Goal) AtGoal(state mat.Vector) bool {
	return vecToIndex(state) == g.goal
}

// MaxSteps returns the episode step limit of the task
func (g *Goal) MaxSteps() int {
	return g.maxSteps
}
