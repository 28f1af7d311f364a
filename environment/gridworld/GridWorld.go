// Package gridworld implements 2D gridworld environments
package gridworld

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	env "github.com/gorlkit/gorlkit/environment"
	ts "github.com/gorlkit/gorlkit/timestep"
)

// Discrete actions
const (
	ActionLeft int = iota
	ActionRight
	ActionUp
	ActionDown
	numActions
)

// SingleStart is a Starter that always starts episodes at a single
// fixed cell
type SingleStart struct {
	state mat.Vector
	r, c  int
}

// NewSingleStart returns a Starter placing the agent at column x, row
// y of an r × c gridworld
func NewSingleStart(x, y, r, c int) (env.Starter, error) {
	if x < 0 || x >= c {
		return nil, fmt.Errorf("newsinglestart: x = %d out of range "+
			"[0, %d)", x, c)
	}
	if y < 0 || y >= r {
		return nil, fmt.Errorf("newsinglestart: y = %d out of range "+
			"[0, %d)", y, r)
	}

	return &SingleStart{oneHot(x, y, r, c), r, c}, nil
}

// Start returns the starting state as a one-hot state vector
func (s *SingleStart) Start() mat.Vector {
	return s.state
}

// GridWorld represents a gridworld environment. States are observed as
// one-hot vectors over the r × c cells, and the four discrete actions
// move the agent one cell in a cardinal direction. Moves off the edge
// of the grid leave the agent in place.
type GridWorld struct {
	env.Task
	r, c        int
	position    int // Flattened index of the current cell
	discount    float64
	currentStep ts.TimeStep
}

// New creates a new gridworld with r rows and c columns, task t, and
// discount factor discount
func New(r, c int, t env.Task, discount float64) (*GridWorld,
	ts.TimeStep) {
	g := &GridWorld{Task: t, r: r, c: c, discount: discount}
	return g, g.Reset()
}

// Dims gets the rows and columns of the GridWorld
func (g *GridWorld) Dims() (r, c int) {
	return g.r, g.c
}

// Reset resets the environment to a starting cell drawn from its
// Starter and returns the first timestep of the new episode
func (g *GridWorld) Reset() ts.TimeStep {
	start := g.Start()
	g.position = vecToIndex(start)

	startStep := ts.New(ts.First, 0, g.discount, start, 0)
	g.currentStep = startStep
	return startStep
}

// Step takes one environmental step given the argument action and
// returns the next timestep and whether it is the last in the episode
func (g *GridWorld) Step(action mat.Vector) (ts.TimeStep, bool) {
	direction := int(action.AtVec(0))
	if direction < 0 || direction >= numActions {
		panic(fmt.Sprintf("step: illegal action %d", direction))
	}

	x, y := indexToCoords(g.position, g.c)
	switch direction {
	case ActionLeft:
		if x > 0 {
			x--
		}
	case ActionRight:
		if x < g.c-1 {
			x++
		}
	case ActionUp:
		if y < g.r-1 {
			y++
		}
	case ActionDown:
		if y > 0 {
			y--
		}
	}

	state := g.currentStep.Observation
	nextState := oneHot(x, y, g.r, g.c)
	g.position = coordsToIndex(x, y, g.c)

	reward := g.GetReward(state, action, nextState)
	number := g.currentStep.Number + 1

	stepType := ts.Mid
	last := g.AtGoal(nextState) || number >= g.MaxSteps()
	if last {
		stepType = ts.Last
	}

	step := ts.New(stepType, reward, g.discount, nextState, number)
	g.currentStep = step
	return step, last
}

// ActionSpec returns the action specification of the environment
func (g *GridWorld) ActionSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{float64(ActionLeft)})
	upperBound := mat.NewVecDense(1, []float64{float64(ActionDown)})

	return env.NewSpec(shape, env.Action, lowerBound, upperBound,
		env.Discrete)
}

// ObservationSpec returns the observation specification of the
// environment
func (g *GridWorld) ObservationSpec() env.Spec {
	cells := g.r * g.c
	shape := mat.NewVecDense(cells, nil)
	lowerBound := mat.NewVecDense(cells, nil)

	upper := make([]float64, cells)
	for i := range upper {
		upper[i] = 1.0
	}
	upperBound := mat.NewVecDense(cells, upper)

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Discrete)
}

// DiscountSpec returns the discount specification of the environment
func (g *GridWorld) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{g.discount})

	return env.NewSpec(shape, env.Discount, bound, bound, env.Continuous)
}

// oneHot returns the one-hot state vector for the cell at column x,
// row y of an r × c grid
func oneHot(x, y, r, c int) mat.Vector {
	data := make([]float64, r*c)
	data[coordsToIndex(x, y, c)] = 1.0
	return mat.NewVecDense(r*c, data)
}

// coordsToIndex flattens grid coordinates into a cell index
func coordsToIndex(x, y, c int) int {
	return y*c + x
}

// indexToCoords converts a flattened cell index back to coordinates
func indexToCoords(i, c int) (x, y int) {
	return i % c, i / c
}

// vecToIndex returns the cell index of a one-hot state vector
func vecToIndex(v mat.Vector) int {
	for i := 0; i < v.Len(); i++ {
		if v.AtVec(i) != 0 {
			return i
		}
	}
	panic("vectoindex: state vector has no active cell")
}
