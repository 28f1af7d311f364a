package deepq

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/gorlkit/gorlkit/environment/gridworld"
	"github.com/gorlkit/gorlkit/expreplay"
	"github.com/gorlkit/gorlkit/initwfn"
	"github.com/gorlkit/gorlkit/network"
	"github.com/gorlkit/gorlkit/solver"
)

func newTestEnv(t *testing.T) *gridworld.GridWorld {
	t.Helper()

	start, err := gridworld.NewSingleStart(0, 0, 2, 3)
	if err != nil {
		t.Fatalf("newsinglestart: %v", err)
	}
	task, err := gridworld.NewGoal(start, 2, 0, 2, 3, -1, 10, 50)
	if err != nil {
		t.Fatalf("newgoal: %v", err)
	}
	g, _ := gridworld.New(2, 3, task, 0.99)
	return g
}

func newTestConfig(t *testing.T) Config {
	t.Helper()

	adam, err := solver.NewDefaultAdam(0.001, 2)
	if err != nil {
		t.Fatalf("newdefaultadam: %v", err)
	}
	glorot, err := initwfn.NewGlorotU(1.0)
	if err != nil {
		t.Fatalf("newglorotu: %v", err)
	}

	return Config{
		PolicyLayers: []int{8},
		Biases:       []bool{true},
		Activations:  []*network.Activation{network.ReLU()},
		Solver:       adam,
		InitWFn:      glorot,
		Epsilon:      0.1,
		ExpReplay: expreplay.Config{
			RemoveMethod:      expreplay.Fifo,
			SampleMethod:      expreplay.Uniform,
			RemoveSize:        1,
			SampleSize:        2,
			MaxReplayCapacity: 16,
			MinReplayCapacity: 2,
		},
		Tau:                  1.0,
		TargetUpdateInterval: 1,
	}
}

// TestSelectActionRange checks that selected actions index legal
// environment actions.
func TestSelectActionRange(t *testing.T) {
	env := newTestEnv(t)
	agent, err := New(env, newTestConfig(t), 42)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	step := env.Reset()
	for i := 0; i < 10; i++ {
		action := agent.SelectAction(step).AtVec(0)
		if action < 0 || action > float64(gridworld.ActionDown) {
			t.Fatalf("action out of range \n\thave(%v)", action)
		}
	}
}

// TestStepBelowMinCapacity checks that learning steps are skipped
// until the replay buffer reaches its minimum capacity.
func TestStepBelowMinCapacity(t *testing.T) {
	env := newTestEnv(t)
	agent, err := New(env, newTestConfig(t), 42)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	step := env.Reset()
	if err := agent.ObserveFirst(step); err != nil {
		t.Fatalf("observefirst: %v", err)
	}

	// The replay buffer is empty: Step must be a silent no-op
	if err := agent.Step(); err != nil {
		t.Fatalf("step on empty buffer: %v", err)
	}

	action := mat.NewVecDense(1, []float64{float64(gridworld.ActionRight)})
	next, _ := env.Step(action)
	if err := agent.Observe(action, next); err != nil {
		t.Fatalf("observe: %v", err)
	}
	if err := agent.Step(); err != nil {
		t.Fatalf("step below min capacity: %v", err)
	}
}

// TestLearningStep drives enough interaction to fill the replay buffer
// and checks that a full learning step runs.
func TestLearningStep(t *testing.T) {
	env := newTestEnv(t)
	agent, err := New(env, newTestConfig(t), 42)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	step := env.Reset()
	if err := agent.ObserveFirst(step); err != nil {
		t.Fatalf("observefirst: %v", err)
	}
	for i := 0; i < 5; i++ {
		action := agent.SelectAction(step)
		next, last := env.Step(action)
		if err := agent.Observe(action, next); err != nil {
			t.Fatalf("observe: %v", err)
		}
		if err := agent.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
		step = next
		if last {
			agent.EndEpisode()
			step = env.Reset()
			agent.ObserveFirst(step)
		}
	}
}

// TestValidation checks the rejected environments and configurations.
func TestValidation(t *testing.T) {
	env := newTestEnv(t)

	c := newTestConfig(t)
	c.Biases = nil
	if _, err := New(env, c, 42); err == nil {
		t.Error("mismatched biases should fail")
	}

	c = newTestConfig(t)
	c.TargetUpdateInterval = 0
	if _, err := New(env, c, 42); err == nil {
		t.Error("zero target update interval should fail")
	}

	c = newTestConfig(t)
	c.Epsilon = 1.2
	if _, err := New(env, c, 42); err == nil {
		t.Error("epsilon above one should fail")
	}
}
