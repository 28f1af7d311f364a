package policy

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	ts "github.com/gorlkit/gorlkit/timestep"
)

func stepWithObservation(obs []float64) ts.TimeStep {
	observation := mat.NewVecDense(len(obs), obs)
	return ts.New(ts.Mid, -1, 1.0, observation, 1)
}

// TestSelectActionGreedy checks that the greedy action is selected when
// exploration is off.
func TestSelectActionGreedy(t *testing.T) {
	policy, err := NewEGreedy(0.0, 2, 3, 42)
	if err != nil {
		t.Fatalf("newegreedy: %v", err)
	}

	// Make action 1 the highest valued action in state (1, 0)
	policy.Weights().Set(1, 0, 1.0)

	step := stepWithObservation([]float64{1, 0})
	for i := 0; i < 10; i++ {
		if action := policy.SelectAction(step).AtVec(0); action != 1 {
			t.Fatalf("greedy action \n\twant(1)\n\thave(%v)", action)
		}
	}
}

// TestSelectActionExplores checks that a fully exploratory policy
// selects every action.
func TestSelectActionExplores(t *testing.T) {
	policy, err := NewEGreedy(1.0, 2, 3, 42)
	if err != nil {
		t.Fatalf("newegreedy: %v", err)
	}
	policy.Weights().Set(1, 0, 1.0)

	step := stepWithObservation([]float64{1, 0})
	selected := make(map[int]bool)
	for i := 0; i < 100; i++ {
		action := int(policy.SelectAction(step).AtVec(0))
		if action < 0 || action > 2 {
			t.Fatalf("action out of range \n\thave(%v)", action)
		}
		selected[action] = true
	}

	if len(selected) != 3 {
		t.Errorf("exploratory actions selected \n\twant(3)\n\thave(%v)",
			len(selected))
	}
}

// TestEvalIgnoresEpsilon checks that evaluation mode disables
// exploration.
func TestEvalIgnoresEpsilon(t *testing.T) {
	policy, err := NewEGreedy(1.0, 2, 3, 42)
	if err != nil {
		t.Fatalf("newegreedy: %v", err)
	}
	policy.Weights().Set(2, 1, 1.0)

	policy.Eval()
	if !policy.IsEval() {
		t.Fatal("policy should be in evaluation mode")
	}

	step := stepWithObservation([]float64{0, 1})
	for i := 0; i < 10; i++ {
		if action := policy.SelectAction(step).AtVec(0); action != 2 {
			t.Fatalf("evaluation action \n\twant(2)\n\thave(%v)", action)
		}
	}

	policy.Train()
	if policy.IsEval() {
		t.Fatal("policy should be back in training mode")
	}
}

// TestNewEGreedyValidation checks the constructor's argument validation.
func TestNewEGreedyValidation(t *testing.T) {
	if _, err := NewEGreedy(-0.1, 2, 2, 42); err == nil {
		t.Error("negative epsilon should fail")
	}
	if _, err := NewEGreedy(1.1, 2, 2, 42); err == nil {
		t.Error("epsilon above one should fail")
	}
	if _, err := NewEGreedy(0.1, 0, 2, 42); err == nil {
		t.Error("zero features should fail")
	}
}
