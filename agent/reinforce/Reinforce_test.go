package reinforce

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	ts "github.com/gorlkit/gorlkit/timestep"
)

// runEpisode feeds the agent one scripted episode of (action, reward)
// pairs from a fixed state.
func runEpisode(t *testing.T, r *REINFORCE, state *mat.VecDense,
	actions []float64, rewards []float64) {
	t.Helper()

	if err := r.ObserveFirst(ts.New(ts.First, 0, 1, state, 0)); err != nil {
		t.Fatalf("observefirst: %v", err)
	}
	for i := range actions {
		stepType := ts.Mid
		if i == len(actions)-1 {
			stepType = ts.Last
		}
		next := ts.New(stepType, rewards[i], 1, state, i+1)
		action := mat.NewVecDense(1, []float64{actions[i]})
		if err := r.Observe(action, next); err != nil {
			t.Fatalf("observe: %v", err)
		}
		if err := r.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if err := r.EndEpisode(); err != nil {
		t.Fatalf("endepisode: %v", err)
	}
}

// TestPolicyImprovement checks that rewarding one action raises its
// probability and lowers the other's.
func TestPolicyImprovement(t *testing.T) {
	r, err := New(2, 2, Config{LearningRate: 0.1, Gamma: 0.9}, 42)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	state := mat.NewVecDense(2, []float64{1, 0})
	before := r.policy.Probs(state)[1]

	// Action 1 earns a positive return, action 0 a negative one
	runEpisode(t, r, state, []float64{1, 0}, []float64{2, -2})

	after := r.policy.Probs(state)[1]
	if after <= before {
		t.Errorf("rewarded action probability should rise "+
			"\n\twant(> %v)\n\thave(%v)", before, after)
	}
}

// TestDiscountedCredit checks the hand-computed first update of a
// one-step episode: with zero initial weights the gradient for the
// taken action is (1 - 0.5) * state, scaled by lr * G.
func TestDiscountedCredit(t *testing.T) {
	r, err := New(1, 2, Config{LearningRate: 0.5, Gamma: 0.9}, 42)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	state := mat.NewVecDense(1, []float64{1})
	runEpisode(t, r, state, []float64{0}, []float64{4})

	// scale = 0.5 * 4, coeff = 1 - 0.5, so the preference moves by 1
	probs := r.policy.Probs(state)
	want := math.Exp(1) / (math.Exp(1) + math.Exp(-1))
	if math.Abs(probs[0]-want) > 1e-12 {
		t.Errorf("updated action probability \n\twant(%v)\n\thave(%v)",
			want, probs[0])
	}
}

// TestStandardizedReturns checks that standardization centers the
// per-step gradient scales: a constant-reward episode produces
// opposite pushes at the two timesteps that nearly cancel. The second
// push sees the updated policy, so the cancellation is not exact.
func TestStandardizedReturns(t *testing.T) {
	r, err := New(1, 2, Config{LearningRate: 0.1, Gamma: 1.0,
		StandardizeReturns: true}, 42)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	state := mat.NewVecDense(1, []float64{1})

	// Returns are [2, 1] before standardization and symmetric around
	// zero after, while the same action is taken at both steps
	runEpisode(t, r, state, []float64{0, 0}, []float64{1, 1})

	probs := r.policy.Probs(state)
	if math.Abs(probs[0]-0.5) > 0.01 {
		t.Errorf("centered updates should leave the policy near uniform "+
			"\n\twant(≈0.5)\n\thave(%v)", probs[0])
	}
}

// TestEvalSelectsMode checks that evaluation mode selects the most
// probable action and performs no updates.
func TestEvalSelectsMode(t *testing.T) {
	r, err := New(1, 2, Config{LearningRate: 0.1, Gamma: 0.9}, 42)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	state := mat.NewVecDense(1, []float64{1})
	runEpisode(t, r, state, []float64{1}, []float64{5})

	r.Eval()
	if !r.IsEval() {
		t.Fatal("agent should report evaluation mode")
	}
	step := ts.New(ts.First, 0, 1, state, 0)
	for i := 0; i < 25; i++ {
		if action := r.SelectAction(step).AtVec(0); action != 1 {
			t.Fatalf("eval action \n\twant(1)\n\thave(%v)", action)
		}
	}

	before := r.policy.Probs(state)[1]
	runEpisode(t, r, state, []float64{0}, []float64{100})
	if after := r.policy.Probs(state)[1]; after != before {
		t.Error("evaluation mode should not update the policy")
	}
}

// TestConfigValidation checks the rejected configurations.
func TestConfigValidation(t *testing.T) {
	if _, err := New(2, 2, Config{LearningRate: 0, Gamma: 0.9},
		42); err == nil {
		t.Error("zero learning rate should fail")
	}
	if _, err := New(2, 2, Config{LearningRate: 0.1, Gamma: 1.5},
		42); err == nil {
		t.Error("gamma above one should fail")
	}
}
