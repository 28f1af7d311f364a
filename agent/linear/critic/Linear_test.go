package critic

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

const tolerance float64 = 1e-12

// TestPredictZeroInit checks that a freshly constructed critic predicts
// zero everywhere.
func TestPredictZeroInit(t *testing.T) {
	critic, err := NewLinear(3, 0.1)
	if err != nil {
		t.Fatalf("newlinear: %v", err)
	}

	state := mat.NewVecDense(3, []float64{1, -2, 3})
	if v := critic.Predict(state); v != 0 {
		t.Errorf("zero-initialized prediction \n\twant(0)\n\thave(%v)", v)
	}
}

// TestLearnGradientStep checks a single hand-computed gradient step.
//
// With zero weights, one state s = (1, 0) and target 2, the prediction
// error is -2, the loss is 4, and the update is
// w += lr * 2 * s = (1, 0) for lr = 0.5.
func TestLearnGradientStep(t *testing.T) {
	critic, err := NewLinear(2, 0.5)
	if err != nil {
		t.Fatalf("newlinear: %v", err)
	}

	states := mat.NewDense(1, 2, []float64{1, 0})
	loss, err := critic.Learn(states, []float64{2})
	if err != nil {
		t.Fatalf("learn: %v", err)
	}

	if math.Abs(loss-4) > tolerance {
		t.Errorf("loss before update \n\twant(4)\n\thave(%v)", loss)
	}

	state := mat.NewVecDense(2, []float64{1, 0})
	if v := critic.Predict(state); math.Abs(v-1) > tolerance {
		t.Errorf("prediction after update \n\twant(1)\n\thave(%v)", v)
	}
}

// TestLearnConverges checks that repeated updates fit an exactly
// realizable target function.
func TestLearnConverges(t *testing.T) {
	critic, err := NewLinear(2, 0.1)
	if err != nil {
		t.Fatalf("newlinear: %v", err)
	}

	// Targets generated by w* = (1, -1) on one-hot states
	states := mat.NewDense(2, 2, []float64{
		1, 0,
		0, 1,
	})
	targets := []float64{1, -1}

	var loss float64
	for i := 0; i < 500; i++ {
		loss, err = critic.Learn(states, targets)
		if err != nil {
			t.Fatalf("learn: %v", err)
		}
	}

	if loss > 1e-6 {
		t.Errorf("loss after convergence \n\twant(< 1e-6)\n\thave(%v)", loss)
	}

	batch := critic.PredictBatch(states)
	for i, target := range targets {
		if math.Abs(batch[i]-target) > 1e-3 {
			t.Errorf("prediction %d \n\twant(%v)\n\thave(%v)", i, target,
				batch[i])
		}
	}
}

// TestLearnShapeValidation checks that mismatched batches are rejected.
func TestLearnShapeValidation(t *testing.T) {
	critic, err := NewLinear(2, 0.1)
	if err != nil {
		t.Fatalf("newlinear: %v", err)
	}

	states := mat.NewDense(2, 2, nil)
	if _, err := critic.Learn(states, []float64{1}); err == nil {
		t.Error("mismatched target length should fail")
	}

	wide := mat.NewDense(1, 3, nil)
	if _, err := critic.Learn(wide, []float64{1}); err == nil {
		t.Error("mismatched feature length should fail")
	}
}

// TestNewLinearValidation checks the constructor's argument validation.
func TestNewLinearValidation(t *testing.T) {
	if _, err := NewLinear(0, 0.1); err == nil {
		t.Error("zero features should fail")
	}
	if _, err := NewLinear(2, 0); err == nil {
		t.Error("zero learning rate should fail")
	}
}
