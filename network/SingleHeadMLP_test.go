package network

import (
	"math"
	"testing"

	G "gorgonia.org/gorgonia"
)

const tolerance float64 = 1e-12

// forward runs one forward pass of a network on an input batch and
// returns the predicted values.
func forward(t *testing.T, net NeuralNet, input []float64) []float64 {
	t.Helper()

	vm := G.NewTapeMachine(net.Graph())
	defer vm.Close()

	if err := net.SetInput(input); err != nil {
		t.Fatalf("setinput: %v", err)
	}
	if err := vm.RunAll(); err != nil {
		t.Fatalf("runall: %v", err)
	}
	out := net.Output().Data().([]float64)
	vm.Reset()

	return out
}

// TestSingleHeadLinearForward checks the forward pass of a linear
// single-head network against a hand computation. With all weights 0.5
// and a zero bias, input (1, 2) maps to 0.5 + 1.0 = 1.5.
func TestSingleHeadLinearForward(t *testing.T) {
	g := G.NewGraph()
	net, err := NewSingleHeadMLP(2, 1, g, nil, nil, G.ValuesOf(0.5), nil)
	if err != nil {
		t.Fatalf("newsingleheadmlp: %v", err)
	}
	if net.Outputs() != 1 {
		t.Fatalf("single-head outputs \n\twant(1)\n\thave(%v)", net.Outputs())
	}

	out := forward(t, net, []float64{1, 2})
	if len(out) != 1 {
		t.Fatalf("output length \n\twant(1)\n\thave(%v)", len(out))
	}
	if math.Abs(out[0]-1.5) > tolerance {
		t.Errorf("prediction \n\twant(1.5)\n\thave(%v)", out[0])
	}
}

// TestSingleHeadHiddenForward checks the forward pass through a hidden
// ReLU layer. All weights are 1 and biases 0, so input 2 maps through
// two hidden units to 2 + 2 = 4.
func TestSingleHeadHiddenForward(t *testing.T) {
	g := G.NewGraph()
	net, err := NewSingleHeadMLP(1, 1, g, []int{2}, []bool{true},
		G.ValuesOf(1.0), []*Activation{ReLU()})
	if err != nil {
		t.Fatalf("newsingleheadmlp: %v", err)
	}

	out := forward(t, net, []float64{2})
	if math.Abs(out[0]-4) > tolerance {
		t.Errorf("prediction \n\twant(4)\n\thave(%v)", out[0])
	}
}

// TestSingleHeadCloneWithBatch checks that a batched clone predicts the
// same value for each copy of a repeated input row.
func TestSingleHeadCloneWithBatch(t *testing.T) {
	g := G.NewGraph()
	net, err := NewSingleHeadMLP(2, 1, g, nil, nil, G.ValuesOf(0.5), nil)
	if err != nil {
		t.Fatalf("newsingleheadmlp: %v", err)
	}

	clone, err := net.CloneWithBatch(3)
	if err != nil {
		t.Fatalf("clonewithbatch: %v", err)
	}
	if clone.BatchSize() != 3 {
		t.Fatalf("clone batch size \n\twant(3)\n\thave(%v)",
			clone.BatchSize())
	}

	out := forward(t, clone, []float64{1, 2, 1, 2, 1, 2})
	if len(out) != 3 {
		t.Fatalf("output length \n\twant(3)\n\thave(%v)", len(out))
	}
	for i, v := range out {
		if math.Abs(v-1.5) > tolerance {
			t.Errorf("prediction %d \n\twant(1.5)\n\thave(%v)", i, v)
		}
	}
}

// TestNewMLPValidation checks that mismatched architecture slices are
// rejected.
func TestNewMLPValidation(t *testing.T) {
	g := G.NewGraph()
	_, err := NewSingleHeadMLP(2, 1, g, []int{2}, nil, G.ValuesOf(1.0),
		[]*Activation{ReLU()})
	if err == nil {
		t.Error("mismatched biases should fail")
	}

	g = G.NewGraph()
	_, err = NewSingleHeadMLP(0, 1, g, nil, nil, G.ValuesOf(1.0), nil)
	if err == nil {
		t.Error("zero features should fail")
	}
}
