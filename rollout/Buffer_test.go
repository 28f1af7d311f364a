package rollout

import (
	"math"
	"testing"
)

// TestBufferFillAndGet checks the store/finish/get cycle of the buffer
// against hand-computed returns.
func TestBufferFillAndGet(t *testing.T) {
	b, err := New(3, 2, 0.9, 0.95)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	rewards := [][]float64{{1, 2}, {1, 2}, {1, 2}}
	dones := [][]bool{{false, false}, {true, false}, {false, false}}
	values := [][]float64{{0, 0}, {0, 0}, {0, 0}}

	for i := range rewards {
		if err := b.Store(rewards[i], dones[i], values[i]); err != nil {
			t.Fatalf("store: %v", err)
		}
	}
	if !b.Full() {
		t.Fatal("buffer should be full after storing all timesteps")
	}

	if err := b.Finish([]float64{0, 0}); err != nil {
		t.Fatalf("finish: %v", err)
	}

	_, returns, err := b.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	// Env 0 has a done at step 1: G = [1.9, 1, 1]
	// Env 1 runs through:         G = [2 + 1.8 + 1.62, 2 + 1.8, 2]
	expected := []float64{1.9, 5.42, 1.0, 3.8, 1.0, 2.0}
	for i := range expected {
		if math.Abs(returns[i]-expected[i]) > tolerance {
			t.Errorf("return at %d \n\twant(%v)\n\thave(%v)", i, expected[i],
				returns[i])
		}
	}
}

// TestBufferTailBootstrap checks that WithTailBootstrap adds the
// discounted tail value into the final reward row before the return
// scan.
func TestBufferTailBootstrap(t *testing.T) {
	b, err := New(3, 1, 0.9, 1.0, WithTailBootstrap())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	for i := 0; i < 3; i++ {
		err := b.Store([]float64{1}, []bool{false}, []float64{0})
		if err != nil {
			t.Fatalf("store: %v", err)
		}
	}
	if err := b.Finish([]float64{2}); err != nil {
		t.Fatalf("finish: %v", err)
	}

	_, returns, err := b.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	// Final reward becomes 1 + 0.9*2 = 2.8, so
	// G = [1 + 0.9*(1 + 0.9*2.8), 1 + 0.9*2.8, 2.8]
	expected := []float64{4.168, 3.52, 2.8}
	for i := range expected {
		if math.Abs(returns[i]-expected[i]) > tolerance {
			t.Errorf("return at %d \n\twant(%v)\n\thave(%v)", i, expected[i],
				returns[i])
		}
	}
}

// TestBufferAdvantagesStandardized checks that Get hands out
// standardized advantage estimates.
func TestBufferAdvantagesStandardized(t *testing.T) {
	b, err := New(4, 1, 0.99, 0.95)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	rewards := []float64{1, -1, 2, 0.5}
	values := []float64{0.5, 0.1, -0.2, 0.3}
	for i := 0; i < 4; i++ {
		err := b.Store([]float64{rewards[i]}, []bool{false},
			[]float64{values[i]})
		if err != nil {
			t.Fatalf("store: %v", err)
		}
	}
	if err := b.Finish([]float64{0.25}); err != nil {
		t.Fatalf("finish: %v", err)
	}

	advantages, _, err := b.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	var mean float64
	for _, a := range advantages {
		mean += a
	}
	mean /= float64(len(advantages))
	if math.Abs(mean) > 1e-9 {
		t.Errorf("standardized advantage mean \n\twant(0)\n\thave(%v)", mean)
	}
}

// TestBufferSingleEntry checks that a one-timestep, one-env buffer
// hands out finite estimates: a single advantage cannot be
// standardized, so it is returned as computed.
func TestBufferSingleEntry(t *testing.T) {
	b, err := New(1, 1, 0.9, 0.95)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := b.Store([]float64{1}, []bool{false}, []float64{0}); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := b.Finish([]float64{0}); err != nil {
		t.Fatalf("finish: %v", err)
	}

	advantages, returns, err := b.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	// δ = 1 + 0.9·0 − 0 = 1
	if math.IsNaN(advantages[0]) {
		t.Fatal("single-entry advantage should be finite \n\thave(NaN)")
	}
	if math.Abs(advantages[0]-1) > tolerance {
		t.Errorf("single-entry advantage \n\twant(1)\n\thave(%v)",
			advantages[0])
	}
	if math.Abs(returns[0]-1) > tolerance {
		t.Errorf("single-entry return \n\twant(1)\n\thave(%v)", returns[0])
	}
}

// TestBufferErrors checks the buffer's validation failures.
func TestBufferErrors(t *testing.T) {
	if _, err := New(0, 1, 0.9, 0.95); !IsEmptyBuffer(err) {
		t.Errorf("zero-length buffer \n\twant(empty buffer error)"+
			"\n\thave(%v)", err)
	}
	if _, err := New(1, 1, 1.1, 0.95); !IsInvalidParameter(err) {
		t.Errorf("discount above 1 \n\twant(invalid parameter error)"+
			"\n\thave(%v)", err)
	}

	b, err := New(2, 2, 0.9, 0.95)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	err = b.Store([]float64{1}, []bool{false, false}, []float64{0, 0})
	if !IsShapeMismatch(err) {
		t.Errorf("short reward row \n\twant(shape mismatch error)"+
			"\n\thave(%v)", err)
	}

	if err := b.Finish([]float64{0, 0}); err == nil {
		t.Error("finish on a partially filled buffer should fail")
	}
	if _, _, err := b.Get(); err == nil {
		t.Error("get on a partially filled buffer should fail")
	}

	full := []float64{1, 1}
	if err := b.Store(full, []bool{false, false}, full); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := b.Store(full, []bool{false, false}, full); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := b.Store(full, []bool{false, false}, full); err == nil {
		t.Error("store into a full buffer should fail")
	}

	if _, _, err := b.Get(); err == nil {
		t.Error("get before finish should fail")
	}
}
