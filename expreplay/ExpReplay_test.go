package expreplay

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	ts "github.com/gorlkit/gorlkit/timestep"
)

// transitionWithReward returns a 1-feature, 1-action transition whose
// reward doubles as an identifier.
func transitionWithReward(reward float64) ts.Transition {
	return ts.Transition{
		State:      mat.NewVecDense(1, []float64{reward}),
		Action:     mat.NewVecDense(1, []float64{0}),
		Reward:     reward,
		Discount:   0.9,
		NextState:  mat.NewVecDense(1, []float64{reward + 1}),
		NextAction: mat.NewVecDense(1, []float64{1}),
	}
}

func newTestBuffer(t *testing.T, minCapacity, maxCapacity,
	batchSize int) ExperienceReplayer {
	t.Helper()

	buffer, err := New(NewFifoSelector(1), NewFifoSelector(batchSize),
		minCapacity, maxCapacity, 1, 1)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return buffer
}

// TestSampleErrors checks the classification of empty-cache and
// insufficient-sample errors.
func TestSampleErrors(t *testing.T) {
	buffer := newTestBuffer(t, 2, 4, 1)

	_, _, _, _, _, _, err := buffer.Sample()
	if !IsEmptyCache(err) {
		t.Errorf("sampling an empty buffer \n\twant(empty cache error)"+
			"\n\thave(%v)", err)
	}

	if err := buffer.Add(transitionWithReward(1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	_, _, _, _, _, _, err = buffer.Sample()
	if !IsInsufficientSamples(err) {
		t.Errorf("sampling below min capacity \n\twant(insufficient "+
			"samples error)\n\thave(%v)", err)
	}
	if IsEmptyCache(err) {
		t.Error("insufficient samples should not classify as empty cache")
	}
}

// TestFifoSampling checks that a FiFo sampler returns the oldest
// transitions in insertion order.
func TestFifoSampling(t *testing.T) {
	buffer := newTestBuffer(t, 1, 4, 2)

	for _, reward := range []float64{1, 2, 3} {
		if err := buffer.Add(transitionWithReward(reward)); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	states, actions, rewards, discounts, nextStates, nextActions, err :=
		buffer.Sample()
	if err != nil {
		t.Fatalf("sample: %v", err)
	}

	if rewards[0] != 1 || rewards[1] != 2 {
		t.Errorf("fifo sample rewards \n\twant([1 2])\n\thave(%v)", rewards)
	}
	if states[0] != 1 || nextStates[0] != 2 {
		t.Errorf("fifo sample states \n\twant(1, 2)\n\thave(%v, %v)",
			states[0], nextStates[0])
	}
	if actions[0] != 0 || nextActions[0] != 1 {
		t.Errorf("fifo sample actions \n\twant(0, 1)\n\thave(%v, %v)",
			actions[0], nextActions[0])
	}
	if discounts[0] != 0.9 {
		t.Errorf("fifo sample discount \n\twant(0.9)\n\thave(%v)",
			discounts[0])
	}
}

// TestFifoRemoval checks that adding beyond the maximum capacity
// evicts the oldest transition.
func TestFifoRemoval(t *testing.T) {
	buffer := newTestBuffer(t, 1, 2, 2)

	for _, reward := range []float64{1, 2, 3} {
		if err := buffer.Add(transitionWithReward(reward)); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	if have := buffer.Capacity(); have != 2 {
		t.Fatalf("capacity after eviction \n\twant(2)\n\thave(%v)", have)
	}

	_, _, rewards, _, _, _, err := buffer.Sample()
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if rewards[0] != 2 || rewards[1] != 3 {
		t.Errorf("surviving rewards \n\twant([2 3])\n\thave(%v)", rewards)
	}
}

// TestUniformSampling checks that a uniform sampler only returns data
// that was stored in the buffer.
func TestUniformSampling(t *testing.T) {
	buffer, err := New(NewFifoSelector(1), NewUniformSelector(4, 42), 1, 4,
		1, 1)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	stored := map[float64]bool{1: true, 2: true, 3: true}
	for reward := range stored {
		if err := buffer.Add(transitionWithReward(reward)); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	_, _, rewards, _, _, _, err := buffer.Sample()
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(rewards) != 4 {
		t.Fatalf("uniform sample size \n\twant(4)\n\thave(%v)",
			len(rewards))
	}
	for _, reward := range rewards {
		if !stored[reward] {
			t.Errorf("sampled reward %v was never stored", reward)
		}
	}
}

// TestShapeValidation checks that malformed transitions are rejected.
func TestShapeValidation(t *testing.T) {
	buffer := newTestBuffer(t, 1, 4, 1)

	bad := transitionWithReward(1)
	bad.State = mat.NewVecDense(2, nil)
	if err := buffer.Add(bad); err == nil {
		t.Error("wrong feature size should fail")
	}
	if have := buffer.Capacity(); have != 0 {
		t.Errorf("rejected add should not consume capacity \n\twant(0)"+
			"\n\thave(%v)", have)
	}
}

// TestMinCapacityBelowMax checks that buffers whose maximum capacity
// does not exceed their minimum are rejected: a full buffer evicts
// before inserting, and eviction refuses to drop below the minimum, so
// such a buffer would stop accepting data once full.
func TestMinCapacityBelowMax(t *testing.T) {
	_, err := New(NewFifoSelector(1), NewFifoSelector(1), 2, 2, 1, 1)
	if err == nil {
		t.Error("min capacity equal to max capacity should fail")
	}

	c := Config{
		RemoveMethod:      Fifo,
		SampleMethod:      Uniform,
		RemoveSize:        1,
		SampleSize:        1,
		MaxReplayCapacity: 2,
		MinReplayCapacity: 2,
	}
	if _, err := c.Create(1, 1, 42); err == nil {
		t.Error("config with min capacity equal to max should fail")
	}
}

// TestConfigCreate checks that a Config builds a working buffer.
func TestConfigCreate(t *testing.T) {
	c := Config{
		RemoveMethod:      Fifo,
		SampleMethod:      Uniform,
		RemoveSize:        1,
		SampleSize:        2,
		MaxReplayCapacity: 8,
		MinReplayCapacity: 2,
	}

	buffer, err := c.Create(1, 1, 42)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if buffer.BatchSize() != 2 {
		t.Errorf("batch size \n\twant(2)\n\thave(%v)", buffer.BatchSize())
	}
	if buffer.MaxCapacity() != 8 || buffer.MinCapacity() != 2 {
		t.Errorf("capacities \n\twant(8, 2)\n\thave(%v, %v)",
			buffer.MaxCapacity(), buffer.MinCapacity())
	}

	c.SampleMethod = SelectorType("Prioritized")
	if _, err := c.Create(1, 1, 42); err == nil {
		t.Error("unknown selector type should fail")
	}
}
