package expreplay

import (
	"fmt"
	"math/rand"

	"github.com/gorlkit/gorlkit/utils/intutils"
)

// SelectorType describes the different types of Selectors that are
// available
type SelectorType string

// Available Selector types
const (
	Uniform SelectorType = "Uniform"
	Fifo    SelectorType = "Fifo"
)

// Selector implements functionality for choosing how data should be
// sampled and/or removed from an experience replay buffer
type Selector interface {
	// choose selects the indices at which data should be sampled from
	// the experience replay buffer
	choose(c *cache) []int

	// BatchSize returns the number of elements that will be selected
	BatchSize() int

	// registerAsRemover registers a Selector as a remover.
	//
	// Some Selectors require different behaviour when they remove
	// data instead of sampling it, so they are notified when they
	// become a remover.
	registerAsRemover()
}

// CreateSelector creates and returns the Selector described by the
// argument SelectorType
func CreateSelector(t SelectorType, batchSize int,
	seed int64) (Selector, error) {
	switch t {
	case Uniform:
		return NewUniformSelector(batchSize, seed), nil
	case Fifo:
		return NewFifoSelector(batchSize), nil
	}
	return nil, fmt.Errorf("createselector: unknown selector type %v", t)
}

// uniformSelector is a Selector which selects data from an experience
// replay buffer uniformly randomly
type uniformSelector struct {
	samples int
	rng     *rand.Rand
}

// NewUniformSelector returns a new Selector which selects data
// uniformly randomly from an experience replay buffer
func NewUniformSelector(samples int, seed int64) Selector {
	return &uniformSelector{
		samples: samples,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// registerAsRemover implements the Selector interface
func (u *uniformSelector) registerAsRemover() {}

// BatchSize gets the number of samples in a batch drawn from the
// buffer
func (u *uniformSelector) BatchSize() int {
	return u.samples
}

// choose selects a number of indices at which to draw data from the
// buffer. Indices may repeat: sampling is with replacement.
func (u *uniformSelector) choose(c *cache) []int {
	selected := make([]int, u.BatchSize())
	for i := range selected {
		selected[i] = c.inUseIndices[u.rng.Intn(len(c.inUseIndices))]
	}
	return selected
}

// fifoSelector is a Selector which selects data from an experience
// replay buffer first-in-first-out
type fifoSelector struct {
	samples int
	remover bool
}

// NewFifoSelector returns a new Selector which draws the oldest data
// from an experience replay buffer
func NewFifoSelector(samples int) Selector {
	return &fifoSelector{samples: samples}
}

// registerAsRemover implements the Selector interface
func (f *fifoSelector) registerAsRemover() {
	f.remover = true
}

// BatchSize gets the number of samples in a batch drawn from the
// buffer
func (f *fifoSelector) BatchSize() int {
	return f.samples
}

// choose selects the earliest inserted indices of the buffer
func (f *fifoSelector) choose(c *cache) []int {
	size := intutils.Min(f.BatchSize(), c.Capacity())
	selected := c.insertOrder(size)

	if f.remover {
		// The indices at which data was added first are freed first,
		// so drop them from the insertion-order tracking
		for range selected {
			c.removeFront()
		}
	}

	return selected
}
