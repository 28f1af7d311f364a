// Package expreplay implements experience replay buffers, which store
// environment transitions and hand out batches of them for training
// value-based agents.
package expreplay

import (
	"container/list"
	"fmt"

	ts "github.com/gorlkit/gorlkit/timestep"
	"github.com/gorlkit/gorlkit/utils/intutils"
)

// ExperienceReplayer implements an experience replay buffer
type ExperienceReplayer interface {
	// Add adds a transition to the buffer
	Add(t ts.Transition) error

	// Sample samples a batch of experience from the buffer and
	// returns the batch as flattened state, action, reward, discount,
	// next state, and next action slices
	Sample() ([]float64, []float64, []float64, []float64, []float64,
		[]float64, error)

	// Capacity returns the current number of samples in the buffer
	Capacity() int

	// MaxCapacity returns the maximum allowable samples in the buffer
	MaxCapacity() int

	// MinCapacity returns the number of samples required to be in the
	// buffer before the buffer can be sampled
	MinCapacity() int

	// BatchSize returns the number of samples returned by Sample()
	BatchSize() int
}

// Config implements a specific configuration of an ExperienceReplayer
type Config struct {
	RemoveMethod      SelectorType
	SampleMethod      SelectorType
	RemoveSize        int
	SampleSize        int
	MaxReplayCapacity int
	MinReplayCapacity int
}

// Create creates and returns the ExperienceReplayer described by the
// Config, storing feature vectors of featureSize elements and action
// vectors of actionSize elements.
func (c Config) Create(featureSize, actionSize int,
	seed int64) (ExperienceReplayer, error) {
	remover, err := CreateSelector(c.RemoveMethod, c.RemoveSize, seed)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}
	sampler, err := CreateSelector(c.SampleMethod, c.SampleSize, seed)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	return New(remover, sampler, c.MinReplayCapacity, c.MaxReplayCapacity,
		featureSize, actionSize)
}

// cache implements a concrete ExperienceReplayer
type cache struct {
	stateCache      []float64
	actionCache     []float64
	rewardCache     []float64
	discountCache   []float64
	nextStateCache  []float64
	nextActionCache []float64

	// The indices of the cache that hold no data
	emptyIndices []int

	// The indices of the cache that hold data
	inUseIndices []int

	// orderOfInsert tracks the chronological order of inserts. For
	// i > j, the data at index orderOfInsert[i] was inserted into the
	// buffer after the data at index orderOfInsert[j].
	orderOfInsert *list.List

	// How data is removed and sampled
	remover Selector
	sampler Selector

	minCapacity int
	maxCapacity int
	featureSize int
	actionSize  int
}

// New creates and returns a new ExperienceReplayer. The remover and
// sampler parameters are Selectors which determine how data is removed
// and sampled from the replay buffer. The featureSize and actionSize
// parameters define the size of the feature and action vectors.
//
// Pixel observations should be flattened before adding to the buffer.
func New(remover, sampler Selector, minCapacity, maxCapacity, featureSize,
	actionSize int) (ExperienceReplayer, error) {
	if minCapacity <= 0 {
		return nil, fmt.Errorf("new: minCapacity must be > 0")
	}
	if maxCapacity < 1 {
		return nil, fmt.Errorf("new: maxCapacity must be >= 1")
	}
	// A full buffer evicts before inserting, and eviction refuses to
	// drop below the minimum capacity, so the maximum must leave room
	// above the minimum or a full buffer could never accept new data.
	if maxCapacity <= minCapacity {
		return nil, fmt.Errorf("new: max capacity must exceed min "+
			"capacity \n\twant(> %v)\n\thave(%v)", minCapacity, maxCapacity)
	}
	if maxCapacity < sampler.BatchSize() {
		return nil, fmt.Errorf("new: cannot have batch size (%v) > max "+
			"buffer capacity (%v)", sampler.BatchSize(), maxCapacity)
	}

	remover.registerAsRemover()

	emptyIndices := make([]int, maxCapacity)
	for i := range emptyIndices {
		emptyIndices[i] = i
	}

	return &cache{
		stateCache:      make([]float64, maxCapacity*featureSize),
		actionCache:     make([]float64, maxCapacity*actionSize),
		rewardCache:     make([]float64, maxCapacity),
		discountCache:   make([]float64, maxCapacity),
		nextStateCache:  make([]float64, maxCapacity*featureSize),
		nextActionCache: make([]float64, maxCapacity*actionSize),

		emptyIndices:  emptyIndices,
		inUseIndices:  make([]int, 0, maxCapacity),
		orderOfInsert: list.New(),

		remover: remover,
		sampler: sampler,

		minCapacity: minCapacity,
		maxCapacity: maxCapacity,
		featureSize: featureSize,
		actionSize:  actionSize,
	}, nil
}

// insertOrder returns a slice of at most n indices describing the
// order in which the first n data were inserted into the buffer.
//
// For example, if this function returns []int{9, 15, 1}, the first
// data was inserted into the buffer at position 9, the next at
// position 15, and the last at position 1.
func (c *cache) insertOrder(n int) []int {
	size := intutils.Min(n, c.Capacity())
	order := make([]int, size)

	element := c.orderOfInsert.Front()
	for i := 0; i < size; i++ {
		order[i] = element.Value.(int)
		element = element.Next()
	}
	return order
}

// removeFront drops the earliest tracked insertion index
func (c *cache) removeFront() {
	c.orderOfInsert.Remove(c.orderOfInsert.Front())
}

// BatchSize returns the number of samples returned by Sample()
func (c *cache) BatchSize() int {
	return c.sampler.BatchSize()
}

// remove removes elements from the cache using indices chosen by the
// cache's remover
func (c *cache) remove() error {
	if c.Capacity() <= c.minCapacity {
		return fmt.Errorf("remove: cannot remove, cache at min capacity")
	}

	indices := c.remover.choose(c)
	for _, index := range indices {
		for i := range c.inUseIndices {
			if c.inUseIndices[i] == index {
				c.inUseIndices[i] = c.inUseIndices[len(c.inUseIndices)-1]
				c.inUseIndices = c.inUseIndices[:len(c.inUseIndices)-1]
				break
			}
		}
		c.emptyIndices = append(c.emptyIndices, index)
	}
	return nil
}

// Sample samples and returns a batch of transitions from the replay
// buffer
func (c *cache) Sample() ([]float64, []float64, []float64, []float64,
	[]float64, []float64, error) {
	if c.Capacity() == 0 {
		return nil, nil, nil, nil, nil, nil,
			&ExpReplayError{Op: "sample", Err: errEmptyCache}
	}
	if c.Capacity() < c.MinCapacity() {
		return nil, nil, nil, nil, nil, nil,
			&ExpReplayError{Op: "sample", Err: errInsufficientSamples}
	}

	indices := c.sampler.choose(c)

	stateBatch := make([]float64, len(indices)*c.featureSize)
	nextStateBatch := make([]float64, len(indices)*c.featureSize)
	for i, index := range indices {
		batchStart := i * c.featureSize
		expStart := index * c.featureSize
		copy(stateBatch[batchStart:batchStart+c.featureSize],
			c.stateCache[expStart:expStart+c.featureSize])
		copy(nextStateBatch[batchStart:batchStart+c.featureSize],
			c.nextStateCache[expStart:expStart+c.featureSize])
	}

	actionBatch := make([]float64, len(indices)*c.actionSize)
	nextActionBatch := make([]float64, len(indices)*c.actionSize)
	for i, index := range indices {
		batchStart := i * c.actionSize
		expStart := index * c.actionSize
		copy(actionBatch[batchStart:batchStart+c.actionSize],
			c.actionCache[expStart:expStart+c.actionSize])
		copy(nextActionBatch[batchStart:batchStart+c.actionSize],
			c.nextActionCache[expStart:expStart+c.actionSize])
	}

	rewardBatch := make([]float64, len(indices))
	discountBatch := make([]float64, len(indices))
	for i, index := range indices {
		rewardBatch[i] = c.rewardCache[index]
		discountBatch[i] = c.discountCache[index]
	}

	return stateBatch, actionBatch, rewardBatch, discountBatch,
		nextStateBatch, nextActionBatch, nil
}

// Capacity returns the current number of elements in the cache that
// are available for sampling
func (c *cache) Capacity() int {
	return len(c.inUseIndices)
}

// MaxCapacity returns the maximum number of elements allowed in the
// cache
func (c *cache) MaxCapacity() int {
	return c.maxCapacity
}

// MinCapacity returns the minimum number of elements required in the
// cache before sampling is allowed
func (c *cache) MinCapacity() int {
	return c.minCapacity
}

// Add adds a transition to the cache
func (c *cache) Add(t ts.Transition) error {
	if t.State.Len() != c.featureSize || t.NextState.Len() != c.featureSize {
		return fmt.Errorf("add: invalid feature size \n\twant(%v)"+
			"\n\thave(%v)", c.featureSize, t.State.Len())
	}
	if t.Action.Len() != c.actionSize || t.NextAction.Len() != c.actionSize {
		return fmt.Errorf("add: invalid action size \n\twant(%v)"+
			"\n\thave(%v)", c.actionSize, t.Action.Len())
	}

	if c.Capacity() >= c.maxCapacity {
		if err := c.remove(); err != nil {
			return fmt.Errorf("add: cannot add to buffer: %v", err)
		}
	}

	index := c.emptyIndices[len(c.emptyIndices)-1]
	c.emptyIndices = c.emptyIndices[:len(c.emptyIndices)-1]
	c.orderOfInsert.PushBack(index)
	c.inUseIndices = append(c.inUseIndices, index)

	stateInd := index * c.featureSize
	for i := 0; i < c.featureSize; i++ {
		c.stateCache[stateInd+i] = t.State.AtVec(i)
		c.nextStateCache[stateInd+i] = t.NextState.AtVec(i)
	}

	actionInd := index * c.actionSize
	for i := 0; i < c.actionSize; i++ {
		c.actionCache[actionInd+i] = t.Action.AtVec(i)
		c.nextActionCache[actionInd+i] = t.NextAction.AtVec(i)
	}

	c.rewardCache[index] = t.Reward
	c.discountCache[index] = t.Discount

	return nil
}
