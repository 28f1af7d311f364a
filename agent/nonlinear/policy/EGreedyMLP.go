// Package policy implements policies backed by neural network function
// approximators built with Gorgonia.
package policy

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"

	"github.com/gorlkit/gorlkit/agent"
	"github.com/gorlkit/gorlkit/network"
	"github.com/gorlkit/gorlkit/utils/floatutils"
)

// EGreedyMLP implements an ε-greedy policy over the action values
// predicted by a multi-layered perceptron. Given an environment with N
// actions, the network produces N outputs, each predicting the value
// of a distinct action.
//
// EGreedyMLP only populates a gorgonia.ExprGraph with the network and
// selects actions from its output; it holds no VM of its own. An
// external VM runs the computational graph of the policy, and it must
// be run before an action is selected:
//
//	vm := G.NewTapeMachine(policy.Graph())
//	policy.SetInput(obs)
//	vm.RunAll()
//	action, value := policy.SelectAction()
//	vm.Reset()
type EGreedyMLP struct {
	network.NeuralNet
	epsilon float64

	rng  *rand.Rand
	seed int64
}

// NewEGreedyMLP creates and returns a new EGreedyMLP predicting the
// value of actions actions from feature vectors of features elements.
// The hiddenSizes, biases, activations, and init parameters define the
// network architecture as in network.NewMLP; a final linear layer is
// always added so the network outputs one value per action. A linear
// ε-greedy policy is created by passing empty architecture slices.
func NewEGreedyMLP(epsilon float64, features, actions, batch int,
	g *G.ExprGraph, hiddenSizes []int, biases []bool, init G.InitWFn,
	activations []*network.Activation,
	seed int64) (agent.EGreedyNNPolicy, error) {
	if epsilon < 0 || epsilon > 1 {
		return nil, fmt.Errorf("newegreedymlp: epsilon out of range "+
			"\n\twant([0, 1])\n\thave(%v)", epsilon)
	}

	net, err := network.NewMLP(features, batch, actions, g, hiddenSizes,
		biases, init, activations)
	if err != nil {
		return nil, fmt.Errorf("newegreedymlp: could not create "+
			"network: %v", err)
	}

	return &EGreedyMLP{
		NeuralNet: net,
		epsilon:   epsilon,
		rng:       rand.New(rand.NewSource(seed)),
		seed:      seed,
	}, nil
}

// Network returns the neural network function approximator that the
// policy uses
func (e *EGreedyMLP) Network() network.NeuralNet {
	return e.NeuralNet
}

// ClonePolicy clones an EGreedyMLP
func (e *EGreedyMLP) ClonePolicy() (agent.NNPolicy, error) {
	return e.ClonePolicyWithBatch(e.BatchSize())
}

// ClonePolicyWithBatch clones an EGreedyMLP with a new input batch
// size
func (e *EGreedyMLP) ClonePolicyWithBatch(
	batchSize int) (agent.NNPolicy, error) {
	net, err := e.Network().CloneWithBatch(batchSize)
	if err != nil {
		return nil, fmt.Errorf("clonepolicywithbatch: could not clone "+
			"policy: %v", err)
	}

	return &EGreedyMLP{
		NeuralNet: net,
		epsilon:   e.epsilon,
		rng:       rand.New(rand.NewSource(e.seed)),
		seed:      e.seed,
	}, nil
}

// SetEpsilon sets the value of ε for the policy
func (e *EGreedyMLP) SetEpsilon(epsilon float64) {
	e.epsilon = epsilon
}

// Epsilon gets the value of ε for the policy
func (e *EGreedyMLP) Epsilon() float64 {
	return e.epsilon
}

// SelectAction selects an action from the action values generated by
// the last run of the computational graph, returning the action and
// its estimated value. The graph's VM must be run before this method
// is called.
func (e *EGreedyMLP) SelectAction() (*mat.VecDense, float64) {
	if e.Output() == nil {
		panic("selectaction: vm must be run before selecting an action")
	}

	actionValues := e.Output().Data().([]float64)

	// With probability ε select a random action
	if e.rng.Float64() < e.epsilon {
		action := e.rng.Intn(len(actionValues))
		return mat.NewVecDense(1, []float64{float64(action)}),
			actionValues[action]
	}

	// If multiple actions share the maximum value, break ties randomly
	_, maxIndices := floatutils.MaxSlice(actionValues)
	action := maxIndices[e.rng.Intn(len(maxIndices))]
	return mat.NewVecDense(1, []float64{float64(action)}),
		actionValues[action]
}
