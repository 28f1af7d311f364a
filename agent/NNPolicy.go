package agent

import (
	"gonum.org/v1/gonum/mat"

	"github.com/gorlkit/gorlkit/network"
)

// NNPolicy is a policy backed by a neural network function
// approximator. Unlike Policy, an NNPolicy selects actions from the
// output of the last run of its computational graph: callers set the
// network input, run a VM over the policy's graph, and then call
// SelectAction.
type NNPolicy interface {
	network.NeuralNet

	// SelectAction returns an action based on the network output of
	// the last graph run, along with the estimated value of that
	// action
	SelectAction() (*mat.VecDense, float64)

	ClonePolicy() (NNPolicy, error)
	ClonePolicyWithBatch(int) (NNPolicy, error)
}

// EGreedyNNPolicy is an NNPolicy with an adjustable exploration rate
type EGreedyNNPolicy interface {
	NNPolicy

	SetEpsilon(float64)
	Epsilon() float64
}
