// Package network implements feedforward neural network function
// approximators as Gorgonia computational graphs.
//
// A NeuralNet only populates an ExprGraph; it holds no virtual machine
// of its own. Callers compile the graph into a VM, set the network
// input with SetInput, run the VM, and then read the network output
// with Output.
package network

import (
	G "gorgonia.org/gorgonia"
)

// NeuralNet implements a neural network function approximator whose
// forward pass has been added to a Gorgonia computational graph
type NeuralNet interface {
	// Graph returns the computational graph holding the network
	Graph() *G.ExprGraph

	// Clone clones the network to a new computational graph, and
	// CloneWithBatch additionally changes the input batch size
	Clone() (NeuralNet, error)
	CloneWithBatch(int) (NeuralNet, error)

	BatchSize() int
	Features() int
	Outputs() int

	// SetInput sets the value of the network's input node before the
	// graph is run
	SetInput([]float64) error

	// Set copies the weights of another network of the same
	// architecture, and Polyak moves the weights toward another
	// network's by the argument averaging constant
	Set(NeuralNet) error
	Polyak(NeuralNet, float64) error

	Learnables() G.Nodes
	Model() []G.ValueGrad

	// Prediction returns the node holding the network output, and
	// Output returns the output value of the last graph run
	Prediction() *G.Node
	Output() G.Value
}
