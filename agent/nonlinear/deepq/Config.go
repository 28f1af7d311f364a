package deepq

import (
	"fmt"

	"github.com/gorlkit/gorlkit/expreplay"
	"github.com/gorlkit/gorlkit/initwfn"
	"github.com/gorlkit/gorlkit/network"
	"github.com/gorlkit/gorlkit/solver"
)

// Config implements a configuration of a DeepQ agent. All fields are
// JSON serializable so that experiment configurations can be stored in
// files.
type Config struct {
	PolicyLayers []int                 // Hidden layer sizes
	Biases       []bool                // Whether each hidden layer has a bias
	Activations  []*network.Activation // Activation of each hidden layer
	Solver       *solver.Solver        // Adapts the learning network weights

	// Initialization algorithm for weights
	InitWFn *initwfn.InitWFn

	Epsilon float64 // Behaviour policy exploration rate

	// Experience replay parameters
	ExpReplay expreplay.Config

	// Target network updates
	Tau                  float64 // Polyak averaging constant
	TargetUpdateInterval int     // Gradient steps between target updates
}

// BatchSize returns the batch size of the agent constructed using this
// Config
func (c Config) BatchSize() int {
	return c.ExpReplay.SampleSize
}

// Validate returns an error describing why the configuration is
// illegal, or nil if it is legal
func (c Config) Validate() error {
	if len(c.PolicyLayers) != len(c.Biases) {
		return fmt.Errorf("validate: invalid number of biases"+
			"\n\twant(%v)\n\thave(%v)", len(c.PolicyLayers), len(c.Biases))
	}
	if len(c.PolicyLayers) != len(c.Activations) {
		return fmt.Errorf("validate: invalid number of activations"+
			"\n\twant(%v)\n\thave(%v)", len(c.PolicyLayers),
			len(c.Activations))
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("validate: epsilon out of range "+
			"\n\twant([0, 1])\n\thave(%v)", c.Epsilon)
	}
	if c.Solver == nil || c.InitWFn == nil {
		return fmt.Errorf("validate: need a solver and weight initializer")
	}
	if c.Tau <= 0 || c.Tau > 1 {
		return fmt.Errorf("validate: tau out of range "+
			"\n\twant((0, 1])\n\thave(%v)", c.Tau)
	}
	if c.TargetUpdateInterval < 1 {
		return fmt.Errorf("validate: target networks must be updated at "+
			"positive gradient step intervals \n\twant(>0)\n\thave(%v)",
			c.TargetUpdateInterval)
	}
	if c.BatchSize() < 1 {
		return fmt.Errorf("validate: need a positive replay sample size "+
			"\n\thave(%v)", c.BatchSize())
	}
	return nil
}
