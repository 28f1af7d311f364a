package qlearning

import "fmt"

// Config implements a configuration of the Q-Learning algorithm
type Config struct {
	// Epsilon is the probability with which the behaviour policy
	// selects a random action
	Epsilon float64

	// LearningRate scales the temporal-difference update of the
	// action values
	LearningRate float64
}

// Validate returns an error describing why the configuration is
// illegal, or nil if it is legal
func (c Config) Validate() error {
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("validate: epsilon out of range "+
			"\n\twant([0, 1])\n\thave(%v)", c.Epsilon)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("validate: learning rate must be positive "+
			"\n\thave(%v)", c.LearningRate)
	}
	return nil
}
