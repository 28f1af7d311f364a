package a2c

import "fmt"

// Config implements a configuration of the advantage actor-critic
// algorithm
type Config struct {
	// RolloutLength is the number of timesteps T collected from every
	// environment copy between updates
	RolloutLength int

	// Gamma is the discount factor applied to future rewards
	Gamma float64

	// Lambda interpolates the advantage estimator between one-step
	// temporal-difference residuals (0) and Monte Carlo advantages (1)
	Lambda float64

	// PolicyLearningRate scales the policy-gradient step
	PolicyLearningRate float64

	// CriticLearningRate scales the critic's regression step toward
	// the rollout returns
	CriticLearningRate float64

	// CriticGradSteps is the number of regression steps taken on the
	// critic per rollout
	CriticGradSteps int

	// TailBootstrap credits the rollout's final row with the critic's
	// estimate of the states beyond the rollout horizon, removing the
	// bias of truncating mid-episode
	TailBootstrap bool
}

// Validate returns an error describing why the configuration is
// illegal, or nil if it is legal
func (c Config) Validate() error {
	if c.RolloutLength < 1 {
		return fmt.Errorf("validate: rollout length must be positive "+
			"\n\thave(%v)", c.RolloutLength)
	}
	if c.Gamma <= 0 || c.Gamma > 1 {
		return fmt.Errorf("validate: gamma out of range "+
			"\n\twant((0, 1])\n\thave(%v)", c.Gamma)
	}
	if c.Lambda < 0 || c.Lambda > 1 {
		return fmt.Errorf("validate: lambda out of range "+
			"\n\twant([0, 1])\n\thave(%v)", c.Lambda)
	}
	if c.PolicyLearningRate <= 0 {
		return fmt.Errorf("validate: policy learning rate must be "+
			"positive \n\thave(%v)", c.PolicyLearningRate)
	}
	if c.CriticLearningRate <= 0 {
		return fmt.Errorf("validate: critic learning rate must be "+
			"positive \n\thave(%v)", c.CriticLearningRate)
	}
	if c.CriticGradSteps < 1 {
		return fmt.Errorf("validate: critic gradient steps must be "+
			"positive \n\thave(%v)", c.CriticGradSteps)
	}
	return nil
}
