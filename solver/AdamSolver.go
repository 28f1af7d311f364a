package solver

import G "gorgonia.org/gorgonia"

// Default Adam hyperparameters, following the presenting paper
// (https://arxiv.org/abs/1412.6980)
const (
	defaultAdamEpsilon float64 = 1e-8
	defaultAdamBeta1   float64 = 0.9
	defaultAdamBeta2   float64 = 0.999
)

// AdamConfig describes a configuration of the Adam solver
type AdamConfig struct {
	StepSize float64
	Epsilon  float64 // Smoothing factor
	Beta1    float64 // First-moment decay rate
	Beta2    float64 // Second-moment decay rate
	Batch    int
}

// NewDefaultAdam returns a new Adam Solver with the paper's default
// hyperparameters. Only the step size and batch size need choosing.
func NewDefaultAdam(stepSize float64, batchSize int) (*Solver, error) {
	return NewAdam(stepSize, defaultAdamEpsilon, defaultAdamBeta1,
		defaultAdamBeta2, batchSize)
}

// NewAdam returns a new Adam Solver
func NewAdam(stepSize, epsilon, beta1, beta2 float64,
	batchSize int) (*Solver, error) {
	return newSolver(Adam, AdamConfig{
		StepSize: stepSize,
		Epsilon:  epsilon,
		Beta1:    beta1,
		Beta2:    beta2,
		Batch:    batchSize,
	})
}

// Create returns the Gorgonia Adam Solver the AdamConfig describes
func (a AdamConfig) Create() G.Solver {
	return G.NewAdamSolver(
		G.WithLearnRate(a.StepSize),
		G.WithEps(a.Epsilon),
		G.WithBeta1(a.Beta1),
		G.WithBeta2(a.Beta2),
		G.WithBatchSize(float64(a.Batch)),
	)
}

// ValidType returns whether the given Solver type can be created from
// this config
func (a AdamConfig) ValidType(t Type) bool {
	return t == Adam
}
