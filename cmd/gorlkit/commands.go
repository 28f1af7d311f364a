package main

import (
	"github.com/spf13/cobra"
)

var (
	seed     uint64
	maxSteps uint
	saveFile string

	// qlearning flags
	epsilon      float64
	learningRate float64

	// a2c flags
	numEnvs       int
	rolloutLength int
	epochs        int
	gamma         float64
	lambda        float64

	// deepq flags
	hiddenSize int
	batchSize  int

	rootCmd = &cobra.Command{
		Use:   "gorlkit",
		Short: "Train and evaluate reinforcement learning agents",
		Long: `gorlkit trains reinforcement learning agents on built-in
environments and saves the episodic returns they generate.`,
	}

	qlearningCmd = &cobra.Command{
		Use:   "qlearning",
		Short: "Train a linear Q-Learning agent on a gridworld",
		RunE:  runQLearning,
	}

	a2cCmd = &cobra.Command{
		Use:   "a2c",
		Short: "Train an advantage actor-critic agent on vectorized gridworlds",
		RunE:  runA2C,
	}

	deepqCmd = &cobra.Command{
		Use:   "deepq",
		Short: "Train a deep Q-learning agent on cartpole",
		RunE:  runDeepQ,
	}
)

func init() {
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 42,
		"random seed for the agent and environment")
	rootCmd.PersistentFlags().UintVar(&maxSteps, "steps", 10000,
		"number of environment timesteps to train for")
	rootCmd.PersistentFlags().StringVar(&saveFile, "save", "",
		"file to save episodic returns to")

	qlearningCmd.Flags().Float64Var(&epsilon, "epsilon", 0.1,
		"behaviour policy exploration rate")
	qlearningCmd.Flags().Float64Var(&learningRate, "lr", 0.1,
		"learning rate")

	a2cCmd.Flags().IntVar(&numEnvs, "envs", 4,
		"number of parallel environment copies")
	a2cCmd.Flags().IntVar(&rolloutLength, "rollout", 16,
		"timesteps collected per environment copy between updates")
	a2cCmd.Flags().IntVar(&epochs, "epochs", 100,
		"number of collect-update cycles")
	a2cCmd.Flags().Float64Var(&gamma, "gamma", 0.99, "discount factor")
	a2cCmd.Flags().Float64Var(&lambda, "lambda", 0.95,
		"generalized advantage estimation decay")

	deepqCmd.Flags().Float64Var(&epsilon, "epsilon", 0.1,
		"behaviour policy exploration rate")
	deepqCmd.Flags().Float64Var(&learningRate, "lr", 0.001,
		"Adam step size")
	deepqCmd.Flags().IntVar(&hiddenSize, "hidden", 64,
		"hidden layer size of the action-value network")
	deepqCmd.Flags().IntVar(&batchSize, "batch", 32,
		"replay sample batch size")

	rootCmd.AddCommand(qlearningCmd, a2cCmd, deepqCmd)
}
