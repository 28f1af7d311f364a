package main

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gorlkit/gorlkit/agent/a2c"
	env "github.com/gorlkit/gorlkit/environment"
	"github.com/gorlkit/gorlkit/environment/vecenv"
)

func runA2C(cmd *cobra.Command, args []string) error {
	envs := make([]env.Environment, numEnvs)
	for i := range envs {
		e, err := newGridWorld(100)
		if err != nil {
			return err
		}
		envs[i] = e
	}
	vec, err := vecenv.New(envs)
	if err != nil {
		return err
	}

	agent, err := a2c.New(vec, a2c.Config{
		RolloutLength:      rolloutLength,
		Gamma:              gamma,
		Lambda:             lambda,
		PolicyLearningRate: 0.01,
		CriticLearningRate: 0.01,
		CriticGradSteps:    1,
		TailBootstrap:      true,
	}, seed)
	if err != nil {
		return err
	}

	rewards, err := agent.Train(epochs)
	if err != nil {
		return err
	}
	for i, reward := range rewards {
		fmt.Printf("epoch %v: mean reward per step %v\n", i, reward)
	}

	if saveFile != "" {
		if err := saveRewards(saveFile, rewards); err != nil {
			return err
		}
		fmt.Printf("saved %v epoch rewards to %v\n", len(rewards), saveFile)
	}
	return nil
}

// saveRewards writes the per-epoch rewards in the same format that
// trackers.LoadData reads
func saveRewards(filename string, rewards []float64) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("saverewards: could not create file: %v", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(rewards); err != nil {
		return fmt.Errorf("saverewards: could not encode rewards: %v", err)
	}
	return nil
}
