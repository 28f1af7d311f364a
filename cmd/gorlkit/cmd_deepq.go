package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/gorlkit/gorlkit/agent/nonlinear/deepq"
	"github.com/gorlkit/gorlkit/environment"
	"github.com/gorlkit/gorlkit/environment/classiccontrol/cartpole"
	"github.com/gorlkit/gorlkit/experiment"
	"github.com/gorlkit/gorlkit/experiment/trackers"
	"github.com/gorlkit/gorlkit/expreplay"
	"github.com/gorlkit/gorlkit/initwfn"
	"github.com/gorlkit/gorlkit/network"
	"github.com/gorlkit/gorlkit/solver"
)

func runDeepQ(cmd *cobra.Command, args []string) error {
	starter := environment.NewUniformStarter([]r1.Interval{
		{Min: -0.05, Max: 0.05},
		{Min: -0.05, Max: 0.05},
		{Min: -0.05, Max: 0.05},
		{Min: -0.05, Max: 0.05},
	}, seed)
	task := cartpole.NewBalance(starter, 500, cartpole.FailAngle)
	env, _ := cartpole.New(task, 0.99)

	adam, err := solver.NewDefaultAdam(learningRate, batchSize)
	if err != nil {
		return err
	}
	glorot, err := initwfn.NewGlorotU(1.0)
	if err != nil {
		return err
	}

	agent, err := deepq.New(env, deepq.Config{
		PolicyLayers: []int{hiddenSize, hiddenSize},
		Biases:       []bool{true, true},
		Activations: []*network.Activation{
			network.ReLU(),
			network.ReLU(),
		},
		Solver:  adam,
		InitWFn: glorot,
		Epsilon: epsilon,
		ExpReplay: expreplay.Config{
			RemoveMethod:      expreplay.Fifo,
			SampleMethod:      expreplay.Uniform,
			RemoveSize:        1,
			SampleSize:        batchSize,
			MaxReplayCapacity: 10000,
			MinReplayCapacity: 100,
		},
		Tau:                  1.0,
		TargetUpdateInterval: 100,
	}, int64(seed))
	if err != nil {
		return err
	}

	exp := experiment.NewOnline(env, agent, maxSteps)
	exp.ShowProgress()

	var returns trackers.Tracker
	if saveFile != "" {
		returns = trackers.NewReturn(saveFile)
		exp.Register(returns)
	}

	if err := exp.Run(); err != nil {
		return err
	}
	if saveFile != "" {
		if err := exp.Save(); err != nil {
			return err
		}
		fmt.Printf("saved %v episodic returns to %v\n",
			len(returns.(*trackers.Return).Returns()), saveFile)
	}
	return nil
}
