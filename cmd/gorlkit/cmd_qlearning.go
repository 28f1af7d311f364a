package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorlkit/gorlkit/agent/linear/qlearning"
	env "github.com/gorlkit/gorlkit/environment"
	"github.com/gorlkit/gorlkit/environment/gridworld"
	"github.com/gorlkit/gorlkit/experiment"
	"github.com/gorlkit/gorlkit/experiment/trackers"
)

// newGridWorld creates the 5x5 gridworld used by the demo commands. The
// agent starts in the top left corner and must reach a goal in the
// bottom right corner within episodeCutoff timesteps.
func newGridWorld(episodeCutoff int) (env.Environment, error) {
	rows, cols := 5, 5

	start, err := gridworld.NewSingleStart(0, 0, rows, cols)
	if err != nil {
		return nil, fmt.Errorf("newgridworld: %v", err)
	}
	task, err := gridworld.NewGoal(start, cols-1, rows-1, rows, cols, -1,
		10, episodeCutoff)
	if err != nil {
		return nil, fmt.Errorf("newgridworld: %v", err)
	}

	g, _ := gridworld.New(rows, cols, task, 0.99)
	return g, nil
}

func runQLearning(cmd *cobra.Command, args []string) error {
	e, err := newGridWorld(100)
	if err != nil {
		return err
	}

	features := e.ObservationSpec().Shape.Len()
	actions := int(e.ActionSpec().UpperBound.AtVec(0)) + 1
	agent, err := qlearning.New(features, actions, qlearning.Config{
		Epsilon:      epsilon,
		LearningRate: learningRate,
	}, seed)
	if err != nil {
		return err
	}

	exp := experiment.NewOnline(e, agent, maxSteps)
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
