// Package deepq implements the deep Q-learning algorithm. The
// algorithm is conceptually similar to DQN, learning action values
// with a neural network, a target network, and an experience replay
// buffer, but uses the mean squared TD error as its loss.
package deepq

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/gorlkit/gorlkit/agent"
	"github.com/gorlkit/gorlkit/agent/nonlinear/policy"
	env "github.com/gorlkit/gorlkit/environment"
	"github.com/gorlkit/gorlkit/expreplay"
	ts "github.com/gorlkit/gorlkit/timestep"
)

// DeepQ implements the deep Q-learning algorithm. Actions are selected
// by an ε-greedy behaviour policy over the learned action values,
// while the update target bootstraps from the greedy action value
// predicted by a separate target network.
type DeepQ struct {
	// Action selection policies
	behaviourPolicy   agent.EGreedyNNPolicy
	behaviourPolicyVM G.VM
	targetPolicy      agent.EGreedyNNPolicy // Greedy, used in eval mode
	targetPolicyVM    G.VM

	// Network whose weights are adapted, taking batches of inputs
	trainNet   agent.EGreedyNNPolicy
	trainNetVM G.VM
	solver     G.Solver

	// Target network providing the update target for a batch of
	// inputs. This is distinct from the target policy used for action
	// selection in evaluation mode.
	targetNet   agent.EGreedyNNPolicy
	targetNetVM G.VM

	// Target network update schedule
	tau                  float64 // Polyak averaging constant
	targetUpdateInterval int     // Gradient steps between target updates
	gradientSteps        int

	// selectedActions masks the train network output so the loss uses
	// the value of the action actually taken; the replay buffer stores
	// actions as one-hot vectors for this reason
	selectedActions *G.Node
	numActions      int

	replay expreplay.ExperienceReplayer

	// Input nodes of the train network graph holding the batched
	// update target components r + ℽ max[Q(s', a')]
	nextStateActionValues *G.Node
	rewards               *G.Node
	discounts             *G.Node

	// Previous interaction, pending insertion into the replay buffer
	prevStep   ts.TimeStep
	prevAction int
	nextStep   ts.TimeStep

	batchSize int
	eval      bool
}

// New creates and returns a new DeepQ agent interacting with the
// argument environment, whose actions must be discrete, 1-dimensional,
// and enumerated from 0
func New(e env.Environment, config Config, seed int64) (*DeepQ, error) {
	if e.ActionSpec().Cardinality != env.Discrete {
		return nil, fmt.Errorf("new: cannot use non-discrete actions")
	}
	if e.ActionSpec().Shape.Len() > 1 {
		return nil, fmt.Errorf("new: actions must be 1-dimensional")
	}
	if e.ActionSpec().LowerBound.AtVec(0) != 0.0 {
		return nil, fmt.Errorf("new: actions must be enumerated " +
			"starting from 0")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	batchSize := config.BatchSize()
	numActions := int(e.ActionSpec().UpperBound.AtVec(0)) + 1
	numFeatures := e.ObservationSpec().Shape.Len()
	init := config.InitWFn.InitWFn()

	// Behaviour policy predicting the action values of a single state
	g := G.NewGraph()
	behaviourPolicy, err := policy.NewEGreedyMLP(
		config.Epsilon,
		numFeatures,
		numActions,
		1, // The behaviour policy selects one action at a time
		g,
		config.PolicyLayers,
		config.Biases,
		init,
		config.Activations,
		seed,
	)
	if err != nil {
		return nil, fmt.Errorf("new: could not create behaviour "+
			"policy: %v", err)
	}
	behaviourPolicyVM := G.NewTapeMachine(g)

	// Greedy policy for action selection in evaluation mode
	targetPolicyClone, err := behaviourPolicy.ClonePolicy()
	if err != nil {
		return nil, fmt.Errorf("new: could not create target policy: %v",
			err)
	}
	targetPolicy := targetPolicyClone.(agent.EGreedyNNPolicy)
	targetPolicy.SetEpsilon(0.0)
	targetPolicyVM := G.NewTapeMachine(targetPolicy.Graph())

	// Target network providing the update target. The Q-learning
	// target policy is greedy.
	targetNetClone, err := behaviourPolicy.ClonePolicyWithBatch(batchSize)
	if err != nil {
		return nil, fmt.Errorf("new: could not create target network: %v",
			err)
	}
	targetNet := targetNetClone.(agent.EGreedyNNPolicy)
	targetNet.SetEpsilon(0.0)
	targetNetVM := G.NewTapeMachine(targetNet.Graph())

	// Training network which learns the weights
	trainNetClone, err := behaviourPolicy.ClonePolicyWithBatch(batchSize)
	if err != nil {
		return nil, fmt.Errorf("new: could not create learning "+
			"network: %v", err)
	}
	trainNet := trainNetClone.(agent.EGreedyNNPolicy)
	gTrain := trainNet.Graph()

	// Nodes computing the update target r + ℽ max[Q(s', a')]
	nextStateActionValues := G.NewMatrix(gTrain, tensor.Float64,
		G.WithShape(batchSize, numActions), G.WithName("targetActionVals"))
	rewards := G.NewVector(gTrain, tensor.Float64, G.WithShape(batchSize),
		G.WithName("reward"))
	discounts := G.NewVector(gTrain, tensor.Float64,
		G.WithShape(batchSize), G.WithName("discount"))

	updateTarget := G.Must(G.Max(nextStateActionValues, 1))
	updateTarget = G.Must(G.HadamardProd(updateTarget, discounts))
	updateTarget = G.Must(G.Add(updateTarget, rewards))

	// The network outputs one value per action; mask by the one-hot
	// selected actions to get the value of the action taken
	selectedActions := G.NewMatrix(
		gTrain,
		tensor.Float64,
		G.WithName("actionSelected"),
		G.WithShape(batchSize, numActions),
	)
	selectedActionsValue := G.Must(G.HadamardProd(trainNet.Prediction(),
		selectedActions))
	selectedActionsValue = G.Must(G.Sum(selectedActionsValue, 1))

	// Mean squared TD error
	losses := G.Must(G.Sub(updateTarget, selectedActionsValue))
	losses = G.Must(G.Square(losses))
	cost := G.Must(G.Mean(losses))

	if _, err := G.Grad(cost, trainNet.Learnables()...); err != nil {
		return nil, fmt.Errorf("new: could not compute gradient: %v", err)
	}

	trainNetVM := G.NewTapeMachine(
		gTrain,
		G.BindDualValues(trainNet.Learnables()...),
	)

	// The replay buffer stores selected actions as one-hot vectors
	replay, err := config.ExpReplay.Create(numFeatures, numActions, seed)
	if err != nil {
		return nil, fmt.Errorf("new: could not create experience replay "+
			"buffer: %v", err)
	}

	return &DeepQ{
		behaviourPolicy:       behaviourPolicy,
		behaviourPolicyVM:     behaviourPolicyVM,
		targetPolicy:          targetPolicy,
		targetPolicyVM:        targetPolicyVM,
		trainNet:              trainNet,
		trainNetVM:            trainNetVM,
		solver:                config.Solver,
		targetNet:             targetNet,
		targetNetVM:           targetNetVM,
		tau:                   config.Tau,
		targetUpdateInterval:  config.TargetUpdateInterval,
		selectedActions:       selectedActions,
		numActions:            numActions,
		replay:                replay,
		nextStateActionValues: nextStateActionValues,
		rewards:               rewards,
		discounts:             discounts,
		batchSize:             batchSize,
	}, nil
}

// ObserveFirst observes and records the first episodic timestep
func (d *DeepQ) ObserveFirst(t ts.TimeStep) error {
	if !t.First() {
		fmt.Fprintf(os.Stderr, "warning: ObserveFirst() should only be "+
			"called on the first timestep (current timestep = %d)\n",
			t.Number)
	}
	d.prevStep = ts.TimeStep{}
	d.nextStep = t
	return nil
}

// Observe observes and records any timestep other than the first,
// adding the completed transition to the replay buffer
func (d *DeepQ) Observe(action mat.Vector, nextStep ts.TimeStep) error {
	if action.Len() != 1 {
		return fmt.Errorf("observe: value-based methods need "+
			"1-dimensional actions \n\thave(%v)", action.Len())
	}

	if !d.nextStep.First() {
		prevAction := mat.NewVecDense(d.numActions, nil)
		prevAction.SetVec(d.prevAction, 1.0)

		nextAction := mat.NewVecDense(d.numActions, nil)
		nextAction.SetVec(int(action.AtVec(0)), 1.0)

		transition := ts.NewTransition(d.prevStep, prevAction, d.nextStep,
			nextAction)

		// A terminal timestep does not bootstrap from the next state
		if d.nextStep.Last() {
			transition.Discount = 0.0
		}

		if err := d.replay.Add(transition); err != nil {
			return fmt.Errorf("observe: %v", err)
		}
	}

	d.prevStep = d.nextStep
	d.nextStep = nextStep
	d.prevAction = int(action.AtVec(0))
	return nil
}

// Step samples a batch of transitions from the replay buffer and takes
// one gradient step on the mean squared TD error. No step is taken
// while the buffer holds fewer samples than its minimum capacity.
func (d *DeepQ) Step() error {
	S, A, R, discount, NextS, _, err := d.replay.Sample()
	if expreplay.IsEmptyCache(err) ||
		expreplay.IsInsufficientSamples(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("step: %v", err)
	}

	// One-hot vectors of the actions taken at the sampled states
	prevActions := tensor.New(
		tensor.WithShape(d.batchSize, d.numActions),
		tensor.WithBacking(A),
	)
	if err := G.Let(d.selectedActions, prevActions); err != nil {
		return fmt.Errorf("step: could not set selected actions: %v", err)
	}

	// Predict the action values in the sampled states S
	if err := d.trainNet.SetInput(S); err != nil {
		return fmt.Errorf("step: could not set trainNet input: %v", err)
	}

	// Predict the action values in the next states with the target
	// network
	if err := d.targetNet.SetInput(NextS); err != nil {
		return fmt.Errorf("step: could not set target net input: %v", err)
	}
	if err := d.targetNetVM.RunAll(); err != nil {
		return fmt.Errorf("step: could not run target net: %v", err)
	}
	err = G.Let(d.nextStateActionValues, d.targetNet.Output())
	if err != nil {
		return fmt.Errorf("step: could not set next state-action "+
			"values: %v", err)
	}
	d.targetNetVM.Reset()

	rewardTensor := tensor.New(tensor.WithBacking(R),
		tensor.WithShape(d.batchSize))
	if err := G.Let(d.rewards, rewardTensor); err != nil {
		return fmt.Errorf("step: could not set rewards: %v", err)
	}

	discountTensor := tensor.New(tensor.WithBacking(discount),
		tensor.WithShape(d.batchSize))
	if err := G.Let(d.discounts, discountTensor); err != nil {
		return fmt.Errorf("step: could not set discounts: %v", err)
	}

	// Run the learning step
	if err := d.trainNetVM.RunAll(); err != nil {
		return fmt.Errorf("step: could not run learning step: %v", err)
	}
	if err := d.solver.Step(d.trainNet.Model()); err != nil {
		return fmt.Errorf("step: could not adapt weights: %v", err)
	}
	d.trainNetVM.Reset()
	d.gradientSteps++

	// Update the target network toward the newly learned weights
	if d.gradientSteps%d.targetUpdateInterval == 0 {
		if d.tau == 1.0 {
			err = d.targetNet.Set(d.trainNet)
		} else {
			err = d.targetNet.Polyak(d.trainNet, d.tau)
		}
		if err != nil {
			return fmt.Errorf("step: could not update target net: %v", err)
		}
	}

	if err := d.targetPolicy.Set(d.trainNet); err != nil {
		return fmt.Errorf("step: could not update target policy: %v", err)
	}
	if err := d.behaviourPolicy.Set(d.trainNet); err != nil {
		return fmt.Errorf("step: could not update behaviour policy: %v",
			err)
	}
	return nil
}

// SelectAction runs the policy's computational graph and returns the
// selected action. In evaluation mode the greedy target policy selects
// the action.
func (d *DeepQ) SelectAction(t ts.TimeStep) *mat.VecDense {
	var p agent.NNPolicy
	var vm G.VM

	if d.eval {
		p = d.targetPolicy
		vm = d.targetPolicyVM
	} else {
		p = d.behaviourPolicy
		vm = d.behaviourPolicyVM
	}

	obs := make([]float64, t.Observation.Len())
	for i := range obs {
		obs[i] = t.Observation.AtVec(i)
	}
	if err := p.SetInput(obs); err != nil {
		panic(fmt.Sprintf("selectaction: %v", err))
	}

	if err := vm.RunAll(); err != nil {
		panic(fmt.Sprintf("selectaction: %v", err))
	}
	action, _ := p.SelectAction()
	vm.Reset()

	return action
}

// TdError returns the TD error of a transition under the current
// action values
func (d *DeepQ) TdError(t ts.Transition) float64 {
	state := make([]float64, t.State.Len())
	for i := range state {
		state[i] = t.State.AtVec(i)
	}
	d.behaviourPolicy.SetInput(state)
	d.behaviourPolicyVM.RunAll()
	_, actionValue := d.behaviourPolicy.SelectAction()
	d.behaviourPolicyVM.Reset()

	nextState := make([]float64, t.NextState.Len())
	for i := range nextState {
		nextState[i] = t.NextState.AtVec(i)
	}
	d.targetPolicy.SetInput(nextState)
	d.targetPolicyVM.RunAll()
	_, nextActionValue := d.targetPolicy.SelectAction()
	d.targetPolicyVM.Reset()

	return t.Reward + t.Discount*nextActionValue - actionValue
}

// EndEpisode performs cleanup at the end of an episode
func (d *DeepQ) EndEpisode() error {
	return nil
}

// Eval sets the agent to evaluation mode
func (d *DeepQ) Eval() {
	d.eval = true
}

// Train sets the agent to training mode
func (d *DeepQ) Train() {
	d.eval = false
}

// IsEval indicates if the agent is in evaluation mode
func (d *DeepQ) IsEval() bool {
	return d.eval
}
