package a2c

import (
	"math"
	"testing"

	"github.com/gorlkit/gorlkit/agent"
	env "github.com/gorlkit/gorlkit/environment"
	"github.com/gorlkit/gorlkit/environment/gridworld"
	"github.com/gorlkit/gorlkit/environment/vecenv"
)

func newTestVecEnv(t *testing.T, copies int) *vecenv.VecEnv {
	t.Helper()

	envs := make([]env.Environment, copies)
	for i := range envs {
		start, err := gridworld.NewSingleStart(0, 0, 2, 3)
		if err != nil {
			t.Fatalf("newsinglestart: %v", err)
		}
		task, err := gridworld.NewGoal(start, 2, 0, 2, 3, -1, 10, 20)
		if err != nil {
			t.Fatalf("newgoal: %v", err)
		}
		envs[i], _ = gridworld.New(2, 3, task, 0.99)
	}

	v, err := vecenv.New(envs)
	if err != nil {
		t.Fatalf("vecenv: %v", err)
	}
	return v
}

func testConfig() Config {
	return Config{
		RolloutLength:      8,
		Gamma:              0.99,
		Lambda:             0.95,
		PolicyLearningRate: 0.1,
		CriticLearningRate: 0.05,
		CriticGradSteps:    2,
		TailBootstrap:      true,
	}
}

// TestRunEpoch checks that a full collect-estimate-update cycle runs
// and reports a finite mean reward.
func TestRunEpoch(t *testing.T) {
	a, err := New(newTestVecEnv(t, 2), testConfig(), 42)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	reward, err := a.RunEpoch()
	if err != nil {
		t.Fatalf("runepoch: %v", err)
	}
	if math.IsNaN(reward) || math.IsInf(reward, 0) {
		t.Fatalf("mean reward should be finite \n\thave(%v)", reward)
	}
}

// TestBufferReuse checks that consecutive epochs reuse the rollout
// buffer without shape or state errors.
func TestBufferReuse(t *testing.T) {
	a, err := New(newTestVecEnv(t, 2), testConfig(), 42)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	rewards, err := a.Train(3)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if len(rewards) != 3 {
		t.Fatalf("epoch rewards \n\twant(3)\n\thave(%v)", len(rewards))
	}
	for i, reward := range rewards {
		if math.IsNaN(reward) || math.IsInf(reward, 0) {
			t.Errorf("epoch %d mean reward should be finite \n\thave(%v)",
				i, reward)
		}
	}
}

// TestCriticRegression checks that the critic moves toward the rollout
// returns: its value of the start state should leave zero after
// training.
func TestCriticRegression(t *testing.T) {
	vec := newTestVecEnv(t, 2)
	a, err := New(vec, testConfig(), 42)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := a.Train(5); err != nil {
		t.Fatalf("train: %v", err)
	}

	start := vec.Reset()
	if value := a.Critic().Predict(start.RowView(0)); value == 0 {
		t.Error("critic should have moved off its zero initialization")
	}
}

// TestPolicyCapability checks that the agent's policy samples and
// scores actions through the stochastic-policy capability.
func TestPolicyCapability(t *testing.T) {
	vec := newTestVecEnv(t, 1)
	a, err := New(vec, testConfig(), 42)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	var p agent.StochasticPolicy = a.Policy()
	state := vec.Reset().RowView(0)

	action, err := p.Act(state)
	if err != nil {
		t.Fatalf("act: %v", err)
	}

	// The zero-initialized policy is uniform over the four gridworld
	// actions
	logProb, err := p.LogProb(state, action)
	if err != nil {
		t.Fatalf("logprob: %v", err)
	}
	if math.Abs(logProb-math.Log(0.25)) > 1e-9 {
		t.Errorf("initial log-probability \n\twant(%v)\n\thave(%v)",
			math.Log(0.25), logProb)
	}
}

// TestConfigValidation checks that an illegal configuration is
// rejected at construction.
func TestConfigValidation(t *testing.T) {
	if _, err := New(newTestVecEnv(t, 1), Config{}, 42); err == nil {
		t.Error("empty config should fail validation")
	}

	c := testConfig()
	c.Lambda = 1.5
	if _, err := New(newTestVecEnv(t, 1), c, 42); err == nil {
		t.Error("lambda above one should fail validation")
	}
}
