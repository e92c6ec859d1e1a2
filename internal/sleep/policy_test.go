package sleep_test

import (
	"context"
	"errors"
	"testing"

	"codeberg.org/mutker/sleepctl/internal/sleep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPolicy struct {
	action *sleep.NudgeAction
	err    error
}

func (s stubPolicy) Decide(context.Context, sleep.State, sleep.Environment) (*sleep.NudgeAction, error) {
	return s.action, s.err
}

func TestPolicyAdapterNilActionIsNotAnError(t *testing.T) {
	adapter := sleep.NewPolicyAdapter(stubPolicy{})

	action, err := adapter.Decide(context.Background(), sleep.State{}, sleep.Environment{})
	require.NoError(t, err)
	assert.Nil(t, action)
}

func TestPolicyAdapterWrapsPolicyError(t *testing.T) {
	adapter := sleep.NewPolicyAdapter(stubPolicy{err: errors.New("agent offline")})

	_, err := adapter.Decide(context.Background(), sleep.State{}, sleep.Environment{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent offline")
}

func TestPolicyAdapterRejectsEmptyReason(t *testing.T) {
	bad := sleep.NewAudioNudge(sleep.AudioPinkNoise, "")
	adapter := sleep.NewPolicyAdapter(stubPolicy{action: &bad})

	action, err := adapter.Decide(context.Background(), sleep.State{}, sleep.Environment{})
	require.Error(t, err)
	assert.Nil(t, action)
}

func TestPolicyAdapterPassesValidAction(t *testing.T) {
	good := sleep.NewAudioNudge(sleep.AudioPinkNoise, "elevated heart rate")
	adapter := sleep.NewPolicyAdapter(stubPolicy{action: &good})

	action, err := adapter.Decide(context.Background(), sleep.State{}, sleep.Environment{})
	require.NoError(t, err)
	require.NotNil(t, action)
	assert.Equal(t, "elevated heart rate", action.Reason)
}

func TestRulePolicyQuietSteadyState(t *testing.T) {
	policy := sleep.NewRulePolicy()

	state := sleep.State{Stage: sleep.StageDeep, HeartRate: 52, HRV: 85}
	env := sleep.Environment{Temperature: 20, NoiseLevel: 0.1, LightLevel: 0.02}

	for i := 0; i < 10; i++ {
		action, err := policy.Decide(context.Background(), state, env)
		require.NoError(t, err)
		assert.Nil(t, action, "quiet night should produce no nudges")
	}
}

func TestRulePolicyElevatedHeartRate(t *testing.T) {
	policy := sleep.NewRulePolicy()

	state := sleep.State{Stage: sleep.StageLight, HeartRate: 82, HRV: 40}
	action, err := policy.Decide(context.Background(), state, sleep.Environment{Temperature: 20})
	require.NoError(t, err)
	require.NotNil(t, action)
	assert.Equal(t, sleep.DomainAudio, action.Domain)
	assert.Equal(t, sleep.AudioPinkNoise, action.Audio.Kind)
	assert.NotEmpty(t, action.Reason)
}

func TestRulePolicyCooldown(t *testing.T) {
	policy := sleep.NewRulePolicy()
	state := sleep.State{Stage: sleep.StageLight, HeartRate: 82, HRV: 40}

	first, err := policy.Decide(context.Background(), state, sleep.Environment{Temperature: 20})
	require.NoError(t, err)
	require.NotNil(t, first)

	// Same conditions immediately afterwards stay quiet
	second, err := policy.Decide(context.Background(), state, sleep.Environment{Temperature: 20})
	require.NoError(t, err)
	assert.Nil(t, second)
}
