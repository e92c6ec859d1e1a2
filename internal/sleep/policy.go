package sleep

import (
	"context"
	"time"

	"codeberg.org/mutker/sleepctl/internal/errors"
)

// DecisionPolicy is the intervention policy contract. A nil action means
// "do nothing this tick", which is the expected steady state.
type DecisionPolicy interface {
	Decide(ctx context.Context, state State, env Environment) (*NudgeAction, error)
}

// PolicyAdapter wraps the decision policy. It performs no decision logic of
// its own; it only adapts shapes and enforces that any returned action is a
// well-formed nudge with a non-empty reason.
type PolicyAdapter struct {
	policy     DecisionPolicy
	errFactory errors.Factory
}

func NewPolicyAdapter(policy DecisionPolicy) *PolicyAdapter {
	return &PolicyAdapter{
		policy:     policy,
		errFactory: errors.New(),
	}
}

func (a *PolicyAdapter) Decide(ctx context.Context, state State, env Environment) (*NudgeAction, error) {
	action, err := a.policy.Decide(ctx, state, env)
	if err != nil {
		return nil, a.errFactory.Wrap(errors.ErrPolicyFailed, err)
	}

	if action == nil {
		return nil, nil
	}

	if err := action.Validate(); err != nil {
		return nil, err
	}

	return action, nil
}

// Rule policy thresholds
const (
	elevatedHeartRate    = 75.0
	highNoiseLevel       = 0.6
	snoringNoiseLevel    = 0.85
	sleepLightThreshold  = 0.3
	dimLightTarget       = 0.05
	warmRoomTemperature  = 24.0
	coolRoomTarget       = 21.0
	snoringHeadElevation = 12.0
	nudgeCooldown        = 5 * time.Minute
)

// RulePolicy is a conservative threshold-based reference policy used when no
// external agent is wired in. At most one nudge per tick, with a per-domain
// cooldown so steady state stays quiet.
type RulePolicy struct {
	lastNudge map[Domain]time.Time
	now       func() time.Time
}

func NewRulePolicy() *RulePolicy {
	return &RulePolicy{
		lastNudge: make(map[Domain]time.Time),
		now:       time.Now,
	}
}

func (p *RulePolicy) Decide(_ context.Context, state State, env Environment) (*NudgeAction, error) {
	if action := p.pick(state, env); action != nil {
		p.lastNudge[action.Domain] = p.now()
		return action, nil
	}

	return nil, nil
}

func (p *RulePolicy) pick(state State, env Environment) *NudgeAction {
	if state.Stage == StageLight && state.HeartRate > elevatedHeartRate && p.ready(DomainAudio) {
		a := NewAudioNudge(AudioPinkNoise, "elevated heart rate during light sleep")
		return &a
	}

	if env.NoiseLevel > snoringNoiseLevel && state.Stage.IsSleep() && p.ready(DomainBedMotor) {
		a := NewBedMotorNudge(BedHeadElevation, snoringHeadElevation, "sustained high noise suggests snoring")
		return &a
	}

	if env.NoiseLevel > highNoiseLevel && state.Stage.IsSleep() && p.ready(DomainAudio) {
		a := NewAudioNudge(AudioWhiteNoise, "masking high ambient noise")
		return &a
	}

	if env.LightLevel > sleepLightThreshold && state.Stage.IsSleep() && p.ready(DomainEnvironment) {
		a := NewEnvironmentNudge(EnvLighting, dimLightTarget, "ambient light above sleep threshold")
		return &a
	}

	if env.Temperature > warmRoomTemperature && p.ready(DomainEnvironment) {
		a := NewEnvironmentNudge(EnvTemperature, coolRoomTarget, "bedroom above sleep temperature range")
		return &a
	}

	return nil
}

func (p *RulePolicy) ready(domain Domain) bool {
	last, ok := p.lastNudge[domain]
	if !ok {
		return true
	}

	return p.now().Sub(last) >= nudgeCooldown
}
