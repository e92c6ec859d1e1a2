package sleep

import (
	"context"
	"time"

	"codeberg.org/mutker/sleepctl/internal/actuator"
	"codeberg.org/mutker/sleepctl/internal/errors"
	"codeberg.org/mutker/sleepctl/internal/history"
	"codeberg.org/mutker/sleepctl/internal/logger"
	"github.com/google/uuid"
)

// Dispatcher routes a nudge to exactly one actuator domain and records the
// attempt. A failed domain call never reaches the control loop: it is
// logged, the action is still appended to the in-memory intervention log,
// and persistence is still attempted (at-least-once, best effort).
type Dispatcher struct {
	actuators  actuator.Set
	store      history.Store
	metrics    *Metrics
	errFactory errors.Factory
	now        func() time.Time
}

func NewDispatcher(actuators actuator.Set, store history.Store, metrics *Metrics) *Dispatcher {
	return &Dispatcher{
		actuators:  actuators,
		store:      store,
		metrics:    metrics,
		errFactory: errors.New(),
		now:        time.Now,
	}
}

// Dispatch issues the actuator command for action, appends it to the session
// intervention log unconditionally, and persists a quick-action record. The
// created record is returned so the caller can extend its visible history.
func (d *Dispatcher) Dispatch(ctx context.Context, action NudgeAction) history.QuickAction {
	if err := d.route(ctx, action); err != nil {
		logger.Error().
			Str("domain", string(action.Domain)).
			Str("reason", action.Reason).
			Err(err).
			Msg("Actuator dispatch failed")
	}

	// Recorded regardless of dispatch outcome, for observability
	d.metrics.AppendIntervention(action)

	record := d.toQuickAction(action)
	if err := d.store.Save(ctx, record); err != nil {
		logger.Error().
			Str("action_id", record.ID).
			Err(err).
			Msg("Failed to persist quick action; continuing on in-memory state")
	}

	return record
}

func (d *Dispatcher) route(ctx context.Context, action NudgeAction) error {
	if err := action.Validate(); err != nil {
		return err
	}

	switch action.Domain {
	case DomainAudio:
		return d.actuators.AudioHaptic.PlayAudio(ctx, string(action.Audio.Kind))
	case DomainHaptic:
		return d.actuators.AudioHaptic.ApplyHaptic(ctx, action.Haptic.Intensity)
	case DomainEnvironment:
		return d.routeEnvironment(ctx, action.Environment)
	case DomainBedMotor:
		return d.routeBedMotor(ctx, action.BedMotor)
	default:
		return d.errFactory.WithData(errors.ErrUnknownDomain, string(action.Domain))
	}
}

func (d *Dispatcher) routeEnvironment(ctx context.Context, nudge *EnvironmentNudge) error {
	env := d.actuators.Environment

	switch nudge.Kind {
	case EnvTemperature:
		return env.AdjustTemperature(ctx, nudge.Target)
	case EnvHumidity:
		return env.AdjustHumidity(ctx, nudge.Target)
	case EnvLighting:
		return env.AdjustLighting(ctx, nudge.Target)
	case EnvBlinds:
		return env.AdjustBlinds(ctx, nudge.Target)
	case EnvHepaFilter:
		return env.SetHepaFilter(ctx, nudge.Target > 0, nudge.Mode)
	default:
		return d.errFactory.WithData(errors.ErrUnknownDomain, string(nudge.Kind))
	}
}

func (d *Dispatcher) routeBedMotor(ctx context.Context, nudge *BedMotorNudge) error {
	bed := d.actuators.BedMotor

	switch nudge.Kind {
	case BedHeadElevation:
		return bed.AdjustHeadElevation(ctx, nudge.Target)
	case BedFootElevation:
		return bed.AdjustFootElevation(ctx, nudge.Target)
	case BedMassageStart:
		return bed.StartMassage(ctx, nudge.Target)
	case BedMassageStop:
		return bed.StopMassage(ctx)
	default:
		return d.errFactory.WithData(errors.ErrUnknownDomain, string(nudge.Kind))
	}
}

func (d *Dispatcher) toQuickAction(action NudgeAction) history.QuickAction {
	details, err := action.Details()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to serialize action details")
	}

	return history.QuickAction{
		ID:            uuid.NewString(),
		Timestamp:     d.now().UTC(),
		ActionType:    string(action.Domain),
		ActionDetails: details,
		Reason:        action.Reason,
	}
}

// Baseline returns every actuator domain to its resting state: audio off,
// massage stopped, bed level, environment overrides cleared. Each command is
// independent; failures are logged and do not stop the remaining commands.
func (d *Dispatcher) Baseline(ctx context.Context) {
	steps := []struct {
		name string
		call func(context.Context) error
	}{
		{"stop_audio", d.actuators.AudioHaptic.StopAudio},
		{"stop_massage", d.actuators.BedMotor.StopMassage},
		{"level_head", func(ctx context.Context) error { return d.actuators.BedMotor.AdjustHeadElevation(ctx, 0) }},
		{"level_foot", func(ctx context.Context) error { return d.actuators.BedMotor.AdjustFootElevation(ctx, 0) }},
		{"clear_environment", d.actuators.Environment.ClearOverrides},
	}

	for _, step := range steps {
		if err := step.call(ctx); err != nil {
			logger.Error().Str("step", step.name).Err(err).Msg("Failed to return actuator to baseline")
		}
	}
}
