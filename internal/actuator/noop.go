package actuator

import (
	"context"

	"codeberg.org/mutker/sleepctl/internal/logger"
)

// Noop actuators log commands at debug level and do nothing. Used in
// monitor mode.
type noopAudioHaptic struct{}

func (noopAudioHaptic) PlayAudio(_ context.Context, kind string) error {
	logger.Debug().Str("kind", kind).Msg("monitor: play audio")
	return nil
}

func (noopAudioHaptic) StopAudio(context.Context) error {
	logger.Debug().Msg("monitor: stop audio")
	return nil
}

func (noopAudioHaptic) ApplyHaptic(_ context.Context, intensity float64) error {
	logger.Debug().Float64("intensity", intensity).Msg("monitor: apply haptic")
	return nil
}

type noopEnvironment struct{}

func (noopEnvironment) AdjustTemperature(_ context.Context, target float64) error {
	logger.Debug().Float64("target", target).Msg("monitor: adjust temperature")
	return nil
}

func (noopEnvironment) AdjustHumidity(_ context.Context, target float64) error {
	logger.Debug().Float64("target", target).Msg("monitor: adjust humidity")
	return nil
}

func (noopEnvironment) AdjustLighting(_ context.Context, level float64) error {
	logger.Debug().Float64("level", level).Msg("monitor: adjust lighting")
	return nil
}

func (noopEnvironment) AdjustBlinds(_ context.Context, position float64) error {
	logger.Debug().Float64("position", position).Msg("monitor: adjust blinds")
	return nil
}

func (noopEnvironment) SetHepaFilter(_ context.Context, on bool, mode string) error {
	logger.Debug().Bool("on", on).Str("mode", mode).Msg("monitor: set hepa filter")
	return nil
}

func (noopEnvironment) ClearOverrides(context.Context) error {
	logger.Debug().Msg("monitor: clear environment overrides")
	return nil
}

type noopBedMotor struct{}

func (noopBedMotor) AdjustHeadElevation(_ context.Context, value float64) error {
	logger.Debug().Float64("value", value).Msg("monitor: adjust head elevation")
	return nil
}

func (noopBedMotor) AdjustFootElevation(_ context.Context, value float64) error {
	logger.Debug().Float64("value", value).Msg("monitor: adjust foot elevation")
	return nil
}

func (noopBedMotor) StartMassage(_ context.Context, intensity float64) error {
	logger.Debug().Float64("intensity", intensity).Msg("monitor: start massage")
	return nil
}

func (noopBedMotor) StopMassage(context.Context) error {
	logger.Debug().Msg("monitor: stop massage")
	return nil
}

// NewNoopSet returns a Set whose commands only log.
func NewNoopSet() Set {
	return Set{
		AudioHaptic: noopAudioHaptic{},
		Environment: noopEnvironment{},
		BedMotor:    noopBedMotor{},
	}
}
