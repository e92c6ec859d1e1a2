package actuator

import "context"

// AudioHaptic drives the audio/haptic engine. Calls report dispatch failure
// only; they never wait for the physical effect.
type AudioHaptic interface {
	PlayAudio(ctx context.Context, kind string) error
	StopAudio(ctx context.Context) error
	ApplyHaptic(ctx context.Context, intensity float64) error
}

// Environment drives the smart-environment controller. Re-sending a command
// with the same target value must be safe.
type Environment interface {
	AdjustTemperature(ctx context.Context, target float64) error
	AdjustHumidity(ctx context.Context, target float64) error
	AdjustLighting(ctx context.Context, level float64) error
	AdjustBlinds(ctx context.Context, position float64) error
	SetHepaFilter(ctx context.Context, on bool, mode string) error
	// ClearOverrides returns the environment to its baseline schedule.
	ClearOverrides(ctx context.Context) error
}

// BedMotor drives the bed actuators. Elevation commands with the same target
// value must be safe to repeat.
type BedMotor interface {
	AdjustHeadElevation(ctx context.Context, value float64) error
	AdjustFootElevation(ctx context.Context, value float64) error
	StartMassage(ctx context.Context, intensity float64) error
	StopMassage(ctx context.Context) error
}

// Set groups the three actuator surfaces a control loop drives.
type Set struct {
	AudioHaptic AudioHaptic
	Environment Environment
	BedMotor    BedMotor
}
