package sleep

import (
	"encoding/json"

	"codeberg.org/mutker/sleepctl/internal/errors"
)

// Domain is the actuator surface a nudge targets. The set is closed; the
// dispatcher switches exhaustively over it.
type Domain string

const (
	DomainAudio       Domain = "audio"
	DomainHaptic      Domain = "haptic"
	DomainEnvironment Domain = "environment"
	DomainBedMotor    Domain = "bed_motor"
)

// Audio nudge kinds
type AudioKind string

const (
	AudioPinkNoise  AudioKind = "pink_noise"
	AudioWhiteNoise AudioKind = "white_noise"
	AudioRain       AudioKind = "rain"
)

// Haptic nudge kinds
type HapticKind string

const (
	HapticPulse  HapticKind = "pulse"
	HapticSoothe HapticKind = "soothe"
)

// Environment nudge kinds
type EnvironmentKind string

const (
	EnvTemperature EnvironmentKind = "temperature"
	EnvHumidity    EnvironmentKind = "humidity"
	EnvLighting    EnvironmentKind = "lighting"
	EnvBlinds      EnvironmentKind = "blinds"
	EnvHepaFilter  EnvironmentKind = "hepa_filter"
)

// Bed motor nudge kinds
type BedMotorKind string

const (
	BedHeadElevation BedMotorKind = "head_elevation"
	BedFootElevation BedMotorKind = "foot_elevation"
	BedMassageStart  BedMotorKind = "massage_start"
	BedMassageStop   BedMotorKind = "massage_stop"
)

type AudioNudge struct {
	Kind AudioKind `json:"kind"`
}

type HapticNudge struct {
	Kind      HapticKind `json:"kind"`
	Intensity float64    `json:"intensity"`
}

type EnvironmentNudge struct {
	Kind   EnvironmentKind `json:"kind"`
	Target float64         `json:"target"`
	// Mode is only meaningful for the HEPA filter.
	Mode string `json:"mode,omitempty"`
}

type BedMotorNudge struct {
	Kind   BedMotorKind `json:"kind"`
	Target float64      `json:"target"`
}

// NudgeAction is a closed tagged union over the four actuator domains.
// Exactly the payload matching Domain is set; Reason is always non-empty
// for a valid action.
type NudgeAction struct {
	Domain      Domain            `json:"domain"`
	Audio       *AudioNudge       `json:"audio,omitempty"`
	Haptic      *HapticNudge      `json:"haptic,omitempty"`
	Environment *EnvironmentNudge `json:"environment,omitempty"`
	BedMotor    *BedMotorNudge    `json:"bed_motor,omitempty"`
	Reason      string            `json:"reason"`
}

func NewAudioNudge(kind AudioKind, reason string) NudgeAction {
	return NudgeAction{
		Domain: DomainAudio,
		Audio:  &AudioNudge{Kind: kind},
		Reason: reason,
	}
}

func NewHapticNudge(kind HapticKind, intensity float64, reason string) NudgeAction {
	return NudgeAction{
		Domain: DomainHaptic,
		Haptic: &HapticNudge{Kind: kind, Intensity: intensity},
		Reason: reason,
	}
}

func NewEnvironmentNudge(kind EnvironmentKind, target float64, reason string) NudgeAction {
	return NudgeAction{
		Domain:      DomainEnvironment,
		Environment: &EnvironmentNudge{Kind: kind, Target: target},
		Reason:      reason,
	}
}

func NewBedMotorNudge(kind BedMotorKind, target float64, reason string) NudgeAction {
	return NudgeAction{
		Domain:   DomainBedMotor,
		BedMotor: &BedMotorNudge{Kind: kind, Target: target},
		Reason:   reason,
	}
}

// Validate checks the union invariants: a known domain, a payload matching
// that domain, and a non-empty reason.
func (a NudgeAction) Validate() error {
	errFactory := errors.New()

	if a.Reason == "" {
		return errFactory.New(errors.ErrEmptyReason)
	}

	switch a.Domain {
	case DomainAudio:
		if a.Audio == nil {
			return errFactory.WithMessage(errors.ErrInvalidArgument, "audio nudge without audio payload")
		}
	case DomainHaptic:
		if a.Haptic == nil {
			return errFactory.WithMessage(errors.ErrInvalidArgument, "haptic nudge without haptic payload")
		}
	case DomainEnvironment:
		if a.Environment == nil {
			return errFactory.WithMessage(errors.ErrInvalidArgument, "environment nudge without environment payload")
		}
	case DomainBedMotor:
		if a.BedMotor == nil {
			return errFactory.WithMessage(errors.ErrInvalidArgument, "bed motor nudge without bed motor payload")
		}
	default:
		return errFactory.WithData(errors.ErrUnknownDomain, string(a.Domain))
	}

	return nil
}

// Details serializes the domain payload for the durable quick-action record.
func (a NudgeAction) Details() (string, error) {
	var payload any
	switch a.Domain {
	case DomainAudio:
		payload = a.Audio
	case DomainHaptic:
		payload = a.Haptic
	case DomainEnvironment:
		payload = a.Environment
	case DomainBedMotor:
		payload = a.BedMotor
	default:
		return "", errors.New().WithData(errors.ErrUnknownDomain, string(a.Domain))
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", errors.New().Wrap(errors.ErrInternal, err)
	}

	return string(raw), nil
}
