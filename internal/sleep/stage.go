package sleep

import "time"

// Stage is the classified phase of sleep. StageUnknown is the zero value
// and the state before the first successful classification.
type Stage int

const (
	StageUnknown Stage = iota
	StageAwake
	StageLight
	StageDeep
	StageREM
)

func (s Stage) String() string {
	switch s {
	case StageAwake:
		return "awake"
	case StageLight:
		return "light_sleep"
	case StageDeep:
		return "deep_sleep"
	case StageREM:
		return "rem_sleep"
	case StageUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// IsConcrete reports whether s is one of the four classifier outputs.
// A classifier must never return StageUnknown on success.
func (s Stage) IsConcrete() bool {
	switch s {
	case StageAwake, StageLight, StageDeep, StageREM:
		return true
	default:
		return false
	}
}

// IsSleep reports whether s counts toward sleep time.
func (s Stage) IsSleep() bool {
	switch s {
	case StageLight, StageDeep, StageREM:
		return true
	default:
		return false
	}
}

// Vitals is one physiological sample from the signal provider.
type Vitals struct {
	HeartRate       float64
	HRV             float64
	SpO2            float64
	BodyTemperature float64
}

// Environment is one ambient sample from the environment collaborator.
// NoiseLevel and LightLevel are normalized to [0,1].
type Environment struct {
	Temperature float64
	Humidity    float64
	NoiseLevel  float64
	LightLevel  float64
	BedIncline  float64
}

// State is the per-tick sleep state. It is recomputed every tick and owned
// by that tick; observers only ever see it through a snapshot.
type State struct {
	Stage       Stage
	HeartRate   float64
	HRV         float64
	TimeInStage time.Duration
}

// Features is the classifier input vector.
type Features struct {
	HeartRate       float64
	HRV             float64
	SpO2            float64
	BodyTemperature float64
	// TimeOfDayPhase is the fraction of the day elapsed, in [0,1).
	TimeOfDayPhase float64
}

// TimeOfDayPhase maps a wall-clock instant to the classifier's circadian
// phase input.
func TimeOfDayPhase(t time.Time) float64 {
	secs := float64(t.Hour()*3600 + t.Minute()*60 + t.Second())
	return secs / (24 * 3600)
}
