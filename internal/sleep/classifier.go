package sleep

import (
	"context"

	"codeberg.org/mutker/sleepctl/internal/errors"
)

// StageClassifier is the inference collaborator contract. On success it
// returns one of the four concrete stages, never StageUnknown.
type StageClassifier interface {
	Classify(ctx context.Context, features Features) (Stage, error)
}

// ClassifierAdapter wraps the inference collaborator and enforces its output
// contract. On any failure the adapter returns an error and no stage; the
// caller must retain the previously known stage rather than overwrite it.
type ClassifierAdapter struct {
	classifier StageClassifier
	errFactory errors.Factory
}

func NewClassifierAdapter(classifier StageClassifier) *ClassifierAdapter {
	return &ClassifierAdapter{
		classifier: classifier,
		errFactory: errors.New(),
	}
}

func (a *ClassifierAdapter) Classify(ctx context.Context, features Features) (Stage, error) {
	stage, err := a.classifier.Classify(ctx, features)
	if err != nil {
		return StageUnknown, a.errFactory.Wrap(errors.ErrClassifyFailed, err)
	}

	if !stage.IsConcrete() {
		return StageUnknown, a.errFactory.WithData(errors.ErrClassifyOutput, stage.String())
	}

	return stage, nil
}

// Threshold boundaries for the built-in classifier
const (
	deepSleepMaxHeartRate  = 58.0
	deepSleepMinHRV        = 60.0
	remMaxHeartRate        = 72.0
	remMaxHRV              = 45.0
	awakeMinHeartRate      = 78.0
	nightPhaseStart        = 22.0 / 24.0
	nightPhaseEnd          = 7.0 / 24.0
)

// ThresholdClassifier is a rule-based stand-in for the trained inference
// model, so the daemon is operable without one. It approximates staging from
// heart rate, HRV and circadian phase.
type ThresholdClassifier struct{}

func NewThresholdClassifier() *ThresholdClassifier {
	return &ThresholdClassifier{}
}

func (*ThresholdClassifier) Classify(_ context.Context, f Features) (Stage, error) {
	night := f.TimeOfDayPhase >= nightPhaseStart || f.TimeOfDayPhase < nightPhaseEnd

	switch {
	case f.HeartRate >= awakeMinHeartRate || !night:
		return StageAwake, nil
	case f.HeartRate <= deepSleepMaxHeartRate && f.HRV >= deepSleepMinHRV:
		return StageDeep, nil
	case f.HeartRate <= remMaxHeartRate && f.HRV <= remMaxHRV:
		return StageREM, nil
	default:
		return StageLight, nil
	}
}
