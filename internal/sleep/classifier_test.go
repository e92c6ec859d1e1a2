package sleep_test

import (
	"context"
	"errors"
	"testing"

	"codeberg.org/mutker/sleepctl/internal/sleep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	stage sleep.Stage
	err   error
}

func (s stubClassifier) Classify(context.Context, sleep.Features) (sleep.Stage, error) {
	return s.stage, s.err
}

func TestClassifierAdapterPassesThroughConcreteStage(t *testing.T) {
	adapter := sleep.NewClassifierAdapter(stubClassifier{stage: sleep.StageDeep})

	stage, err := adapter.Classify(context.Background(), sleep.Features{})
	require.NoError(t, err)
	assert.Equal(t, sleep.StageDeep, stage)
}

func TestClassifierAdapterWrapsInferenceError(t *testing.T) {
	adapter := sleep.NewClassifierAdapter(stubClassifier{err: errors.New("model unavailable")})

	_, err := adapter.Classify(context.Background(), sleep.Features{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestClassifierAdapterRejectsUnknownOutput(t *testing.T) {
	// A "successful" inference returning unknown is malformed output
	adapter := sleep.NewClassifierAdapter(stubClassifier{stage: sleep.StageUnknown})

	_, err := adapter.Classify(context.Background(), sleep.Features{})
	require.Error(t, err)
}

func TestThresholdClassifierNeverReturnsUnknown(t *testing.T) {
	classifier := sleep.NewThresholdClassifier()

	vectors := []sleep.Features{
		{HeartRate: 55, HRV: 80, TimeOfDayPhase: 0.1},  // deep sleep, 02:24
		{HeartRate: 68, HRV: 40, TimeOfDayPhase: 0.15}, // rem
		{HeartRate: 65, HRV: 55, TimeOfDayPhase: 0.2},  // light
		{HeartRate: 85, HRV: 30, TimeOfDayPhase: 0.95}, // awake
		{HeartRate: 60, HRV: 70, TimeOfDayPhase: 0.5},  // daytime
	}

	for _, f := range vectors {
		stage, err := classifier.Classify(context.Background(), f)
		require.NoError(t, err)
		assert.True(t, stage.IsConcrete(), "features %+v produced %v", f, stage)
	}
}

func TestThresholdClassifierDeepSleep(t *testing.T) {
	classifier := sleep.NewThresholdClassifier()

	stage, err := classifier.Classify(context.Background(), sleep.Features{
		HeartRate:      55,
		HRV:            80,
		TimeOfDayPhase: 3.0 / 24.0,
	})
	require.NoError(t, err)
	assert.Equal(t, sleep.StageDeep, stage)
}
