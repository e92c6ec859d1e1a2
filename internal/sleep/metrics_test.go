package sleep_test

import (
	"testing"
	"time"

	"codeberg.org/mutker/sleepctl/internal/sleep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = 30 * time.Second

func TestRecordAccumulatesPerStage(t *testing.T) {
	m := sleep.NewMetrics()

	stages := []sleep.Stage{
		sleep.StageAwake,
		sleep.StageLight, sleep.StageLight,
		sleep.StageDeep, sleep.StageDeep, sleep.StageDeep,
		sleep.StageREM,
	}
	for _, stage := range stages {
		m.Record(stage, tick)
	}

	assert.Equal(t, 1*tick, m.StageDuration(sleep.StageAwake))
	assert.Equal(t, 2*tick, m.StageDuration(sleep.StageLight))
	assert.Equal(t, 3*tick, m.StageDuration(sleep.StageDeep))
	assert.Equal(t, 1*tick, m.StageDuration(sleep.StageREM))

	// Total tracked time equals tick count times tick duration
	assert.Equal(t, time.Duration(len(stages))*tick, m.TotalTrackedTime())
	assert.Equal(t, 6*tick, m.TotalSleepTime(), "awake time does not count toward sleep")
}

func TestSleepPercentages(t *testing.T) {
	m := sleep.NewMetrics()
	m.Record(sleep.StageLight, 2*tick)
	m.Record(sleep.StageDeep, tick)
	m.Record(sleep.StageREM, tick)
	m.Record(sleep.StageAwake, 4*tick)

	assert.InDelta(t, 0.25, m.DeepSleepPercentage(), 1e-9)
	assert.InDelta(t, 0.25, m.REMSleepPercentage(), 1e-9)
}

func TestSleepPercentagesEmpty(t *testing.T) {
	m := sleep.NewMetrics()

	assert.Zero(t, m.DeepSleepPercentage())
	assert.Zero(t, m.REMSleepPercentage())
	assert.Empty(t, m.StagePercentages())
}

func TestStagePercentagesSumToOne(t *testing.T) {
	m := sleep.NewMetrics()
	m.Record(sleep.StageAwake, 3*tick)
	m.Record(sleep.StageLight, 7*tick)
	m.Record(sleep.StageDeep, 5*tick)
	m.Record(sleep.StageREM, 2*tick)

	shares := m.StagePercentages()
	var sum float64
	for _, share := range shares {
		sum += share
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestDerivedFiguresAreIdempotent(t *testing.T) {
	m := sleep.NewMetrics()
	m.Record(sleep.StageDeep, 5*tick)
	m.Record(sleep.StageLight, 3*tick)

	first := m.DeepSleepPercentage()
	second := m.DeepSleepPercentage()
	assert.Equal(t, first, second)

	require.Equal(t, m.Snapshot().DeepSleepPercentage, first)
	require.Equal(t, m.Snapshot().TotalSleepTime, m.TotalSleepTime())
}

func TestQualityScore(t *testing.T) {
	tests := []struct {
		name      string
		heartRate float64
		hrv       float64
		want      float64
	}{
		{"resting with strong hrv", 60, 100, 1.0},
		{"deep sleep vitals", 55, 80, 0.9},
		{"elevated heart rate", 100, 40, 0.2},
		{"tachycardic", 200, 0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := sleep.QualityScore(sleep.State{HeartRate: tt.heartRate, HRV: tt.hrv})
			assert.InDelta(t, tt.want, score, 1e-9)
		})
	}
}

func TestQualityScoreBounds(t *testing.T) {
	// Score stays within [0,1] across the input space
	for _, hr := range []float64{0, 30, 55, 60, 75, 120, 500} {
		for _, hrv := range []float64{0, 20, 80, 100, 350} {
			score := sleep.QualityScore(sleep.State{HeartRate: hr, HRV: hrv})
			assert.GreaterOrEqual(t, score, 0.0, "hr=%v hrv=%v", hr, hrv)
			assert.LessOrEqual(t, score, 1.0, "hr=%v hrv=%v", hr, hrv)
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	m := sleep.NewMetrics()
	m.Record(sleep.StageDeep, tick)
	m.AppendIntervention(sleep.NewAudioNudge(sleep.AudioPinkNoise, "test"))

	snap := m.Snapshot()
	snap.StageDurations[sleep.StageDeep] = 0
	snap.Interventions[0].Reason = "mutated"

	assert.Equal(t, tick, m.StageDuration(sleep.StageDeep))
	assert.Equal(t, "test", m.Interventions()[0].Reason)
}
