package sleep

import "time"

const (
	hrvNormalization     = 100.0
	restingHeartRate     = 60.0
	heartRateQualitySpan = 40.0
)

// Metrics accumulates per-stage time and the intervention log for one
// optimization session. All mutation happens inside the control loop's tick,
// so Metrics itself carries no locking; observers read copies published at
// tick boundaries.
type Metrics struct {
	stageDurations map[Stage]time.Duration
	interventions  []NudgeAction
}

func NewMetrics() *Metrics {
	return &Metrics{
		stageDurations: make(map[Stage]time.Duration),
	}
}

// Record adds tickDuration to the accumulator for stage.
func (m *Metrics) Record(stage Stage, tickDuration time.Duration) {
	m.stageDurations[stage] += tickDuration
}

// StageDuration returns the accumulated time for one stage.
func (m *Metrics) StageDuration(stage Stage) time.Duration {
	return m.stageDurations[stage]
}

// TotalSleepTime is the accumulated time across the three sleep stages.
func (m *Metrics) TotalSleepTime() time.Duration {
	var total time.Duration
	for stage, d := range m.stageDurations {
		if stage.IsSleep() {
			total += d
		}
	}

	return total
}

// TotalTrackedTime is the accumulated time across all concrete stages.
func (m *Metrics) TotalTrackedTime() time.Duration {
	var total time.Duration
	for stage, d := range m.stageDurations {
		if stage.IsConcrete() {
			total += d
		}
	}

	return total
}

// DeepSleepPercentage is deep-sleep time over total sleep time.
// Returns 0 before any sleep has been accumulated.
func (m *Metrics) DeepSleepPercentage() float64 {
	return m.sleepShare(StageDeep)
}

// REMSleepPercentage is REM time over total sleep time.
func (m *Metrics) REMSleepPercentage() float64 {
	return m.sleepShare(StageREM)
}

func (m *Metrics) sleepShare(stage Stage) float64 {
	total := m.TotalSleepTime()
	if total <= 0 {
		return 0
	}

	return float64(m.stageDurations[stage]) / float64(total)
}

// StagePercentages returns each concrete stage's share of all tracked time.
// The shares sum to 1 whenever any concrete time has been accumulated.
func (m *Metrics) StagePercentages() map[Stage]float64 {
	shares := make(map[Stage]float64, 4)
	total := m.TotalTrackedTime()
	if total <= 0 {
		return shares
	}

	for _, stage := range []Stage{StageAwake, StageLight, StageDeep, StageREM} {
		shares[stage] = float64(m.stageDurations[stage]) / float64(total)
	}

	return shares
}

// AppendIntervention records a dispatched nudge in the session log.
func (m *Metrics) AppendIntervention(action NudgeAction) {
	m.interventions = append(m.interventions, action)
}

// Interventions returns a copy of the session intervention log.
func (m *Metrics) Interventions() []NudgeAction {
	out := make([]NudgeAction, len(m.interventions))
	copy(out, m.interventions)

	return out
}

// MetricsSnapshot is an immutable copy of the accumulator for observers.
type MetricsSnapshot struct {
	StageDurations      map[Stage]time.Duration
	TotalSleepTime      time.Duration
	DeepSleepPercentage float64
	REMSleepPercentage  float64
	Interventions       []NudgeAction
}

// Snapshot copies the current accumulator state. The derived percentages are
// recomputed here, never stored.
func (m *Metrics) Snapshot() MetricsSnapshot {
	durations := make(map[Stage]time.Duration, len(m.stageDurations))
	for stage, d := range m.stageDurations {
		durations[stage] = d
	}

	return MetricsSnapshot{
		StageDurations:      durations,
		TotalSleepTime:      m.TotalSleepTime(),
		DeepSleepPercentage: m.DeepSleepPercentage(),
		REMSleepPercentage:  m.REMSleepPercentage(),
		Interventions:       m.Interventions(),
	}
}

// QualityScore derives the sleep quality scalar from the latest state:
// the mean of an HRV term (hrv/100, clamped to [0,1]) and a heart-rate term
// (1 - (hr-60)/40, clamped to [0,1]). Always within [0,1] for non-negative
// inputs.
func QualityScore(state State) float64 {
	hrvTerm := clamp01(state.HRV / hrvNormalization)
	hrTerm := clamp01(1 - (state.HeartRate-restingHeartRate)/heartRateQualitySpan)

	return (hrvTerm + hrTerm) / 2
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}

	return v
}
