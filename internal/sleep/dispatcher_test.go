package sleep_test

import (
	"context"
	"errors"
	"testing"

	"codeberg.org/mutker/sleepctl/internal/sleep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchRoutesAudio(t *testing.T) {
	acts := &fakeActuators{}
	store := &fakeStore{}
	metrics := sleep.NewMetrics()
	d := sleep.NewDispatcher(acts.set(), store, metrics)

	action := sleep.NewAudioNudge(sleep.AudioPinkNoise, "elevated heart rate")
	record := d.Dispatch(context.Background(), action)

	assert.Equal(t, []string{"pink_noise"}, acts.audioPlays)
	assert.Len(t, metrics.Interventions(), 1)

	require.NotEmpty(t, record.ID)
	assert.Equal(t, "audio", record.ActionType)
	assert.Equal(t, "elevated heart rate", record.Reason)
	assert.Contains(t, record.ActionDetails, "pink_noise")

	saves := store.savedActions()
	require.Len(t, saves, 1)
	assert.Equal(t, record, saves[0])
}

func TestDispatchRoutesEachEnvironmentKind(t *testing.T) {
	acts := &fakeActuators{}
	metrics := sleep.NewMetrics()
	d := sleep.NewDispatcher(acts.set(), &fakeStore{}, metrics)

	for _, kind := range []sleep.EnvironmentKind{
		sleep.EnvTemperature, sleep.EnvHumidity, sleep.EnvLighting, sleep.EnvBlinds, sleep.EnvHepaFilter,
	} {
		d.Dispatch(context.Background(), sleep.NewEnvironmentNudge(kind, 1, "test"))
	}

	assert.Equal(t, []string{"temperature", "humidity", "lighting", "blinds", "hepa"}, acts.envCommands)
	assert.Len(t, metrics.Interventions(), 5)
}

func TestDispatchRoutesBedMotor(t *testing.T) {
	acts := &fakeActuators{}
	d := sleep.NewDispatcher(acts.set(), &fakeStore{}, sleep.NewMetrics())

	d.Dispatch(context.Background(), sleep.NewBedMotorNudge(sleep.BedHeadElevation, 12, "snoring"))
	d.Dispatch(context.Background(), sleep.NewBedMotorNudge(sleep.BedMassageStart, 0.3, "restlessness"))
	d.Dispatch(context.Background(), sleep.NewBedMotorNudge(sleep.BedMassageStop, 0, "session winding down"))

	assert.Equal(t, []string{"head", "massage_start"}, acts.bedCommands)
	assert.Equal(t, 1, acts.massStops)
}

func TestDispatchFailureStillRecords(t *testing.T) {
	acts := &fakeActuators{failAudio: true, failErr: errors.New("speaker offline")}
	store := &fakeStore{}
	metrics := sleep.NewMetrics()
	d := sleep.NewDispatcher(acts.set(), store, metrics)

	d.Dispatch(context.Background(), sleep.NewAudioNudge(sleep.AudioRain, "noise masking"))

	// The failed attempt is still observable and still persisted
	assert.Len(t, metrics.Interventions(), 1)
	assert.Len(t, store.savedActions(), 1)
}

func TestPersistenceFailureKeepsInMemoryRecord(t *testing.T) {
	acts := &fakeActuators{}
	store := &fakeStore{saveErr: errors.New("disk full")}
	metrics := sleep.NewMetrics()
	d := sleep.NewDispatcher(acts.set(), store, metrics)

	record := d.Dispatch(context.Background(), sleep.NewAudioNudge(sleep.AudioPinkNoise, "elevated heart rate"))

	assert.Len(t, metrics.Interventions(), 1, "in-memory append survives persistence failure")
	assert.Empty(t, store.savedActions())
	assert.NotEmpty(t, record.ID)
}

func TestEveryInterventionHasAReason(t *testing.T) {
	acts := &fakeActuators{}
	metrics := sleep.NewMetrics()
	d := sleep.NewDispatcher(acts.set(), &fakeStore{}, metrics)

	d.Dispatch(context.Background(), sleep.NewAudioNudge(sleep.AudioPinkNoise, "elevated heart rate"))
	d.Dispatch(context.Background(), sleep.NewEnvironmentNudge(sleep.EnvTemperature, 21, "room too warm"))
	d.Dispatch(context.Background(), sleep.NewBedMotorNudge(sleep.BedFootElevation, 5, "circulation"))

	for _, action := range metrics.Interventions() {
		assert.NotEmpty(t, action.Reason)
	}
}

func TestBaselineTouchesEveryDomain(t *testing.T) {
	acts := &fakeActuators{}
	d := sleep.NewDispatcher(acts.set(), &fakeStore{}, sleep.NewMetrics())

	d.Baseline(context.Background())

	assert.Equal(t, 1, acts.audioStops)
	assert.Equal(t, 1, acts.massStops)
	assert.Equal(t, 1, acts.clears)
	assert.Equal(t, []string{"head", "foot"}, acts.bedCommands)
}

func TestBaselineContinuesPastFailures(t *testing.T) {
	acts := &fakeActuators{failBed: true, failErr: errors.New("motor jammed")}
	d := sleep.NewDispatcher(acts.set(), &fakeStore{}, sleep.NewMetrics())

	d.Baseline(context.Background())

	// Bed commands fail but the remaining domains are still reset
	assert.Equal(t, 1, acts.audioStops)
	assert.Equal(t, 1, acts.clears)
}
