package sensor

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"codeberg.org/mutker/sleepctl/internal/errors"
	"codeberg.org/mutker/sleepctl/internal/logger"
	"codeberg.org/mutker/sleepctl/internal/mqtt"
	"codeberg.org/mutker/sleepctl/internal/sleep"
)

const sampleQoS = 1

// vitalsMessage is the wire format published by the wearable bridge.
type vitalsMessage struct {
	HeartRate       float64 `json:"heart_rate"`
	HRV             float64 `json:"hrv"`
	SpO2            float64 `json:"spo2"`
	BodyTemperature float64 `json:"body_temperature"`
}

// environmentMessage is the wire format published by the room sensors.
type environmentMessage struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	NoiseLevel  float64 `json:"noise_level"`
	LightLevel  float64 `json:"light_level"`
	BedIncline  float64 `json:"bed_incline"`
}

// sample caches the latest reading with its arrival time.
type sample[T any] struct {
	mu    sync.RWMutex
	value T
	at    time.Time
}

func (s *sample[T]) set(value T, at time.Time) {
	s.mu.Lock()
	s.value = value
	s.at = at
	s.mu.Unlock()
}

func (s *sample[T]) get() (T, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.value, s.at
}

// VitalsProvider serves the most recent vitals sample received over MQTT.
// A sample older than maxAge is treated as unavailable so the control loop
// retains its stage instead of classifying on stale data.
type VitalsProvider struct {
	latest sample[sleep.Vitals]
	maxAge time.Duration
	now    func() time.Time
}

func NewVitalsProvider(sub mqtt.Subscriber, topic string, maxAge time.Duration) (*VitalsProvider, error) {
	p := &VitalsProvider{
		maxAge: maxAge,
		now:    time.Now,
	}

	if err := sub.Subscribe(topic, sampleQoS, p.handle); err != nil {
		return nil, err
	}

	logger.Debug().Str("topic", topic).Msg("Subscribed to vitals")

	return p, nil
}

func (p *VitalsProvider) handle(_ string, payload []byte) error {
	var msg vitalsMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return errors.New().Wrap(errors.ErrInvalidArgument, err)
	}

	p.latest.set(sleep.Vitals{
		HeartRate:       msg.HeartRate,
		HRV:             msg.HRV,
		SpO2:            msg.SpO2,
		BodyTemperature: msg.BodyTemperature,
	}, p.now())

	return nil
}

func (p *VitalsProvider) CurrentVitals(_ context.Context) (sleep.Vitals, error) {
	errFactory := errors.New()

	value, at := p.latest.get()
	if at.IsZero() {
		return sleep.Vitals{}, errFactory.New(errors.ErrSignalUnavailable)
	}
	if age := p.now().Sub(at); age > p.maxAge {
		return sleep.Vitals{}, errFactory.WithData(errors.ErrSignalStale, age.String())
	}

	return value, nil
}

// EnvironmentProvider serves the most recent ambient sample received over
// MQTT, with the same staleness rule as VitalsProvider.
type EnvironmentProvider struct {
	latest sample[sleep.Environment]
	maxAge time.Duration
	now    func() time.Time
}

func NewEnvironmentProvider(sub mqtt.Subscriber, topic string, maxAge time.Duration) (*EnvironmentProvider, error) {
	p := &EnvironmentProvider{
		maxAge: maxAge,
		now:    time.Now,
	}

	if err := sub.Subscribe(topic, sampleQoS, p.handle); err != nil {
		return nil, err
	}

	logger.Debug().Str("topic", topic).Msg("Subscribed to environment")

	return p, nil
}

func (p *EnvironmentProvider) handle(_ string, payload []byte) error {
	var msg environmentMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return errors.New().Wrap(errors.ErrInvalidArgument, err)
	}

	p.latest.set(sleep.Environment{
		Temperature: msg.Temperature,
		Humidity:    msg.Humidity,
		NoiseLevel:  msg.NoiseLevel,
		LightLevel:  msg.LightLevel,
		BedIncline:  msg.BedIncline,
	}, p.now())

	return nil
}

func (p *EnvironmentProvider) CurrentEnvironment(_ context.Context) (sleep.Environment, error) {
	errFactory := errors.New()

	value, at := p.latest.get()
	if at.IsZero() {
		return sleep.Environment{}, errFactory.New(errors.ErrSignalUnavailable)
	}
	if age := p.now().Sub(at); age > p.maxAge {
		return sleep.Environment{}, errFactory.WithData(errors.ErrSignalStale, age.String())
	}

	return value, nil
}
