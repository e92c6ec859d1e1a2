package actuator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"codeberg.org/mutker/sleepctl/internal/errors"
	"codeberg.org/mutker/sleepctl/internal/mqtt"
)

const commandQoS = 1

// command is the wire format published to the actuator bridge.
type command struct {
	Command  string  `json:"command"`
	Value    float64 `json:"value,omitempty"`
	On       *bool   `json:"on,omitempty"`
	Mode     string  `json:"mode,omitempty"`
	Kind     string  `json:"kind,omitempty"`
	IssuedAt int64   `json:"issued_at"`
}

// mqttDomain publishes commands for one actuator domain. Target-carrying
// commands are published retained so the bridge converges on the latest
// value, and identical re-sends are suppressed, which makes environment and
// bed-motor commands idempotent.
type mqttDomain struct {
	pub   mqtt.Publisher
	topic string
	now   func() time.Time

	mu   sync.Mutex
	last map[string]string
}

func newMQTTDomain(pub mqtt.Publisher, topic string) *mqttDomain {
	return &mqttDomain{
		pub:   pub,
		topic: topic,
		now:   time.Now,
		last:  make(map[string]string),
	}
}

// send publishes cmd. When stateful is true the publish is retained and
// skipped entirely if the previous send for the same command carried an
// identical payload.
func (d *mqttDomain) send(cmd command, stateful bool) error {
	errFactory := errors.New()

	cmd.IssuedAt = d.now().Unix()
	payload, err := json.Marshal(cmd)
	if err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	effect := d.dedupeKey(cmd)
	if stateful {
		d.mu.Lock()
		identical := d.last[cmd.Command] == effect
		d.mu.Unlock()

		if identical {
			return nil
		}
	}

	if err := d.pub.Publish(d.topic, commandQoS, stateful, payload); err != nil {
		return errFactory.Wrap(errors.ErrDispatchFailed, err)
	}

	// Record only delivered commands so a failed publish is retried
	if stateful {
		d.mu.Lock()
		d.last[cmd.Command] = effect
		d.mu.Unlock()
	}

	return nil
}

// dedupeKey identifies a command's effect, ignoring the issue timestamp.
func (*mqttDomain) dedupeKey(cmd command) string {
	on := "-"
	if cmd.On != nil {
		on = fmt.Sprintf("%t", *cmd.On)
	}

	return fmt.Sprintf("%s|%s|%g|%s|%s", cmd.Command, cmd.Kind, cmd.Value, on, cmd.Mode)
}

// MQTTAudioHaptic drives the audio/haptic engine over MQTT.
type MQTTAudioHaptic struct {
	domain *mqttDomain
}

func NewMQTTAudioHaptic(pub mqtt.Publisher, topic string) *MQTTAudioHaptic {
	return &MQTTAudioHaptic{domain: newMQTTDomain(pub, topic)}
}

func (a *MQTTAudioHaptic) PlayAudio(_ context.Context, kind string) error {
	return a.domain.send(command{Command: "play_audio", Kind: kind}, false)
}

func (a *MQTTAudioHaptic) StopAudio(_ context.Context) error {
	return a.domain.send(command{Command: "stop_audio"}, false)
}

func (a *MQTTAudioHaptic) ApplyHaptic(_ context.Context, intensity float64) error {
	return a.domain.send(command{Command: "apply_haptic", Value: intensity}, false)
}

// MQTTEnvironment drives the smart-environment controller over MQTT.
type MQTTEnvironment struct {
	domain *mqttDomain
}

func NewMQTTEnvironment(pub mqtt.Publisher, topic string) *MQTTEnvironment {
	return &MQTTEnvironment{domain: newMQTTDomain(pub, topic)}
}

func (e *MQTTEnvironment) AdjustTemperature(_ context.Context, target float64) error {
	return e.domain.send(command{Command: "adjust_temperature", Value: target}, true)
}

func (e *MQTTEnvironment) AdjustHumidity(_ context.Context, target float64) error {
	return e.domain.send(command{Command: "adjust_humidity", Value: target}, true)
}

func (e *MQTTEnvironment) AdjustLighting(_ context.Context, level float64) error {
	return e.domain.send(command{Command: "adjust_lighting", Value: level}, true)
}

func (e *MQTTEnvironment) AdjustBlinds(_ context.Context, position float64) error {
	return e.domain.send(command{Command: "adjust_blinds", Value: position}, true)
}

func (e *MQTTEnvironment) SetHepaFilter(_ context.Context, on bool, mode string) error {
	return e.domain.send(command{Command: "set_hepa_filter", On: &on, Mode: mode}, true)
}

func (e *MQTTEnvironment) ClearOverrides(_ context.Context) error {
	return e.domain.send(command{Command: "clear_overrides"}, false)
}

// MQTTBedMotor drives the bed actuators over MQTT.
type MQTTBedMotor struct {
	domain *mqttDomain
}

func NewMQTTBedMotor(pub mqtt.Publisher, topic string) *MQTTBedMotor {
	return &MQTTBedMotor{domain: newMQTTDomain(pub, topic)}
}

func (b *MQTTBedMotor) AdjustHeadElevation(_ context.Context, value float64) error {
	return b.domain.send(command{Command: "adjust_head_elevation", Value: value}, true)
}

func (b *MQTTBedMotor) AdjustFootElevation(_ context.Context, value float64) error {
	return b.domain.send(command{Command: "adjust_foot_elevation", Value: value}, true)
}

func (b *MQTTBedMotor) StartMassage(_ context.Context, intensity float64) error {
	return b.domain.send(command{Command: "start_massage", Value: intensity}, false)
}

func (b *MQTTBedMotor) StopMassage(_ context.Context) error {
	return b.domain.send(command{Command: "stop_massage"}, false)
}

// NewMQTTSet wires all three domains on topics under prefix.
func NewMQTTSet(pub mqtt.Publisher, prefix string) Set {
	return Set{
		AudioHaptic: NewMQTTAudioHaptic(pub, prefix+"/audio"),
		Environment: NewMQTTEnvironment(pub, prefix+"/environment"),
		BedMotor:    NewMQTTBedMotor(pub, prefix+"/bed"),
	}
}
