// Package publish announces mirrored frames on an MQTT broker so other
// dashboards can follow the clock without polling it.
package publish

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	jsoniter "github.com/json-iterator/go"

	"github.com/rook-computer/clockmirror/internal/state"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FrameEvent is the payload published for every changed frame.
type FrameEvent struct {
	Seq       uint64           `json:"seq"`
	Hash      string           `json:"hash"`
	At        time.Time        `json:"at"`
	Landscape bool             `json:"landscape"`
	Date      string           `json:"date"`
	Home      CityEvent        `json:"home"`
	Remote    []CityEvent      `json:"remote"`
	Clock     *state.ClockTime `json:"clock,omitempty"`
}

type CityEvent struct {
	Label  string `json:"label"`
	Time   string `json:"time"`
	Marker string `json:"marker,omitempty"`
}

// NewFrameEvent builds the event for frame. Empty fields carry the same
// placeholders the screen shows.
func NewFrameEvent(frame state.Frame) FrameEvent {
	snap := frame.Snapshot
	ev := FrameEvent{
		Seq:       frame.Seq,
		Hash:      strconv.FormatUint(frame.Hash, 16),
		At:        frame.At.UTC(),
		Landscape: snap.LandscapeMode,
		Date:      snap.DisplayDate(),
		Home:      cityEvent(snap.Home),
		Remote:    make([]CityEvent, 0, len(snap.Remote)),
		Clock:     snap.Clock,
	}
	for i := 0; i < state.RemoteSlots; i++ {
		c, ok := snap.RemoteAt(i)
		if !ok {
			break
		}
		ev.Remote = append(ev.Remote, cityEvent(c))
	}
	return ev
}

func cityEvent(c state.CityTime) CityEvent {
	ev := CityEvent{Label: c.DisplayLabel(), Time: c.DisplayTime()}
	if m := c.Marker(); m != state.NoMarker {
		ev.Marker = m.String()
	}
	return ev
}

// Options configures the broker connection.
type Options struct {
	Broker   string
	Port     int
	Topic    string
	ClientID string
	QoS      byte
	Retain   bool
}

// MQTTOutput is a mirror output that publishes a FrameEvent per frame.
type MQTTOutput struct {
	Options Options
	Logger  interface {
		Infof(string, string, ...interface{})
		Errorf(string, string, ...interface{})
	}

	mu     sync.Mutex
	client mqtt.Client
	send   func(topic string, payload []byte) error
}

func NewMQTTOutput(opts Options) *MQTTOutput {
	if opts.Port == 0 {
		opts.Port = 1883
	}
	if opts.ClientID == "" {
		opts.ClientID = fmt.Sprintf("clockmirror-%d", time.Now().Unix())
	}
	return &MQTTOutput{Options: opts}
}

func (o *MQTTOutput) Name() string { return "mqtt" }

// Start connects to the broker. Paho reconnects on its own afterwards.
func (o *MQTTOutput) Start(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	brokerURL := fmt.Sprintf("tcp://%s:%d", o.Options.Broker, o.Options.Port)
	opts.AddBroker(brokerURL)
	opts.SetClientID(o.Options.ClientID)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(time.Minute)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		o.errorf("connection to %s lost: %v", brokerURL, err)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", brokerURL, err)
	}
	o.infof("connected to %s, publishing on %s", brokerURL, o.Options.Topic)

	o.mu.Lock()
	o.client = client
	o.send = func(topic string, payload []byte) error {
		t := client.Publish(topic, o.Options.QoS, o.Options.Retain, payload)
		if !t.WaitTimeout(5 * time.Second) {
			return fmt.Errorf("publish to %s timed out", topic)
		}
		return t.Error()
	}
	o.mu.Unlock()
	return nil
}

func (o *MQTTOutput) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.client != nil {
		o.client.Disconnect(250)
		o.client = nil
	}
	o.send = nil
	return nil
}

// Present publishes frame. Waiting screens are not announced.
func (o *MQTTOutput) Present(frame state.Frame) error {
	if frame.Placeholder {
		return nil
	}
	o.mu.Lock()
	send := o.send
	o.mu.Unlock()
	if send == nil {
		return nil
	}
	payload, err := json.Marshal(NewFrameEvent(frame))
	if err != nil {
		return err
	}
	return send(o.Options.Topic, payload)
}

func (o *MQTTOutput) infof(format string, args ...interface{}) {
	if o.Logger != nil {
		o.Logger.Infof("mqtt", format, args...)
	}
}

func (o *MQTTOutput) errorf(format string, args ...interface{}) {
	if o.Logger != nil {
		o.Logger.Errorf("mqtt", format, args...)
	}
}
