//go:build !tinygo

// Package mqttfeed subscribes to a broker topic of JSON readings and writes
// them into the status store. It stands in for, or adds to, local sensors
// when the dashboard runs on a host.
package mqttfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"inkdash/dash/client/logger"
	"inkdash/dash/services/sensors"
)

var ErrNoBroker = errors.New("mqttfeed: no broker configured")

// Reading is one message. Absent fields are left alone in the store.
type Reading struct {
	CO2         *int     `json:"co2,omitempty"`
	Temperature *float32 `json:"temperature,omitempty"`
	Humidity    *float32 `json:"humidity,omitempty"`
	Pressure    *float32 `json:"pressure,omitempty"` // Pa
	Battery     *float32 `json:"battery,omitempty"`  // V
}

// Env is the store surface the feed writes. *store.Store satisfies it.
type Env interface {
	SetEnvironmental(co2 int, temperature, humidity float32)
	SetPressureReading(pressure, temperature, raw float32)
	SetBatteryVoltage(volts float32)
	SetWifiConnected(connected bool)
}

type Config struct {
	Broker   string
	Topic    string
	ClientID string
}

type Feed struct {
	cfg Config
	env Env
	log *logger.Logger
}

// New returns a feed. The client id gets a random suffix so several
// dashboards can share one broker.
func New(cfg Config, env Env, log *logger.Logger) *Feed {
	if cfg.ClientID == "" {
		cfg.ClientID = "inkdash"
	}
	cfg.ClientID = cfg.ClientID + "-" + uuid.NewString()[:8]
	return &Feed{cfg: cfg, env: env, log: log}
}

func (f *Feed) ClientID() string { return f.cfg.ClientID }

// Decode parses one payload.
func Decode(payload []byte) (Reading, error) {
	var r Reading
	if err := json.Unmarshal(payload, &r); err != nil {
		return Reading{}, fmt.Errorf("mqttfeed: decode: %w", err)
	}
	return r, nil
}

// Apply writes the fields present in r. A CO2 reading needs temperature and
// humidity alongside; zero CO2 is discarded like a sensor glitch.
func Apply(env Env, r Reading) {
	if r.CO2 != nil && *r.CO2 > 0 && r.Temperature != nil && r.Humidity != nil {
		env.SetEnvironmental(*r.CO2, *r.Temperature, *r.Humidity)
	}
	if r.Pressure != nil && *r.Pressure > 0 {
		var t float32
		if r.Temperature != nil {
			t = *r.Temperature
		}
		env.SetPressureReading(*r.Pressure, t, sensors.Altitude(*r.Pressure))
	}
	if r.Battery != nil {
		env.SetBatteryVoltage(*r.Battery)
	}
}

// Handle decodes and applies one payload.
func (f *Feed) Handle(payload []byte) error {
	r, err := Decode(payload)
	if err != nil {
		return err
	}
	Apply(f.env, r)
	return nil
}

// Run connects, subscribes and blocks until ctx is done.
func (f *Feed) Run(ctx context.Context) error {
	if f.cfg.Broker == "" {
		return ErrNoBroker
	}
	opts := mqtt.NewClientOptions().
		AddBroker(f.cfg.Broker).
		SetClientID(f.cfg.ClientID).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(30 * time.Second)

	opts.SetOnConnectHandler(func(c mqtt.Client) {
		f.log.Infof("connected to %s as %s", f.cfg.Broker, f.cfg.ClientID)
		f.env.SetWifiConnected(true)
		tok := c.Subscribe(f.cfg.Topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
			if err := f.Handle(msg.Payload()); err != nil {
				f.log.Warnf("%s: %v", msg.Topic(), err)
			}
		})
		if tok.Wait() && tok.Error() != nil {
			f.log.Errorf("subscribe %s: %v", f.cfg.Topic, tok.Error())
		}
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		f.log.Warnf("connection lost: %v", err)
		f.env.SetWifiConnected(false)
	})

	client := mqtt.NewClient(opts)
	if tok := client.Connect(); tok.Wait() && tok.Error() != nil {
		return fmt.Errorf("mqttfeed: connect %s: %w", f.cfg.Broker, tok.Error())
	}
	<-ctx.Done()
	client.Disconnect(250)
	f.env.SetWifiConnected(false)
	return nil
}
