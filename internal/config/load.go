//go:build !tinygo

package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. INKDASH_MQTT_BROKER.
const EnvPrefix = "INKDASH"

// Loaded is a config backed by viper that can follow file changes.
type Loaded struct {
	v *viper.Viper

	mu  sync.Mutex
	cfg Config
}

// Load reads path, or inkdash.yaml from the working directory or
// /etc/inkdash when path is empty. A missing default file is not an error.
func Load(path string) (*Loaded, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("inkdash")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/inkdash")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	l := &Loaded{v: v}
	if err := l.reload(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Loaded) reload() error {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("config: decode: %w", err)
	}
	l.mu.Lock()
	l.cfg = cfg
	l.mu.Unlock()
	return nil
}

func (l *Loaded) Config() Config {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cfg
}

// File is the config file in use, or "" when running on defaults.
func (l *Loaded) File() string { return l.v.ConfigFileUsed() }

// Watch calls onChange with the new config each time the file changes.
// Invalid edits are reported through onError and leave the config as it
// was.
func (l *Loaded) Watch(onChange func(Config), onError func(error)) {
	if l.File() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if err := l.reload(); err != nil {
			if onError != nil {
				onError(fmt.Errorf("%s: %w", e.Name, err))
			}
			return
		}
		if onChange != nil {
			onChange(l.Config())
		}
	})
	l.v.WatchConfig()
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("backend", d.Backend)
	v.SetDefault("headless", d.Headless)
	v.SetDefault("hz", d.Hz)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("timezone", d.Timezone)
	v.SetDefault("storage_dir", d.StorageDir)
	v.SetDefault("frame_dir", d.FrameDir)
	v.SetDefault("reader_file", d.ReaderFile)
	v.SetDefault("hold_threshold", d.HoldThreshold)

	v.SetDefault("panel.full_refresh", d.Panel.FullRefresh)
	v.SetDefault("panel.partial_refresh", d.Panel.PartialRefresh)
	v.SetDefault("panel.scale", d.Panel.Scale)

	v.SetDefault("sim.seed", d.Sim.Seed)
	v.SetDefault("sim.co2_base", d.Sim.CO2Base)
	v.SetDefault("sim.co2_drift", d.Sim.CO2Drift)
	v.SetDefault("sim.temp_base", d.Sim.TempBase)
	v.SetDefault("sim.temp_drift", d.Sim.TempDrift)
	v.SetDefault("sim.hum_base", d.Sim.HumBase)
	v.SetDefault("sim.hum_drift", d.Sim.HumDrift)
	v.SetDefault("sim.pressure", d.Sim.Pressure)
	v.SetDefault("sim.pressure_drift", d.Sim.PressDrift)
	v.SetDefault("sim.battery", d.Sim.Battery)
	v.SetDefault("sim.battery_drain", d.Sim.BatteryDrain)
	v.SetDefault("sim.network", d.Sim.Network)
	v.SetDefault("sim.demo_press", d.Sim.DemoPress)

	v.SetDefault("mqtt.broker", d.MQTT.Broker)
	v.SetDefault("mqtt.topic", d.MQTT.Topic)
	v.SetDefault("mqtt.client_id", d.MQTT.ClientID)

	v.SetDefault("periph.i2c_bus", d.Periph.I2CBus)
	v.SetDefault("periph.baro_addr", d.Periph.BaroAddr)
	v.SetDefault("periph.spi_port", d.Periph.SPIPort)
	v.SetDefault("periph.spi_hz", d.Periph.SPIHz)
	v.SetDefault("periph.button_a", d.Periph.ButtonA)
	v.SetDefault("periph.button_b", d.Periph.ButtonB)
	v.SetDefault("periph.dc", d.Periph.DC)
	v.SetDefault("periph.reset", d.Periph.Reset)
	v.SetDefault("periph.busy", d.Periph.Busy)
}
