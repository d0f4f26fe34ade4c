// Package config holds the runtime settings of the dashboard.
//
// Devices run with Default(). Hosts overlay a YAML file and INKDASH_*
// environment variables on top (see Load).
package config

import "time"

type Config struct {
	// Backend selects the host hardware: "sim" or "periph".
	Backend  string `mapstructure:"backend"`
	Headless bool   `mapstructure:"headless"`
	Hz       int    `mapstructure:"hz"`
	LogLevel string `mapstructure:"log_level"`
	Timezone string `mapstructure:"timezone"`

	StorageDir string `mapstructure:"storage_dir"`
	FrameDir   string `mapstructure:"frame_dir"`
	ReaderFile string `mapstructure:"reader_file"`

	HoldThreshold time.Duration `mapstructure:"hold_threshold"`

	Panel  PanelConfig  `mapstructure:"panel"`
	Sim    SimConfig    `mapstructure:"sim"`
	MQTT   MQTTConfig   `mapstructure:"mqtt"`
	Periph PeriphConfig `mapstructure:"periph"`
}

// PanelConfig describes the simulated e-paper panel.
type PanelConfig struct {
	FullRefresh    time.Duration `mapstructure:"full_refresh"`
	PartialRefresh time.Duration `mapstructure:"partial_refresh"`
	Scale          int           `mapstructure:"scale"`
}

// SimConfig drives the random-walk sensor simulator.
type SimConfig struct {
	Seed         int64   `mapstructure:"seed"`
	CO2Base      float64 `mapstructure:"co2_base"`
	CO2Drift     float64 `mapstructure:"co2_drift"`
	TempBase     float64 `mapstructure:"temp_base"`
	TempDrift    float64 `mapstructure:"temp_drift"`
	HumBase      float64 `mapstructure:"hum_base"`
	HumDrift     float64 `mapstructure:"hum_drift"`
	Pressure     float64 `mapstructure:"pressure"` // Pa
	PressDrift   float64 `mapstructure:"pressure_drift"`
	Battery      float64 `mapstructure:"battery"`
	BatteryDrain float64 `mapstructure:"battery_drain"` // V per reading
	Network      bool    `mapstructure:"network"`
	// DemoPress, when set, presses button B for a moment once per period
	// in headless runs.
	DemoPress time.Duration `mapstructure:"demo_press"`
}

type MQTTConfig struct {
	Broker   string `mapstructure:"broker"`
	Topic    string `mapstructure:"topic"`
	ClientID string `mapstructure:"client_id"`
}

// PeriphConfig names the buses and pins of a Linux single-board computer.
type PeriphConfig struct {
	I2CBus   string `mapstructure:"i2c_bus"`
	BaroAddr uint16 `mapstructure:"baro_addr"`
	SPIPort  string `mapstructure:"spi_port"`
	SPIHz    int64  `mapstructure:"spi_hz"`
	ButtonA  string `mapstructure:"button_a"`
	ButtonB  string `mapstructure:"button_b"`
	DC       string `mapstructure:"dc"`
	Reset    string `mapstructure:"reset"`
	Busy     string `mapstructure:"busy"`
}

func Default() Config {
	return Config{
		Backend:       "sim",
		Hz:            60,
		LogLevel:      "info",
		Timezone:      "Local",
		StorageDir:    "data",
		ReaderFile:    "book.txt",
		HoldThreshold: time.Second,
		Panel: PanelConfig{
			FullRefresh:    2 * time.Second,
			PartialRefresh: 300 * time.Millisecond,
			Scale:          3,
		},
		Sim: SimConfig{
			Seed:         1,
			CO2Base:      650,
			CO2Drift:     15,
			TempBase:     21.5,
			TempDrift:    0.05,
			HumBase:      42,
			HumDrift:     0.2,
			Pressure:     100900,
			PressDrift:   2,
			Battery:      4.1,
			BatteryDrain: 0.0005,
			Network:      true,
		},
		MQTT: MQTTConfig{
			Topic:    "inkdash/readings",
			ClientID: "inkdash",
		},
		Periph: PeriphConfig{
			BaroAddr: 0x76,
			SPIHz:    4_000_000,
			ButtonA:  "GPIO19",
			ButtonB:  "GPIO20",
			DC:       "GPIO25",
			Reset:    "GPIO17",
			Busy:     "GPIO24",
		},
	}
}

// Location resolves Timezone, falling back to the local zone.
func (c Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
