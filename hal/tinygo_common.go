//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"io"
	"machine"
	"os"
	"sync"
	"time"

	"tinygo.org/x/drivers/bme280"
	"tinygo.org/x/tinyfs/littlefs"
)

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

// machinePin adapts a machine.Pin to GPIOPin.
type machinePin struct {
	name string
	pin  machine.Pin
}

func (p *machinePin) Name() string { return p.name }

func (p *machinePin) Caps() GPIOCaps {
	return GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown
}

func (p *machinePin) Configure(mode GPIOMode, pull GPIOPull) error {
	cfg := machine.PinConfig{Mode: machine.PinInput}
	switch {
	case mode == GPIOModeOutput:
		cfg.Mode = machine.PinOutput
	case pull == GPIOPullUp:
		cfg.Mode = machine.PinInputPullup
	case pull == GPIOPullDown:
		cfg.Mode = machine.PinInputPulldown
	}
	p.pin.Configure(cfg)
	return nil
}

func (p *machinePin) Read() (bool, error) { return p.pin.Get(), nil }

func (p *machinePin) Write(level bool) error {
	p.pin.Set(level)
	return nil
}

type deviceButtons struct {
	a, b GPIOPin
}

func (b deviceButtons) A() GPIOPin { return b.a }
func (b deviceButtons) B() GPIOPin { return b.b }

// csSPI frames every transfer with the panel's chip select.
type csSPI struct {
	spi *machine.SPI
	cs  machine.Pin
}

func (s csSPI) Tx(w, r []byte) error {
	s.cs.Low()
	err := s.spi.Tx(w, r)
	s.cs.High()
	return err
}

type bme280Sensor struct {
	mu  sync.Mutex
	dev *bme280.Device
}

func (b *bme280Sensor) Read() (PressureReading, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	mpa, err := b.dev.ReadPressure()
	if err != nil {
		return PressureReading{}, fmt.Errorf("bme280: pressure: %w", err)
	}
	mc, err := b.dev.ReadTemperature()
	if err != nil {
		return PressureReading{}, fmt.Errorf("bme280: temperature: %w", err)
	}
	return PressureReading{Pressure: float32(mpa) / 1000, Temperature: float32(mc) / 1000}, nil
}

// adcBattery reads the cell through a 1:2 divider on a 3.3 V reference.
type adcBattery struct {
	adc machine.ADC
}

func (b adcBattery) Voltage() (float32, error) {
	raw := b.adc.Get()
	return float32(raw) / 65535 * 3.3 * 2, nil
}

type deviceClock struct{}

func (deviceClock) Now() time.Time { return time.Now() }

func mountOrFormat(fs *littlefs.LFS) error {
	if err := fs.Mount(); err == nil {
		return nil
	}
	if err := fs.Format(); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	return fs.Mount()
}

// lfsStorage keeps files at the root of the littlefs partition.
type lfsStorage struct {
	mu sync.Mutex
	fs *littlefs.LFS
}

func (s *lfsStorage) ReadFile(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.fs.Open(name)
	if err != nil {
		// littlefs does not distinguish a missing file from other open
		// failures in a way callers can test for.
		return nil, fmt.Errorf("littlefs: open %s: %w (%v)", name, ErrNotFound, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("littlefs: read %s: %w", name, err)
	}
	return b, nil
}

func (s *lfsStorage) WriteFile(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.fs.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC)
	if err != nil {
		return fmt.Errorf("littlefs: create %s: %w", name, err)
	}
	n, err := f.Write(data)
	if err == nil && n != len(data) {
		err = io.ErrShortWrite
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("littlefs: write %s: %w", name, err)
	}
	return nil
}
