package hal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/scd4x"
)

var ErrFRCFailed = errors.New("scd4x: forced recalibration failed")

const (
	scd4xStopDelay  = 500 * time.Millisecond
	scd4xCmdDelay   = time.Millisecond
	scd4xFRCDelay   = 400 * time.Millisecond
	scd4xResetDelay = 1200 * time.Millisecond
	scd4xPersist    = 800 * time.Millisecond
	scd4xFRCInvalid = 0xFFFF
)

// scd4xSensor is a CO2Sensor on an SCD4x. Measurements go through the
// drivers package; calibration commands are issued directly on the bus since
// the driver does not expose them. Calibration requires periodic
// measurement to be stopped, so each command stops and restarts it.
type scd4xSensor struct {
	bus  drivers.I2C
	dev  *scd4x.Device
	addr uint16

	mu  sync.Mutex
	asc bool
	tx  [5]byte
	rx  [3]byte
}

func newSCD4x(bus drivers.I2C) *scd4xSensor {
	dev := scd4x.New(bus)
	return &scd4xSensor{bus: bus, dev: dev, addr: uint16(dev.Address), asc: true}
}

// Init stops any running measurement, reinitializes the sensor and caches
// the ASC state.
func (s *scd4xSensor) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.dev.Configure(); err != nil {
		return fmt.Errorf("scd4x: configure: %w", err)
	}
	asc, err := s.readASC()
	if err != nil {
		return err
	}
	s.asc = asc
	return nil
}

func (s *scd4xSensor) StartPeriodic() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.StartPeriodicMeasurement()
}

func (s *scd4xSensor) DataReady() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.DataReady()
}

func (s *scd4xSensor) Read() (CO2Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// ReadCO2 fetches the sample; the other getters find data ready cleared
	// and return the cached values.
	co2, err := s.dev.ReadCO2()
	if err != nil {
		return CO2Reading{}, fmt.Errorf("scd4x: read measurement: %w", err)
	}
	hum, err := s.dev.ReadHumidity()
	if err != nil {
		return CO2Reading{}, err
	}
	return CO2Reading{
		CO2:         int(co2),
		Temperature: s.dev.ReadTempC(),
		Humidity:    float32(hum),
	}, nil
}

func (s *scd4xSensor) ASCEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.asc
}

func (s *scd4xSensor) SetASC(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.stop(); err != nil {
		return err
	}
	defer s.dev.StartPeriodicMeasurement()

	var v uint16
	if enabled {
		v = 1
	}
	if err := s.sendValue(scd4x.CmdSetASCE, v); err != nil {
		return fmt.Errorf("scd4x: set ASC: %w", err)
	}
	if err := s.send(scd4x.CmdPersistSettings); err != nil {
		return fmt.Errorf("scd4x: persist settings: %w", err)
	}
	time.Sleep(scd4xPersist)
	asc, err := s.readASC()
	if err != nil {
		return err
	}
	s.asc = asc
	return nil
}

func (s *scd4xSensor) ForceRecalibration(ppm uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.stop(); err != nil {
		return err
	}
	defer s.dev.StartPeriodicMeasurement()

	if err := s.sendValue(scd4x.CmdForcedRecal, ppm); err != nil {
		return fmt.Errorf("scd4x: forced recalibration: %w", err)
	}
	time.Sleep(scd4xFRCDelay)
	if err := s.bus.Tx(s.addr, nil, s.rx[:]); err != nil {
		return fmt.Errorf("scd4x: forced recalibration result: %w", err)
	}
	if binary.BigEndian.Uint16(s.rx[:2]) == scd4xFRCInvalid {
		return ErrFRCFailed
	}
	return nil
}

func (s *scd4xSensor) FactoryReset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.stop(); err != nil {
		return err
	}
	defer s.dev.StartPeriodicMeasurement()

	if err := s.send(scd4x.CmdFactoryReset); err != nil {
		return fmt.Errorf("scd4x: factory reset: %w", err)
	}
	time.Sleep(scd4xResetDelay)
	s.asc = true
	return nil
}

func (s *scd4xSensor) stop() error {
	if err := s.dev.StopPeriodicMeasurement(); err != nil {
		return fmt.Errorf("scd4x: stop periodic measurement: %w", err)
	}
	time.Sleep(scd4xStopDelay)
	return nil
}

func (s *scd4xSensor) readASC() (bool, error) {
	if err := s.send(scd4x.CmdGetASCE); err != nil {
		return false, fmt.Errorf("scd4x: get ASC: %w", err)
	}
	time.Sleep(scd4xCmdDelay)
	if err := s.bus.Tx(s.addr, nil, s.rx[:]); err != nil {
		return false, fmt.Errorf("scd4x: get ASC: %w", err)
	}
	if crc8(s.rx[:2]) != s.rx[2] {
		return false, errors.New("scd4x: get ASC: crc mismatch")
	}
	return binary.BigEndian.Uint16(s.rx[:2]) != 0, nil
}

func (s *scd4xSensor) send(cmd uint16) error {
	binary.BigEndian.PutUint16(s.tx[:2], cmd)
	return s.bus.Tx(s.addr, s.tx[:2], nil)
}

func (s *scd4xSensor) sendValue(cmd, v uint16) error {
	binary.BigEndian.PutUint16(s.tx[:2], cmd)
	binary.BigEndian.PutUint16(s.tx[2:4], v)
	s.tx[4] = crc8(s.tx[2:4])
	return s.bus.Tx(s.addr, s.tx[:5], nil)
}

// crc8 is the Sensirion word checksum: polynomial 0x31, init 0xFF.
func crc8(buf []byte) uint8 {
	crc := uint8(0xFF)
	for _, b := range buf {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x31
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
