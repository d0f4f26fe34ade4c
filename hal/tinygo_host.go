//go:build tinygo && !baremetal

package hal

import "time"

// New returns a TinyGo-on-host HAL (linux/wasm targets) with a logger and a
// clock only. There is no panel, so the dashboard stops at bring-up.
func New() HAL {
	return tinyGoHostHAL{}
}

type tinyGoHostHAL struct{}

func (tinyGoHostHAL) Logger() Logger           { return tinyGoHostLogger{} }
func (tinyGoHostHAL) Panel() Panel             { return nil }
func (tinyGoHostHAL) Buttons() Buttons         { return nil }
func (tinyGoHostHAL) CO2() CO2Sensor           { return nil }
func (tinyGoHostHAL) Pressure() PressureSensor { return nil }
func (tinyGoHostHAL) Battery() Battery         { return nil }
func (tinyGoHostHAL) Storage() Storage         { return nil }
func (tinyGoHostHAL) Network() Network         { return nil }
func (tinyGoHostHAL) Clock() Clock             { return tinyGoHostClock{} }
func (tinyGoHostHAL) Reset()                   {}

type tinyGoHostClock struct{}

func (tinyGoHostClock) Now() time.Time { return time.Now() }

type tinyGoHostLogger struct{}

func (tinyGoHostLogger) WriteLineString(s string) {
	println(s)
}

func (tinyGoHostLogger) WriteLineBytes(b []byte) {
	println(string(b))
}
