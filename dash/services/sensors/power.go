package sensors

import (
	"time"

	"inkdash/dash/client/logger"
	"inkdash/hal"
)

const (
	BatteryInterval = 2 * time.Second
	LinkInterval    = 5 * time.Second
)

type Battery struct {
	Source hal.Battery
	Env    Env
	Log    *logger.Logger
}

func (b *Battery) Step() time.Duration {
	v, err := b.Source.Voltage()
	if err != nil {
		b.Log.Warnf("battery: %v", err)
		return BatteryInterval
	}
	b.Log.Debugf("battery: %.2f V", v)
	b.Env.SetBatteryVoltage(v)
	return BatteryInterval
}

// Link mirrors the network state into the store, writing on change only.
type Link struct {
	Net hal.Network
	Env Env
	Log *logger.Logger

	known bool
	up    bool
}

func (l *Link) Step() time.Duration {
	up := l.Net.Connected()
	if l.known && up == l.up {
		return LinkInterval
	}
	l.known = true
	l.up = up
	l.Log.Infof("network connected: %v", up)
	l.Env.SetWifiConnected(up)
	return LinkInterval
}
