// Package ta612 is the public client for TA612-series thermal loggers.
package ta612

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/floriangmeiner/thermal-logger/internal/sample"
	"github.com/floriangmeiner/thermal-logger/internal/serialport"
	"github.com/floriangmeiner/thermal-logger/internal/session"
)

// Config tunes the connection. Zero values use the device defaults
// (9600 baud, 2 s read timeout, standard logrus logger, advisory
// checksums).
type Config struct {
	Baud            int
	ReadTimeout     time.Duration
	Logger          *logrus.Logger
	StrictChecksums bool
}

// Device is one connected thermal logger. It wraps a single protocol
// session and therefore must not be shared between goroutines without
// external locking.
type Device struct {
	session *session.Session
}

// Open connects to the logger on the named serial port.
func Open(port string, cfg Config) (*Device, error) {
	ch, err := serialport.Open(serialport.Config{
		Name:        port,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, err
	}
	return New(ch, cfg), nil
}

// New wraps an already-open channel, which the device takes ownership of.
// Useful for tests and non-serial transports.
func New(ch session.Channel, cfg Config) *Device {
	return &Device{
		session: session.New(ch, session.Config{
			Logger:          cfg.Logger,
			StrictChecksums: cfg.StrictChecksums,
		}),
	}
}

// DeviceInfo returns model and firmware version. It also stops any
// sampling the device is doing.
func (d *Device) DeviceInfo() (sample.DeviceInfo, error) {
	return d.session.DeviceInfo()
}

// RealTime fetches one live 4-channel reading.
func (d *Device) RealTime() (session.RealTimeSample, error) {
	return d.session.RealTime()
}

// Recorded starts a download of the device memory and returns the lazy
// sample stream. The stream ends when the device stops sending frames.
func (d *Device) Recorded() (*session.RecordedStream, error) {
	return d.session.Recorded()
}

// Close releases the underlying channel.
func (d *Device) Close() error {
	return d.session.Close()
}
