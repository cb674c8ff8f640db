// Package serialport opens the RS-232/USB link to the logger. The TA612
// talks 8N1 at 9600 baud.
package serialport

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

const (
	DefaultBaud        = 9600
	DefaultReadTimeout = 2 * time.Second
)

var ErrNoPort = errors.New("serialport: port name required")

// Config selects and tunes the port. Zero values fall back to the device
// defaults.
type Config struct {
	Name        string
	Baud        int
	ReadTimeout time.Duration
}

// Open returns the configured port as a plain byte channel. With a read
// timeout set, a stalled read yields zero bytes instead of blocking
// forever, which is what frame reassembly relies on.
func Open(cfg Config) (io.ReadWriteCloser, error) {
	if cfg.Name == "" {
		return nil, ErrNoPort
	}
	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaud
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Name,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Name, err)
	}
	return port, nil
}
