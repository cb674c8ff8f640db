// Package sample turns raw TA612 payload bytes into typed readings.
package sample

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// sentinelRaw is what a channel reports when its sensor is disconnected or
// the reading is invalid.
const sentinelRaw uint16 = 0x6D60

// Channels is the number of thermocouple inputs on the device.
const Channels = 4

// SampleSize is the payload footprint of one sample: Channels × u16.
const SampleSize = Channels * 2

var ErrPayloadTooShort = errors.New("sample: payload too short")

// Reading is one channel's temperature. Valid is false when the device sent
// the disconnect sentinel; Celsius is meaningless in that case.
type Reading struct {
	Celsius float64
	Valid   bool
}

func (r Reading) String() string {
	if !r.Valid {
		return "ERROR"
	}
	return fmt.Sprintf("%.1f°C", r.Celsius)
}

func readingFromRaw(raw uint16) Reading {
	if raw == sentinelRaw {
		return Reading{}
	}
	return Reading{Celsius: float64(raw) / 10.0, Valid: true}
}

// ChannelSample holds one reading per channel, CH1 first.
type ChannelSample [Channels]Reading

// DeviceInfo is the reply payload of the stop command.
type DeviceInfo struct {
	Model      uint16
	VersionRaw uint16
}

// ModelName renders the model the way the vendor labels it, e.g. "TA612".
func (i DeviceInfo) ModelName() string {
	return fmt.Sprintf("TA%d", i.Model)
}

// Version is the firmware version, e.g. 3.30 for a raw value of 330.
func (i DeviceInfo) Version() float64 {
	return float64(i.VersionRaw) / 100.0
}

func (i DeviceInfo) String() string {
	return fmt.Sprintf("%s V%.2f", i.ModelName(), i.Version())
}

// DecodeDeviceInfo reads model and raw version from the first 4 payload
// bytes, both little-endian.
func DecodeDeviceInfo(payload []byte) (DeviceInfo, error) {
	if len(payload) < 4 {
		return DeviceInfo{}, fmt.Errorf("%w: device info needs 4 bytes, got %d", ErrPayloadTooShort, len(payload))
	}
	return DeviceInfo{
		Model:      binary.LittleEndian.Uint16(payload[0:2]),
		VersionRaw: binary.LittleEndian.Uint16(payload[2:4]),
	}, nil
}

// DecodeChannelSample decodes exactly one 8-byte window: four little-endian
// u16 values scaled by 1/10, with 0x6D60 mapped to an invalid reading.
func DecodeChannelSample(payload []byte) (ChannelSample, error) {
	var s ChannelSample
	if len(payload) < SampleSize {
		return s, fmt.Errorf("%w: channel sample needs %d bytes, got %d", ErrPayloadTooShort, SampleSize, len(payload))
	}
	for ch := 0; ch < Channels; ch++ {
		raw := binary.LittleEndian.Uint16(payload[ch*2 : ch*2+2])
		s[ch] = readingFromRaw(raw)
	}
	return s, nil
}

// DecodeSamples partitions payload into consecutive 8-byte windows and
// decodes each. Trailing bytes short of a full window are dropped; the
// device pads recorded frames that way.
func DecodeSamples(payload []byte) []ChannelSample {
	n := len(payload) / SampleSize
	if n == 0 {
		return nil
	}
	samples := make([]ChannelSample, 0, n)
	for i := 0; i < n; i++ {
		s, err := DecodeChannelSample(payload[i*SampleSize : (i+1)*SampleSize])
		if err != nil {
			break // unreachable: windows are exact by construction
		}
		samples = append(samples, s)
	}
	return samples
}
