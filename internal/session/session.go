// Package session drives one TA612 exchange at a time over an exclusively
// owned byte channel.
package session

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/floriangmeiner/thermal-logger/internal/frame"
	"github.com/floriangmeiner/thermal-logger/internal/sample"
)

// Channel is a duplex byte link with a bounded read timeout. Bytes arrive in
// the order written; a stalled read returns fewer bytes than asked for after
// the timeout elapses.
type Channel interface {
	io.ReadWriteCloser
}

var (
	ErrUnexpectedInstruction = errors.New("session: unexpected response instruction")
	ErrChecksumMismatch      = errors.New("session: response checksum mismatch")
)

// Config tunes a session. The zero value logs through the standard logrus
// logger and treats checksum mismatches as advisory.
type Config struct {
	Logger *logrus.Logger

	// StrictChecksums turns the advisory checksum warning into a hard
	// failure of the current operation.
	StrictChecksums bool
}

// Session owns its channel for the duration of a connection. Protocol state
// never outlives a single call, so a session is reusable but not safe for
// concurrent use without external locking.
type Session struct {
	ch     Channel
	log    *logrus.Logger
	strict bool
}

func New(ch Channel, cfg Config) *Session {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Session{ch: ch, log: log, strict: cfg.StrictChecksums}
}

// Close releases the underlying channel.
func (s *Session) Close() error {
	return s.ch.Close()
}

func (s *Session) send(instr frame.Instruction, payload []byte) error {
	if _, err := s.ch.Write(frame.Encode(instr, payload)); err != nil {
		return fmt.Errorf("send %v: %w", instr, err)
	}
	return nil
}

// readResponse reads one frame and enforces the instruction echo. Checksum
// mismatches are logged and passed through unless strict mode is on.
func (s *Session) readResponse(want frame.Instruction) (frame.Frame, error) {
	f, err := frame.Read(s.ch)
	if err != nil {
		return frame.Frame{}, err
	}
	if !f.ChecksumValid {
		if s.strict {
			return frame.Frame{}, fmt.Errorf("%w: instruction %v", ErrChecksumMismatch, f.Instruction)
		}
		s.log.WithFields(logrus.Fields{
			"instruction": f.Instruction.String(),
			"checksum":    fmt.Sprintf("%02X", f.Checksum),
		}).Warn("checksum mismatch, delivering frame anyway")
	}
	if f.Instruction != want {
		return frame.Frame{}, fmt.Errorf("%w: got %v, want %v", ErrUnexpectedInstruction, f.Instruction, want)
	}
	return f, nil
}

// DeviceInfo stops any running sampling and returns the model and firmware
// version the device reports.
func (s *Session) DeviceInfo() (sample.DeviceInfo, error) {
	if err := s.send(frame.Stop, nil); err != nil {
		return sample.DeviceInfo{}, err
	}
	f, err := s.readResponse(frame.Stop)
	if err != nil {
		return sample.DeviceInfo{}, err
	}
	return sample.DecodeDeviceInfo(f.Payload)
}

// RealTimeSample is one live 4-channel reading with its capture time.
type RealTimeSample struct {
	At     time.Time
	Sample sample.ChannelSample

	// ChecksumValid is false when the carrying frame failed its integrity
	// check but was delivered anyway.
	ChecksumValid bool
}

// RealTime fetches one live sample. The timestamp is taken as soon as the
// response frame has been received in full.
func (s *Session) RealTime() (RealTimeSample, error) {
	if err := s.send(frame.RealTime, nil); err != nil {
		return RealTimeSample{}, err
	}
	f, err := s.readResponse(frame.RealTime)
	if err != nil {
		return RealTimeSample{}, err
	}
	at := time.Now()
	cs, err := sample.DecodeChannelSample(f.Payload)
	if err != nil {
		return RealTimeSample{}, err
	}
	return RealTimeSample{At: at, Sample: cs, ChecksumValid: f.ChecksumValid}, nil
}

// Recorded issues the download command once and returns the lazy sample
// stream. The stream is finite and not restartable: a second pass needs a
// fresh Recorded call.
func (s *Session) Recorded() (*RecordedStream, error) {
	if err := s.send(frame.Recorded, nil); err != nil {
		return nil, err
	}
	return &RecordedStream{s: s}, nil
}

// RecordedStream iterates over the samples of a recorded download in the
// bufio.Scanner style. Frames are fetched from the channel only as the
// consumer drains the previous frame's samples.
type RecordedStream struct {
	s       *Session
	pending []sample.ChannelSample
	current sample.ChannelSample
	err     error
	done    bool
}

// Next advances to the following sample. It returns false at the end of the
// stream; Err tells a clean end (the link fell silent) from a fault.
func (st *RecordedStream) Next() bool {
	if st.done {
		return false
	}
	for len(st.pending) == 0 {
		f, err := frame.Read(st.s.ch)
		if err != nil {
			st.done = true
			if errors.Is(err, frame.ErrNoData) {
				return false // the only normal termination signal
			}
			st.err = err
			return false
		}
		if !f.ChecksumValid {
			if st.s.strict {
				st.done = true
				st.err = fmt.Errorf("%w: instruction %v", ErrChecksumMismatch, f.Instruction)
				return false
			}
			st.s.log.WithField("instruction", f.Instruction.String()).Warn("checksum mismatch in recorded frame")
		}
		if f.Instruction != frame.Recorded {
			st.done = true
			st.err = fmt.Errorf("%w: got %v, want %v", ErrUnexpectedInstruction, f.Instruction, frame.Recorded)
			return false
		}
		// A frame shorter than one sample window contributes nothing;
		// keep pulling until samples or silence.
		st.pending = sample.DecodeSamples(f.Payload)
	}
	st.current = st.pending[0]
	st.pending = st.pending[1:]
	return true
}

// Sample returns the sample Next advanced to.
func (st *RecordedStream) Sample() sample.ChannelSample {
	return st.current
}

// Err reports why the stream stopped. It is nil after a clean end of
// stream.
func (st *RecordedStream) Err() error {
	return st.err
}
