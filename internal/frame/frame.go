package frame

import (
	"errors"
	"fmt"
	"io"
)

// Instruction identifies a TA612 command byte. Responses echo the
// instruction of the command that triggered them.
type Instruction byte

const (
	Stop        Instruction = 0x00 // halts sampling; reply carries device info
	RealTime    Instruction = 0x01
	Recorded    Instruction = 0x02
	TimeSync    Instruction = 0x03
	SetFunction Instruction = 0x04
)

func (i Instruction) String() string {
	switch i {
	case Stop:
		return "stop"
	case RealTime:
		return "real_time"
	case Recorded:
		return "recorded"
	case TimeSync:
		return "time_sync"
	case SetFunction:
		return "set_function"
	default:
		return fmt.Sprintf("0x%02X", byte(i))
	}
}

// The 2-byte header is direction-dependent: the host leads with 0xAA 0x55,
// the device answers with the bytes reversed.
const (
	hostHeader0   = 0xAA
	hostHeader1   = 0x55
	deviceHeader0 = 0x55
	deviceHeader1 = 0xAA
)

// minLength is the smallest valid length byte: instruction + length byte +
// checksum with an empty payload. The length byte never counts the header.
const minLength = 3

var (
	ErrHeaderMismatch = errors.New("frame: unexpected header bytes")
	ErrNoData         = errors.New("frame: no data before read timeout")
	ErrIncomplete     = errors.New("frame: incomplete frame")
	ErrInvalidLength  = errors.New("frame: invalid length byte")
)

// Frame is one complete device→host message stripped of header and length
// byte. ChecksumValid records whether the trailing checksum matched; a
// mismatched frame is still delivered so the caller can decide.
type Frame struct {
	Instruction   Instruction
	Payload       []byte
	Checksum      byte
	ChecksumValid bool
}

// Encode builds the host→device wire bytes for one command:
// header, instruction, length byte, optional payload, checksum.
func Encode(instr Instruction, payload []byte) []byte {
	buf := make([]byte, 0, 5+len(payload))
	buf = append(buf, hostHeader0, hostHeader1, byte(instr), byte(minLength+len(payload)))
	buf = append(buf, payload...)
	return append(buf, Sum(buf))
}

// Read decodes exactly one device frame from r. A read that yields zero
// bytes at the header position reports ErrNoData, which recorded downloads
// treat as end of stream; any later short read reports ErrIncomplete.
func Read(r io.Reader) (Frame, error) {
	var head [2]byte
	n, err := readFull(r, head[:])
	if err != nil {
		return Frame{}, err
	}
	if n == 0 {
		return Frame{}, ErrNoData
	}
	if n < len(head) {
		return Frame{}, fmt.Errorf("%w: header truncated after %d byte", ErrIncomplete, n)
	}
	if head[0] != deviceHeader0 || head[1] != deviceHeader1 {
		return Frame{}, fmt.Errorf("%w: % X", ErrHeaderMismatch, head[:])
	}

	var meta [2]byte // instruction and length byte
	n, err = readFull(r, meta[:])
	if err != nil {
		return Frame{}, err
	}
	if n < len(meta) {
		return Frame{}, fmt.Errorf("%w: missing instruction or length byte", ErrIncomplete)
	}
	length := int(meta[1])
	if length < minLength {
		return Frame{}, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	// The length byte already counts the instruction and itself, so the
	// remainder on the wire is payload plus one checksum byte.
	rest := make([]byte, length-2)
	n, err = readFull(r, rest)
	if err != nil {
		return Frame{}, err
	}
	if n < len(rest) {
		return Frame{}, fmt.Errorf("%w: got %d of %d remaining bytes", ErrIncomplete, n, len(rest))
	}

	payload := rest[: len(rest)-1 : len(rest)-1]
	checksum := rest[len(rest)-1]

	summed := make([]byte, 0, 4+len(payload))
	summed = append(summed, head[:]...)
	summed = append(summed, meta[:]...)
	summed = append(summed, payload...)

	return Frame{
		Instruction:   Instruction(meta[0]),
		Payload:       payload,
		Checksum:      checksum,
		ChecksumValid: Verify(summed, checksum),
	}, nil
}

// readFull fills buf from r, treating a zero-byte read or EOF as the
// transport stalling: it returns what arrived so far with a nil error.
// Serial ports with a read timeout surface the timeout exactly that way.
func readFull(r io.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, nil
		}
	}
	return total, nil
}
