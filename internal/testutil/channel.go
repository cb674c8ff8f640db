// Package testutil provides wire-level helpers shared by protocol tests.
package testutil

import (
	"io"

	"github.com/floriangmeiner/thermal-logger/internal/frame"
)

// DeviceFrame builds the device→host wire bytes for one response frame,
// including a correct checksum.
func DeviceFrame(instr frame.Instruction, payload []byte) []byte {
	buf := make([]byte, 0, 5+len(payload))
	buf = append(buf, 0x55, 0xAA, byte(instr), byte(3+len(payload)))
	buf = append(buf, payload...)
	return append(buf, frame.Sum(buf))
}

// CorruptChecksum returns a copy of wire with the trailing checksum byte
// flipped.
func CorruptChecksum(wire []byte) []byte {
	out := append([]byte(nil), wire...)
	out[len(out)-1] ^= 0xFF
	return out
}

// Channel is a scripted duplex link. Each queued chunk satisfies reads until
// it is drained; an empty queue behaves like a serial read timeout and
// yields zero bytes.
type Channel struct {
	chunks  [][]byte
	Written []byte
	Closed  bool

	// ShortReads makes every Read return at most one byte, exercising the
	// reassembly loop.
	ShortReads bool
}

// NewChannel queues the given response chunks in order.
func NewChannel(chunks ...[]byte) *Channel {
	c := &Channel{}
	for _, ch := range chunks {
		c.chunks = append(c.chunks, append([]byte(nil), ch...))
	}
	return c
}

func (c *Channel) Read(p []byte) (int, error) {
	for len(c.chunks) > 0 && len(c.chunks[0]) == 0 {
		c.chunks = c.chunks[1:]
	}
	if len(c.chunks) == 0 {
		return 0, io.EOF // timeout with nothing buffered
	}
	limit := len(p)
	if c.ShortReads && limit > 1 {
		limit = 1
	}
	n := copy(p[:limit], c.chunks[0])
	c.chunks[0] = c.chunks[0][n:]
	return n, nil
}

func (c *Channel) Write(p []byte) (int, error) {
	c.Written = append(c.Written, p...)
	return len(p), nil
}

func (c *Channel) Close() error {
	c.Closed = true
	return nil
}
