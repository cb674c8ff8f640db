package frame

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

func TestEncodeStop(t *testing.T) {
	got := Encode(Stop, nil)
	want := decodeHex(t, "AA55000302")
	if !bytes.Equal(got, want) {
		t.Fatalf("encode stop: got % X want % X", got, want)
	}
}

func TestEncodeLengthInvariant(t *testing.T) {
	for _, n := range []int{0, 1, 7, 8, 100, 250} {
		payload := make([]byte, n)
		for i := range payload {
			payload[i] = byte(i * 3)
		}
		raw := Encode(RealTime, payload)
		if len(raw) != 5+n {
			t.Fatalf("payload len %d: frame has %d bytes, want %d", n, len(raw), 5+n)
		}
		if int(raw[3]) != 3+n {
			t.Fatalf("payload len %d: length byte %d, want %d", n, raw[3], 3+n)
		}
		if len(raw) != 2+int(raw[3]) {
			t.Fatalf("payload len %d: total %d does not match 2+length byte", n, len(raw))
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 8, 16, 250} {
		payload := make([]byte, n)
		for i := range payload {
			payload[i] = byte(255 - i)
		}
		raw := Encode(Recorded, payload)
		// Flip the header to device→host order to feed the decoder.
		raw[0], raw[1] = raw[1], raw[0]
		f, err := Read(bytes.NewReader(raw))
		if err != nil {
			t.Fatalf("payload len %d: read: %v", n, err)
		}
		if f.Instruction != Recorded {
			t.Fatalf("payload len %d: instruction %v", n, f.Instruction)
		}
		if !bytes.Equal(f.Payload, payload) {
			t.Fatalf("payload len %d: payload mismatch", n)
		}
		if !f.ChecksumValid {
			t.Fatalf("payload len %d: checksum flagged invalid", n)
		}
	}
}

func TestReadDeviceInfoFrame(t *testing.T) {
	raw := decodeHex(t, "55AA000764024A01B7")
	f, err := Read(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if f.Instruction != Stop {
		t.Fatalf("instruction %v", f.Instruction)
	}
	if want := decodeHex(t, "64024A01"); !bytes.Equal(f.Payload, want) {
		t.Fatalf("payload % X want % X", f.Payload, want)
	}
	if f.Checksum != 0xB7 {
		t.Fatalf("checksum %02X", f.Checksum)
	}
	if !f.ChecksumValid {
		t.Fatal("checksum flagged invalid")
	}
}

func TestReadRealTimeFrame(t *testing.T) {
	raw := decodeHex(t, "55AA010BE100606D606D606D53")
	f, err := Read(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if f.Instruction != RealTime {
		t.Fatalf("instruction %v", f.Instruction)
	}
	if len(f.Payload) != 8 {
		t.Fatalf("payload length %d", len(f.Payload))
	}
	if !f.ChecksumValid {
		t.Fatal("checksum flagged invalid")
	}
}

func TestReadHeaderMismatch(t *testing.T) {
	_, err := Read(bytes.NewReader(decodeHex(t, "AA55000302")))
	if !errors.Is(err, ErrHeaderMismatch) {
		t.Fatalf("err = %v, want ErrHeaderMismatch", err)
	}
}

func TestReadNoData(t *testing.T) {
	_, err := Read(bytes.NewReader(nil))
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestReadIncomplete(t *testing.T) {
	cases := []string{
		"55",               // half a header
		"55AA00",           // missing length byte
		"55AA000764",       // remainder cut short
		"55AA000764024A01", // checksum byte never arrives
	}
	for _, c := range cases {
		_, err := Read(bytes.NewReader(decodeHex(t, c)))
		if !errors.Is(err, ErrIncomplete) {
			t.Fatalf("frame %s: err = %v, want ErrIncomplete", c, err)
		}
	}
}

func TestReadInvalidLength(t *testing.T) {
	_, err := Read(bytes.NewReader(decodeHex(t, "55AA0002FF")))
	if !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("err = %v, want ErrInvalidLength", err)
	}
}

func TestReadChecksumMismatchIsAdvisory(t *testing.T) {
	raw := decodeHex(t, "55AA000764024A01B8") // checksum off by one
	f, err := Read(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if f.ChecksumValid {
		t.Fatal("checksum should be flagged invalid")
	}
	if want := decodeHex(t, "64024A01"); !bytes.Equal(f.Payload, want) {
		t.Fatalf("mismatched frame must still carry its payload, got % X", f.Payload)
	}
}

func TestSum(t *testing.T) {
	if got := Sum(decodeHex(t, "AA550003")); got != 0x02 {
		t.Fatalf("sum = %02X, want 02", got)
	}
	if !Verify(decodeHex(t, "55AA000764024A01"), 0xB7) {
		t.Fatal("verify rejected a good checksum")
	}
	if Verify(decodeHex(t, "55AA000764024A01"), 0xB6) {
		t.Fatal("verify accepted a bad checksum")
	}
}

func decodeHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex decode: %v", err)
	}
	return b
}
