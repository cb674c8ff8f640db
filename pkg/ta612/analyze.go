package ta612

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/floriangmeiner/thermal-logger/internal/frame"
	"github.com/floriangmeiner/thermal-logger/internal/sample"
)

// Result captures the outcome of AnalyzeHex.
type Result struct {
	Instruction   string
	RawHex        string
	ByteCount     int
	ChecksumValid bool
	Fields        map[string]any
}

// String renders a human-readable representation of the result.
func (r Result) String() string {
	summary := map[string]any{
		"instruction":    r.Instruction,
		"byte_count":     r.ByteCount,
		"raw_hex":        r.RawHex,
		"checksum_valid": r.ChecksumValid,
	}
	if len(r.Fields) > 0 {
		summary["fields"] = r.Fields
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Sprintf("instruction: %s bytes:%d raw:%s (marshal error: %v)", r.Instruction, r.ByteCount, r.RawHex, err)
	}
	return string(data)
}

// AnalyzeHex dissects one device→host frame captured as a hex dump, e.g.
// from a bus sniffer. Whitespace and |/_ separators are tolerated.
func AnalyzeHex(raw string) (Result, error) {
	data, err := decodeHexDump(raw)
	if err != nil {
		return Result{}, err
	}
	f, err := frame.Read(bytes.NewReader(data))
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Instruction:   f.Instruction.String(),
		RawHex:        strings.ToUpper(stripSeparators(raw)),
		ByteCount:     len(data),
		ChecksumValid: f.ChecksumValid,
		Fields: map[string]any{
			"payload_bytes": len(f.Payload),
			"checksum":      fmt.Sprintf("0x%02X", f.Checksum),
		},
	}

	switch f.Instruction {
	case frame.Stop:
		if info, err := sample.DecodeDeviceInfo(f.Payload); err == nil {
			result.Fields["model"] = info.ModelName()
			result.Fields["version"] = info.Version()
		}
	case frame.RealTime:
		if cs, err := sample.DecodeChannelSample(f.Payload); err == nil {
			addChannels(result.Fields, cs)
		}
	case frame.Recorded:
		samples := sample.DecodeSamples(f.Payload)
		result.Fields["sample_count"] = len(samples)
		if len(samples) > 0 {
			addChannels(result.Fields, samples[0])
		}
	}
	return result, nil
}

func addChannels(fields map[string]any, cs sample.ChannelSample) {
	for i, r := range cs {
		key := fmt.Sprintf("ch%d_celsius", i+1)
		if r.Valid {
			fields[key] = r.Celsius
		} else {
			fields[key] = "ERROR"
		}
	}
}

func decodeHexDump(input string) ([]byte, error) {
	clean := stripSeparators(input)
	if strings.HasPrefix(strings.ToUpper(clean), "0X") {
		clean = clean[2:]
	}
	if len(clean)%2 != 0 {
		return nil, fmt.Errorf("hex dump must contain an even number of digits, got %d", len(clean))
	}
	decoded := make([]byte, len(clean)/2)
	if _, err := hex.Decode(decoded, []byte(clean)); err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded, nil
}

func stripSeparators(s string) string {
	builder := strings.Builder{}
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '|' || r == '_' {
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}
