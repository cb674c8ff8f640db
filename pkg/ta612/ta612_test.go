package ta612

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/floriangmeiner/thermal-logger/internal/frame"
	"github.com/floriangmeiner/thermal-logger/internal/testutil"
)

func quiet() Config {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return Config{Logger: log}
}

func TestDeviceSessionFlow(t *testing.T) {
	ch := testutil.NewChannel(
		testutil.DeviceFrame(frame.Stop, []byte{0x64, 0x02, 0x4A, 0x01}),
		testutil.DeviceFrame(frame.RealTime, []byte{0xE1, 0x00, 0x60, 0x6D, 0x60, 0x6D, 0x60, 0x6D}),
	)
	dev := New(ch, quiet())

	info, err := dev.DeviceInfo()
	require.NoError(t, err)
	require.Equal(t, "TA612", info.ModelName())

	rt, err := dev.RealTime()
	require.NoError(t, err)
	require.InDelta(t, 22.5, rt.Sample[0].Celsius, 1e-9)

	require.NoError(t, dev.Close())
	require.True(t, ch.Closed)
}

func TestDeviceRecordedDrainsStream(t *testing.T) {
	payload := []byte{0xE1, 0x00, 0x60, 0x6D, 0x60, 0x6D, 0x60, 0x6D}
	ch := testutil.NewChannel(
		testutil.DeviceFrame(frame.Recorded, payload),
		testutil.DeviceFrame(frame.Recorded, payload),
	)
	dev := New(ch, quiet())

	st, err := dev.Recorded()
	require.NoError(t, err)
	count := 0
	for st.Next() {
		count++
	}
	require.NoError(t, st.Err())
	require.Equal(t, 2, count)
}

func TestAnalyzeHexDeviceInfo(t *testing.T) {
	result, err := AnalyzeHex(" 55AA_0007 6402|4A01 B7 ")
	require.NoError(t, err)
	require.Equal(t, "stop", result.Instruction)
	require.Equal(t, 9, result.ByteCount)
	require.Equal(t, "55AA000764024A01B7", result.RawHex)
	require.True(t, result.ChecksumValid)
	require.Equal(t, "TA612", result.Fields["model"])
	require.InDelta(t, 3.30, result.Fields["version"].(float64), 1e-9)
}

func TestAnalyzeHexRealTime(t *testing.T) {
	result, err := AnalyzeHex("55AA010BE100606D606D606D53")
	require.NoError(t, err)
	require.Equal(t, "real_time", result.Instruction)
	require.InDelta(t, 22.5, result.Fields["ch1_celsius"].(float64), 1e-9)
	require.Equal(t, "ERROR", result.Fields["ch2_celsius"])
}

func TestAnalyzeHexBadInput(t *testing.T) {
	_, err := AnalyzeHex("ABC")
	require.Error(t, err)

	_, err = AnalyzeHex("AA55000302") // host frame, not a device capture
	require.ErrorIs(t, err, frame.ErrHeaderMismatch)
}
