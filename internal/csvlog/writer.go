// Package csvlog serializes decoded samples to the tabular files the
// analysis tooling consumes.
package csvlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/floriangmeiner/thermal-logger/internal/sample"
)

// ErrorMarker is written in place of a reading whose sensor reported the
// disconnect sentinel.
const ErrorMarker = "ERROR"

// TimeLayout matches the ISO-style timestamps the analysis stage parses.
const TimeLayout = time.RFC3339Nano

// Writer emits one CSV row per sample. Real-time logs lead with a
// timestamp column, recorded downloads with a running sample number.
type Writer struct {
	cw            *csv.Writer
	withTimestamp bool
	sampleNum     int
}

// NewRealTimeWriter writes the real-time header
// (timestamp, ch1_celsius..ch4_celsius) and returns the writer.
func NewRealTimeWriter(w io.Writer) (*Writer, error) {
	return newWriter(w, true)
}

// NewRecordedWriter writes the recorded-download header
// (sample_num, ch1_celsius..ch4_celsius) and returns the writer.
func NewRecordedWriter(w io.Writer) (*Writer, error) {
	return newWriter(w, false)
}

func newWriter(w io.Writer, withTimestamp bool) (*Writer, error) {
	cw := csv.NewWriter(w)
	header := make([]string, 0, 1+sample.Channels)
	if withTimestamp {
		header = append(header, "timestamp")
	} else {
		header = append(header, "sample_num")
	}
	for ch := 1; ch <= sample.Channels; ch++ {
		header = append(header, fmt.Sprintf("ch%d_celsius", ch))
	}
	if err := cw.Write(header); err != nil {
		return nil, err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return &Writer{cw: cw, withTimestamp: withTimestamp}, nil
}

// WriteRealTime appends one timestamped row. Rows are flushed immediately so
// an interrupted run keeps everything logged so far.
func (w *Writer) WriteRealTime(at time.Time, s sample.ChannelSample) error {
	if !w.withTimestamp {
		return fmt.Errorf("csvlog: writer is in recorded mode")
	}
	return w.writeRow(at.Format(TimeLayout), s)
}

// WriteRecorded appends one row with the next sample number.
func (w *Writer) WriteRecorded(s sample.ChannelSample) error {
	if w.withTimestamp {
		return fmt.Errorf("csvlog: writer is in real-time mode")
	}
	row := w.sampleNum
	w.sampleNum++
	return w.writeRow(strconv.Itoa(row), s)
}

func (w *Writer) writeRow(lead string, s sample.ChannelSample) error {
	row := make([]string, 0, 1+sample.Channels)
	row = append(row, lead)
	for _, r := range s {
		if r.Valid {
			row = append(row, strconv.FormatFloat(r.Celsius, 'f', 1, 64))
		} else {
			row = append(row, ErrorMarker)
		}
	}
	if err := w.cw.Write(row); err != nil {
		return err
	}
	w.cw.Flush()
	return w.cw.Error()
}
