package csvlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

var ErrColumnNotFound = errors.New("csvlog: column not found")

// Series is a single-channel extract of a log file: elapsed seconds since
// the first usable row, paired with temperatures. Rows carrying the error
// marker are skipped.
type Series struct {
	Seconds []float64
	Celsius []float64
}

// ReadSeries pulls one temperature column out of a real-time log. The file
// must carry a timestamp column; recorded downloads are indexed by sample
// number and have no time base to fit against.
func ReadSeries(r io.Reader, column string) (Series, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return Series{}, fmt.Errorf("read header: %w", err)
	}

	timeIdx, tempIdx := -1, -1
	for i, name := range header {
		switch name {
		case "timestamp":
			timeIdx = i
		case column:
			tempIdx = i
		}
	}
	if tempIdx < 0 {
		return Series{}, fmt.Errorf("%w: %q (available: %v)", ErrColumnNotFound, column, header)
	}
	if timeIdx < 0 {
		return Series{}, fmt.Errorf("%w: timestamp", ErrColumnNotFound)
	}

	var s Series
	var start time.Time
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Series{}, err
		}
		if row[tempIdx] == ErrorMarker {
			continue
		}
		at, err := parseTimestamp(row[timeIdx])
		if err != nil {
			return Series{}, fmt.Errorf("row %v: %w", row, err)
		}
		temp, err := strconv.ParseFloat(row[tempIdx], 64)
		if err != nil {
			return Series{}, fmt.Errorf("row %v: %w", row, err)
		}
		if start.IsZero() {
			start = at
		}
		s.Seconds = append(s.Seconds, at.Sub(start).Seconds())
		s.Celsius = append(s.Celsius, temp)
	}
	return s, nil
}

func parseTimestamp(v string) (time.Time, error) {
	if at, err := time.Parse(TimeLayout, v); err == nil {
		return at, nil
	}
	// Logs written by other tools may omit the zone.
	return time.Parse("2006-01-02T15:04:05.999999999", v)
}
