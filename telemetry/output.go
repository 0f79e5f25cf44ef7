package telemetry

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// snapshotRecord is the CSV row shape for a Snapshot; gocsv drives its
// marshaling from these struct tags.
type snapshotRecord struct {
	Time          float64 `csv:"time"`
	ParticleCount int     `csv:"particle_count"`
	TotalMass     float64 `csv:"total_mass"`
	AverageSpeed  float64 `csv:"average_speed"`
}

// CSVWriter appends Snapshot rows to a CSV file, writing the header once
// on the first row. A CSVWriter with no path configured is a no-op, so
// callers don't need to special-case disabled telemetry.
type CSVWriter struct {
	file          *os.File
	headerWritten bool
}

// NewCSVWriter opens (creating or truncating) the CSV file at path. If
// path is empty, the returned writer silently discards every Write.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if path == "" {
		return &CSVWriter{}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating telemetry csv %q: %w", path, err)
	}
	return &CSVWriter{file: f}, nil
}

// Write appends snap as one CSV row.
func (w *CSVWriter) Write(snap Snapshot) error {
	if w.file == nil {
		return nil
	}

	records := []snapshotRecord{{
		Time:          snap.Time,
		ParticleCount: snap.ParticleCount,
		TotalMass:     snap.TotalMass,
		AverageSpeed:  snap.AverageSpeed,
	}}

	if !w.headerWritten {
		if err := gocsv.Marshal(records, w.file); err != nil {
			return fmt.Errorf("writing telemetry row: %w", err)
		}
		w.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, w.file); err != nil {
		return fmt.Errorf("writing telemetry row: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file, if any.
func (w *CSVWriter) Close() error {
	if w.file == nil {
		return nil
	}
	return w.file.Close()
}
