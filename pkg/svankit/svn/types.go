// Package svn decodes the tag-length-value binary export format written by
// SVAN-class acoustic measurement instruments. A stream is a fixed 32-byte
// stamp followed by one-byte-tagged records and a mandatory FFFFh trailer;
// decoding ends at the first terminal record. Main exports carry one level
// vector per channel, buffer exports carry per-sample level matrices plus
// Leq traces.
package svn

import (
	"fmt"
	"time"
)

// FileMetadata holds the contents of the file header record.
type FileMetadata struct {
	FileName       string
	AssociatedFile string

	Day, Month, Year     int
	Hour, Minute, Second int // 2-second resolution
}

// RecordedAt combines the decoded date and time. The instrument stores
// local wall-clock time, so the result uses time.Local.
func (m FileMetadata) RecordedAt() time.Time {
	return time.Date(m.Year, time.Month(m.Month), m.Day, m.Hour, m.Minute, m.Second, 0, time.Local)
}

// BufferConfig describes the sampling of a buffer export.
type BufferConfig struct {
	StepMs  int // milliseconds between samples
	Samples int
}

// DecodedFile is the result of one decode. It is built fresh per call and
// never mutated afterwards. Exactly one of Levels and Sampled is populated,
// determined by which terminal record ended the stream.
type DecodedFile struct {
	Metadata *FileMetadata
	Buffer   BufferConfig

	Channels int
	Bands    int
	Totals   int

	// Levels holds one dB value per band and total, per channel
	// (main-file mode).
	Levels [][]float64

	// Sampled[channel][band/total][sample] and Leq[channel][sample]
	// (buffer-file mode).
	Sampled [][][]float64
	Leq     [][]float64

	// TrailerOK records whether the closing FFFFh word was present.
	TrailerOK bool
	// Warnings counts non-fatal integrity findings (guard words).
	Warnings int
}

// HasLevels reports whether the file decoded in main-file mode.
func (f *DecodedFile) HasLevels() bool { return f.Levels != nil }

// HasSamples reports whether the file decoded in buffer-file mode.
func (f *DecodedFile) HasSamples() bool { return f.Sampled != nil }

// ReportBands returns the 50Hz-5kHz band levels plus totals for a channel
// of a main-file decode.
func (f *DecodedFile) ReportBands(channel int) ([]float64, error) {
	if channel < 0 || channel >= len(f.Levels) {
		return nil, fmt.Errorf("channel %d out of range (file has %d)", channel, len(f.Levels))
	}
	return SelectReportBands(f.Levels[channel])
}

// ReportSamples returns, for one channel of a buffer-file decode, the
// per-sample series of every 50Hz-5kHz band plus the totals.
func (f *DecodedFile) ReportSamples(channel int) ([][]float64, error) {
	if channel < 0 || channel >= len(f.Sampled) {
		return nil, fmt.Errorf("channel %d out of range (file has %d)", channel, len(f.Sampled))
	}
	rows := f.Sampled[channel]
	if len(rows) < ReportBandHigh+TotalCount {
		return nil, fmt.Errorf("sample matrix too short for report projection: %d rows", len(rows))
	}
	out := make([][]float64, 0, ReportBandHigh-ReportBandLow+TotalCount)
	out = append(out, rows[ReportBandLow:ReportBandHigh]...)
	return append(out, rows[len(rows)-TotalCount:]...), nil
}
