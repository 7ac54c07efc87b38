// Package models holds the domain types shared between the service layer
// and storage.
package models

import "time"

// Measurement is an archived decode result.
type Measurement struct {
	ID             string // UUID
	FileName       string // name stored inside the export
	AssociatedFile string // companion main/buffer file name
	RecordedAt     time.Time
	Channels       int
	StepMs         int
	Samples        int
	TrailerOK      bool
	Warnings       int
}

// ChannelSpectrum is the stored report projection for one channel of a
// measurement: the 50Hz-5kHz bands plus the A/C/Lin totals.
type ChannelSpectrum struct {
	MeasurementID string
	Channel       int
	Labels        []string
	Levels        []float64 // dB
}
