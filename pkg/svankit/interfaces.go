// Package svankit decodes SVAN instrument exports and manages the derived
// third-octave band levels: report projections, power-domain averaging
// across files, and an SQLite-backed measurement archive.
package svankit

import (
	"context"

	"github.com/pbl-acoustics/svankit/pkg/models"
	"github.com/pbl-acoustics/svankit/pkg/svankit/svn"
)

type Service interface {
	// DecodeFile decodes one export. A malformed trailer is reported as
	// a *svn.MalformedTrailerError alongside the decoded file.
	DecodeFile(path string) (*svn.DecodedFile, error)

	// BandLevels projects one channel of a main-file decode onto the
	// 50Hz-5kHz reporting range plus totals.
	BandLevels(f *svn.DecodedFile, channel int) (*Spectrum, error)

	// AverageFiles decodes every path fresh and returns the power-domain
	// logarithmic mean of the given channel's report spectra.
	AverageFiles(ctx context.Context, channel int, paths ...string) (*Spectrum, error)

	// ArchiveMeasurement stores a main-file decode (metadata plus every
	// channel's report spectrum) and returns the measurement ID.
	ArchiveMeasurement(f *svn.DecodedFile) (string, error)
	GetMeasurement(id string) (*models.Measurement, error)
	GetSpectrum(id string, channel int) (*Spectrum, error)
	ListMeasurements() ([]models.Measurement, error)
	DeleteMeasurement(id string) error

	Close() error
}

type Storage interface {
	RegisterMeasurement(m models.Measurement) (string, error)
	StoreBandLevels(measurementID string, channel int, labels []string, levels []float64) error
	GetMeasurement(id string) (*models.Measurement, error)
	GetBandLevels(measurementID string, channel int) (*models.ChannelSpectrum, error)
	ListMeasurements() ([]models.Measurement, error)
	DeleteMeasurement(id string) error
	Close() error
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
