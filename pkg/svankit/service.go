package svankit

import (
	"context"
	"errors"
	"fmt"

	"github.com/pbl-acoustics/svankit/pkg/logger"
	"github.com/pbl-acoustics/svankit/pkg/models"
	"github.com/pbl-acoustics/svankit/pkg/svankit/acoustic"
	"github.com/pbl-acoustics/svankit/pkg/svankit/svn"
)

// svanService is the default implementation of the Service interface.
type svanService struct {
	storage Storage
	log     Logger
	parser  *svn.Parser
	config  *Config
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.ConfigFile != "" {
		fc, err := LoadConfigFile(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
		if cfg.DBPath == "" {
			cfg.DBPath = fc.DBPath
		}
		if cfg.Channels == 0 {
			cfg.Channels = fc.Channels
		}
		if cfg.Logger == nil {
			if level, ok := logger.ParseLevel(fc.LogLevel); ok {
				logger.GetLogger().SetLevel(level)
			}
		}
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "svankit.sqlite3"
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	var stor Storage
	var err error
	if cfg.Storage != nil {
		stor = cfg.Storage
	} else {
		stor, err = NewSQLiteStorage(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage: %w", err)
		}
	}

	var popts []svn.ParserOption
	if cfg.Channels > 0 {
		popts = append(popts, svn.WithChannels(cfg.Channels))
	}

	return &svanService{
		storage: stor,
		log:     cfg.Logger,
		parser:  svn.NewParser(cfg.Logger, popts...),
		config:  cfg,
	}, nil
}

// DecodeFile decodes one export file. The decode is pure: a fresh
// DecodedFile per call, no state carried between files.
func (s *svanService) DecodeFile(path string) (*svn.DecodedFile, error) {
	return s.parser.DecodeFile(path)
}

func (s *svanService) BandLevels(f *svn.DecodedFile, channel int) (*Spectrum, error) {
	if f == nil || !f.HasLevels() {
		return nil, errors.New("file has no main results")
	}
	levels, err := f.ReportBands(channel)
	if err != nil {
		return nil, err
	}
	return &Spectrum{Channel: channel, Labels: svn.ReportLabels(), Levels: levels}, nil
}

// AverageFiles decodes each file independently and combines the selected
// channel's report spectra in the power domain. A malformed trailer does
// not exclude a file; its decoded levels still enter the mean.
func (s *svanService) AverageFiles(ctx context.Context, channel int, paths ...string) (*Spectrum, error) {
	if len(paths) == 0 {
		return nil, errors.New("no files to average")
	}

	vectors := make([][]float64, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f, err := s.DecodeFile(path)
		var trailerErr *svn.MalformedTrailerError
		if errors.As(err, &trailerErr) {
			s.log.Warnf("%s: %v, using decoded levels anyway", path, err)
		} else if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}

		spec, err := s.BandLevels(f, channel)
		if err != nil {
			return nil, fmt.Errorf("projecting %s: %w", path, err)
		}
		vectors = append(vectors, spec.Levels)
	}

	mean, err := acoustic.LogMean(vectors...)
	if err != nil {
		return nil, err
	}
	s.log.Infof("averaged %d files for channel %d", len(paths), channel)
	return &Spectrum{Channel: channel, Labels: svn.ReportLabels(), Levels: mean}, nil
}

// ArchiveMeasurement stores the metadata and every channel's report
// spectrum of a main-file decode.
func (s *svanService) ArchiveMeasurement(f *svn.DecodedFile) (string, error) {
	if f == nil || !f.HasLevels() {
		return "", errors.New("file has no main results")
	}
	if f.Metadata == nil {
		return "", errors.New("file has no metadata")
	}

	m := models.Measurement{
		FileName:       f.Metadata.FileName,
		AssociatedFile: f.Metadata.AssociatedFile,
		RecordedAt:     f.Metadata.RecordedAt(),
		Channels:       f.Channels,
		StepMs:         f.Buffer.StepMs,
		Samples:        f.Buffer.Samples,
		TrailerOK:      f.TrailerOK,
		Warnings:       f.Warnings,
	}
	id, err := s.storage.RegisterMeasurement(m)
	if err != nil {
		return "", fmt.Errorf("failed to register measurement: %w", err)
	}

	labels := svn.ReportLabels()
	for ch := range f.Levels {
		levels, err := f.ReportBands(ch)
		if err != nil {
			s.storage.DeleteMeasurement(id) // rollback
			return "", fmt.Errorf("projecting channel %d: %w", ch, err)
		}
		if err := s.storage.StoreBandLevels(id, ch, labels, levels); err != nil {
			s.storage.DeleteMeasurement(id) // rollback
			return "", fmt.Errorf("failed to store band levels: %w", err)
		}
	}

	s.log.Infof("archived measurement %s (%q, %d channels)", id, m.FileName, f.Channels)
	return id, nil
}

func (s *svanService) GetMeasurement(id string) (*models.Measurement, error) {
	return s.storage.GetMeasurement(id)
}

func (s *svanService) GetSpectrum(id string, channel int) (*Spectrum, error) {
	cs, err := s.storage.GetBandLevels(id, channel)
	if err != nil {
		return nil, err
	}
	return &Spectrum{Channel: cs.Channel, Labels: cs.Labels, Levels: cs.Levels}, nil
}

func (s *svanService) ListMeasurements() ([]models.Measurement, error) {
	return s.storage.ListMeasurements()
}

func (s *svanService) DeleteMeasurement(id string) error {
	return s.storage.DeleteMeasurement(id)
}

// Close releases the storage backend.
func (s *svanService) Close() error {
	return s.storage.Close()
}
