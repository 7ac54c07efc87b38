package svankit

import (
	"github.com/pbl-acoustics/svankit/pkg/models"
	"github.com/pbl-acoustics/svankit/pkg/svankit/storage"
)

// storageAdapter exposes storage.DBClient through the Storage interface.
type storageAdapter struct {
	db *storage.DBClient
}

// NewSQLiteStorage creates an SQLite-backed measurement archive.
func NewSQLiteStorage(dbPath string) (Storage, error) {
	db, err := storage.NewDBClientWithPath(dbPath)
	if err != nil {
		return nil, err
	}
	return &storageAdapter{db: db}, nil
}

func (s *storageAdapter) RegisterMeasurement(m models.Measurement) (string, error) {
	return s.db.RegisterMeasurement(m)
}

func (s *storageAdapter) StoreBandLevels(id string, channel int, labels []string, levels []float64) error {
	return s.db.StoreBandLevels(id, channel, labels, levels)
}

func (s *storageAdapter) GetMeasurement(id string) (*models.Measurement, error) {
	return s.db.GetMeasurement(id)
}

func (s *storageAdapter) GetBandLevels(id string, channel int) (*models.ChannelSpectrum, error) {
	return s.db.GetBandLevels(id, channel)
}

func (s *storageAdapter) ListMeasurements() ([]models.Measurement, error) {
	return s.db.ListMeasurements()
}

func (s *storageAdapter) DeleteMeasurement(id string) error {
	return s.db.DeleteMeasurement(id)
}

func (s *storageAdapter) Close() error {
	return s.db.Close()
}
