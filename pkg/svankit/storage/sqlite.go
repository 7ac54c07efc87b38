// Package storage persists decoded measurements in SQLite.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pbl-acoustics/svankit/pkg/models"
)

const DefaultDBFile = "svankit.sqlite3"
const errDBClientNil = "db client is nil"

type DBClient struct {
	DB *gorm.DB
	db *sql.DB
}

type Measurement struct {
	ID             string `gorm:"primaryKey;type:varchar(36)"`
	FileName       string `gorm:"index:idx_file_name" json:"file_name"`
	AssociatedFile string `json:"associated_file"`
	RecordedAt     time.Time
	Channels       int
	StepMs         int
	Samples        int
	TrailerOK      bool
	Warnings       int
	CreatedAt      time.Time
}

type BandLevel struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	MeasurementID string `gorm:"type:varchar(36);index:idx_band_measurement"`
	Channel       int    `gorm:"index:idx_band_measurement"`
	BandIndex     int
	Label         string
	LevelDB       float64
}

func NewDBClient() (*DBClient, error) {
	dbPath := os.Getenv("SVANKIT_DB_PATH")
	if dbPath == "" {
		dbPath = DefaultDBFile
	}
	return NewDBClientWithPath(dbPath)
}

func NewDBClientWithPath(dbPath string) (*DBClient, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !os.IsExist(err) {
		if filepath.Dir(dbPath) != "." {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Measurement{}, &BandLevel{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &DBClient{DB: db, db: sqlDB}, nil
}

func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// RegisterMeasurement inserts a measurement row and returns its ID.
func (c *DBClient) RegisterMeasurement(m models.Measurement) (string, error) {
	if c == nil || c.DB == nil {
		return "", errors.New(errDBClientNil)
	}

	row := Measurement{
		ID:             uuid.NewString(),
		FileName:       m.FileName,
		AssociatedFile: m.AssociatedFile,
		RecordedAt:     m.RecordedAt,
		Channels:       m.Channels,
		StepMs:         m.StepMs,
		Samples:        m.Samples,
		TrailerOK:      m.TrailerOK,
		Warnings:       m.Warnings,
	}
	if err := c.DB.Create(&row).Error; err != nil {
		return "", fmt.Errorf("creating measurement: %w", err)
	}
	return row.ID, nil
}

// StoreBandLevels inserts one channel's projected spectrum for a
// measurement. Labels and levels run in parallel.
func (c *DBClient) StoreBandLevels(measurementID string, channel int, labels []string, levels []float64) error {
	if c == nil || c.DB == nil {
		return errors.New(errDBClientNil)
	}
	if len(labels) != len(levels) {
		return fmt.Errorf("labels/levels length mismatch: %d vs %d", len(labels), len(levels))
	}

	rows := make([]BandLevel, 0, len(levels))
	for i, level := range levels {
		rows = append(rows, BandLevel{
			MeasurementID: measurementID,
			Channel:       channel,
			BandIndex:     i,
			Label:         labels[i],
			LevelDB:       level,
		})
	}
	if err := c.DB.CreateInBatches(rows, 500).Error; err != nil {
		return fmt.Errorf("batch insert band levels: %w", err)
	}
	return nil
}

func (c *DBClient) GetMeasurement(id string) (*models.Measurement, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}
	var row Measurement
	if err := c.DB.First(&row, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("querying measurement: %w", err)
	}
	m := toDomain(row)
	return &m, nil
}

// GetBandLevels returns the stored spectrum for one channel, in band order.
// An unknown measurement ID is an error, not an empty spectrum.
func (c *DBClient) GetBandLevels(measurementID string, channel int) (*models.ChannelSpectrum, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}

	var m Measurement
	if err := c.DB.Select("id").First(&m, "id = ?", measurementID).Error; err != nil {
		return nil, fmt.Errorf("querying measurement: %w", err)
	}

	var rows []BandLevel
	err := c.DB.
		Where("measurement_id = ? AND channel = ?", measurementID, channel).
		Order("band_index").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying band levels: %w", err)
	}

	cs := &models.ChannelSpectrum{
		MeasurementID: measurementID,
		Channel:       channel,
		Labels:        make([]string, 0, len(rows)),
		Levels:        make([]float64, 0, len(rows)),
	}
	for _, r := range rows {
		cs.Labels = append(cs.Labels, r.Label)
		cs.Levels = append(cs.Levels, r.LevelDB)
	}
	return cs, nil
}

func (c *DBClient) ListMeasurements() ([]models.Measurement, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}
	var rows []Measurement
	if err := c.DB.Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing measurements: %w", err)
	}
	out := make([]models.Measurement, 0, len(rows))
	for _, r := range rows {
		out = append(out, toDomain(r))
	}
	return out, nil
}

// DeleteMeasurement removes a measurement and all its band levels.
func (c *DBClient) DeleteMeasurement(id string) error {
	if c == nil || c.DB == nil {
		return errors.New(errDBClientNil)
	}
	return c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("measurement_id = ?", id).Delete(&BandLevel{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&Measurement{}).Error
	})
}

func toDomain(row Measurement) models.Measurement {
	return models.Measurement{
		ID:             row.ID,
		FileName:       row.FileName,
		AssociatedFile: row.AssociatedFile,
		RecordedAt:     row.RecordedAt,
		Channels:       row.Channels,
		StepMs:         row.StepMs,
		Samples:        row.Samples,
		TrailerOK:      row.TrailerOK,
		Warnings:       row.Warnings,
	}
}
