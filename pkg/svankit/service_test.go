package svankit

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pbl-acoustics/svankit/pkg/models"
	"github.com/pbl-acoustics/svankit/pkg/svankit/svn"
)

// buildMainExport produces a complete synthetic main-file export: stamp,
// file header, statistical levels record with 45 bands + 3 totals per
// channel, and a trailer. Octave values for channel ch are
// (base+ch*100+i)/100 dB.
func buildMainExport(base int, goodTrailer bool) []byte {
	return buildExport(3, base, goodTrailer)
}

func buildExport(channels, base int, goodTrailer bool) []byte {
	buf := make([]byte, 32)
	word := func(v uint16) {
		buf = append(buf, byte(v), byte(v>>8))
	}

	// File header: tag, declared length, name, pad, date, time, assoc.
	buf = append(buf, 0x01, 0x14)
	for _, r := range "@PBL10\x00\x00" {
		word(uint16(r))
	}
	word(0)
	word(7 | 3<<5 | 24<<9)      // 2024-03-07
	word(uint16(17*1800 + 660)) // 17:22:00
	for _, r := range "@PBL10.b" {
		word(uint16(r))
	}

	// Statistical levels: (octave + peak) sub-records per channel.
	buf = append(buf, 0x19, 0x01)
	for sub := 0; sub < channels*2; sub++ {
		if sub%2 == 0 {
			buf = append(buf, 0x10, 0, 0, 0)
		} else {
			buf = append(buf, 0x39, 0, 0, 0)
		}
		word(45)
		word(3)
		for i := 0; i < 48; i++ {
			if sub%2 == 0 {
				word(uint16(int16(base + (sub/2)*100 + i)))
			} else {
				word(9999)
			}
		}
	}

	if goodTrailer {
		word(0xFFFF)
	} else {
		word(0x0000)
	}
	return buf
}

func writeExport(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// fakeStorage keeps everything in memory.
type fakeStorage struct {
	measurements map[string]models.Measurement
	levels       map[string]map[int][]float64
	labels       map[string]map[int][]string
	nextID       int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		measurements: make(map[string]models.Measurement),
		levels:       make(map[string]map[int][]float64),
		labels:       make(map[string]map[int][]string),
	}
}

func (s *fakeStorage) RegisterMeasurement(m models.Measurement) (string, error) {
	s.nextID++
	id := string(rune('a' + s.nextID))
	m.ID = id
	s.measurements[id] = m
	s.levels[id] = make(map[int][]float64)
	s.labels[id] = make(map[int][]string)
	return id, nil
}

func (s *fakeStorage) StoreBandLevels(id string, channel int, labels []string, levels []float64) error {
	s.labels[id][channel] = labels
	s.levels[id][channel] = levels
	return nil
}

func (s *fakeStorage) GetMeasurement(id string) (*models.Measurement, error) {
	m, ok := s.measurements[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &m, nil
}

func (s *fakeStorage) GetBandLevels(id string, channel int) (*models.ChannelSpectrum, error) {
	if _, ok := s.measurements[id]; !ok {
		return nil, errors.New("not found")
	}
	return &models.ChannelSpectrum{
		MeasurementID: id,
		Channel:       channel,
		Labels:        s.labels[id][channel],
		Levels:        s.levels[id][channel],
	}, nil
}

func (s *fakeStorage) ListMeasurements() ([]models.Measurement, error) {
	out := make([]models.Measurement, 0, len(s.measurements))
	for _, m := range s.measurements {
		out = append(out, m)
	}
	return out, nil
}

func (s *fakeStorage) DeleteMeasurement(id string) error {
	delete(s.measurements, id)
	delete(s.levels, id)
	delete(s.labels, id)
	return nil
}

func (s *fakeStorage) Close() error { return nil }

func newTestService(t *testing.T) (Service, *fakeStorage) {
	t.Helper()
	stor := newFakeStorage()
	svc, err := NewService(WithStorage(stor))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, stor
}

func TestServiceBandLevels(t *testing.T) {
	svc, _ := newTestService(t)

	f, err := svn.NewParser(nil).Decode(buildMainExport(1000, true))
	if err != nil {
		t.Fatal(err)
	}

	spec, err := svc.BandLevels(f, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(spec.Levels) != 24 || len(spec.Labels) != 24 {
		t.Fatalf("spectrum has %d levels, %d labels", len(spec.Levels), len(spec.Labels))
	}
	// Channel 1 values start at 1100; the projection picks band 18 first.
	if spec.Levels[0] != float64(1100+18)/100 {
		t.Errorf("first band = %v, expected %v", spec.Levels[0], float64(1100+18)/100)
	}
	if spec.Labels[0] != "50Hz" || spec.Labels[23] != "Tot Lin" {
		t.Errorf("labels = %v ... %v", spec.Labels[0], spec.Labels[23])
	}
	// Totals come from the vector tail (indices 45..47).
	if spec.Levels[21] != float64(1100+45)/100 {
		t.Errorf("Tot A = %v, expected %v", spec.Levels[21], float64(1100+45)/100)
	}
}

func TestServiceAverageFilesIdentical(t *testing.T) {
	svc, _ := newTestService(t)
	dir := t.TempDir()

	a := writeExport(t, dir, "a.svn", buildMainExport(2000, true))
	b := writeExport(t, dir, "b.svn", buildMainExport(2000, true))

	spec, err := svc.AverageFiles(context.Background(), 0, a, b)
	if err != nil {
		t.Fatal(err)
	}
	// Mean of identical spectra is the spectrum itself.
	if got, want := spec.Levels[0], float64(2000+18)/100; math.Abs(got-want) > 1e-9 {
		t.Errorf("averaged band 0 = %v, expected %v", got, want)
	}
}

func TestServiceAverageFilesBadTrailer(t *testing.T) {
	svc, _ := newTestService(t)
	dir := t.TempDir()

	a := writeExport(t, dir, "a.svn", buildMainExport(2000, true))
	b := writeExport(t, dir, "b.svn", buildMainExport(2000, false))

	// A malformed trailer degrades to a warning; the file still counts.
	spec, err := svc.AverageFiles(context.Background(), 0, a, b)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := spec.Levels[0], float64(2000+18)/100; math.Abs(got-want) > 1e-9 {
		t.Errorf("averaged band 0 = %v, expected %v", got, want)
	}
}

func TestServiceAverageFilesCancelled(t *testing.T) {
	svc, _ := newTestService(t)
	dir := t.TempDir()
	a := writeExport(t, dir, "a.svn", buildMainExport(2000, true))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.AverageFiles(ctx, 0, a); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestServiceArchiveMeasurement(t *testing.T) {
	svc, stor := newTestService(t)

	f, err := svn.NewParser(nil).Decode(buildMainExport(1000, true))
	if err != nil {
		t.Fatal(err)
	}

	id, err := svc.ArchiveMeasurement(f)
	if err != nil {
		t.Fatal(err)
	}

	m, err := svc.GetMeasurement(id)
	if err != nil {
		t.Fatal(err)
	}
	if m.FileName != "@PBL10" || !m.TrailerOK || m.Channels != 3 {
		t.Errorf("measurement = %+v", m)
	}

	for ch := 0; ch < 3; ch++ {
		spec, err := svc.GetSpectrum(id, ch)
		if err != nil {
			t.Fatal(err)
		}
		if len(spec.Levels) != 24 {
			t.Fatalf("channel %d spectrum has %d levels", ch, len(spec.Levels))
		}
		if spec.Levels[0] != float64(1000+ch*100+18)/100 {
			t.Errorf("channel %d band 0 = %v", ch, spec.Levels[0])
		}
	}

	if err := svc.DeleteMeasurement(id); err != nil {
		t.Fatal(err)
	}
	if len(stor.measurements) != 0 {
		t.Error("measurement not deleted")
	}
}

func TestServiceWithChannels(t *testing.T) {
	svc, err := NewService(WithStorage(newFakeStorage()), WithChannels(2))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	path := writeExport(t, t.TempDir(), "a.svn", buildExport(2, 1000, true))

	f, err := svc.DecodeFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Channels != 2 || len(f.Levels) != 2 {
		t.Errorf("channels = %d, %d level vectors, expected 2", f.Channels, len(f.Levels))
	}
}

func TestServiceGetSpectrumUnknownID(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.GetSpectrum("no-such-id", 0); err == nil {
		t.Error("expected error for unknown measurement ID")
	}
}

func TestServiceArchiveRejectsBufferDecode(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.ArchiveMeasurement(&svn.DecodedFile{}); err == nil {
		t.Error("expected error for decode without main results")
	}
}
