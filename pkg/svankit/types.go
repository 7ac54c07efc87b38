package svankit

// Spectrum is a report projection: the 50Hz-5kHz third-octave bands
// followed by the A, C and Lin totals, with matching labels.
type Spectrum struct {
	Channel int
	Labels  []string
	Levels  []float64 // dB
}
