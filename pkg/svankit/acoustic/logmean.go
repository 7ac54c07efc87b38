// Package acoustic holds the level mathematics applied to decoded spectra.
package acoustic

import (
	"fmt"
	"math"
)

// LengthMismatchError reports an attempt to average band vectors of
// different lengths.
type LengthMismatchError struct {
	Want int
	Got  int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("band vector length mismatch: %d vs %d", e.Want, e.Got)
}

// LogMean combines N equal-length dB band vectors into one, per band, in
// the power domain: each value becomes 10^(v/10), the powers are averaged
// arithmetically, and the mean is converted back with 10*log10. Averaging
// the dB values directly would be wrong; decibels are logarithms of power
// ratios.
func LogMean(vectors ...[]float64) ([]float64, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no band vectors to average")
	}
	n := len(vectors[0])
	for _, v := range vectors[1:] {
		if len(v) != n {
			return nil, &LengthMismatchError{Want: n, Got: len(v)}
		}
	}

	out := make([]float64, n)
	for band := 0; band < n; band++ {
		var sum float64
		for _, v := range vectors {
			sum += math.Pow(10, v[band]/10)
		}
		out[band] = 10 * math.Log10(sum/float64(len(vectors)))
	}
	return out, nil
}
