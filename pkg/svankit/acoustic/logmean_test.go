package acoustic

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 1e-9

func TestLogMeanIdempotent(t *testing.T) {
	v := []float64{10, 35.5, 88.52, 99.19, 0, -3.2}

	got, err := LogMean(v, v)
	if err != nil {
		t.Fatal(err)
	}
	for i := range v {
		if math.Abs(got[i]-v[i]) > tolerance {
			t.Errorf("band %d: mean of identical vectors = %v, expected %v", i, got[i], v[i])
		}
	}
}

func TestLogMeanEqualLevels(t *testing.T) {
	got, err := LogMean([]float64{10}, []float64{10})
	if err != nil {
		t.Fatal(err)
	}
	// 10*log10((10^1+10^1)/2) = 10 exactly.
	if math.Abs(got[0]-10) > tolerance {
		t.Errorf("LogMean([10],[10]) = %v, expected 10", got[0])
	}
}

func TestLogMeanDominantLevel(t *testing.T) {
	// A level 20dB above the other dominates the energy sum.
	got, err := LogMean([]float64{80}, []float64{60})
	if err != nil {
		t.Fatal(err)
	}
	want := 10 * math.Log10((1e8+1e6)/2)
	if math.Abs(got[0]-want) > tolerance {
		t.Errorf("LogMean([80],[60]) = %v, expected %v", got[0], want)
	}
}

func TestLogMeanLengthMismatch(t *testing.T) {
	_, err := LogMean(make([]float64, 48), make([]float64, 45))
	var mismatch *LengthMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected LengthMismatchError, got %v", err)
	}
	if mismatch.Want != 48 || mismatch.Got != 45 {
		t.Errorf("mismatch = %d vs %d", mismatch.Want, mismatch.Got)
	}
}

func TestLogMeanNoInput(t *testing.T) {
	if _, err := LogMean(); err == nil {
		t.Error("expected error for empty input")
	}
}
