package svn

import "fmt"

// Frequencies lists the nominal third-octave band centers carried by the
// format, in order. Level vectors hold one value per entry followed by the
// A, C and Lin weighted totals.
var Frequencies = [...]string{
	"0.8Hz", "1Hz", "1.25Hz", "1.6Hz", "2Hz", "2.5Hz", "3.15Hz", "4Hz", "5Hz", "6.3Hz",
	"8Hz", "10Hz", "12.5Hz", "16Hz", "20Hz", "25Hz", "31.5Hz", "40Hz", "50Hz", "63Hz",
	"80Hz", "100Hz", "125Hz", "160Hz", "200Hz", "250Hz", "315Hz", "400Hz", "500Hz", "630Hz",
	"800Hz", "1000Hz", "1250Hz", "1600Hz", "2000Hz", "2500Hz", "3150Hz", "4000Hz", "5000Hz", "6300Hz",
	"8000Hz", "10000Hz", "12500Hz", "16000Hz", "20000Hz",
}

// Reporting range: standard results cover the 50Hz-5kHz bands plus the
// three weighted totals appended after the band values.
const (
	ReportBandLow  = 18 // 50Hz
	ReportBandHigh = 39 // one past 5000Hz
	TotalCount     = 3  // A, C, Lin
)

// ReportLabels returns the labels matching a SelectReportBands projection:
// the 50Hz-5kHz band centers followed by the total names.
func ReportLabels() []string {
	labels := make([]string, 0, ReportBandHigh-ReportBandLow+TotalCount)
	labels = append(labels, Frequencies[ReportBandLow:ReportBandHigh]...)
	return append(labels, "Tot A", "Tot C", "Tot Lin")
}

// SelectReportBands projects a full band+totals level vector down to the
// 50Hz-5kHz bands plus the final three totals. The result is a copy.
func SelectReportBands(levels []float64) ([]float64, error) {
	if len(levels) < ReportBandHigh+TotalCount {
		return nil, fmt.Errorf("level vector too short for report projection: %d values", len(levels))
	}
	out := make([]float64, 0, ReportBandHigh-ReportBandLow+TotalCount)
	out = append(out, levels[ReportBandLow:ReportBandHigh]...)
	return append(out, levels[len(levels)-TotalCount:]...), nil
}
