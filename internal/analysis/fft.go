package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first n/2 frequency bins of
// the mean-removed series.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod returns the period of the strongest non-zero frequency of
// a series sampled every sampleDt, or 0 if the series does not oscillate.
// The peak is refined by fitting a parabola through the neighbouring bins.
func DominantPeriod(data []float64, sampleDt float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0
	}

	k := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[k] {
			k = i
		}
	}
	if ps[k] == 0 {
		return 0
	}

	delta := 0.0
	if k+1 < len(ps) {
		a, b, c := ps[k-1], ps[k], ps[k+1]
		if den := a - 2*b + c; den != 0 {
			delta = 0.5 * (a - c) / den
		}
	}

	freq := (float64(k) + delta) / (float64(len(data)) * sampleDt)
	return 1 / freq
}
