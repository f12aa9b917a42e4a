package mathkit

import "math"

// PSD is a power spectral density estimate: parallel Freq/Power slices over
// the half-spectrum (DC through Nyquist).
type PSD struct {
	Freq  []float64
	Power []float64
}

// ComputePSD applies WindowedFFT to x and returns the one-sided power
// spectral density at sampleRate Hz: Power[i] = |X[i]|^2 / N, Freq[i] =
// i*sampleRate/N, for i in [0, N/2].
func ComputePSD(x []float64, sampleRate float64) PSD {
	spectrum := WindowedFFT(x)
	n := len(spectrum)
	half := n/2 + 1

	freq := make([]float64, half)
	power := make([]float64, half)
	for i := 0; i < half; i++ {
		re, im := real(spectrum[i]), imag(spectrum[i])
		power[i] = (re*re + im*im) / float64(n)
		freq[i] = float64(i) * sampleRate / float64(n)
	}
	return PSD{Freq: freq, Power: power}
}

// BandPower sums PSD power for bins whose frequency lies in [lo, hi].
func BandPower(p PSD, lo, hi float64) float64 {
	var sum float64
	for i, f := range p.Freq {
		if f >= lo && f <= hi {
			sum += p.Power[i]
		}
	}
	return sum
}

// BandPowerAbove sums PSD power for bins whose frequency is strictly greater
// than lo.
func BandPowerAbove(p PSD, lo float64) float64 {
	var sum float64
	for i, f := range p.Freq {
		if f > lo {
			sum += p.Power[i]
		}
	}
	return sum
}

// PeakFrequency returns the frequency of the maximum-power bin within
// [lo, hi], and that power. Returns (0, 0) if no bin falls in range.
func PeakFrequency(p PSD, lo, hi float64) (freq, power float64) {
	best := -1
	for i, f := range p.Freq {
		if f >= lo && f <= hi {
			if best == -1 || p.Power[i] > p.Power[best] {
				best = i
			}
		}
	}
	if best == -1 {
		return 0, 0
	}
	return p.Freq[best], p.Power[best]
}

// NearestBin returns the index of the PSD bin whose frequency is closest to
// target.
func NearestBin(p PSD, target float64) int {
	best := 0
	bestDiff := math.Abs(p.Freq[0] - target)
	for i := 1; i < len(p.Freq); i++ {
		d := math.Abs(p.Freq[i] - target)
		if d < bestDiff {
			bestDiff = d
			best = i
		}
	}
	return best
}
