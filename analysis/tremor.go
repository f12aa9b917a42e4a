package analysis

import (
	"math"

	"github.com/glyphwatch/clnp/mathkit"
)

// tremorBandLo and tremorBandHi bound the physiological tremor band (Hz)
// both the cursor-speed and accelerometer-magnitude pipelines search for a
// peak in.
const (
	tremorBandLo = 8.0
	tremorBandHi = 12.0
)

// TremorResult is the shared shape of pipelines 2 (cursor) and 3
// (accelerometer): a band-power ratio and the peak frequency within the
// tremor band, whichever channel produced it.
type TremorResult struct {
	Valid         bool
	TremorRatio   float64
	PeakFrequency float64
}

// tremorRatioFromMagnitude resamples a speed/magnitude series at targetRate,
// removes its local trend with a moving average of window samples, computes
// the PSD of the residual, and returns the ratio of power in the tremor band
// to power above 1 Hz, plus the peak frequency within the band.
func tremorRatioFromMagnitude(mag []mathkit.Sample, targetRate float64, window int) TremorResult {
	resampled := mathkit.ResampleUniform(mag, targetRate)
	if len(resampled) < minUsableSampleCount {
		return TremorResult{}
	}

	values := make([]float64, len(resampled))
	for i, s := range resampled {
		values[i] = s.V
	}

	trend := mathkit.MovingAverage(values, window)
	residual := make([]float64, len(values))
	for i := range values {
		residual[i] = values[i] - trend[i]
	}

	psd := mathkit.ComputePSD(residual, targetRate)
	bandPower := mathkit.BandPower(psd, tremorBandLo, tremorBandHi)
	above1Hz := mathkit.BandPowerAbove(psd, 1.0)
	if above1Hz <= 0 {
		return TremorResult{}
	}

	peakFreq, _ := mathkit.PeakFrequency(psd, tremorBandLo, tremorBandHi)

	return TremorResult{
		Valid:         true,
		TremorRatio:   bandPower / above1Hz,
		PeakFrequency: peakFreq,
	}
}

// CursorTremor is pipeline 2. It resamples the cursor's 2D speed magnitude
// up to 120 Hz, subtracts a moving-average trend (window = rate/3), and
// measures tremor-band power relative to the rest of the spectrum above
// 1 Hz.
func CursorTremor(points []TrackPoint) TremorResult {
	if len(points) < minUsableSampleCount {
		return TremorResult{}
	}
	t := make([]float64, len(points))
	x := make([]float64, len(points))
	y := make([]float64, len(points))
	for i, p := range points {
		t[i], x[i], y[i] = p.T, p.CursorX, p.CursorY
	}
	speed := mathkit.Magnitude2D(t, x, y)
	if len(speed) < minUsableSampleCount {
		return TremorResult{}
	}

	rate := estimateRate(points)
	if rate <= 0 {
		return TremorResult{}
	}
	if rate > 120 {
		rate = 120
	}
	window := int(rate / 3)
	if window < 1 {
		window = 1
	}
	return tremorRatioFromMagnitude(speed, rate, window)
}

// AccelTremor is pipeline 3. It requires at least 20 Hz of estimated
// accelerometer sample rate (from the first 500 samples), then resamples
// the 3-axis magnitude to min(rate, 100) Hz and applies the same band-ratio
// method as CursorTremor.
func AccelTremor(points []AccelPoint) TremorResult {
	if len(points) < minUsableSampleCount {
		return TremorResult{}
	}

	probe := points
	if len(probe) > 500 {
		probe = probe[:500]
	}
	probeSamples := make([]mathkit.Sample, len(probe))
	for i, p := range probe {
		probeSamples[i] = mathkit.Sample{T: p.T}
	}
	estRate := mathkit.EstimateSampleRate(probeSamples)
	if estRate < 20 {
		return TremorResult{}
	}

	mag := make([]mathkit.Sample, len(points))
	for i, p := range points {
		mag[i] = mathkit.Sample{T: p.T, V: magnitude3(p.Ax, p.Ay, p.Az)}
	}

	rate := estRate
	if rate > 100 {
		rate = 100
	}
	window := int(rate / 3)
	if window < 1 {
		window = 1
	}
	return tremorRatioFromMagnitude(mag, rate, window)
}

func magnitude3(ax, ay, az float64) float64 {
	return math.Sqrt(ax*ax + ay*ay + az*az)
}
