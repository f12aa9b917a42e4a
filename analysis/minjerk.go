package analysis

import "github.com/glyphwatch/clnp/mathkit"

const (
	minJerkMinSamples  = 4
	minJerkMinDuration = 30.0 // ms
)

// MinJerkResult is pipeline 9's output: how well each detected pulse
// correction fits the quintic minimum-jerk reaching profile, averaged
// across qualifying pulses.
type MinJerkResult struct {
	Valid        bool
	MeanRSquared float64
}

// MinimumJerk is pipeline 9. For every pulse with a detected latency (from
// pipeline 7) it fits x(tau) = x0 + (xf-x0)*(10*tau^3 - 15*tau^4 + 6*tau^5)
// over tau in [0,1] spanning [latency, peakTime], using the correction
// signal as x. Pulses with fewer than 4 samples in that span or a span
// shorter than 30 ms are excluded.
func MinimumJerk(detections []PulseDetection) MinJerkResult {
	var rSquareds []float64

	for _, d := range detections {
		if !d.Detected {
			continue
		}
		duration := d.PeakTimeMs - d.LatencyMs
		if len(d.Window) < minJerkMinSamples || duration < minJerkMinDuration {
			continue
		}

		x0 := d.Window[0].Correction
		xf := d.Window[len(d.Window)-1].Correction

		actual := make([]float64, len(d.Window))
		predicted := make([]float64, len(d.Window))
		for i, s := range d.Window {
			tau := (s.T - d.LatencyMs) / duration
			if tau < 0 {
				tau = 0
			}
			if tau > 1 {
				tau = 1
			}
			blend := 10*tau*tau*tau - 15*tau*tau*tau*tau + 6*tau*tau*tau*tau*tau
			actual[i] = s.Correction
			predicted[i] = x0 + (xf-x0)*blend
		}

		rSquareds = append(rSquareds, rSquared(actual, predicted))
	}

	if len(rSquareds) == 0 {
		return MinJerkResult{}
	}
	return MinJerkResult{Valid: true, MeanRSquared: mathkit.Mean(rSquareds)}
}

// rSquared computes the coefficient of determination of predicted against
// actual: 1 - SSres/SStot, using actual's own mean for SStot. Returns 1 if
// actual has zero variance and predicted matches it exactly, 0 otherwise.
func rSquared(actual, predicted []float64) float64 {
	mean := mathkit.Mean(actual)
	var ssRes, ssTot float64
	for i, a := range actual {
		d := a - predicted[i]
		ssRes += d * d
		dm := a - mean
		ssTot += dm * dm
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}
