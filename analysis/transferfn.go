package analysis

import (
	"math"

	"github.com/glyphwatch/clnp/mathkit"
)

// TransferFnResult is pipeline 1's output: the frequency-domain relationship
// between the injected probe perturbation and the cursor's residual motion
// around the smooth path.
type TransferFnResult struct {
	Valid bool

	HasRolloff         bool
	MeanDelayMs        float64
	DelayPlausible     bool
	CoherentProbeCount int
}

// ProbeSpec is the subset of a challenge probe the transfer-function
// pipeline needs: frequency and amplitude, without the challenge
// package's own type so analysis has no dependency on challenge.
type ProbeSpec struct {
	Freq float64
	AmpX float64
}

// TransferFunction is pipeline 1. It resamples the tracking sequence onto a
// uniform grid at the estimated sample rate, isolates the cursor's residual
// motion around the smooth path, and computes the gain/phase/coherence of
// that residual relative to the known perturbation at each probe frequency.
func TransferFunction(points []TrackPoint, probes []ProbeSpec) TransferFnResult {
	rate := estimateRate(points)
	if len(points) < minUsableSampleCount || rate <= 0 || len(probes) == 0 {
		return TransferFnResult{}
	}

	pertSamples := make([]mathkit.Sample, len(points))
	respSamples := make([]mathkit.Sample, len(points))
	for i, p := range points {
		smoothX := p.TargetX - p.PertX
		pertSamples[i] = mathkit.Sample{T: p.T, V: p.PertX}
		respSamples[i] = mathkit.Sample{T: p.T, V: p.CursorX - smoothX}
	}

	pertR := mathkit.ResampleUniform(pertSamples, rate)
	respR := mathkit.ResampleUniform(respSamples, rate)
	n := len(pertR)
	if n != len(respR) || n < minUsableSampleCount {
		return TransferFnResult{}
	}

	x := make([]float64, n)
	y := make([]float64, n)
	for i := range pertR {
		x[i] = pertR[i].V
		y[i] = respR[i].V
	}

	tf := mathkit.ComputeTransferFunction(x, y, rate)

	type probeBin struct {
		freq, gain, phase, coherence float64
	}
	bins := make([]probeBin, len(probes))
	for i, pr := range probes {
		idx := tf.NearestBinFreq(pr.Freq)
		bins[i] = probeBin{freq: pr.Freq, gain: tf.Gain[idx], phase: tf.Phase[idx], coherence: tf.Coherence[idx]}
	}

	decreases := 0
	maxConsecutive := 0
	for i := 1; i < len(bins); i++ {
		if bins[i].gain < bins[i-1].gain {
			decreases++
			if decreases > maxConsecutive {
				maxConsecutive = decreases
			}
		} else {
			decreases = 0
		}
	}
	hasRolloff := maxConsecutive >= 2

	var weightedDelaySum, weightSum float64
	coherentCount := 0
	for _, b := range bins {
		if b.coherence <= 0.15 {
			continue
		}
		delay := -b.phase / (2 * math.Pi * b.freq) * 1000
		if delay <= 0 || delay >= 1000 {
			continue
		}
		coherentCount++
		weightedDelaySum += delay * b.coherence
		weightSum += b.coherence
	}

	var meanDelay float64
	if weightSum > 0 {
		meanDelay = weightedDelaySum / weightSum
	}

	return TransferFnResult{
		Valid:              true,
		HasRolloff:         hasRolloff,
		MeanDelayMs:        meanDelay,
		DelayPlausible:     meanDelay > 30 && meanDelay < 500,
		CoherentProbeCount: coherentCount,
	}
}

// estimateRate returns the average sampling rate implied by points' timestamps.
func estimateRate(points []TrackPoint) float64 {
	if len(points) < 2 {
		return 0
	}
	span := points[len(points)-1].T - points[0].T
	if span <= 0 {
		return 0
	}
	return 1000.0 * float64(len(points)-1) / span
}
