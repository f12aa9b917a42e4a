package analysis

import (
	"math"

	"github.com/glyphwatch/clnp/mathkit"
)

// OneOverFResult is pipeline 4's output: the log-log slope of the tracking
// error velocity's power spectrum, characteristic of 1/f^alpha biological
// motor noise when alpha falls in [0, 2.5].
type OneOverFResult struct {
	Valid    bool
	Slope    float64
	RSquared float64
}

// OneOverFNoise is pipeline 4. It resamples the horizontal tracking error
// (cursorX - targetX) to the estimated sample rate, differentiates it to an
// error-velocity series, computes its PSD, and fits a log-log linear
// regression over the band [0.3 Hz, sampleRate/4] restricted to
// strictly-positive power bins.
func OneOverFNoise(points []TrackPoint) OneOverFResult {
	rate := estimateRate(points)
	if len(points) < minUsableSampleCount || rate <= 0 {
		return OneOverFResult{}
	}

	errSamples := make([]mathkit.Sample, len(points))
	for i, p := range points {
		errSamples[i] = mathkit.Sample{T: p.T, V: p.CursorX - p.TargetX}
	}

	resampled := mathkit.ResampleUniform(errSamples, rate)
	if len(resampled) < minUsableSampleCount {
		return OneOverFResult{}
	}

	velocity := mathkit.Velocity(resampled)
	if len(velocity) < minUsableSampleCount {
		return OneOverFResult{}
	}

	values := make([]float64, len(velocity))
	for i, s := range velocity {
		values[i] = s.V
	}
	psd := mathkit.ComputePSD(values, rate)

	var logFreq, logPower []float64
	hi := rate / 4
	for i, f := range psd.Freq {
		if f < 0.3 || f > hi {
			continue
		}
		if psd.Power[i] <= 0 {
			continue
		}
		logFreq = append(logFreq, math.Log10(f))
		logPower = append(logPower, math.Log10(psd.Power[i]))
	}
	if len(logFreq) < 4 {
		return OneOverFResult{}
	}

	fit := mathkit.FitLinearRegression(logFreq, logPower)
	return OneOverFResult{Valid: true, Slope: fit.Slope, RSquared: fit.RSquared}
}
