package analysis

import (
	"math"

	"github.com/glyphwatch/clnp/mathkit"
)

const (
	sdnWindowSize  = 15
	sdnWindowStep  = sdnWindowSize / 2 // 50% overlap
	sdnMinSpeedPxS = 10.0
)

// SignalDepNoiseResult is pipeline 5's output: the relationship between
// movement speed and positional-error variability, a hallmark of
// signal-dependent motor noise in biological control.
type SignalDepNoiseResult struct {
	Valid       bool
	Correlation float64
	Slope       float64
}

// SignalDependentNoise is pipeline 5. It slides 15-sample windows with 50%
// overlap over the tracking sequence, computes each window's mean speed and
// the standard deviation of its positional error magnitude, discards
// windows whose mean speed does not exceed 10 px/s, and correlates speed
// against error spread across the remaining windows.
func SignalDependentNoise(points []TrackPoint) SignalDepNoiseResult {
	if len(points) < sdnWindowSize {
		return SignalDepNoiseResult{}
	}

	var speeds, errorSDs []float64
	for start := 0; start+sdnWindowSize <= len(points); start += sdnWindowStep {
		window := points[start : start+sdnWindowSize]

		var speedSum float64
		var speedCount int
		errs := make([]float64, 0, len(window))
		for i, p := range window {
			errs = append(errs, math.Hypot(p.CursorX-p.TargetX, p.CursorY-p.TargetY))
			if i == 0 {
				continue
			}
			prev := window[i-1]
			dtMs := p.T - prev.T
			if dtMs <= 0 {
				continue
			}
			dt := dtMs / 1000
			speedSum += math.Hypot(p.CursorX-prev.CursorX, p.CursorY-prev.CursorY) / dt
			speedCount++
		}
		if speedCount == 0 {
			continue
		}
		meanSpeed := speedSum / float64(speedCount)
		if meanSpeed <= sdnMinSpeedPxS {
			continue
		}
		speeds = append(speeds, meanSpeed)
		errorSDs = append(errorSDs, mathkit.StdDev(errs))
	}

	if len(speeds) < 3 {
		return SignalDepNoiseResult{}
	}

	fit := mathkit.FitLinearRegression(speeds, errorSDs)
	corr := mathkit.PearsonCorrelation(speeds, errorSDs)
	return SignalDepNoiseResult{Valid: true, Correlation: corr, Slope: fit.Slope}
}
