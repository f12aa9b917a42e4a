package analysis

import (
	"math"

	"github.com/glyphwatch/clnp/mathkit"
)

const (
	crossAxisWindowMs  = 400
	crossAxisMinDeltaX = 2.0
	crossAxisMinPulses = 2
)

// CrossAxisResult is pipeline 6's output: how much unintended y-axis motion
// leaks into the cursor's response to a purely x-axis pulse, a signature of
// joint/muscle coupling absent in a programmatic X-only correction.
type CrossAxisResult struct {
	Valid        bool
	MeanRatio    float64
	StdDevRatio  float64
	UsablePulses int
}

// CrossAxisCoupling is pipeline 6. For every pulse with at least one sample
// at or after its start, it takes the 400 ms window beginning at pulse
// start and computes |delta-y / delta-x| over that window, discarding
// windows where |delta-x| does not exceed 2 px. It requires at least 2
// usable pulses to produce a result.
func CrossAxisCoupling(points []TrackPoint, pulses []PulseWindow) CrossAxisResult {
	var ratios []float64

	for _, pulse := range pulses {
		start := pulse.StartMs
		end := start + crossAxisWindowMs

		var first, last TrackPoint
		found := false
		for _, p := range points {
			if p.T < start || p.T > end {
				continue
			}
			if !found {
				first = p
				found = true
			}
			last = p
		}
		if !found {
			continue
		}

		dx := last.CursorX - first.CursorX
		dy := last.CursorY - first.CursorY
		if math.Abs(dx) <= crossAxisMinDeltaX {
			continue
		}
		ratios = append(ratios, math.Abs(dy/dx))
	}

	if len(ratios) < crossAxisMinPulses {
		return CrossAxisResult{}
	}

	return CrossAxisResult{
		Valid:        true,
		MeanRatio:    mathkit.Mean(ratios),
		StdDevRatio:  mathkit.StdDev(ratios),
		UsablePulses: len(ratios),
	}
}
