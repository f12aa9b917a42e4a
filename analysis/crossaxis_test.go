package analysis_test

import (
	"math"
	"testing"

	"github.com/glyphwatch/clnp/analysis"
)

func TestCrossAxisCoupling_PureXMotionYieldsZeroRatio(t *testing.T) {
	pulses := []analysis.PulseWindow{
		{Idx: 0, StartMs: 0, AmpX: 20},
		{Idx: 1, StartMs: 1000, AmpX: -20},
	}
	var points []analysis.TrackPoint
	for _, start := range []float64{0, 1000} {
		for i := 0; i < 10; i++ {
			points = append(points, analysis.TrackPoint{
				T:       start + float64(i)*40,
				CursorX: float64(i) * 2,
				CursorY: 100, // constant: no y motion at all
			})
		}
	}

	r := analysis.CrossAxisCoupling(points, pulses)
	if !r.Valid {
		t.Fatal("expected valid result with 2 usable pulses")
	}
	if r.MeanRatio != 0 {
		t.Errorf("MeanRatio = %v, want 0 for pure x-axis motion", r.MeanRatio)
	}
}

func TestCrossAxisCoupling_RequiresAtLeastTwoUsablePulses(t *testing.T) {
	pulses := []analysis.PulseWindow{{Idx: 0, StartMs: 0, AmpX: 20}}
	points := []analysis.TrackPoint{
		{T: 0, CursorX: 0, CursorY: 0},
		{T: 100, CursorX: 10, CursorY: 5},
	}
	r := analysis.CrossAxisCoupling(points, pulses)
	if r.Valid {
		t.Error("expected invalid result with only 1 usable pulse")
	}
}

func TestCrossAxisCoupling_DiscardsFlatDeltaXWindows(t *testing.T) {
	pulses := []analysis.PulseWindow{
		{Idx: 0, StartMs: 0, AmpX: 20},
		{Idx: 1, StartMs: 1000, AmpX: 20},
	}
	// Both windows have |dx| below the 2px floor, so neither counts.
	points := []analysis.TrackPoint{
		{T: 0, CursorX: 0, CursorY: 0},
		{T: 100, CursorX: 1, CursorY: 50},
		{T: 1000, CursorX: 0, CursorY: 0},
		{T: 1100, CursorX: 0.5, CursorY: 50},
	}
	r := analysis.CrossAxisCoupling(points, pulses)
	if r.Valid {
		t.Error("expected invalid result when all windows have |dx| <= 2px")
	}
}

func TestMinimumJerk_PerfectQuinticFitIsOne(t *testing.T) {
	duration := 200.0
	window := make([]analysis.CorrectionSample, 0, 20)
	x0, xf := 0.0, 1.0
	for i := 0; i <= 19; i++ {
		tau := float64(i) / 19
		blend := 10*tau*tau*tau - 15*tau*tau*tau*tau + 6*tau*tau*tau*tau*tau
		window = append(window, analysis.CorrectionSample{
			T:          duration * tau,
			Correction: x0 + (xf-x0)*blend,
		})
	}
	detections := []analysis.PulseDetection{
		{Detected: true, LatencyMs: 0, PeakTimeMs: duration, Window: window},
	}

	r := analysis.MinimumJerk(detections)
	if !r.Valid {
		t.Fatal("expected valid result")
	}
	if math.Abs(r.MeanRSquared-1) > 1e-6 {
		t.Errorf("MeanRSquared = %v, want ~1 for a perfect quintic fit", r.MeanRSquared)
	}
}

func TestMinimumJerk_NoDetectionsIsInvalid(t *testing.T) {
	r := analysis.MinimumJerk([]analysis.PulseDetection{{Detected: false}})
	if r.Valid {
		t.Error("expected invalid result when no pulse was detected")
	}
}

func TestMinimumJerk_ExcludesShortWindows(t *testing.T) {
	detections := []analysis.PulseDetection{
		{
			Detected: true, LatencyMs: 0, PeakTimeMs: 10,
			Window: []analysis.CorrectionSample{{T: 0, Correction: 0}, {T: 10, Correction: 1}},
		},
	}
	r := analysis.MinimumJerk(detections)
	if r.Valid {
		t.Error("expected invalid result: window shorter than 4 samples and 30ms")
	}
}
