package analysis

import "github.com/glyphwatch/clnp/mathkit"

const (
	pulsePreWindowMs    = 200
	pulsePostWindowMs   = 600
	pulseOnsetMinMs     = 80
	pulseOnsetThreshold = 0.20
	pulseSustainLevel   = 0.15
	pulseSustainMs      = 40
)

// CorrectionSample is one point of a pulse's normalized correction signal:
// the cursor's deviation from its pre-pulse linear-extrapolated trajectory,
// divided by the pulse amplitude so it is unitless and sign-normalized to
// "more positive means more corrective."
type CorrectionSample struct {
	T          float64
	Correction float64
}

// PulseDetection is one pulse's fully analyzed response: its onset latency,
// peak correction and timing, and the correction-signal samples spanning
// [latency, peakTime] that the minimum-jerk pipeline re-fits.
type PulseDetection struct {
	Idx            int
	Detected       bool
	LatencyMs      float64
	PeakTimeMs     float64
	PeakCorrection float64
	Overshoot      float64
	Window         []CorrectionSample
}

// PulseResponseResult is pipeline 7's output.
type PulseResponseResult struct {
	Valid         bool
	MeanLatencyMs float64
	StdLatencyMs  float64
	MeanOvershoot float64
	Detections    []PulseDetection
}

// PulseResponseLatency is pipeline 7. For each pulse it fits a line through
// the [-200ms, 0) pre-pulse cursor trajectory, extrapolates that line across
// the [0, 600ms) post-pulse window, and subtracts it from the actual cursor
// position to produce a "correction" signal normalized by the pulse's
// |ampX|) and signed so a corrective response reads positive regardless of
// the pulse's own sign. Onset is the first instant at or after 80 ms where
// correction exceeds 0.20 and remains above 0.15 for the following 40 ms;
// the peak is the maximum correction reached after onset.
func PulseResponseLatency(points []TrackPoint, pulses []PulseWindow) PulseResponseResult {
	detections := make([]PulseDetection, 0, len(pulses))
	for i, pulse := range pulses {
		d := detectPulseResponse(points, pulse)
		d.Idx = i
		detections = append(detections, d)
	}

	var latencies, overshoots []float64
	for _, d := range detections {
		if !d.Detected {
			continue
		}
		latencies = append(latencies, d.LatencyMs)
		overshoots = append(overshoots, d.Overshoot)
	}

	if len(latencies) == 0 {
		return PulseResponseResult{Detections: detections}
	}

	return PulseResponseResult{
		Valid:         true,
		MeanLatencyMs: mathkit.Mean(latencies),
		StdLatencyMs:  mathkit.StdDev(latencies),
		MeanOvershoot: mathkit.Mean(overshoots),
		Detections:    detections,
	}
}

func detectPulseResponse(points []TrackPoint, pulse PulseWindow) PulseDetection {
	if pulse.AmpX == 0 {
		return PulseDetection{}
	}
	sign := 1.0
	if pulse.AmpX < 0 {
		sign = -1.0
	}
	absAmp := pulse.AmpX * sign

	start := pulse.StartMs
	var preT, preX []float64
	for _, p := range points {
		if p.T >= start-pulsePreWindowMs && p.T < start {
			preT = append(preT, p.T)
			preX = append(preX, p.CursorX)
		}
	}
	if len(preT) < 2 {
		return PulseDetection{}
	}
	fit := mathkit.FitLinearRegression(preT, preX)

	var post []CorrectionSample
	for _, p := range points {
		if p.T >= start && p.T < start+pulsePostWindowMs {
			extrapolated := fit.Slope*p.T + fit.Intercept
			correction := sign * (p.CursorX - extrapolated) / absAmp
			post = append(post, CorrectionSample{T: p.T - start, Correction: correction})
		}
	}
	if len(post) == 0 {
		return PulseDetection{}
	}

	onsetIdx := -1
	for i, s := range post {
		if s.T < pulseOnsetMinMs || s.Correction <= pulseOnsetThreshold {
			continue
		}
		if sustainedAbove(post, i, pulseSustainLevel, pulseSustainMs) {
			onsetIdx = i
			break
		}
	}
	if onsetIdx == -1 {
		return PulseDetection{}
	}

	peakIdx := onsetIdx
	for i := onsetIdx + 1; i < len(post); i++ {
		if post[i].Correction > post[peakIdx].Correction {
			peakIdx = i
		}
	}

	window := append([]CorrectionSample(nil), post[onsetIdx:peakIdx+1]...)
	peak := post[peakIdx].Correction

	return PulseDetection{
		Detected:       true,
		LatencyMs:      post[onsetIdx].T,
		PeakTimeMs:     post[peakIdx].T,
		PeakCorrection: peak,
		Overshoot:      max0(peak - 1.0),
		Window:         window,
	}
}

// sustainedAbove reports whether post[i:] remains above level for the next
// durationMs of elapsed time.
func sustainedAbove(post []CorrectionSample, i int, level, durationMs float64) bool {
	end := post[i].T + durationMs
	for j := i; j < len(post) && post[j].T <= end; j++ {
		if post[j].Correction <= level {
			return false
		}
	}
	return true
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
