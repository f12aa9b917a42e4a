// Package analysis implements the fixed battery of biomechanical analysis
// pipelines run against a reconstructed tracking sequence and raw
// accelerometer data. Each pipeline is a pure function returning a validity
// flag plus feature values; none mutates shared state or yields mid-FFT.
package analysis

// TrackPoint is one reconstructed tracking sample: the client's reported
// cursor position alongside the server-reconstructed target/perturbation at
// the same instant.
type TrackPoint struct {
	T                float64 // ms, same time base as the raw submission
	CursorX, CursorY float64
	TargetX, TargetY float64
	PertX, PertY     float64
	IsPulse          bool
	PulseIdx         int
}

// AccelPoint is one raw accelerometer sample.
type AccelPoint struct {
	T                float64
	Ax, Ay, Az       float64
}

// PulseWindow describes one pulse's schedule for the pipelines that key off
// pulse timing (cross-axis coupling, pulse response latency, minimum jerk).
type PulseWindow struct {
	Idx              int
	StartMs          float64
	AmpX             float64
	AmpY             float64
	HoldDurationMs   float64
	ReturnDurationMs float64
}

// FlashWindow describes one cognitive-task flash for the interference
// pipeline.
type FlashWindow struct {
	TimestampMs float64
	IsTarget    bool
}

const minUsableSampleCount = 20
