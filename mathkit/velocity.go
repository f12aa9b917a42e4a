package mathkit

import "math"

// Velocity computes forward-difference derivatives of samples with respect
// to time (in seconds): v[i] = (samples[i+1].V - samples[i].V) / dt, where
// dt = (samples[i+1].T - samples[i].T) / 1000. Samples with dt <= 0 are
// skipped entirely; no output point is emitted for that pair.
func Velocity(samples []Sample) []Sample {
	if len(samples) < 2 {
		return nil
	}
	out := make([]Sample, 0, len(samples)-1)
	for i := 0; i < len(samples)-1; i++ {
		dtMs := samples[i+1].T - samples[i].T
		if dtMs <= 0 {
			continue
		}
		dt := dtMs / 1000.0
		v := (samples[i+1].V - samples[i].V) / dt
		out = append(out, Sample{T: samples[i+1].T, V: v})
	}
	return out
}

// Magnitude2D computes the Euclidean speed of a 2D point sequence sampled at
// parallel (t, x, y) slices: speed[i] = hypot(dx, dy) / dt in px/s, skipping
// non-positive dt.
func Magnitude2D(t, x, y []float64) []Sample {
	n := len(t)
	if n < 2 || len(x) != n || len(y) != n {
		return nil
	}
	out := make([]Sample, 0, n-1)
	for i := 0; i < n-1; i++ {
		dtMs := t[i+1] - t[i]
		if dtMs <= 0 {
			continue
		}
		dt := dtMs / 1000.0
		dx := x[i+1] - x[i]
		dy := y[i+1] - y[i]
		speed := math.Hypot(dx, dy) / dt
		out = append(out, Sample{T: t[i+1], V: speed})
	}
	return out
}
