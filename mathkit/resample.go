package mathkit

// Sample is a single (t, v) timestamped scalar observation, t in milliseconds.
type Sample struct {
	T float64
	V float64
}

// ResampleUniform performs piecewise-linear interpolation of irregularly
// timestamped samples onto a uniform grid at targetRate Hz. The output
// starts at the first input timestamp and ends at the last, with step
// 1000/targetRate ms. Input must be sorted ascending by T and contain at
// least two samples; otherwise an empty slice is returned.
func ResampleUniform(samples []Sample, targetRate float64) []Sample {
	if len(samples) < 2 || targetRate <= 0 {
		return nil
	}

	step := 1000.0 / targetRate
	start := samples[0].T
	end := samples[len(samples)-1].T
	if end <= start {
		return nil
	}

	out := make([]Sample, 0, int((end-start)/step)+1)
	idx := 0
	for t := start; t <= end; t += step {
		for idx < len(samples)-2 && samples[idx+1].T < t {
			idx++
		}
		v := interpolate(samples[idx], samples[idx+1], t)
		out = append(out, Sample{T: t, V: v})
	}
	return out
}

func interpolate(a, b Sample, t float64) float64 {
	if b.T == a.T {
		return a.V
	}
	frac := (t - a.T) / (b.T - a.T)
	return a.V + frac*(b.V-a.V)
}

// EstimateSampleRate returns the average sampling rate in Hz implied by the
// timestamps of samples (1000 / mean inter-sample interval in ms). Returns 0
// if fewer than two samples are given or the span is non-positive.
func EstimateSampleRate(samples []Sample) float64 {
	if len(samples) < 2 {
		return 0
	}
	span := samples[len(samples)-1].T - samples[0].T
	if span <= 0 {
		return 0
	}
	return 1000.0 * float64(len(samples)-1) / span
}
