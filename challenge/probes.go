package challenge

import "math"

const probeCount = 5

// pickProbeFrequencies uniform-shuffles the probe frequency pool, takes the
// first probeCount entries, and returns them sorted ascending. Caller must
// hold g.mu.
func (g *Generator) pickProbeFrequencies() []float64 {
	pool := make([]float64, len(probeFrequencyPool))
	copy(pool, probeFrequencyPool)
	g.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	picked := append([]float64(nil), pool[:probeCount]...)
	for i := 1; i < len(picked); i++ {
		for j := i; j > 0 && picked[j-1] > picked[j]; j-- {
			picked[j-1], picked[j] = picked[j], picked[j-1]
		}
	}
	return picked
}

// standaloneProbes builds the five standalone probes: integer-pixel
// amplitudes and a phaseOffset of pi/3 +/- 0.3 radians. Caller must hold g.mu.
func (g *Generator) standaloneProbes() []Probe {
	freqs := g.pickProbeFrequencies()

	out := make([]Probe, len(freqs))
	for i, f := range freqs {
		out[i] = Probe{
			Freq:        f,
			AmpX:        float64(g.rng.IntN(5) + 3), // integer [3,7]
			AmpY:        float64(g.rng.IntN(3) + 1),  // integer [1,3]
			PhaseOffset: math.Pi/3 + g.uniform(-0.3, 0.3),
		}
	}
	return out
}

// embedProbes builds the five embed probes: sub-perceptual fractional-pixel
// amplitudes with the same phaseOffset distribution as standalone. Caller
// must hold g.mu.
func (g *Generator) embedProbes() []Probe {
	freqs := g.pickProbeFrequencies()

	out := make([]Probe, len(freqs))
	for i, f := range freqs {
		out[i] = Probe{
			Freq:        f,
			AmpX:        g.uniform(0.15, 0.35),
			AmpY:        g.uniform(0.05, 0.15),
			PhaseOffset: math.Pi/3 + g.uniform(-0.3, 0.3),
		}
	}
	return out
}
