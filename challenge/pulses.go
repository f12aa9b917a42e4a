package challenge

const (
	pulseMinGapMs = 2800

	// embedHoverBudgetMs is the expected total hover time an embed
	// challenge is paced against when partitioning pulse offsets into
	// buckets. Embed mode has no tracking-phase duration of its own since
	// its time axis is cumulative hover time rather than wall clock, so
	// this stands in for trackingDuration in the bucket-width formula.
	embedHoverBudgetMs = 12000
)

// standalonePulses builds the pulse schedule for a standalone challenge.
// Offsets partition [pulseMinGapMs, trackingDurationMs) into pulseCount
// buckets of equal width, each pulse landing at the bucket start plus a
// uniform jitter covering the first 60% of the bucket. Caller must hold g.mu.
func (g *Generator) standalonePulses(trackingDurationMs float64) []Pulse {
	count := g.uniformInt(4, 8)
	bucket := (trackingDurationMs - pulseMinGapMs) / float64(count)

	pulses := make([]Pulse, count)
	for i := 0; i < count; i++ {
		offset := pulseMinGapMs + float64(i)*bucket + g.uniform(0, 0.6*bucket)
		pulses[i] = Pulse{
			StartMs:          offset,
			AmpX:             sign(i) * float64(g.uniformInt(18, 26)),
			HoldDurationMs:   g.uniform(500, 700),
			ReturnDurationMs: 200,
		}
	}
	return pulses
}

// embedPulses builds the pulse schedule for an embed challenge, indexed on
// cumulative hover time rather than wall-clock offset since trackingStart.
// Caller must hold g.mu.
func (g *Generator) embedPulses() []Pulse {
	count := g.uniformInt(4, 6)
	bucket := (embedHoverBudgetMs - pulseMinGapMs) / float64(count)

	pulses := make([]Pulse, count)
	for i := 0; i < count; i++ {
		offset := pulseMinGapMs + float64(i)*bucket + g.uniform(0, 0.6*bucket)
		pulses[i] = Pulse{
			StartMs:          offset,
			AmpX:             sign(i) * g.uniform(1.0, 2.0),
			HoldDurationMs:   g.uniform(400, 600),
			ReturnDurationMs: 150,
		}
	}
	return pulses
}
