package challenge

// probeFrequencyPool is the 18-element pool of pre-curated, pairwise
// non-harmonic probe frequencies (Hz) that standalone and embed challenges
// draw their five probes from. The values are spaced to avoid small-integer
// ratios with one another so a transfer-function estimate at one probe
// cannot be aliased by energy leaking from another.
var probeFrequencyPool = []float64{
	0.61, 0.73, 0.89, 1.07, 1.24, 1.41,
	1.63, 1.82, 2.08, 2.29, 2.47, 2.68,
	2.93, 3.11, 3.37, 3.58, 3.79, 4.02,
}

// lissajousPathPairs are the 7 rational (freqX, freqY) pairs a standalone
// challenge's smooth path is drawn from, in Hz, tuned so a full trace takes
// on the order of tens of seconds at the padding/amplitude this service
// uses.
var lissajousPathPairs = []PathParams{
	{FreqX: 0.15, FreqY: 0.15},
	{FreqX: 0.10, FreqY: 0.15},
	{FreqX: 0.15, FreqY: 0.10},
	{FreqX: 0.12, FreqY: 0.16},
	{FreqX: 0.16, FreqY: 0.12},
	{FreqX: 0.10, FreqY: 0.25},
	{FreqX: 0.25, FreqY: 0.10},
}

// cogColors are the three candidate flash colors for the cognitive-motor
// interference dual task: one is chosen as the target, the other two are
// distractors.
var cogColors = []string{"crimson", "azure", "amber"}

const pathPadding = 0.30
