package challenge

const cogFlashTotal = 8

// cogTask builds the dual-task flash schedule: targetCount (2-5) flashes of
// the chosen target color plus distractors from the other two colors,
// totaling cogFlashTotal, Fisher-Yates shuffled, each timestamped at
// cogGap*(i+1) +/- 0.15*cogGap where cogGap = dualtaskDurationMs/9. Caller
// must hold g.mu.
func (g *Generator) cogTask(dualtaskDurationMs float64) *CogTask {
	targetColor := cogColors[g.uniformInt(0, len(cogColors))]
	distractors := make([]string, 0, len(cogColors)-1)
	for _, c := range cogColors {
		if c != targetColor {
			distractors = append(distractors, c)
		}
	}

	targetCount := g.uniformInt(2, 6)
	colors := make([]string, 0, cogFlashTotal)
	for i := 0; i < targetCount; i++ {
		colors = append(colors, targetColor)
	}
	for len(colors) < cogFlashTotal {
		colors = append(colors, distractors[g.uniformInt(0, len(distractors))])
	}

	for i := len(colors) - 1; i > 0; i-- {
		j := g.uniformInt(0, i+1)
		colors[i], colors[j] = colors[j], colors[i]
	}

	cogGap := dualtaskDurationMs / 9
	flashes := make([]CogFlash, cogFlashTotal)
	for i, c := range colors {
		flashes[i] = CogFlash{
			Color:       c,
			IsTarget:    c == targetColor,
			TimestampMs: cogGap*float64(i+1) + g.uniform(-0.15*cogGap, 0.15*cogGap),
		}
	}

	return &CogTask{
		TargetColor: targetColor,
		TargetCount: targetCount,
		Flashes:     flashes,
	}
}
