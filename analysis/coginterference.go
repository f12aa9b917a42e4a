package analysis

import (
	"math"

	"github.com/glyphwatch/clnp/mathkit"
)

const (
	cogPreWindowStartMs  = -500
	cogPreWindowEndMs    = 0
	cogPostWindowStartMs = 200
	cogPostWindowEndMs   = 700
)

// CogInterferenceResult is pipeline 8's output: how much tracking error
// increases around a cognitive-task flash, separated by whether the flash
// was a target the user was meant to count.
type CogInterferenceResult struct {
	Valid             bool
	TargetIncrease    float64
	NonTargetIncrease float64
	AttentionEffect   float64 // TargetIncrease - NonTargetIncrease
	TrueCorrectCount  int
	UserAnswer        int
	HasAnswer         bool
}

// CognitiveMotorInterference is pipeline 8. For each flash it compares mean
// tracking-error magnitude in the pre-flash window [-500,0) ms to the
// post-flash window [200,700) ms and expresses the change as a percent
// increase, then averages separately over target and non-target flashes.
func CognitiveMotorInterference(points []TrackPoint, flashes []FlashWindow, trueCorrectCount int, userAnswer int, hasAnswer bool) CogInterferenceResult {
	var targetIncreases, nonTargetIncreases []float64

	for _, f := range flashes {
		pre := meanErrorInWindow(points, f.TimestampMs+cogPreWindowStartMs, f.TimestampMs+cogPreWindowEndMs)
		post := meanErrorInWindow(points, f.TimestampMs+cogPostWindowStartMs, f.TimestampMs+cogPostWindowEndMs)
		if pre.count == 0 || post.count == 0 || pre.mean <= 0 {
			continue
		}
		pctIncrease := (post.mean - pre.mean) / pre.mean * 100
		if f.IsTarget {
			targetIncreases = append(targetIncreases, pctIncrease)
		} else {
			nonTargetIncreases = append(nonTargetIncreases, pctIncrease)
		}
	}

	if len(targetIncreases) == 0 && len(nonTargetIncreases) == 0 {
		return CogInterferenceResult{}
	}

	targetMean := mathkit.Mean(targetIncreases)
	nonTargetMean := mathkit.Mean(nonTargetIncreases)

	return CogInterferenceResult{
		Valid:             true,
		TargetIncrease:    targetMean,
		NonTargetIncrease: nonTargetMean,
		AttentionEffect:   targetMean - nonTargetMean,
		TrueCorrectCount:  trueCorrectCount,
		UserAnswer:        userAnswer,
		HasAnswer:         hasAnswer,
	}
}

type windowStat struct {
	mean  float64
	count int
}

func meanErrorInWindow(points []TrackPoint, fromMs, toMs float64) windowStat {
	var sum float64
	var count int
	for _, p := range points {
		if p.T < fromMs || p.T >= toMs {
			continue
		}
		sum += math.Hypot(p.CursorX-p.TargetX, p.CursorY-p.TargetY)
		count++
	}
	if count == 0 {
		return windowStat{}
	}
	return windowStat{mean: sum / float64(count), count: count}
}
