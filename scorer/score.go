package scorer

import "github.com/glyphwatch/clnp/analysis"

// VerdictClass is the three-way liveness determination.
type VerdictClass string

const (
	Biological    VerdictClass = "BIOLOGICAL"
	Uncertain     VerdictClass = "UNCERTAIN"
	NonBiological VerdictClass = "NON-BIOLOGICAL"
)

// Label is the human-facing verdict string carried in the receipt and
// session log, per the literal scenarios in spec.md §8.
func (c VerdictClass) Label() string {
	switch c {
	case Biological:
		return "BIOLOGICAL CONTROLLER DETECTED"
	case NonBiological:
		return "NON-BIOLOGICAL CONTROLLER SUSPECTED"
	default:
		return "UNCERTAIN"
	}
}

// PipelineResults bundles every analysis pipeline's output for one verify
// request, plus the one piece of submission metadata (input method) a
// sub-score needs to branch on.
type PipelineResults struct {
	TransferFn      analysis.TransferFnResult
	CursorTremor    analysis.TremorResult
	AccelTremor     analysis.TremorResult
	OneOverF        analysis.OneOverFResult
	SignalDepNoise  analysis.SignalDepNoiseResult
	CrossAxis       analysis.CrossAxisResult
	PulseResponse   analysis.PulseResponseResult
	CogInterference analysis.CogInterferenceResult
	MinJerk         analysis.MinJerkResult

	IsTouch bool
}

// SubScores holds each pipeline's [0,1] contribution, alongside whether it
// was valid (and so counted toward the aggregate) and a total valid count.
type SubScores struct {
	TransferFn      float64
	Tremor          float64
	OneOverF        float64
	SignalDepNoise  float64
	CrossAxis       float64
	PulseResponse   float64
	CogInterference float64
	MinJerk         float64

	ValidTransferFn      bool
	ValidTremor          bool
	ValidOneOverF        bool
	ValidSignalDepNoise  bool
	ValidCrossAxis       bool
	ValidPulseResponse   bool
	ValidCogInterference bool
	ValidMinJerk         bool
}

// ValidCount returns how many of the eight pipelines contributed to the
// aggregate.
func (s SubScores) ValidCount() int {
	n := 0
	for _, v := range []bool{
		s.ValidTransferFn, s.ValidTremor, s.ValidOneOverF, s.ValidSignalDepNoise,
		s.ValidCrossAxis, s.ValidPulseResponse, s.ValidCogInterference, s.ValidMinJerk,
	} {
		if v {
			n++
		}
	}
	return n
}

// Verdict is the Scorer's complete output for one verify request.
type Verdict struct {
	Overall    float64
	Class      VerdictClass
	SubScores  SubScores
	ValidCount int
}

// Score folds r into per-pipeline sub-scores in [0,1], combines them by
// weighted average over valid pipelines, and maps the aggregate to a
// three-way verdict class using cfg's thresholds.
func Score(cfg Config, r PipelineResults) Verdict {
	sub := SubScores{}

	if r.TransferFn.Valid {
		sub.ValidTransferFn = true
		sub.TransferFn = scoreTransferFn(cfg, r.TransferFn)
	}

	if r.CursorTremor.Valid || r.AccelTremor.Valid {
		sub.ValidTremor = true
		sub.Tremor = scoreTremor(cfg, r.CursorTremor, r.AccelTremor)
	}

	if r.OneOverF.Valid {
		sub.ValidOneOverF = true
		sub.OneOverF = rangeScore(r.OneOverF.Slope, cfg.Params.OneOverFLo, cfg.Params.OneOverFHi, cfg.Params.OneOverFSteepness)
	}

	if r.SignalDepNoise.Valid {
		sub.ValidSignalDepNoise = true
		sub.SignalDepNoise = clamp01(r.SignalDepNoise.Correlation / cfg.Params.SignalDepNoiseDivisor)
	}

	if r.CrossAxis.Valid {
		sub.ValidCrossAxis = true
		sub.CrossAxis = scoreCrossAxis(cfg, r.CrossAxis, r.IsTouch)
	}

	if r.PulseResponse.Valid {
		sub.ValidPulseResponse = true
		sub.PulseResponse = scorePulseResponse(cfg, r.PulseResponse)
	}

	if r.CogInterference.Valid {
		sub.ValidCogInterference = true
		sub.CogInterference = scoreCogInterference(cfg, r.CogInterference)
	}

	if r.MinJerk.Valid {
		sub.ValidMinJerk = true
		sub.MinJerk = clamp01(r.MinJerk.MeanRSquared / cfg.Params.MinJerkDivisor)
	}

	var weightedSum, weightSum float64
	add := func(valid bool, weight, score float64) {
		if !valid {
			return
		}
		weightedSum += weight * score
		weightSum += weight
	}
	add(sub.ValidTransferFn, cfg.Weights.TransferFn, sub.TransferFn)
	add(sub.ValidTremor, cfg.Weights.Tremor, sub.Tremor)
	add(sub.ValidOneOverF, cfg.Weights.OneOverF, sub.OneOverF)
	add(sub.ValidSignalDepNoise, cfg.Weights.SignalDepNoise, sub.SignalDepNoise)
	add(sub.ValidCrossAxis, cfg.Weights.CrossAxis, sub.CrossAxis)
	add(sub.ValidPulseResponse, cfg.Weights.PulseResponse, sub.PulseResponse)
	add(sub.ValidCogInterference, cfg.Weights.CogInterference, sub.CogInterference)
	add(sub.ValidMinJerk, cfg.Weights.MinJerk, sub.MinJerk)

	var overall float64
	if weightSum > 0 {
		overall = weightedSum / weightSum
	}

	class := NonBiological
	switch {
	case overall >= cfg.Thresholds.Biological:
		class = Biological
	case overall >= cfg.Thresholds.Uncertain:
		class = Uncertain
	}

	return Verdict{
		Overall:    overall,
		Class:      class,
		SubScores:  sub,
		ValidCount: sub.ValidCount(),
	}
}

func scoreTransferFn(cfg Config, r analysis.TransferFnResult) float64 {
	p := cfg.Params
	score := 0.0
	if r.HasRolloff {
		score += p.TransferFnRolloff
	}
	if r.MeanDelayMs > p.TransferFnDelayMs {
		score += p.TransferFnDelayBonus
	}
	if r.DelayPlausible {
		score += p.TransferFnPlausBonus
	}
	return clamp01(score)
}

func scoreTremor(cfg Config, cursor, accel analysis.TremorResult) float64 {
	p := cfg.Params
	sub := func(r analysis.TremorResult) float64 {
		if !r.Valid {
			return 0
		}
		s := r.TremorRatio / p.TremorRatioDivisor
		if r.PeakFrequency >= p.TremorPeakLoHz && r.PeakFrequency <= p.TremorPeakHiHz {
			s += p.TremorPeakBonus
		}
		return clamp01(s)
	}
	cursorScore := sub(cursor)
	accelScore := sub(accel)
	if accelScore > cursorScore {
		return accelScore
	}
	return cursorScore
}

func scoreCrossAxis(cfg Config, r analysis.CrossAxisResult, isTouch bool) float64 {
	p := cfg.Params
	idealMax, denom := p.CrossAxisNonTouchIdealMax, p.CrossAxisNonTouchDenom
	if isTouch {
		idealMax, denom = p.CrossAxisTouchIdealMax, p.CrossAxisTouchDenom
	}
	score := clamp01(r.MeanRatio / denom)
	if r.MeanRatio >= idealMax {
		score *= p.CrossAxisOverIdealPenalty
	}
	return score
}

func scorePulseResponse(cfg Config, r analysis.PulseResponseResult) float64 {
	p := cfg.Params
	latencyScore := rangeScore(r.MeanLatencyMs, p.PulseLatencyLo, p.PulseLatencyHi, p.PulseRangeSteepness)
	stdScore := rangeScore(r.StdLatencyMs, p.PulseStdLo, p.PulseStdHi, p.PulseRangeSteepness)
	return clamp01(p.PulseLatencyWeight*latencyScore + p.PulseStdWeight*stdScore)
}

func scoreCogInterference(cfg Config, r analysis.CogInterferenceResult) float64 {
	p := cfg.Params
	flashEffect := r.TargetIncrease
	if r.NonTargetIncrease > flashEffect {
		flashEffect = r.NonTargetIncrease
	}
	score := clamp01(flashEffect / p.CogFlashEffectDivisor)
	if r.AttentionEffect > p.CogAttentionThreshold {
		score += p.CogAttentionBonus
	}
	if r.HasAnswer {
		score += p.CogAnswerGivenBonus
		diff := r.UserAnswer - r.TrueCorrectCount
		if diff < 0 {
			diff = -diff
		}
		if diff <= p.CogAnswerCloseTolerance {
			score += p.CogAnswerCloseBonus
		}
	}
	return clamp01(score)
}
