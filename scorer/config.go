// Package scorer converts the eight analysis pipelines' feature values into
// a single liveness verdict. Every threshold, weight, and range bound here
// is server-secret: none of it is ever serialized to a client.
package scorer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights holds the fixed per-pipeline contribution to the aggregate score.
// Matches spec.md §4.5 exactly.
type Weights struct {
	TransferFn      float64 `yaml:"transferFn"`
	Tremor          float64 `yaml:"tremor"`
	OneOverF        float64 `yaml:"oneOverF"`
	SignalDepNoise  float64 `yaml:"signalDepNoise"`
	CrossAxis       float64 `yaml:"crossAxis"`
	PulseResponse   float64 `yaml:"pulseResponse"`
	CogInterference float64 `yaml:"cogInterference"`
	MinJerk         float64 `yaml:"minJerk"`
}

// Thresholds holds the verdict-class cut points and the embed-mode
// "verified" cut point.
type Thresholds struct {
	Biological    float64 `yaml:"biological"`
	Uncertain     float64 `yaml:"uncertain"`
	EmbedVerified float64 `yaml:"embedVerified"`
}

// SubScoreParams holds every per-pipeline sub-scoring constant that isn't a
// plain weight or verdict threshold: the knobs spec.md §4.5 calls out by
// name for each pipeline's [0,1] mapping.
type SubScoreParams struct {
	TransferFnRolloff    float64 `yaml:"transferFnRolloff"`
	TransferFnDelayBonus float64 `yaml:"transferFnDelayBonus"`
	TransferFnPlausBonus float64 `yaml:"transferFnPlausBonus"`
	TransferFnDelayMs    float64 `yaml:"transferFnDelayMs"`

	TremorRatioDivisor float64 `yaml:"tremorRatioDivisor"`
	TremorPeakBonus    float64 `yaml:"tremorPeakBonus"`
	TremorPeakLoHz     float64 `yaml:"tremorPeakLoHz"`
	TremorPeakHiHz     float64 `yaml:"tremorPeakHiHz"`

	OneOverFLo        float64 `yaml:"oneOverFLo"`
	OneOverFHi        float64 `yaml:"oneOverFHi"`
	OneOverFSteepness float64 `yaml:"oneOverFSteepness"`

	SignalDepNoiseDivisor float64 `yaml:"signalDepNoiseDivisor"`

	CrossAxisTouchIdealMax    float64 `yaml:"crossAxisTouchIdealMax"`
	CrossAxisTouchDenom       float64 `yaml:"crossAxisTouchDenom"`
	CrossAxisNonTouchIdealMax float64 `yaml:"crossAxisNonTouchIdealMax"`
	CrossAxisNonTouchDenom    float64 `yaml:"crossAxisNonTouchDenom"`
	CrossAxisOverIdealPenalty float64 `yaml:"crossAxisOverIdealPenalty"`

	PulseLatencyWeight  float64 `yaml:"pulseLatencyWeight"`
	PulseLatencyLo      float64 `yaml:"pulseLatencyLo"`
	PulseLatencyHi      float64 `yaml:"pulseLatencyHi"`
	PulseStdWeight      float64 `yaml:"pulseStdWeight"`
	PulseStdLo          float64 `yaml:"pulseStdLo"`
	PulseStdHi          float64 `yaml:"pulseStdHi"`
	PulseRangeSteepness float64 `yaml:"pulseRangeSteepness"`

	CogFlashEffectDivisor   float64 `yaml:"cogFlashEffectDivisor"`
	CogAttentionThreshold   float64 `yaml:"cogAttentionThreshold"`
	CogAttentionBonus       float64 `yaml:"cogAttentionBonus"`
	CogAnswerGivenBonus     float64 `yaml:"cogAnswerGivenBonus"`
	CogAnswerCloseBonus     float64 `yaml:"cogAnswerCloseBonus"`
	CogAnswerCloseTolerance int     `yaml:"cogAnswerCloseTolerance"`

	MinJerkDivisor float64 `yaml:"minJerkDivisor"`
}

// Config is the single structure the Scorer receives by reference, per
// spec.md §9's guidance that scoring thresholds and weights must not be
// globals accessed ad hoc.
type Config struct {
	Weights    Weights        `yaml:"weights"`
	Thresholds Thresholds     `yaml:"thresholds"`
	Params     SubScoreParams `yaml:"params"`
}

// DefaultConfig returns the compiled-in scoring configuration from
// spec.md §4.5.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			TransferFn:      3.0,
			Tremor:          2.5,
			OneOverF:        2.0,
			SignalDepNoise:  2.5,
			CrossAxis:       2.0,
			PulseResponse:   3.0,
			CogInterference: 2.0,
			MinJerk:         1.5,
		},
		Thresholds: Thresholds{
			Biological:    0.65,
			Uncertain:     0.35,
			EmbedVerified: 0.60,
		},
		Params: SubScoreParams{
			TransferFnRolloff:    0.7,
			TransferFnDelayBonus: 0.15,
			TransferFnPlausBonus: 0.15,
			TransferFnDelayMs:    50,

			TremorRatioDivisor: 0.015,
			TremorPeakBonus:    0.2,
			TremorPeakLoHz:     7,
			TremorPeakHiHz:     13,

			OneOverFLo:        -2.5,
			OneOverFHi:        0.0,
			OneOverFSteepness: 3.0,

			SignalDepNoiseDivisor: 0.4,

			CrossAxisTouchIdealMax:    8,
			CrossAxisTouchDenom:       1.0,
			CrossAxisNonTouchIdealMax: 2,
			CrossAxisNonTouchDenom:    0.3,
			CrossAxisOverIdealPenalty: 0.5,

			PulseLatencyWeight:  0.6,
			PulseLatencyLo:      120,
			PulseLatencyHi:      380,
			PulseStdWeight:      0.4,
			PulseStdLo:          15,
			PulseStdHi:          180,
			PulseRangeSteepness: 0.03,

			CogFlashEffectDivisor:   50,
			CogAttentionThreshold:   0.02,
			CogAttentionBonus:       0.2,
			CogAnswerGivenBonus:     0.1,
			CogAnswerCloseBonus:     0.15,
			CogAnswerCloseTolerance: 1,

			MinJerkDivisor: 0.6,
		},
	}
}

// LoadOverlay reads an optional YAML file (CLNP_SCORER_CONFIG) and merges
// it over DefaultConfig. A zero value anywhere in the YAML file is treated
// as "not set" and the compiled default is kept, since the zero value of a
// weight or threshold is never itself a meaningful override.
func LoadOverlay(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("scorer: read config overlay %q: %w", path, err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return cfg, fmt.Errorf("scorer: parse config overlay %q: %w", path, err)
	}

	mergeWeights(&cfg.Weights, overlay.Weights)
	mergeThresholds(&cfg.Thresholds, overlay.Thresholds)
	mergeParams(&cfg.Params, overlay.Params)
	return cfg, nil
}

func mergeWeights(dst *Weights, src Weights) {
	setIfNonZero(&dst.TransferFn, src.TransferFn)
	setIfNonZero(&dst.Tremor, src.Tremor)
	setIfNonZero(&dst.OneOverF, src.OneOverF)
	setIfNonZero(&dst.SignalDepNoise, src.SignalDepNoise)
	setIfNonZero(&dst.CrossAxis, src.CrossAxis)
	setIfNonZero(&dst.PulseResponse, src.PulseResponse)
	setIfNonZero(&dst.CogInterference, src.CogInterference)
	setIfNonZero(&dst.MinJerk, src.MinJerk)
}

func mergeThresholds(dst *Thresholds, src Thresholds) {
	setIfNonZero(&dst.Biological, src.Biological)
	setIfNonZero(&dst.Uncertain, src.Uncertain)
	setIfNonZero(&dst.EmbedVerified, src.EmbedVerified)
}

func mergeParams(dst *SubScoreParams, src SubScoreParams) {
	setIfNonZero(&dst.TransferFnRolloff, src.TransferFnRolloff)
	setIfNonZero(&dst.TransferFnDelayBonus, src.TransferFnDelayBonus)
	setIfNonZero(&dst.TransferFnPlausBonus, src.TransferFnPlausBonus)
	setIfNonZero(&dst.TransferFnDelayMs, src.TransferFnDelayMs)
	setIfNonZero(&dst.TremorRatioDivisor, src.TremorRatioDivisor)
	setIfNonZero(&dst.TremorPeakBonus, src.TremorPeakBonus)
	setIfNonZero(&dst.TremorPeakLoHz, src.TremorPeakLoHz)
	setIfNonZero(&dst.TremorPeakHiHz, src.TremorPeakHiHz)
	setIfNonZero(&dst.OneOverFLo, src.OneOverFLo)
	setIfNonZero(&dst.OneOverFHi, src.OneOverFHi)
	setIfNonZero(&dst.OneOverFSteepness, src.OneOverFSteepness)
	setIfNonZero(&dst.SignalDepNoiseDivisor, src.SignalDepNoiseDivisor)
	setIfNonZero(&dst.CrossAxisTouchIdealMax, src.CrossAxisTouchIdealMax)
	setIfNonZero(&dst.CrossAxisTouchDenom, src.CrossAxisTouchDenom)
	setIfNonZero(&dst.CrossAxisNonTouchIdealMax, src.CrossAxisNonTouchIdealMax)
	setIfNonZero(&dst.CrossAxisNonTouchDenom, src.CrossAxisNonTouchDenom)
	setIfNonZero(&dst.CrossAxisOverIdealPenalty, src.CrossAxisOverIdealPenalty)
	setIfNonZero(&dst.PulseLatencyWeight, src.PulseLatencyWeight)
	setIfNonZero(&dst.PulseLatencyLo, src.PulseLatencyLo)
	setIfNonZero(&dst.PulseLatencyHi, src.PulseLatencyHi)
	setIfNonZero(&dst.PulseStdWeight, src.PulseStdWeight)
	setIfNonZero(&dst.PulseStdLo, src.PulseStdLo)
	setIfNonZero(&dst.PulseStdHi, src.PulseStdHi)
	setIfNonZero(&dst.PulseRangeSteepness, src.PulseRangeSteepness)
	setIfNonZero(&dst.CogFlashEffectDivisor, src.CogFlashEffectDivisor)
	setIfNonZero(&dst.CogAttentionThreshold, src.CogAttentionThreshold)
	setIfNonZero(&dst.CogAttentionBonus, src.CogAttentionBonus)
	setIfNonZero(&dst.CogAnswerGivenBonus, src.CogAnswerGivenBonus)
	setIfNonZero(&dst.CogAnswerCloseBonus, src.CogAnswerCloseBonus)
	if src.CogAnswerCloseTolerance != 0 {
		dst.CogAnswerCloseTolerance = src.CogAnswerCloseTolerance
	}
	setIfNonZero(&dst.MinJerkDivisor, src.MinJerkDivisor)
}

func setIfNonZero(dst *float64, src float64) {
	if src != 0 {
		*dst = src
	}
}
