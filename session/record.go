package session

import "time"

// Record is one line of the append-only session log, per spec.md §3's
// session-record field list. It is the structured event the Session
// Service emits; persistence is an external collaborator (spec.md §9) that
// must not be able to fail the verify response.
type Record struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Mode        string    `json:"mode"`
	ChallengeID string    `json:"challengeId"`
	InputMethod string    `json:"inputMethod"`
	DeviceType  string    `json:"deviceType"`

	Score        float64            `json:"score"`
	Verdict      string             `json:"verdict"`
	VerdictClass string             `json:"verdictClass"`
	SubScores    map[string]float64 `json:"subScores"`

	SampleRateHz     float64 `json:"sampleRateHz"`
	SampleCount      int     `json:"sampleCount"`
	ValidMetricCount int     `json:"validMetricCount"`

	IPHash    string `json:"ipHash"`
	UserAgent string `json:"userAgent"`

	// Embed-mode only.
	HoverTimeMs    float64 `json:"hoverTimeMs,omitempty"`
	UniqueElements int     `json:"uniqueElements,omitempty"`
	Plausible      *bool   `json:"plausible,omitempty"`
}
