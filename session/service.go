package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/glyphwatch/clnp/analysis"
	"github.com/glyphwatch/clnp/apierr"
	"github.com/glyphwatch/clnp/challenge"
	"github.com/glyphwatch/clnp/logger"
	"github.com/glyphwatch/clnp/metrics"
	"github.com/glyphwatch/clnp/reconstruct"
	"github.com/glyphwatch/clnp/scorer"
	"github.com/glyphwatch/clnp/workerpool"
)

// pipelineWorkers bounds how many of the concurrently run analysis
// pipelines execute at once per verify request.
const pipelineWorkers = 4

// minHoverByDevice is the per-device minimum cumulative hover time an embed
// submission must reach to be considered plausible, resolving spec.md §9's
// Open Question on the "plausible" flag. Figures are chosen so a user who
// merely brushed past tracked elements does not qualify, while normal
// reading/scanning dwell time does. An unrecognized deviceProfile falls
// back to the desktop figure.
var minHoverByDevice = map[string]float64{
	"desktop": 6000,
	"mobile":  4000,
	"tablet":  5000,
}

func minHoverMs(deviceProfile string) float64 {
	if ms, ok := minHoverByDevice[deviceProfile]; ok {
		return ms
	}
	return minHoverByDevice["desktop"]
}

// Service wires the challenge generator, store, target reconstructor,
// analysis pipelines, and scorer into the Session Service request contract
// of spec.md §4.6.
type Service struct {
	gen    *challenge.Generator
	store  *Store
	cfg    scorer.Config
	secret []byte
	log    *Log
	logger *logger.Logger
	metr   *metrics.Metrics

	standaloneTTL time.Duration
	embedTTL      time.Duration
}

// NewService builds a Service over its collaborators. log may be nil in
// tests that do not exercise persistence.
func NewService(gen *challenge.Generator, store *Store, cfg scorer.Config, secret []byte, log *Log, lg *logger.Logger, m *metrics.Metrics, standaloneTTL, embedTTL time.Duration) *Service {
	return &Service{
		gen: gen, store: store, cfg: cfg, secret: secret,
		log: log, logger: lg, metr: m,
		standaloneTTL: standaloneTTL, embedTTL: embedTTL,
	}
}

// VerifyResult is the Service's complete output for one successful verify
// request: everything the HTTP layer needs to build both the JSON verdict
// response and the session log record.
type VerifyResult struct {
	SessionID string
	Verified  bool
	Score     float64
	Verdict   string
	Class     string
	Receipt   string

	SampleRateHz     float64
	SampleCount      int
	ValidMetricCount int

	// Embed-only.
	HoverTimeMs    float64
	UniqueElements int
	Plausible      bool
}

// IssueStandalone creates and stores a standalone challenge, returning its
// signed token and public view.
func (s *Service) IssueStandalone() (string, challenge.View, error) {
	c, err := challenge.NewStandalone(s.gen, s.standaloneTTL)
	if err != nil {
		return "", challenge.View{}, err
	}
	s.store.Put(c)
	if s.metr != nil {
		s.metr.ChallengeIssued()
	}
	return IssueToken(s.secret, c), challenge.ClientView(c), nil
}

// IssueEmbed creates and stores an embed challenge, returning its signed
// token and public view.
func (s *Service) IssueEmbed() (string, challenge.View, error) {
	c, err := challenge.NewEmbed(s.gen, s.embedTTL)
	if err != nil {
		return "", challenge.View{}, err
	}
	s.store.Put(c)
	if s.metr != nil {
		s.metr.ChallengeIssued()
	}
	return IssueToken(s.secret, c), challenge.ClientView(c), nil
}

// VerifyStandalone validates and scores a standalone submission, per
// spec.md §4.6's full contract: token → existence → mode → used → expiry →
// shape, atomically consuming the challenge on success before analysis
// runs, so a retry with the same token always sees 409 regardless of how
// analysis turns out.
func (s *Service) VerifyStandalone(sub *StandaloneSubmission, ipHash, userAgent string, now time.Time) (*VerifyResult, *apierr.Error) {
	challengeID, err := parseToken(s.secret, sub.Token)
	if err != nil {
		s.reject(apierr.CodeInvalidToken)
		return nil, err
	}

	c, apiErr := s.store.Consume(challengeID, challenge.ModeStandalone, now, func() *apierr.Error {
		return validateStandaloneShape(sub)
	})
	if apiErr != nil {
		s.reject(apiErr.Code)
		return nil, apiErr
	}

	start := time.Now()
	points := reconstructStandalonePoints(c, *sub.Phases, *sub.Canvas, sub.Pointer)
	accelPoints := toAccelPoints(sub.Accel)
	pulses := standalonePulseWindows(c, sub.Phases.TrackingStart)
	probes := probeSpecs(c.Probes)
	flashes := standaloneFlashes(c, sub.Phases.DualtaskStart)

	results := runPipelines(points, accelPoints, probes, pulses, flashes, sub.InputMethod == "touch",
		cogAnswerArgs(c, sub.CogAnswer))
	verdict := scorer.Score(s.cfg, results)
	elapsed := time.Since(start)

	verified := verdict.Overall >= s.cfg.Thresholds.Biological
	sessionID := newSessionID()
	receipt := IssueReceipt(s.secret, ReceiptPayload{
		ChallengeID: c.ID,
		Mode:        string(challenge.ModeStandalone),
		Verified:    verified,
		Score:       verdict.Overall,
		Verdict:     verdict.Class.Label(),
		VerifiedAt:  now,
	})

	rate, count := sampleRateAndCount(points)
	if s.log != nil {
		s.log.Append(Record{
			ID:               sessionID,
			CreatedAt:        now,
			Mode:             string(challenge.ModeStandalone),
			ChallengeID:      c.ID,
			InputMethod:      sub.InputMethod,
			DeviceType:       deviceTypeFromInputMethod(sub.InputMethod),
			Score:            verdict.Overall,
			Verdict:          verdict.Class.Label(),
			VerdictClass:     string(verdict.Class),
			SubScores:        subScoreMap(verdict.SubScores),
			SampleRateHz:     rate,
			SampleCount:      count,
			ValidMetricCount: verdict.ValidCount,
			IPHash:           ipHash,
			UserAgent:        userAgent,
		})
	}
	if s.metr != nil {
		s.metr.VerifyAccepted(string(challenge.ModeStandalone), string(verdict.Class), elapsed, verdict.ValidCount)
	}

	return &VerifyResult{
		SessionID:        sessionID,
		Verified:         verified,
		Score:            verdict.Overall,
		Verdict:          verdict.Class.Label(),
		Class:            string(verdict.Class),
		Receipt:          receipt,
		SampleRateHz:     rate,
		SampleCount:      count,
		ValidMetricCount: verdict.ValidCount,
	}, nil
}

// VerifyEmbed validates and scores an embed submission.
func (s *Service) VerifyEmbed(sub *EmbedSubmission, ipHash, userAgent string, now time.Time) (*VerifyResult, *apierr.Error) {
	challengeID, err := parseToken(s.secret, sub.Token)
	if err != nil {
		s.reject(apierr.CodeInvalidToken)
		return nil, err
	}

	c, apiErr := s.store.Consume(challengeID, challenge.ModeEmbed, now, func() *apierr.Error {
		return validateEmbedShape(sub)
	})
	if apiErr != nil {
		s.reject(apiErr.Code)
		return nil, apiErr
	}

	start := time.Now()
	rects := make(map[int]Rect, len(sub.Elements))
	for _, e := range sub.Elements {
		rects[e.Index] = e.Rect
	}
	points := reconstructEmbedPoints(c, sub.Pointer, rects)
	accelPoints := toAccelPoints(sub.Accel)
	pulses := embedPulseWindows(c)
	probes := probeSpecs(c.Probes)

	results := runPipelines(points, accelPoints, probes, pulses, nil, sub.InputMethod == "touch", nil)
	verdict := scorer.Score(s.cfg, results)
	elapsed := time.Since(start)

	hoverTimeMs := totalHoverTime(sub.Hovers)
	uniqueElements := countUniqueElements(sub.Hovers)
	plausible := uniqueElements >= 2 && hoverTimeMs >= minHoverMs(sub.DeviceProfile) && len(sub.PulseLog) >= 2

	verified := verdict.Overall >= s.cfg.Thresholds.EmbedVerified
	sessionID := newSessionID()
	receipt := IssueReceipt(s.secret, ReceiptPayload{
		ChallengeID: c.ID,
		Mode:        string(challenge.ModeEmbed),
		Verified:    verified,
		Score:       verdict.Overall,
		Verdict:     verdict.Class.Label(),
		VerifiedAt:  now,
	})

	rate, count := sampleRateAndCount(points)
	if s.log != nil {
		plausibleCopy := plausible
		s.log.Append(Record{
			ID:               sessionID,
			CreatedAt:        now,
			Mode:             string(challenge.ModeEmbed),
			ChallengeID:      c.ID,
			InputMethod:      sub.InputMethod,
			DeviceType:       deviceTypeFromProfile(sub.DeviceProfile),
			Score:            verdict.Overall,
			Verdict:          verdict.Class.Label(),
			VerdictClass:     string(verdict.Class),
			SubScores:        subScoreMap(verdict.SubScores),
			SampleRateHz:     rate,
			SampleCount:      count,
			ValidMetricCount: verdict.ValidCount,
			IPHash:           ipHash,
			UserAgent:        userAgent,
			HoverTimeMs:      hoverTimeMs,
			UniqueElements:   uniqueElements,
			Plausible:        &plausibleCopy,
		})
	}
	if s.metr != nil {
		s.metr.VerifyAccepted(string(challenge.ModeEmbed), string(verdict.Class), elapsed, verdict.ValidCount)
	}

	return &VerifyResult{
		SessionID:        sessionID,
		Verified:         verified,
		Score:            verdict.Overall,
		Verdict:          verdict.Class.Label(),
		Class:            string(verdict.Class),
		Receipt:          receipt,
		SampleRateHz:     rate,
		SampleCount:      count,
		ValidMetricCount: verdict.ValidCount,
		HoverTimeMs:      hoverTimeMs,
		UniqueElements:   uniqueElements,
		Plausible:        plausible,
	}, nil
}

func (s *Service) reject(code apierr.Code) {
	if s.metr != nil {
		s.metr.VerifyRejected(string(code))
	}
}

func newSessionID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return ""
	}
	return id.String()
}

// reconstructStandalonePoints replays the target/perturbation trajectory at
// every reported pointer sample, discarding samples before trackingStart
// per spec.md §4.2.
func reconstructStandalonePoints(c *challenge.Challenge, ph Phases, canvas Canvas, pointer []PointerSample) []analysis.TrackPoint {
	rp := reconstruct.Phases{TrackingStart: ph.TrackingStart, DualtaskStart: ph.DualtaskStart, TestEnd: ph.TestEnd}
	rc := reconstruct.Canvas{Width: canvas.Width, Height: canvas.Height}

	points := make([]analysis.TrackPoint, 0, len(pointer))
	for _, p := range pointer {
		sample, ok := reconstruct.Standalone(c, rp, rc, p.T)
		if !ok {
			continue
		}
		points = append(points, analysis.TrackPoint{
			T: p.T, CursorX: p.X, CursorY: p.Y,
			TargetX: sample.TargetX, TargetY: sample.TargetY,
			PertX: sample.PertX, PertY: sample.PertY,
			IsPulse: sample.IsPulse, PulseIdx: sample.PulseIdx,
		})
	}
	return points
}

// reconstructEmbedPoints replays the perturbation at each sample's
// cumulative hover time and joins it with the hovered element's bounding
// box (reported by the client, since element geometry is page content the
// reconstructor has no knowledge of) to form the full target position.
// TrackPoint.T is set to hoverT, not wallT, so it shares reconstruct.Embed's
// own time axis with PulseWindow.StartMs.
func reconstructEmbedPoints(c *challenge.Challenge, pointer []EmbedPointerSample, rects map[int]Rect) []analysis.TrackPoint {
	points := make([]analysis.TrackPoint, 0, len(pointer))
	for _, p := range pointer {
		rect, ok := rects[p.ElementIdx]
		if !ok {
			continue
		}
		sample := reconstruct.Embed(c, p.HoverT)
		points = append(points, analysis.TrackPoint{
			T: p.HoverT, CursorX: p.X, CursorY: p.Y,
			TargetX: rect.centerX() + sample.PertX,
			TargetY: rect.centerY() + sample.PertY,
			PertX:   sample.PertX, PertY: sample.PertY,
			IsPulse: sample.IsPulse, PulseIdx: sample.PulseIdx,
		})
	}
	return points
}

func toAccelPoints(accel []AccelSample) []analysis.AccelPoint {
	points := make([]analysis.AccelPoint, len(accel))
	for i, a := range accel {
		points[i] = analysis.AccelPoint{T: a.T, Ax: a.Ax, Ay: a.Ay, Az: a.Az}
	}
	return points
}

func probeSpecs(probes []challenge.Probe) []analysis.ProbeSpec {
	specs := make([]analysis.ProbeSpec, len(probes))
	for i, p := range probes {
		specs[i] = analysis.ProbeSpec{Freq: p.Freq, AmpX: p.AmpX}
	}
	return specs
}

// standalonePulseWindows expresses each pulse's start on the same wall-time
// axis as the reported pointer samples.
func standalonePulseWindows(c *challenge.Challenge, trackingStart float64) []analysis.PulseWindow {
	windows := make([]analysis.PulseWindow, len(c.Pulses))
	for i, p := range c.Pulses {
		windows[i] = analysis.PulseWindow{
			Idx: i, StartMs: trackingStart + p.StartMs,
			AmpX: p.AmpX, AmpY: p.AmpY,
			HoldDurationMs: p.HoldDurationMs, ReturnDurationMs: p.ReturnDurationMs,
		}
	}
	return windows
}

// embedPulseWindows uses each pulse's StartMs unchanged: embed pulses are
// already indexed on cumulative hover time from 0, the same axis
// reconstructEmbedPoints assigns to TrackPoint.T.
func embedPulseWindows(c *challenge.Challenge) []analysis.PulseWindow {
	windows := make([]analysis.PulseWindow, len(c.Pulses))
	for i, p := range c.Pulses {
		windows[i] = analysis.PulseWindow{
			Idx: i, StartMs: p.StartMs,
			AmpX: p.AmpX, AmpY: p.AmpY,
			HoldDurationMs: p.HoldDurationMs, ReturnDurationMs: p.ReturnDurationMs,
		}
	}
	return windows
}

// standaloneFlashes expresses each cognitive-task flash's timestamp on the
// same wall-time axis as the reported pointer samples: flash timestamps are
// generated relative to the dualtask phase's own start.
func standaloneFlashes(c *challenge.Challenge, dualtaskStart float64) []analysis.FlashWindow {
	if c.CogTask == nil {
		return nil
	}
	flashes := make([]analysis.FlashWindow, len(c.CogTask.Flashes))
	for i, f := range c.CogTask.Flashes {
		flashes[i] = analysis.FlashWindow{TimestampMs: dualtaskStart + f.TimestampMs, IsTarget: f.IsTarget}
	}
	return flashes
}

type cogAnswer struct {
	trueCorrectCount int
	userAnswer       int
	hasAnswer        bool
}

func cogAnswerArgs(c *challenge.Challenge, answer *int) *cogAnswer {
	if c.CogTask == nil {
		return nil
	}
	a := &cogAnswer{trueCorrectCount: c.CogTask.TargetCount}
	if answer != nil {
		a.userAnswer = *answer
		a.hasAnswer = true
	}
	return a
}

// runPipelines runs seven analysis pipelines (eight when cog is non-nil)
// concurrently via workerpool, then runs minimum jerk on the pulse-response
// detections once the pool has finished, and folds everything into a
// PipelineResults. Pipelines 2 and 3 (cursor and
// accelerometer tremor) both populate distinct fields; the Scorer merges
// them via max.
func runPipelines(points []analysis.TrackPoint, accel []analysis.AccelPoint, probes []analysis.ProbeSpec, pulses []analysis.PulseWindow, flashes []analysis.FlashWindow, isTouch bool, cog *cogAnswer) scorer.PipelineResults {
	var r scorer.PipelineResults
	r.IsTouch = isTouch

	pulseResponse := analysis.PulseResponseResult{}
	jobs := []func(){
		func() { r.TransferFn = analysis.TransferFunction(points, probes) },
		func() { r.CursorTremor = analysis.CursorTremor(points) },
		func() { r.AccelTremor = analysis.AccelTremor(accel) },
		func() { r.OneOverF = analysis.OneOverFNoise(points) },
		func() { r.SignalDepNoise = analysis.SignalDependentNoise(points) },
		func() { r.CrossAxis = analysis.CrossAxisCoupling(points, pulses) },
		func() { pulseResponse = analysis.PulseResponseLatency(points, pulses) },
	}
	if cog != nil {
		jobs = append(jobs, func() {
			r.CogInterference = analysis.CognitiveMotorInterference(points, flashes, cog.trueCorrectCount, cog.userAnswer, cog.hasAnswer)
		})
	}
	workerpool.Run(pipelineWorkers, jobs)

	r.PulseResponse = pulseResponse
	r.MinJerk = analysis.MinimumJerk(pulseResponse.Detections)
	return r
}

func subScoreMap(s scorer.SubScores) map[string]float64 {
	return map[string]float64{
		"transferFn":      s.TransferFn,
		"tremor":          s.Tremor,
		"oneOverF":        s.OneOverF,
		"signalDepNoise":  s.SignalDepNoise,
		"crossAxis":       s.CrossAxis,
		"pulseResponse":   s.PulseResponse,
		"cogInterference": s.CogInterference,
		"minJerk":         s.MinJerk,
	}
}

func sampleRateAndCount(points []analysis.TrackPoint) (float64, int) {
	if len(points) < 2 {
		return 0, len(points)
	}
	span := points[len(points)-1].T - points[0].T
	if span <= 0 {
		return 0, len(points)
	}
	return 1000.0 * float64(len(points)-1) / span, len(points)
}

func totalHoverTime(hovers []Hover) float64 {
	var total float64
	for _, h := range hovers {
		total += h.EndWall - h.StartWall
	}
	return total
}

// deviceTypeFromInputMethod classifies a standalone submission's reported
// input method into the coarse device-type buckets the admin aggregator
// groups by.
func deviceTypeFromInputMethod(inputMethod string) string {
	switch inputMethod {
	case "touch":
		return "touch"
	case "mouse", "trackpad":
		return "desktop"
	default:
		return "unknown"
	}
}

// deviceTypeFromProfile uses an embed submission's self-reported device
// profile directly, since it already names the bucket.
func deviceTypeFromProfile(deviceProfile string) string {
	if deviceProfile == "" {
		return "unknown"
	}
	return deviceProfile
}

func countUniqueElements(hovers []Hover) int {
	seen := make(map[int]struct{})
	for _, h := range hovers {
		seen[h.ElemIdx] = struct{}{}
	}
	return len(seen)
}
