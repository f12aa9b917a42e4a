package session_test

import (
	"testing"
	"time"

	"github.com/glyphwatch/clnp/apierr"
	"github.com/glyphwatch/clnp/challenge"
	"github.com/glyphwatch/clnp/scorer"
	"github.com/glyphwatch/clnp/session"
)

func newService(t *testing.T) (*session.Service, *session.Store) {
	t.Helper()
	gen, err := challenge.NewGenerator()
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	store := session.NewStore()
	svc := session.NewService(gen, store, scorer.DefaultConfig(), []byte("test-secret"), nil, nil, nil, time.Minute, 2*time.Minute)
	return svc, store
}

func TestVerifyStandaloneRejectsInvalidToken(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.VerifyStandalone(&session.StandaloneSubmission{Token: "garbage"}, "iphash", "ua", time.Now())
	if err == nil || err.Code != apierr.CodeInvalidToken {
		t.Errorf("got %v, want CodeInvalidToken", err)
	}
}

func TestVerifyStandaloneRejectsEmbedToken(t *testing.T) {
	svc, _ := newService(t)
	token, _, err := svc.IssueEmbed()
	if err != nil {
		t.Fatalf("IssueEmbed: %v", err)
	}

	_, apiErr := svc.VerifyStandalone(&session.StandaloneSubmission{Token: token}, "iphash", "ua", time.Now())
	if apiErr == nil || apiErr.Code != apierr.CodeWrongChallengeMode {
		t.Errorf("got %v, want CodeWrongChallengeMode", apiErr)
	}
}

func TestVerifyStandaloneRejectsShortPointerTrace(t *testing.T) {
	svc, _ := newService(t)
	token, _, err := svc.IssueStandalone()
	if err != nil {
		t.Fatalf("IssueStandalone: %v", err)
	}

	sub := &session.StandaloneSubmission{
		Token:   token,
		Pointer: []session.PointerSample{{T: 0, X: 0, Y: 0}},
		Phases:  &session.Phases{},
		Canvas:  &session.Canvas{Width: 800, Height: 600},
	}
	_, apiErr := svc.VerifyStandalone(sub, "iphash", "ua", time.Now())
	if apiErr == nil || apiErr.Code != apierr.CodeInsufficientPointer {
		t.Errorf("got %v, want CodeInsufficientPointer", apiErr)
	}
}

func TestVerifyStandaloneRejectsReplay(t *testing.T) {
	svc, _ := newService(t)
	token, view, err := svc.IssueStandalone()
	if err != nil {
		t.Fatalf("IssueStandalone: %v", err)
	}

	sub := buildStandaloneSubmission(token, view)

	if _, apiErr := svc.VerifyStandalone(sub, "iphash", "ua", time.Now()); apiErr != nil {
		t.Fatalf("first verify: %v", apiErr)
	}
	_, apiErr := svc.VerifyStandalone(sub, "iphash", "ua", time.Now())
	if apiErr == nil || apiErr.Code != apierr.CodeChallengeAlreadyUsed {
		t.Errorf("replay got %v, want CodeChallengeAlreadyUsed", apiErr)
	}
}

func TestVerifyStandaloneHappyPathProducesReceipt(t *testing.T) {
	svc, _ := newService(t)
	token, view, err := svc.IssueStandalone()
	if err != nil {
		t.Fatalf("IssueStandalone: %v", err)
	}

	sub := buildStandaloneSubmission(token, view)
	result, apiErr := svc.VerifyStandalone(sub, "iphash", "ua", time.Now())
	if apiErr != nil {
		t.Fatalf("VerifyStandalone: %v", apiErr)
	}
	if result.Receipt == "" {
		t.Error("expected non-empty receipt")
	}
	if result.SessionID == "" {
		t.Error("expected non-empty session id")
	}
	if result.SampleCount == 0 {
		t.Error("expected non-zero sample count")
	}
}

func TestVerifyEmbedRejectsMissingElements(t *testing.T) {
	svc, _ := newService(t)
	token, _, err := svc.IssueEmbed()
	if err != nil {
		t.Fatalf("IssueEmbed: %v", err)
	}

	pointer := make([]session.EmbedPointerSample, 40)
	sub := &session.EmbedSubmission{Token: token, Pointer: pointer}
	_, apiErr := svc.VerifyEmbed(sub, "iphash", "ua", time.Now())
	if apiErr == nil || apiErr.Code != apierr.CodeMissingElements {
		t.Errorf("got %v, want CodeMissingElements", apiErr)
	}
}

// buildStandaloneSubmission constructs a structurally-valid submission: a
// cursor trace held at a fixed point for the whole tracking phase at
// 60Hz, sufficient to pass the shape floor and exercise every pipeline
// without asserting on the resulting score (that is the scorer package's
// and analysis package's concern, not the Session Service's).
func buildStandaloneSubmission(token string, view challenge.View) *session.StandaloneSubmission {
	const trackingStart = 1000.0
	trackingDuration := view.TrackingDurationMs
	dualtaskStart := trackingStart + trackingDuration

	var pointer []session.PointerSample
	for tMs := 0.0; tMs < trackingDuration; tMs += 1000.0 / 60 {
		pointer = append(pointer, session.PointerSample{
			T: trackingStart + tMs,
			X: 400, Y: 300, // exact values don't matter for shape validation
		})
	}

	return &session.StandaloneSubmission{
		Token:   token,
		Pointer: pointer,
		Phases: &session.Phases{
			TrackingStart: trackingStart,
			DualtaskStart: dualtaskStart,
			TestEnd:       dualtaskStart + view.DualtaskDurationMs,
		},
		Canvas:      &session.Canvas{Width: 800, Height: 600},
		InputMethod: "mouse",
	}
}
