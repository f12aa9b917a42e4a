package reconstruct_test

import (
	"math"
	"testing"
	"time"

	"github.com/glyphwatch/clnp/challenge"
	"github.com/glyphwatch/clnp/reconstruct"
)

func newChallenge(t *testing.T) *challenge.Challenge {
	t.Helper()
	g, err := challenge.NewGenerator()
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	c, err := challenge.NewStandalone(g, time.Minute)
	if err != nil {
		t.Fatalf("NewStandalone: %v", err)
	}
	return c
}

func TestStandalone_SmoothPathAtOriginIsCenter(t *testing.T) {
	c := newChallenge(t)
	c.Probes = nil
	c.Pulses = nil
	ph := reconstruct.Phases{TrackingStart: 1000, DualtaskStart: 1000 + c.TrackingDurationMs, TestEnd: 0}
	canvas := reconstruct.Canvas{Width: 800, Height: 600}

	s, ok := reconstruct.Standalone(c, ph, canvas, ph.TrackingStart)
	if !ok {
		t.Fatal("expected sample at trackingStart")
	}
	// pathTime=0 => sin(phase) term for X is sin(phase) not necessarily 0,
	// but Y has no phase offset so sin(0)=0 at cy exactly.
	if math.Abs(s.TargetY-canvas.Height/2) > 1e-9 {
		t.Errorf("targetY at pathTime=0 = %v, want %v", s.TargetY, canvas.Height/2)
	}
}

func TestStandalone_DeterministicAcrossCalls(t *testing.T) {
	c := newChallenge(t)
	ph := reconstruct.Phases{TrackingStart: 500, DualtaskStart: 500 + c.TrackingDurationMs}
	canvas := reconstruct.Canvas{Width: 1000, Height: 800}

	t1 := ph.TrackingStart + 3456
	s1, ok1 := reconstruct.Standalone(c, ph, canvas, t1)
	s2, ok2 := reconstruct.Standalone(c, ph, canvas, t1)
	if !ok1 || !ok2 {
		t.Fatal("expected valid samples")
	}
	if s1 != s2 {
		t.Errorf("reconstruct not bit-identical across calls: %+v vs %+v", s1, s2)
	}
}

func TestStandalone_DiscardsBeforeTrackingStart(t *testing.T) {
	c := newChallenge(t)
	ph := reconstruct.Phases{TrackingStart: 1000, DualtaskStart: 1000 + c.TrackingDurationMs}
	canvas := reconstruct.Canvas{Width: 800, Height: 600}

	_, ok := reconstruct.Standalone(c, ph, canvas, 999)
	if ok {
		t.Error("expected sample before trackingStart to be discarded")
	}
}

func TestPulseContinuity_HoldReturnBoundary(t *testing.T) {
	c := &challenge.Challenge{
		Pulses: []challenge.Pulse{{StartMs: 0, AmpX: 20, HoldDurationMs: 600, ReturnDurationMs: 200}},
	}
	ph := reconstruct.Phases{TrackingStart: 0, DualtaskStart: 1e9}
	canvas := reconstruct.Canvas{Width: 800, Height: 600}

	atHoldEnd, _ := reconstruct.Standalone(c, ph, canvas, 600)
	justAfter, _ := reconstruct.Standalone(c, ph, canvas, 600.0001)

	if math.Abs(atHoldEnd.PertX-justAfter.PertX) > 1e-3 {
		t.Errorf("discontinuity at hold/return boundary: %v vs %v", atHoldEnd.PertX, justAfter.PertX)
	}
	if math.Abs(atHoldEnd.PertX-20) > 1e-9 {
		t.Errorf("pert at hold end = %v, want 20 (full amplitude)", atHoldEnd.PertX)
	}
}

func TestPulseContribution_DecaysToZero(t *testing.T) {
	c := &challenge.Challenge{
		Pulses: []challenge.Pulse{{StartMs: 0, AmpX: 20, HoldDurationMs: 600, ReturnDurationMs: 200}},
	}
	ph := reconstruct.Phases{TrackingStart: 0, DualtaskStart: 1e9}
	canvas := reconstruct.Canvas{Width: 800, Height: 600}

	atReturnEnd, _ := reconstruct.Standalone(c, ph, canvas, 799.999)
	if atReturnEnd.PertX <= 0 || atReturnEnd.PertX >= 20 {
		t.Errorf("pert just before return end should be a small positive residual, got %v", atReturnEnd.PertX)
	}

	afterReturn, ok := reconstruct.Standalone(c, ph, canvas, 800.1)
	if !ok {
		t.Fatal("expected valid sample")
	}
	if afterReturn.PertX != 0 {
		t.Errorf("pert after return window should be 0, got %v", afterReturn.PertX)
	}
	if afterReturn.IsPulse {
		t.Error("isPulse should be false once fully past hold+return")
	}
}

func TestEmbed_Deterministic(t *testing.T) {
	g, err := challenge.NewGenerator()
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	c, err := challenge.NewEmbed(g, time.Minute)
	if err != nil {
		t.Fatalf("NewEmbed: %v", err)
	}

	s1 := reconstruct.Embed(c, 4000)
	s2 := reconstruct.Embed(c, 4000)
	if s1 != s2 {
		t.Errorf("embed reconstruct not deterministic: %+v vs %+v", s1, s2)
	}
}
