package challenge_test

import (
	"testing"
	"time"

	"github.com/glyphwatch/clnp/challenge"
)

func newGenerator(t *testing.T) *challenge.Generator {
	t.Helper()
	g, err := challenge.NewGenerator()
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return g
}

func TestNewStandalone_ProbesAscendingAndNonEmpty(t *testing.T) {
	g := newGenerator(t)
	c, err := challenge.NewStandalone(g, time.Minute)
	if err != nil {
		t.Fatalf("NewStandalone: %v", err)
	}
	if len(c.Probes) != 5 {
		t.Fatalf("expected 5 probes, got %d", len(c.Probes))
	}
	for i := 1; i < len(c.Probes); i++ {
		if c.Probes[i].Freq <= c.Probes[i-1].Freq {
			t.Errorf("probe frequencies not strictly ascending at %d: %v <= %v", i, c.Probes[i].Freq, c.Probes[i-1].Freq)
		}
	}
}

func TestNewStandalone_PulsesWithinTrackingWindow(t *testing.T) {
	g := newGenerator(t)
	c, err := challenge.NewStandalone(g, time.Minute)
	if err != nil {
		t.Fatalf("NewStandalone: %v", err)
	}
	if len(c.Pulses) < 4 || len(c.Pulses) >= 8 {
		t.Fatalf("pulse count out of [4,8): %d", len(c.Pulses))
	}
	for i, p := range c.Pulses {
		if p.StartMs < 2800 || p.StartMs >= c.TrackingDurationMs {
			t.Errorf("pulse %d offset %v outside [2800, %v)", i, p.StartMs, c.TrackingDurationMs)
		}
		if i > 0 && p.StartMs <= c.Pulses[i-1].StartMs {
			t.Errorf("pulse %d offset %v not increasing after %v", i, p.StartMs, c.Pulses[i-1].StartMs)
		}
	}
}

func TestNewStandalone_CogTaskTargetCount(t *testing.T) {
	g := newGenerator(t)
	c, err := challenge.NewStandalone(g, time.Minute)
	if err != nil {
		t.Fatalf("NewStandalone: %v", err)
	}
	if c.CogTask == nil {
		t.Fatal("expected cog task for standalone challenge")
	}
	if len(c.CogTask.Flashes) != 8 {
		t.Fatalf("expected 8 flashes, got %d", len(c.CogTask.Flashes))
	}
	targets := 0
	for _, f := range c.CogTask.Flashes {
		if f.IsTarget {
			targets++
		}
		if f.IsTarget && f.Color != c.CogTask.TargetColor {
			t.Errorf("target flash has non-target color %q", f.Color)
		}
	}
	if targets != c.CogTask.TargetCount {
		t.Errorf("counted %d isTarget flashes, want %d", targets, c.CogTask.TargetCount)
	}
	if targets < 2 || targets > 5 {
		t.Errorf("targetCount %d outside [2,5]", targets)
	}
}

func TestNewEmbed_SubPerceptualAmplitudes(t *testing.T) {
	g := newGenerator(t)
	standalone, err := challenge.NewStandalone(g, time.Minute)
	if err != nil {
		t.Fatalf("NewStandalone: %v", err)
	}
	embed, err := challenge.NewEmbed(g, 2*time.Minute)
	if err != nil {
		t.Fatalf("NewEmbed: %v", err)
	}
	if embed.Mode != challenge.ModeEmbed {
		t.Errorf("mode = %v, want embed", embed.Mode)
	}
	if embed.CogTask != nil {
		t.Error("embed challenge must not carry a cog task")
	}
	for _, p := range embed.Probes {
		if p.AmpX >= 1 || p.AmpY >= 1 {
			t.Errorf("embed probe amplitude not sub-perceptual: %+v", p)
		}
	}
	// Sanity: standalone probes should be in the integer-pixel range, not
	// sub-perceptual, confirming the two modes draw from different pools.
	for _, p := range standalone.Probes {
		if p.AmpX < 1 {
			t.Errorf("standalone probe amplitude unexpectedly sub-perceptual: %+v", p)
		}
	}
}

func TestClientView_StripsScoringSecrets(t *testing.T) {
	g := newGenerator(t)
	c, err := challenge.NewStandalone(g, time.Minute)
	if err != nil {
		t.Fatalf("NewStandalone: %v", err)
	}
	v := challenge.ClientView(c)
	if len(v.CogFlashes) != len(c.CogTask.Flashes) {
		t.Fatalf("flash count mismatch: %d vs %d", len(v.CogFlashes), len(c.CogTask.Flashes))
	}
	// View's flash type has no IsTarget field; this is a compile-time
	// guarantee, not a runtime one, so just confirm the color/timestamp
	// round-trip instead.
	for i, f := range v.CogFlashes {
		if f.Color != c.CogTask.Flashes[i].Color {
			t.Errorf("flash %d color mismatch", i)
		}
	}
}

func TestChallenge_IsExpired(t *testing.T) {
	c := &challenge.Challenge{ExpiresAt: time.Now().Add(-time.Second)}
	if !c.IsExpired(time.Now()) {
		t.Error("expected challenge to be expired")
	}
	c2 := &challenge.Challenge{ExpiresAt: time.Now().Add(time.Minute)}
	if c2.IsExpired(time.Now()) {
		t.Error("expected challenge to not be expired")
	}
}
