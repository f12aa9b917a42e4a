package challenge

import (
	"math"
	"time"

	"github.com/google/uuid"
)

const (
	freeMoveDurationMs = 5000
	pathPhaseDenom     = 4 // path.phase centers on pi/4
)

// NewStandalone builds a new full-page challenge: a 5 s free-move warm-up,
// an 18-22 s tracking phase with a Lissajous path, sinusoidal probes and a
// pulse schedule, and a 10-14 s dual-task phase carrying a cognitive flash
// task. The id is drawn from crypto/rand via uuid.NewRandom;
// everything else comes from g's parameter PRNG.
func NewStandalone(g *Generator, ttl time.Duration) (*Challenge, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	trackingDurationMs := g.uniform(18000, 22000)
	dualtaskDurationMs := g.uniform(10000, 14000)
	pair := lissajousPathPairs[g.uniformInt(0, len(lissajousPathPairs))]

	now := time.Now()
	return &Challenge{
		ID:        id.String(),
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
		Mode:      ModeStandalone,

		FreeMoveDurationMs: freeMoveDurationMs,
		TrackingDurationMs: trackingDurationMs,
		DualtaskDurationMs: dualtaskDurationMs,

		Path: PathParams{
			FreqX:   pair.FreqX,
			FreqY:   pair.FreqY,
			Phase:   math.Pi/pathPhaseDenom + g.uniform(-0.5, 0.5),
			Padding: pathPadding,
		},

		Probes:  g.standaloneProbes(),
		Pulses:  g.standalonePulses(trackingDurationMs),
		CogTask: g.cogTask(dualtaskDurationMs),
	}, nil
}
