package challenge

import (
	"time"

	"github.com/google/uuid"
)

// NewEmbed builds a new embed-mode challenge: sub-perceptual probe and
// pulse amplitudes layered onto real page elements, indexed on cumulative
// hover time rather than wall-clock phases. TTL is double the standalone
// TTL since embed sessions accumulate hover time over normal page use
// rather than a dedicated test page.
func NewEmbed(g *Generator, ttl time.Duration) (*Challenge, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	return &Challenge{
		ID:        id.String(),
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
		Mode:      ModeEmbed,

		Probes: g.embedProbes(),
		Pulses: g.embedPulses(),
	}, nil
}
