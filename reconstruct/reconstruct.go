// Package reconstruct rebuilds the target/perturbation trajectory a client
// should have been tracking at any sample time, using only server-held
// challenge parameters. It never trusts a client-reported position.
package reconstruct

import (
	"math"

	"github.com/glyphwatch/clnp/challenge"
)

// Phases carries the wall-clock phase boundaries a standalone submission
// reports, all in the same time base as its pointer samples.
type Phases struct {
	TrackingStart float64
	DualtaskStart float64
	TestEnd       float64
}

// Canvas is the client viewport size in pixels.
type Canvas struct {
	Width  float64
	Height float64
}

// Sample is the full reconstructed state at one sample time: the smooth
// target position, the perturbation vector added to it, and whether a pulse
// was active.
type Sample struct {
	TargetX, TargetY float64
	PertX, PertY     float64
	IsPulse          bool
	PulseIdx         int
}

// Standalone reconstructs the target/perturbation state at wall time t for
// a standalone challenge. Samples before phases.TrackingStart are not
// meaningful; callers should discard them (ok reports this).
func Standalone(c *challenge.Challenge, ph Phases, canvas Canvas, t float64) (Sample, bool) {
	if t < ph.TrackingStart {
		return Sample{}, false
	}

	var pathTime float64
	if t < ph.DualtaskStart {
		pathTime = t - ph.TrackingStart
	} else {
		pathTime = c.TrackingDurationMs + (t - ph.DualtaskStart)
	}

	cx, cy := canvas.Width/2, canvas.Height/2
	ax, ay := canvas.Width*c.Path.Padding, canvas.Height*c.Path.Padding

	targetX := cx + ax*math.Sin(2*math.Pi*c.Path.FreqX*pathTime/1000+c.Path.Phase)
	targetY := cy + ay*math.Sin(2*math.Pi*c.Path.FreqY*pathTime/1000)

	elapsed := (t - ph.TrackingStart) / 1000
	pertX, pertY := probePerturbation(c.Probes, elapsed)

	pulsePertX, pulsePertY, isPulse, pulseIdx := pulseContribution(c.Pulses, t, ph.TrackingStart)
	pertX += pulsePertX
	pertY += pulsePertY

	return Sample{
		TargetX:  targetX + pertX,
		TargetY:  targetY + pertY,
		PertX:    pertX,
		PertY:    pertY,
		IsPulse:  isPulse,
		PulseIdx: pulseIdx,
	}, true
}

// Embed reconstructs the target/perturbation state at cumulative hover time
// hoverT for an embed challenge. Embed mode has no smooth path: the target
// is wherever the hovered element sits, perturbed by probes and pulses
// indexed on hoverT directly.
func Embed(c *challenge.Challenge, hoverT float64) Sample {
	pertX, pertY := probePerturbation(c.Probes, hoverT/1000)
	pulsePertX, pulsePertY, isPulse, pulseIdx := pulseContribution(c.Pulses, hoverT, 0)
	pertX += pulsePertX
	pertY += pulsePertY

	return Sample{
		PertX:    pertX,
		PertY:    pertY,
		IsPulse:  isPulse,
		PulseIdx: pulseIdx,
	}
}

func probePerturbation(probes []challenge.Probe, elapsedSec float64) (px, py float64) {
	for _, p := range probes {
		phase := 2 * math.Pi * p.Freq * elapsedSec
		px += p.AmpX * math.Sin(phase)
		py += p.AmpY * math.Sin(phase+p.PhaseOffset)
	}
	return px, py
}

// pulseContribution sums every pulse's displacement at absolute time t,
// where each pulse's start is origin+pulse.StartMs. origin is
// phases.TrackingStart for standalone and 0 for embed, since embed pulses
// are already indexed on the hover-time axis directly.
func pulseContribution(pulses []challenge.Pulse, t, origin float64) (px, py float64, isPulse bool, pulseIdx int) {
	pulseIdx = -1
	for i, p := range pulses {
		start := origin + p.StartMs
		dt := t - start
		switch {
		case dt >= 0 && dt < p.HoldDurationMs:
			px += p.AmpX
			py += p.AmpY
			isPulse = true
			pulseIdx = i
		case dt >= p.HoldDurationMs && dt < p.HoldDurationMs+p.ReturnDurationMs:
			frac := (dt - p.HoldDurationMs) / p.ReturnDurationMs
			decay := 1 - frac*frac
			px += p.AmpX * decay
			py += p.AmpY * decay
		}
	}
	return px, py, isPulse, pulseIdx
}
