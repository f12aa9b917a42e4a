package challenge

// View is the public subset of a Challenge sent to the client: everything
// needed to render the page and apply the perturbation, nothing needed to
// score the response.
type View struct {
	ID   string `json:"id"`
	Mode Mode   `json:"mode"`

	FreeMoveDurationMs float64 `json:"freeMoveDurationMs,omitempty"`
	TrackingDurationMs float64 `json:"trackingDurationMs,omitempty"`
	DualtaskDurationMs float64 `json:"dualtaskDurationMs,omitempty"`

	Path   *PathParams `json:"path,omitempty"`
	Probes []Probe     `json:"probes"`
	Pulses []PulseView `json:"pulses"`

	CogFlashes []CogFlashView `json:"cogFlashes,omitempty"`
}

// PulseView strips nothing from Pulse today, but exists as its own type so
// a future server-only field on Pulse doesn't leak to the client by default.
type PulseView struct {
	StartMs          float64 `json:"startMs"`
	AmpX             float64 `json:"ampX"`
	AmpY             float64 `json:"ampY"`
	HoldDurationMs   float64 `json:"holdDurationMs"`
	ReturnDurationMs float64 `json:"returnDurationMs"`
}

// CogFlashView omits IsTarget: the client must answer how many target
// flashes it saw, not be told which ones they were.
type CogFlashView struct {
	Color       string  `json:"color"`
	TimestampMs float64 `json:"timestampMs"`
}

// ClientView reduces c to the fields a client needs, dropping every
// scoring secret: targetColor, targetCount, and each flash's isTarget.
func ClientView(c *Challenge) View {
	v := View{
		ID:   c.ID,
		Mode: c.Mode,
	}

	pulses := make([]PulseView, len(c.Pulses))
	for i, p := range c.Pulses {
		pulses[i] = PulseView{
			StartMs:          p.StartMs,
			AmpX:             p.AmpX,
			AmpY:             p.AmpY,
			HoldDurationMs:   p.HoldDurationMs,
			ReturnDurationMs: p.ReturnDurationMs,
		}
	}
	v.Pulses = pulses
	v.Probes = append([]Probe(nil), c.Probes...)

	if c.Mode == ModeStandalone {
		v.FreeMoveDurationMs = c.FreeMoveDurationMs
		v.TrackingDurationMs = c.TrackingDurationMs
		v.DualtaskDurationMs = c.DualtaskDurationMs
		path := c.Path
		v.Path = &path

		if c.CogTask != nil {
			flashes := make([]CogFlashView, len(c.CogTask.Flashes))
			for i, f := range c.CogTask.Flashes {
				flashes[i] = CogFlashView{Color: f.Color, TimestampMs: f.TimestampMs}
			}
			v.CogFlashes = flashes
		}
	}

	return v
}
