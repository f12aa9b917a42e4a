package session

// PointerSample is one (t, x, y) pointer observation from a standalone
// submission, t in ms since navigation start.
type PointerSample struct {
	T float64 `json:"t"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// AccelSample is one (t, ax, ay, az) accelerometer observation, shared by
// both submission modes.
type AccelSample struct {
	T  float64 `json:"t"`
	Ax float64 `json:"ax"`
	Ay float64 `json:"ay"`
	Az float64 `json:"az"`
}

// Phases carries the standalone phase boundaries in the same time base as
// Pointer.
type Phases struct {
	TrackingStart float64 `json:"trackingStart"`
	DualtaskStart float64 `json:"dualtaskStart"`
	TestEnd       float64 `json:"testEnd"`
}

// Canvas is the client viewport size in px.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

const standalonePointerFloor = 50

// StandaloneSubmission is the decoded body of POST /api/verify.
type StandaloneSubmission struct {
	Token       string          `json:"token"`
	Pointer     []PointerSample `json:"pointer"`
	Accel       []AccelSample   `json:"accel"`
	Phases      *Phases         `json:"phases"`
	Canvas      *Canvas         `json:"canvas"`
	InputMethod string          `json:"inputMethod"`
	CogAnswer   *int            `json:"cogAnswer"`
}

// EmbedPointerSample is one pointer observation from an embed submission:
// wall time, cumulative hover time, position, and which tracked element it
// fell within.
type EmbedPointerSample struct {
	WallT      float64 `json:"wallT"`
	HoverT     float64 `json:"hoverT"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	ElementIdx int     `json:"elementIdx"`
}

// Hover is one (enter, leave) dwell interval over a tracked element, in
// both wall time and cumulative hover time.
type Hover struct {
	ElemIdx    int     `json:"elemIdx"`
	StartWall  float64 `json:"startWall"`
	EndWall    float64 `json:"endWall"`
	StartHover float64 `json:"startHover"`
	EndHover   float64 `json:"endHover"`
}

// PulseLogEntry records one pulse the client believes it applied, used only
// to corroborate the embed "plausible" flag (spec.md §9's Open Questions).
type PulseLogEntry struct {
	PulseIdx           int     `json:"pulseIdx"`
	TriggeredAtHoverMs float64 `json:"triggeredAtHoverMs"`
}

// Rect is an element's bounding box in page coordinates.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// ElementRect pairs a tracked element's index with its bounding box.
type ElementRect struct {
	Index int  `json:"index"`
	Rect  Rect `json:"rect"`
}

func (r Rect) centerX() float64 { return r.X + r.W/2 }
func (r Rect) centerY() float64 { return r.Y + r.H/2 }

const embedPointerFloor = 30

// EmbedSubmission is the decoded body of POST /api/embed/verify.
type EmbedSubmission struct {
	Token         string                `json:"token"`
	Pointer       []EmbedPointerSample  `json:"pointer"`
	Accel         []AccelSample         `json:"accel"`
	Hovers        []Hover               `json:"hovers"`
	PulseLog      []PulseLogEntry       `json:"pulseLog"`
	Elements      []ElementRect         `json:"elements"`
	InputMethod   string                `json:"inputMethod"`
	DeviceProfile string                `json:"deviceProfile"`
}
