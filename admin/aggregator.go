// Package admin reads the append-only session log and turns it into the
// aggregate statistics and paginated listings spec.md §4.7 calls the Admin
// Aggregator. It is a pure reader: the session log's writer (session.Log)
// is a separate, independently-locked collaborator.
package admin

import (
	"bufio"
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/glyphwatch/clnp/apierr"
	"github.com/glyphwatch/clnp/session"
)

// scoreHistogramBuckets is the number of equal-width [0,1] score buckets
// spec.md §4.7 requires.
const scoreHistogramBuckets = 10

// dailyHistogramDays bounds how many trailing days the daily count
// histogram covers.
const dailyHistogramDays = 30

// Aggregator computes statistics and listings by scanning the session log
// line-by-line on every call, tolerating and skipping malformed lines, per
// spec.md §4.7. It holds no cache: the log is small enough (JSONL, one
// process) that a full scan per admin request is simpler than keeping a
// second source of truth in sync.
type Aggregator struct {
	logPath string
}

// New creates an Aggregator reading logPath on demand.
func New(logPath string) *Aggregator {
	return &Aggregator{logPath: logPath}
}

// scanRecords reads every well-formed line of the log, invoking fn for
// each. Malformed lines are silently skipped per spec.md §4.7. A missing
// log file (no verifies have happened yet) is treated as empty, not an
// error.
func (a *Aggregator) scanRecords(fn func(session.Record)) error {
	f, err := os.Open(a.logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for scanner.Scan() {
		var rec session.Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		fn(rec)
	}
	return scanner.Err()
}

// MetricStat is a streaming [mean, min, max] summary over one sub-score
// metric for one device type, the SPEC_FULL.md extension of spec.md §4.7's
// "per-device-type per-metric average".
type MetricStat struct {
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

func (m *MetricStat) observe(v float64) {
	if m.Count == 0 {
		m.Min, m.Max = v, v
	} else {
		if v < m.Min {
			m.Min = v
		}
		if v > m.Max {
			m.Max = v
		}
	}
	m.Mean = (m.Mean*float64(m.Count) + v) / float64(m.Count+1)
	m.Count++
}

// Stats is the complete response for GET /api/admin/stats.
type Stats struct {
	Total    int `json:"total"`
	Today    int `json:"today"`
	LastHour int `json:"lastHour"`

	DailyHistogram     map[string]int             `json:"dailyHistogram"`
	DeviceTypeCounts   map[string]int             `json:"deviceTypeCounts"`
	VerdictClassCounts map[string]int             `json:"verdictClassCounts"`
	ModeCounts         map[string]int             `json:"modeCounts"`
	ScoreHistogram     [scoreHistogramBuckets]int `json:"scoreHistogram"`

	DeviceMetricAverages map[string]map[string]MetricStat `json:"deviceMetricAverages"`
}

// Stats computes the aggregate statistics spec.md §4.7 (plus the SPEC_FULL
// min/max extension) describes, as of now.
func (a *Aggregator) Stats(now time.Time) (Stats, error) {
	stats := Stats{
		DailyHistogram:       make(map[string]int),
		DeviceTypeCounts:     make(map[string]int),
		VerdictClassCounts:   make(map[string]int),
		ModeCounts:           make(map[string]int),
		DeviceMetricAverages: make(map[string]map[string]MetricStat),
	}

	today := now.Format("2006-01-02")
	hourAgo := now.Add(-time.Hour)
	histFloor := now.AddDate(0, 0, -dailyHistogramDays)

	err := a.scanRecords(func(rec session.Record) {
		stats.Total++
		if rec.CreatedAt.Format("2006-01-02") == today {
			stats.Today++
		}
		if rec.CreatedAt.After(hourAgo) {
			stats.LastHour++
		}
		if rec.CreatedAt.After(histFloor) {
			day := rec.CreatedAt.Format("2006-01-02")
			stats.DailyHistogram[day]++
		}
		stats.DeviceTypeCounts[rec.DeviceType]++
		stats.VerdictClassCounts[rec.VerdictClass]++
		stats.ModeCounts[rec.Mode]++

		bucket := int(rec.Score * scoreHistogramBuckets)
		if bucket < 0 {
			bucket = 0
		}
		if bucket >= scoreHistogramBuckets {
			bucket = scoreHistogramBuckets - 1
		}
		stats.ScoreHistogram[bucket]++

		device := stats.DeviceMetricAverages[rec.DeviceType]
		if device == nil {
			device = make(map[string]MetricStat)
		}
		for metric, value := range rec.SubScores {
			stat := device[metric]
			stat.observe(value)
			device[metric] = stat
		}
		stats.DeviceMetricAverages[rec.DeviceType] = device
	})
	return stats, err
}

// SessionRow is one lightweight row of GET /api/admin/sessions.
type SessionRow struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	Mode         string    `json:"mode"`
	Score        float64   `json:"score"`
	VerdictClass string    `json:"verdictClass"`
	DeviceType   string    `json:"deviceType"`
}

// Sessions returns up to limit rows, newest-first, skipping the first
// offset.
func (a *Aggregator) Sessions(limit, offset int) ([]SessionRow, error) {
	var rows []SessionRow
	err := a.scanRecords(func(rec session.Record) {
		rows = append(rows, SessionRow{
			ID:           rec.ID,
			CreatedAt:    rec.CreatedAt,
			Mode:         rec.Mode,
			Score:        rec.Score,
			VerdictClass: rec.VerdictClass,
			DeviceType:   rec.DeviceType,
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })

	if offset >= len(rows) {
		return []SessionRow{}, nil
	}
	end := offset + limit
	if end > len(rows) || limit <= 0 {
		end = len(rows)
	}
	return rows[offset:end], nil
}

// Session returns the full record for id, or apierr.CodeSessionNotFound if
// no record with that id exists in the log.
func (a *Aggregator) Session(id string) (*session.Record, error) {
	var found *session.Record
	err := a.scanRecords(func(rec session.Record) {
		if found == nil && rec.ID == id {
			r := rec
			found = &r
		}
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, apierr.New(apierr.CodeSessionNotFound, "session not found")
	}
	return found, nil
}
