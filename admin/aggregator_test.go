package admin_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glyphwatch/clnp/admin"
	"github.com/glyphwatch/clnp/apierr"
	"github.com/glyphwatch/clnp/session"
)

func writeLog(t *testing.T, recs []session.Record) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sessions.jsonl")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create log: %v", err)
	}
	defer f.Close()

	for _, r := range recs {
		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("marshal record: %v", err)
		}
		if _, err := f.Write(append(data, '\n')); err != nil {
			t.Fatalf("write record: %v", err)
		}
	}
	// One malformed trailing line must be skipped, not fail the scan.
	if _, err := f.WriteString("{not valid json\n"); err != nil {
		t.Fatalf("write malformed line: %v", err)
	}
	return path
}

func TestAggregatorStatsOnMissingLogIsEmpty(t *testing.T) {
	a := admin.New(filepath.Join(t.TempDir(), "missing.jsonl"))
	stats, err := a.Stats(time.Now())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 0 {
		t.Errorf("Total = %d, want 0", stats.Total)
	}
}

func TestAggregatorStatsAggregates(t *testing.T) {
	now := time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC)
	recs := []session.Record{
		{ID: "a", CreatedAt: now, Mode: "standalone", DeviceType: "desktop", VerdictClass: "BIOLOGICAL", Score: 0.9, SubScores: map[string]float64{"transferFn": 0.8}},
		{ID: "b", CreatedAt: now.Add(-2 * time.Hour), Mode: "embed", DeviceType: "desktop", VerdictClass: "UNCERTAIN", Score: 0.5, SubScores: map[string]float64{"transferFn": 0.4}},
		{ID: "c", CreatedAt: now.Add(-48 * time.Hour), Mode: "standalone", DeviceType: "touch", VerdictClass: "NON-BIOLOGICAL", Score: 0.1, SubScores: map[string]float64{"transferFn": 0.1}},
	}
	path := writeLog(t, recs)
	a := admin.New(path)

	stats, err := a.Stats(now)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("Total = %d, want 3", stats.Total)
	}
	if stats.Today != 2 {
		t.Errorf("Today = %d, want 2", stats.Today)
	}
	if stats.LastHour != 1 {
		t.Errorf("LastHour = %d, want 1", stats.LastHour)
	}
	if stats.DeviceTypeCounts["desktop"] != 2 {
		t.Errorf("DeviceTypeCounts[desktop] = %d, want 2", stats.DeviceTypeCounts["desktop"])
	}
	if stats.VerdictClassCounts["BIOLOGICAL"] != 1 {
		t.Errorf("VerdictClassCounts[BIOLOGICAL] = %d, want 1", stats.VerdictClassCounts["BIOLOGICAL"])
	}
	desktop := stats.DeviceMetricAverages["desktop"]["transferFn"]
	if desktop.Count != 2 {
		t.Fatalf("desktop transferFn Count = %d, want 2", desktop.Count)
	}
	if desktop.Min != 0.4 || desktop.Max != 0.8 {
		t.Errorf("desktop transferFn min/max = %v/%v, want 0.4/0.8", desktop.Min, desktop.Max)
	}
}

func TestAggregatorSessionsPaginatesNewestFirst(t *testing.T) {
	now := time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC)
	recs := []session.Record{
		{ID: "old", CreatedAt: now.Add(-time.Hour)},
		{ID: "new", CreatedAt: now},
	}
	path := writeLog(t, recs)
	a := admin.New(path)

	rows, err := a.Sessions(10, 0)
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != "new" || rows[1].ID != "old" {
		t.Fatalf("Sessions = %+v, want [new, old]", rows)
	}
}

func TestAggregatorSessionNotFound(t *testing.T) {
	path := writeLog(t, nil)
	a := admin.New(path)

	_, err := a.Session("missing")
	apiErr, ok := err.(*apierr.Error)
	if !ok || apiErr.Code != apierr.CodeSessionNotFound {
		t.Errorf("Session(missing) error = %v, want CodeSessionNotFound", err)
	}
}

func TestAggregatorSessionFound(t *testing.T) {
	path := writeLog(t, []session.Record{{ID: "x", Score: 0.77}})
	a := admin.New(path)

	rec, err := a.Session("x")
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if rec.Score != 0.77 {
		t.Errorf("Score = %v, want 0.77", rec.Score)
	}
}
