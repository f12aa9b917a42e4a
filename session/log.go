package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/glyphwatch/clnp/logger"
)

// logFileName is the fixed JSONL filename under CLNP_DATA_DIR, per
// spec.md §6.
const logFileName = "sessions.jsonl"

// Log appends Records to a line-delimited JSON file. Writes are
// best-effort: a failed append is logged but never propagated as a request
// failure, per spec.md §5's file I/O contract.
//
// Thread-safety: a single mutex serializes writes since os.File.Write is
// not safe for concurrent callers to interleave individual lines; reads
// (the admin aggregator) open their own independent file handle and never
// touch this mutex.
type Log struct {
	mu   sync.Mutex
	file *os.File
	log  *logger.Logger
}

// OpenLog opens (creating if necessary) dataDir/sessions.jsonl for
// appending.
func OpenLog(dataDir string, log *logger.Logger) (*Log, error) {
	path := filepath.Join(dataDir, logFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &Log{file: f, log: log}, nil
}

// Path returns the path of the underlying log file as it was opened
// (dataDir joined with the file name; relative if dataDir is relative).
func (l *Log) Path() string {
	return l.file.Name()
}

// Append serializes rec as one JSON line and writes it to the log. Any
// error (disk full, permissions, etc.) is logged and swallowed.
func (l *Log) Append(rec Record) {
	data, err := json.Marshal(rec)
	if err != nil {
		l.log.Errorf("session log: marshal record %s: %v", rec.ID, err)
		return
	}
	data = append(data, '\n')

	l.mu.Lock()
	_, err = l.file.Write(data)
	l.mu.Unlock()
	if err != nil {
		l.log.Errorf("session log: append record %s: %v", rec.ID, err)
	}
}

// Close closes the underlying file handle.
func (l *Log) Close() error {
	return l.file.Close()
}
