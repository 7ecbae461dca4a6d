// Package recorder persists a bounded number of packets per type to SQLite
// for offline analysis without slowing the display loop.
package recorder

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"wlanmon/packet"

	_ "modernc.org/sqlite"
)

const queueSize = 512

// Recorder samples packets into SQLite. Record never blocks: inserts run on a
// single writer goroutine and are dropped when its queue is full.
type Recorder struct {
	db           *sql.DB
	perTypeLimit int
	perType      map[string]int

	queue   chan *packet.Event
	done    chan struct{}
	once    sync.Once
	written atomic.Uint64
	dropped atomic.Uint64
}

// New opens (or creates) the SQLite database at path and ensures the schema
// exists.
func New(path string, perTypeLimit int) (*Recorder, error) {
	if perTypeLimit <= 0 {
		return nil, errors.New("recorder: per-type limit must be > 0")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("recorder: ensure dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("recorder: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("recorder: schema: %w", err)
	}
	r := &Recorder{
		db:           db,
		perTypeLimit: perTypeLimit,
		perType:      make(map[string]int),
		queue:        make(chan *packet.Event, queueSize),
		done:         make(chan struct{}),
	}
	go r.writer()
	return r, nil
}

func initSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS packet_records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    type_name TEXT,
    type_mask INTEGER,
    observed_at INTEGER,
    length INTEGER,
    duration_us INTEGER,
    signal_dbm INTEGER,
    noise_dbm INTEGER,
    rate INTEGER,
    channel INTEGER,
    src TEXT,
    dst TEXT,
    bssid TEXT,
    essid TEXT
);`
	_, err := db.Exec(schema)
	return err
}

// Record queues e unless its type already reached the per-type limit. It is
// called from the display loop only.
func (r *Recorder) Record(e *packet.Event) {
	if r == nil || e == nil {
		return
	}
	name := e.Type.Name()
	if r.perType[name] >= r.perTypeLimit {
		return
	}
	select {
	case r.queue <- e:
		r.perType[name]++
	default:
		r.dropped.Add(1)
	}
}

// Stats returns rows written and packets dropped on a full queue.
func (r *Recorder) Stats() (written, dropped uint64) {
	if r == nil {
		return 0, 0
	}
	return r.written.Load(), r.dropped.Load()
}

// Close drains queued packets and closes the database.
func (r *Recorder) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	r.once.Do(func() { close(r.queue) })
	<-r.done
	return r.db.Close()
}

func (r *Recorder) writer() {
	defer close(r.done)
	for e := range r.queue {
		if err := r.insert(e); err != nil {
			log.Printf("Recorder: failed to insert packet: %v", err)
			continue
		}
		r.written.Add(1)
	}
}

func (r *Recorder) insert(e *packet.Event) error {
	_, err := r.db.Exec(`
INSERT INTO packet_records (
    type_name, type_mask, observed_at, length, duration_us,
    signal_dbm, noise_dbm, rate, channel, src, dst, bssid, essid
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Type.Name(),
		int64(e.Type),
		e.Time.UTC().UnixMicro(),
		e.Len,
		e.Duration,
		e.Signal,
		e.Noise,
		e.Rate,
		e.Channel,
		macOrEmpty(e.Src),
		macOrEmpty(e.Dst),
		macOrEmpty(e.BSSID),
		e.ESSID,
	)
	return err
}

func macOrEmpty(m packet.MAC) string {
	if m.IsZero() {
		return ""
	}
	return m.String()
}
