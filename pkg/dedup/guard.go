// Package dedup suppresses identical annotation requests that arrive in
// quick succession.
//
// Each admitted request records its composite key with a timestamp. A second
// request for the same key inside the debounce window is rejected and told
// when the first one ran. Records are swept once they outlive the retention
// window. This is advisory rate limiting only: different keys never affect
// each other.
package dedup

import (
	"sync"
	"time"

	"github.com/entrhq/annotator/pkg/logging"
)

var debugLog *logging.Logger

func init() {
	debugLog = logging.Component("dedup")
}

const (
	DefaultDebounce  = 2 * time.Second
	DefaultRetention = 10 * time.Second
)

// Config sets the guard windows. Debounce should be shorter than Retention.
type Config struct {
	Debounce  time.Duration
	Retention time.Duration
}

// DefaultConfig returns a 2s debounce and 10s retention.
func DefaultConfig() Config {
	return Config{Debounce: DefaultDebounce, Retention: DefaultRetention}
}

// Decision is the outcome of Admit.
type Decision struct {
	Admitted  bool
	Duplicate bool
	// LastExecuted is the recorded time of the earlier request when Duplicate
	// is set.
	LastExecuted time.Time
}

// Record is one entry of the execution table.
type Record struct {
	Key      string    `json:"key"`
	Executed time.Time `json:"executed"`
}

// Guard owns the execution table. It is safe for concurrent use.
type Guard struct {
	cfg   Config
	clock Clock

	mu      sync.Mutex
	records map[string]time.Time
	timers  map[Timer]struct{}
	closed  bool
}

// NewGuard creates a guard. A nil clock means SystemClock.
func NewGuard(cfg Config, clock Clock) *Guard {
	if clock == nil {
		clock = SystemClock{}
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}
	return &Guard{
		cfg:     cfg,
		clock:   clock,
		records: make(map[string]time.Time),
		timers:  make(map[Timer]struct{}),
	}
}

// Admit checks key against the table. A rejected request leaves the existing
// record untouched.
func (g *Guard) Admit(key string) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	if last, ok := g.records[key]; ok && now.Sub(last) < g.cfg.Debounce {
		debugLog.Debugf("suppressed duplicate %q (last run %s ago)", key, now.Sub(last))
		return Decision{Duplicate: true, LastExecuted: last}
	}

	g.records[key] = now
	if !g.closed {
		g.scheduleSweep()
	}
	return Decision{Admitted: true}
}

// scheduleSweep arranges for stale records to be dropped after the retention
// window. Caller holds g.mu.
func (g *Guard) scheduleSweep() {
	var timer Timer
	timer = g.clock.AfterFunc(g.cfg.Retention, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.timers, timer)
		g.sweepLocked()
	})
	g.timers[timer] = struct{}{}
}

// Sweep removes records that have reached the retention window.
func (g *Guard) Sweep() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sweepLocked()
}

func (g *Guard) sweepLocked() {
	now := g.clock.Now()
	for key, at := range g.records {
		if now.Sub(at) >= g.cfg.Retention {
			delete(g.records, key)
		}
	}
}

// Snapshot returns the table sorted by key.
func (g *Guard) Snapshot() []Record {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Record, 0, len(g.records))
	for key, at := range g.records {
		out = append(out, Record{Key: key, Executed: at})
	}
	sortRecords(out)
	return out
}

// Len returns the number of live records.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.records)
}

// Reset forgets every record.
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.records = make(map[string]time.Time)
}

// Close stops pending sweeps. Admit keeps working without scheduling new ones.
func (g *Guard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	for t := range g.timers {
		t.Stop()
	}
	g.timers = make(map[Timer]struct{})
}
