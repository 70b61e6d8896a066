package shell

import (
	"slices"
	"sync"
	"time"
)

// Stat holds counters for the different kinds of statements.
type Stat struct {
	All      int64
	Read     int64
	Write    int64
	Begin    int64
	Commit   int64
	Rollback int64
	Error    int64
}

// MinuteStat links a minute (UTC) with its stats.
type MinuteStat struct {
	Minute time.Time
	Stat
}

// Stats keeps per-minute and total counters of the statements run in a shell
// session. Minutes older than 24 hours are dropped as new ones are recorded.
type Stats struct {
	mu sync.Mutex

	stats      map[time.Time]Stat
	totalStats Stat
	started    time.Time
	now        func() time.Time
}

// NewStats creates an empty Stats starting now.
func NewStats() *Stats {
	return newStatsAt(time.Now)
}

func newStatsAt(now func() time.Time) *Stats {
	return &Stats{
		stats:   make(map[time.Time]Stat),
		started: now(),
		now:     now,
	}
}

// addToStats updates the stats for the current minute and totals.
func (s *Stats) addToStats(updateFunc func(*Stat)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.now().UTC().Truncate(time.Minute)
	current := s.stats[key]
	updateFunc(&current)
	s.stats[key] = current
	updateFunc(&s.totalStats)

	cutoff := key.Add(-24 * time.Hour)
	for minute := range s.stats {
		if minute.Before(cutoff) {
			delete(s.stats, minute)
		}
	}
}

// Record increments the counter of kind.
func (s *Stats) Record(kind stmtKind) {
	s.addToStats(func(st *Stat) {
		switch kind {
		case kindRead:
			st.Read++
		case kindWrite:
			st.Write++
		case kindBegin:
			st.Begin++
		case kindCommit:
			st.Commit++
		case kindRollback:
			st.Rollback++
		}
		st.All++
	})
}

// IncErrors increments the count of failed statements.
func (s *Stats) IncErrors() {
	s.addToStats(func(st *Stat) {
		st.Error++
		st.All++
	})
}

// Last returns the stats of the n most recent minutes with activity, newest
// first.
func (s *Stats) Last(n int) []MinuteStat {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]MinuteStat, 0, len(s.stats))
	for minute, st := range s.stats {
		out = append(out, MinuteStat{Minute: minute, Stat: st})
	}
	slices.SortFunc(out, func(a, b MinuteStat) int {
		return b.Minute.Compare(a.Minute)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Total returns the counters since the session started.
func (s *Stats) Total() Stat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalStats
}

// Uptime returns how long the session has been running.
func (s *Stats) Uptime() time.Duration {
	return s.now().Sub(s.started)
}
