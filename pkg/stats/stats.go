package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// DateLayout is the format of the keys of Entry.Daily
const DateLayout = "2006-01-02"

// Entry holds the counts for a single destination
type Entry struct {
	Total int            `json:"total"`
	Daily map[string]int `json:"daily"`
}

// Counters maps a destination name to its counts
type Counters map[string]*Entry

// StoreInterface persists counters. Implementations never surface storage errors:
// Load falls back to zero counters and Save logs failures
type StoreInterface interface {
	Load(ctx context.Context) Counters
	Save(ctx context.Context, counters Counters)
}

// Day formats t as a daily key in the given location
func Day(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}

// NewCounters returns zero counters for exactly the given destinations
func NewCounters(names []string) Counters {
	c := make(Counters, len(names))
	for _, name := range names {
		c[name] = &Entry{Daily: map[string]int{}}
	}
	return c
}

// Backfill adds a zero entry for every name that is missing and makes sure
// every entry has a usable daily map
func (c Counters) Backfill(names []string) Counters {
	for _, name := range names {
		if c[name] == nil {
			c[name] = &Entry{Daily: map[string]int{}}
		}
	}
	for _, entry := range c {
		if entry != nil && entry.Daily == nil {
			entry.Daily = map[string]int{}
		}
	}
	return c
}

// Clone returns a deep copy
func (c Counters) Clone() Counters {
	out := make(Counters, len(c))
	for name, entry := range c {
		if entry == nil {
			continue
		}
		daily := make(map[string]int, len(entry.Daily))
		for day, n := range entry.Daily {
			daily[day] = n
		}
		out[name] = &Entry{Total: entry.Total, Daily: daily}
	}
	return out
}

// Record returns a copy of c with one more reference counted for name on date.
// The input is not modified
func Record(c Counters, name, date string) Counters {
	out := c.Clone()

	entry := out[name]
	if entry == nil {
		entry = &Entry{Daily: map[string]int{}}
		out[name] = entry
	}

	entry.Total++
	entry.Daily[date]++

	return out
}

// Line is one destination's row in a report
type Line struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
	Today int    `json:"today"`
}

// Summarize builds one line per name, in the given order, with counts for date
func Summarize(c Counters, names []string, date string) []Line {
	lines := make([]Line, 0, len(names))
	for _, name := range names {
		line := Line{Name: name}
		if entry := c[name]; entry != nil {
			line.Total = entry.Total
			line.Today = entry.Daily[date]
		}
		lines = append(lines, line)
	}
	return lines
}

// AllZero reports whether no reference has ever been counted for any of the lines
func AllZero(lines []Line) bool {
	for _, line := range lines {
		if line.Total != 0 {
			return false
		}
	}
	return true
}

// Decode parses the persisted JSON form. A destination stored as a bare integer
// (the legacy layout) is read as {total: n, daily: {}}. An entry of any other shape is
// logged and zeroed; the rest of the file is kept. Missing destinations are backfilled
func Decode(data []byte, names []string) (Counters, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse stats: %w", err)
	}

	c := make(Counters, len(raw))
	for name, value := range raw {
		// Legacy layout
		var total int
		if err := json.Unmarshal(value, &total); err == nil {
			c[name] = &Entry{Total: total, Daily: map[string]int{}}
			continue
		}

		var entry Entry
		if err := json.Unmarshal(value, &entry); err != nil {
			log.Printf("[STATS]: Resetting malformed entry for '%s': %v", name, err)
			entry = Entry{}
		}
		c[name] = &entry
	}

	return c.Backfill(names), nil
}

// Encode renders counters as indented JSON for human inspection
func Encode(c Counters) ([]byte, error) {
	return json.MarshalIndent(c, "", "    ")
}
