// Package filter narrows session lists for the history view. All functions
// are pure; they never mutate their input beyond the documented in-place
// sort.
package filter

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/maumlog/maum/backend/internal/model/chat"
)

// Criteria describes one history filter. An empty emotion list matches all
// emotions; a nil bound leaves that side unbounded. Date bounds are
// inclusive and compared against the session's last-modified date; callers
// normalize them with StartOfDay / EndOfDay so a same-day pair yields a
// one-day window.
type Criteria struct {
	Emotions []string
	Start    *time.Time
	End      *time.Time
}

// Apply returns the sessions matching the criteria, in input order.
func Apply(sessions []chat.Session, c Criteria) []chat.Session {
	wanted := make(map[string]struct{}, len(c.Emotions))
	for _, e := range c.Emotions {
		wanted[e] = struct{}{}
	}

	out := make([]chat.Session, 0, len(sessions))
	for _, s := range sessions {
		if len(wanted) > 0 {
			if _, ok := wanted[s.Emotion]; !ok {
				continue
			}
		}
		if c.Start != nil && s.Date.Before(*c.Start) {
			continue
		}
		if c.End != nil && s.Date.After(*c.End) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// SortByDateDesc orders sessions newest first, in place. Every surface that
// displays filtered results applies this.
func SortByDateDesc(sessions []chat.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Date.After(sessions[j].Date)
	})
}

// StartOfDay normalizes t to 00:00:00 in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay normalizes t to the last nanosecond of its day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ParseQuery builds criteria from history query parameters: a repeatable or
// comma-separated "emotions" key plus "from" / "to" dates in 2006-01-02
// form. Bounds are widened to whole days.
func ParseQuery(values url.Values) (Criteria, error) {
	var c Criteria

	for _, raw := range values["emotions"] {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.Emotions = append(c.Emotions, name)
			}
		}
	}

	if raw := strings.TrimSpace(values.Get("from")); raw != "" {
		day, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return Criteria{}, fmt.Errorf("invalid from date %q: %w", raw, err)
		}
		start := StartOfDay(day)
		c.Start = &start
	}

	if raw := strings.TrimSpace(values.Get("to")); raw != "" {
		day, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return Criteria{}, fmt.Errorf("invalid to date %q: %w", raw, err)
		}
		end := EndOfDay(day)
		c.End = &end
	}

	return c, nil
}
