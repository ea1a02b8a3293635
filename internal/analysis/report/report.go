// Package report aggregates stored sessions for the summary views. All
// aggregation operates on the date + emotion pair; sessions missing either
// are excluded here, never from storage.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/maumlog/maum/backend/internal/model/chat"
)

// Period selects the bucketing for Histogram.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Band is one of the four hour-of-day bands.
type Band string

const (
	BandNight     Band = "night"     // 00–05
	BandMorning   Band = "morning"   // 06–11
	BandAfternoon Band = "afternoon" // 12–17
	BandEvening   Band = "evening"   // 18–23
)

// Bands lists the bands in day order.
func Bands() []Band {
	return []Band{BandNight, BandMorning, BandAfternoon, BandEvening}
}

// BandOf maps an hour (0–23) to its band.
func BandOf(hour int) Band {
	switch {
	case hour < 6:
		return BandNight
	case hour < 12:
		return BandMorning
	case hour < 18:
		return BandAfternoon
	default:
		return BandEvening
	}
}

// Distribution is the overall per-emotion breakdown.
type Distribution struct {
	Counts  map[string]int     `json:"counts"`
	Percent map[string]float64 `json:"percent"`
	Total   int                `json:"total"`
}

func aggregatable(s chat.Session) bool {
	return s.Emotion != "" && !s.Date.IsZero()
}

// Distribute computes emotion counts and percentages over all aggregatable
// sessions.
func Distribute(sessions []chat.Session) Distribution {
	dist := Distribution{
		Counts:  make(map[string]int),
		Percent: make(map[string]float64),
	}
	for _, s := range sessions {
		if !aggregatable(s) {
			continue
		}
		dist.Counts[s.Emotion]++
		dist.Total++
	}
	for emotion, count := range dist.Counts {
		dist.Percent[emotion] = float64(count) / float64(dist.Total) * 100
	}
	return dist
}

// Histogram buckets sessions by ISO calendar week or calendar month and
// counts emotions per bucket. Week keys look like "2026-W07", month keys
// like "2026-02".
func Histogram(sessions []chat.Session, period Period) map[string]map[string]int {
	out := make(map[string]map[string]int)
	for _, s := range sessions {
		if !aggregatable(s) {
			continue
		}
		key := periodKey(s.Date, period)
		if out[key] == nil {
			out[key] = make(map[string]int)
		}
		out[key][s.Emotion]++
	}
	return out
}

func periodKey(t time.Time, period Period) string {
	if period == PeriodWeek {
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	}
	return t.Format("2006-01")
}

// BandCrosstab cross-tabulates hour-of-day band against emotion.
func BandCrosstab(sessions []chat.Session) map[Band]map[string]int {
	out := make(map[Band]map[string]int)
	for _, s := range sessions {
		if !aggregatable(s) {
			continue
		}
		band := BandOf(s.Date.Hour())
		if out[band] == nil {
			out[band] = make(map[string]int)
		}
		out[band][s.Emotion]++
	}
	return out
}

// Insights carries the derived summary values.
type Insights struct {
	TopEmotion string          `json:"topEmotion,omitempty"`
	TopByBand  map[Band]string `json:"topByBand"`
	Recent     []string        `json:"recent"`
	Diversity  float64         `json:"diversity"`
}

// Summarize derives the insight values: the most frequent emotion overall
// and per band, the emotions of the most recent recentN sessions (newest
// first), and diversity = distinct emotions observed / catalogSize.
func Summarize(sessions []chat.Session, recentN, catalogSize int) Insights {
	insights := Insights{TopByBand: make(map[Band]string), Recent: []string{}}

	dist := Distribute(sessions)
	insights.TopEmotion = topEmotion(dist.Counts)

	for band, counts := range BandCrosstab(sessions) {
		insights.TopByBand[band] = topEmotion(counts)
	}

	usable := make([]chat.Session, 0, len(sessions))
	for _, s := range sessions {
		if aggregatable(s) {
			usable = append(usable, s)
		}
	}
	sort.SliceStable(usable, func(i, j int) bool {
		return usable[i].Date.After(usable[j].Date)
	})
	for i := 0; i < len(usable) && i < recentN; i++ {
		insights.Recent = append(insights.Recent, usable[i].Emotion)
	}

	if catalogSize > 0 {
		insights.Diversity = float64(len(dist.Counts)) / float64(catalogSize)
	}
	return insights
}

// topEmotion picks the most frequent emotion; ties break on name so the
// result is deterministic.
func topEmotion(counts map[string]int) string {
	best := ""
	bestCount := 0
	for emotion, count := range counts {
		if count > bestCount || (count == bestCount && best != "" && emotion < best) {
			best = emotion
			bestCount = count
		}
	}
	return best
}
