package report

import (
	"testing"
	"time"

	"github.com/maumlog/maum/backend/internal/model/chat"
)

func at(emotion string, t time.Time) chat.Session {
	return chat.Session{ID: chat.NewSessionID(), Emotion: emotion, Date: t}
}

func TestDistributeTotalsMatchTaggedSessions(t *testing.T) {
	base := time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC)
	sessions := []chat.Session{
		at("기쁨", base),
		at("기쁨", base.Add(time.Hour)),
		at("슬픔", base.Add(2*time.Hour)),
		at("", base.Add(3*time.Hour)),          // no emotion: excluded
		{ID: "nodate", Emotion: "분노"},          // no date: excluded
	}

	dist := Distribute(sessions)
	if dist.Total != 3 {
		t.Fatalf("expected total 3, got %d", dist.Total)
	}

	sum := 0
	for _, c := range dist.Counts {
		sum += c
	}
	if sum != dist.Total {
		t.Fatalf("per-emotion counts must sum to total: %d != %d", sum, dist.Total)
	}
	if dist.Counts["기쁨"] != 2 || dist.Counts["슬픔"] != 1 {
		t.Fatalf("unexpected counts: %+v", dist.Counts)
	}

	var pct float64
	for _, p := range dist.Percent {
		pct += p
	}
	if pct < 99.9 || pct > 100.1 {
		t.Fatalf("percentages must sum to 100, got %f", pct)
	}
}

func TestHistogramWeekAndMonthKeys(t *testing.T) {
	// 2026-01-01 is a Thursday in ISO week 1.
	jan1 := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	feb20 := time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)
	sessions := []chat.Session{at("기쁨", jan1), at("슬픔", feb20)}

	weekly := Histogram(sessions, PeriodWeek)
	if weekly["2026-W01"]["기쁨"] != 1 {
		t.Fatalf("expected 기쁨 in 2026-W01, got %+v", weekly)
	}

	monthly := Histogram(sessions, PeriodMonth)
	if monthly["2026-01"]["기쁨"] != 1 || monthly["2026-02"]["슬픔"] != 1 {
		t.Fatalf("unexpected monthly histogram: %+v", monthly)
	}
}

func TestBandOf(t *testing.T) {
	cases := map[int]Band{
		0:  BandNight,
		5:  BandNight,
		6:  BandMorning,
		11: BandMorning,
		12: BandAfternoon,
		17: BandAfternoon,
		18: BandEvening,
		23: BandEvening,
	}
	for hour, want := range cases {
		if got := BandOf(hour); got != want {
			t.Errorf("BandOf(%d) = %s, want %s", hour, got, want)
		}
	}
}

func TestBandCrosstab(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	sessions := []chat.Session{
		at("불안", day.Add(2*time.Hour)),   // night
		at("기쁨", day.Add(9*time.Hour)),   // morning
		at("기쁨", day.Add(10*time.Hour)),  // morning
		at("스트레스", day.Add(21*time.Hour)), // evening
	}

	tab := BandCrosstab(sessions)
	if tab[BandMorning]["기쁨"] != 2 {
		t.Fatalf("expected 2 morning 기쁨, got %+v", tab)
	}
	if tab[BandNight]["불안"] != 1 || tab[BandEvening]["스트레스"] != 1 {
		t.Fatalf("unexpected crosstab: %+v", tab)
	}
	if len(tab[BandAfternoon]) != 0 {
		t.Fatalf("no afternoon sessions expected, got %+v", tab[BandAfternoon])
	}
}

func TestSummarize(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	sessions := []chat.Session{
		at("기쁨", day.Add(9*time.Hour)),
		at("기쁨", day.Add(33*time.Hour)),
		at("슬픔", day.Add(57*time.Hour)),
	}

	insights := Summarize(sessions, 2, 10)
	if insights.TopEmotion != "기쁨" {
		t.Fatalf("expected top emotion 기쁨, got %q", insights.TopEmotion)
	}
	if len(insights.Recent) != 2 {
		t.Fatalf("expected 2 recent emotions, got %d", len(insights.Recent))
	}
	if insights.Recent[0] != "슬픔" {
		t.Fatalf("recent must be newest first, got %+v", insights.Recent)
	}
	if insights.Diversity != 0.2 {
		t.Fatalf("expected diversity 2/10, got %f", insights.Diversity)
	}
	if insights.TopByBand[BandMorning] != "기쁨" {
		t.Fatalf("unexpected band winners: %+v", insights.TopByBand)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	insights := Summarize(nil, 5, 10)
	if insights.TopEmotion != "" || len(insights.Recent) != 0 || insights.Diversity != 0 {
		t.Fatalf("empty input must yield zero insights: %+v", insights)
	}
}
