package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFillScheduleWeekDates(t *testing.T) {
	rw := ResolveWeek(mustDate(t, "2026-02-06"), 0, mustDate(t, "2025-09-01"), mustDate(t, "2026-09-04"))

	sched := EmptySchedule()
	fillScheduleWeekDates(&sched, rw)

	if sched.Week1Dates != "02/09—02/13" {
		t.Fatalf("week1 dates = %q", sched.Week1Dates)
	}
	if sched.Week2Dates != "02/16—02/20" {
		t.Fatalf("week2 dates = %q", sched.Week2Dates)
	}
	if sched.Week3Dates != "02/23—02/27" {
		t.Fatalf("week3 dates = %q", sched.Week3Dates)
	}
}

// The per-day extractions are stripped from the synthesis JSON but must still
// land in the debug stages under their own key.
func TestDebugStagesIncludeDailyExtractions(t *testing.T) {
	daily := WeeklySynthesis{
		Phase: "Foundations",
		DailyExtractions: []DailyExtraction{
			{Date: "2026-02-02", Activities: []string{"Footing excavation Grid 1-5"}},
			{Date: "2026-02-03", Activities: []string{"Rebar placement"}},
		},
	}

	raw, err := json.Marshal(debugStages(daily, EmptySchedule(), MinutesData{}, PhotoSelection{}, "", "", nil))
	if err != nil {
		t.Fatalf("marshal stages: %v", err)
	}
	out := string(raw)
	if !strings.Contains(out, `"daily_extractions"`) {
		t.Fatalf("stages missing daily_extractions key:\n%s", out)
	}
	if !strings.Contains(out, "Footing excavation Grid 1-5") || !strings.Contains(out, "2026-02-03") {
		t.Fatalf("per-day extraction content missing:\n%s", out)
	}
}

func TestFillScheduleWeekDatesKeepsExtracted(t *testing.T) {
	rw := ResolveWeek(mustDate(t, "2026-02-06"), 0, mustDate(t, "2025-09-01"), mustDate(t, "2026-09-04"))

	sched := ScheduleData{Week1Dates: "02/09—02/13", Week2Dates: "TBD"}
	fillScheduleWeekDates(&sched, rw)

	if sched.Week1Dates != "02/09—02/13" {
		t.Fatalf("extracted dates overwritten: %q", sched.Week1Dates)
	}
	if sched.Week2Dates != "02/16—02/20" {
		t.Fatalf("placeholder not filled: %q", sched.Week2Dates)
	}
}
