package main

import (
	"fmt"
	"sort"
	"time"
)

// ReportWeek is the canonical Monday-Friday span one weekly report covers,
// identified by its Friday. Computed once per run.
type ReportWeek struct {
	Monday    time.Time
	Tuesday   time.Time
	Wednesday time.Time
	Thursday  time.Time
	Friday    time.Time

	WeekRange     string // "MM/DD—MM/DD"
	IssuedDate    string // "Friday, Month D, YYYY"
	CountdownDays int    // calendar days to substantial completion, may be negative
	ReportNumber  int    // 1-based sequence since the campaign start Monday
}

// Holiday is one entry of the known-holiday table used to annotate
// look-ahead schedule context.
type Holiday struct {
	Date  time.Time
	Label string
}

// ParseISODate parses a caller-supplied YYYY-MM-DD string. Operator typos in
// config or flags must surface immediately, so the error names the input.
func ParseISODate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// ResolveWeek computes the report week for a target date. A zero target means
// "the most recent Friday relative to now". A zero reportNumber means the
// number is derived from whole weeks elapsed since startDate, floored at 1.
func ResolveWeek(target time.Time, reportNumber int, startDate, completionDate time.Time) ReportWeek {
	var friday time.Time
	if target.IsZero() {
		friday = mostRecentFriday(time.Now())
	} else {
		friday = weekFriday(target)
	}
	friday = dateOnly(friday)

	monday := friday.AddDate(0, 0, -4)

	rn := reportNumber
	if rn == 0 {
		rn = daysBetween(dateOnly(startDate), friday)/7 + 1
		if rn < 1 {
			rn = 1
		}
	}

	return ReportWeek{
		Monday:        monday,
		Tuesday:       friday.AddDate(0, 0, -3),
		Wednesday:     friday.AddDate(0, 0, -2),
		Thursday:      friday.AddDate(0, 0, -1),
		Friday:        friday,
		WeekRange:     monday.Format("01/02") + "—" + friday.Format("01/02"),
		IssuedDate:    fmt.Sprintf("Friday, %s %d, %d", friday.Month(), friday.Day(), friday.Year()),
		CountdownDays: daysBetween(friday, dateOnly(completionDate)),
		ReportNumber:  rn,
	}
}

// weekFriday returns the Friday of the Monday-start calendar week containing
// d: Monday-Friday targets roll forward to that week's Friday, weekend
// targets step back to the Friday just passed.
func weekFriday(d time.Time) time.Time {
	sinceMonday := (int(d.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return d.AddDate(0, 0, 4-sinceMonday)
}

// mostRecentFriday returns now's date if it is a Friday, else the closest
// Friday in the past.
func mostRecentFriday(now time.Time) time.Time {
	sinceFriday := (int(now.Weekday()) - int(time.Friday) + 7) % 7
	return now.AddDate(0, 0, -sinceFriday)
}

// WeekdayDates returns the five weekday dates Monday through Friday.
func (rw ReportWeek) WeekdayDates() []time.Time {
	return []time.Time{rw.Monday, rw.Tuesday, rw.Wednesday, rw.Thursday, rw.Friday}
}

// UpcomingHolidays filters the holiday table to the window starting the day
// after the report Friday and spanning weeksAhead weeks, ascending by date.
func UpcomingHolidays(rw ReportWeek, holidays []Holiday, weeksAhead int) []Holiday {
	start := rw.Friday.AddDate(0, 0, 1)
	end := start.AddDate(0, 0, weeksAhead*7)

	var out []Holiday
	for _, h := range holidays {
		d := dateOnly(h.Date)
		if !d.Before(start) && !d.After(end) {
			out = append(out, Holiday{Date: d, Label: h.Label})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
