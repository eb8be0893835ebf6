package main

import (
	"regexp"
	"strconv"
	"time"
)

// FileKind selects which naming conventions apply when parsing a date out of
// a filename. Each source folder on the share uses its own convention.
type FileKind int

const (
	FileKindDaily FileKind = iota
	FileKindSchedule
	FileKindMinutes
	FileKindPhoto
)

// YearWindow bounds the two-digit years the schedule-filename heuristic will
// accept as years. Filenames like "26-02-06" are inherently ambiguous; the
// window keeps the guess anchored to the project's actual span.
type YearWindow struct {
	Min int // e.g. 2025
	Max int // e.g. 2030
}

type datePattern struct {
	re    *regexp.Regexp
	build func(m []string, yw YearWindow) (time.Time, bool)
}

var dailyPatterns = []datePattern{
	{regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`), buildYMD},
	{regexp.MustCompile(`(\d{1,2})-(\d{1,2})-(\d{4})`), buildMDY},
	{regexp.MustCompile(`(\d{4})(\d{2})(\d{2})`), buildYMD},
}

var schedulePatterns = []datePattern{
	{regexp.MustCompile(`(\d{2})-(\d{2})-(\d{2,4})`), buildTwoDigitGrouped},
}

var minutesPatterns = []datePattern{
	{regexp.MustCompile(`(\d{4})\.(\d{2})\.(\d{2})`), buildYMD},
}

var photoPatterns = []datePattern{
	{regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})\.\d+\.`), buildYMD},
	{regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})_\d{6}\.`), buildYMD},
	{regexp.MustCompile(`^(\d{4})\.(\d{2})\.(\d{2})\.\d+\.`), buildYMD},
}

var patternsByKind = map[FileKind][]datePattern{
	FileKindDaily:    dailyPatterns,
	FileKindSchedule: schedulePatterns,
	FileKindMinutes:  minutesPatterns,
	FileKindPhoto:    photoPatterns,
}

// ParseFileDate extracts a calendar date from a filename using the ordered
// pattern list for the given kind. The first matching pattern that yields a
// valid date wins; no match means the caller decides the fallback.
func ParseFileDate(name string, kind FileKind, yw YearWindow) (time.Time, bool) {
	for _, p := range patternsByKind[kind] {
		m := p.re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if d, ok := p.build(m, yw); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

func buildYMD(m []string, _ YearWindow) (time.Time, bool) {
	return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
}

func buildMDY(m []string, _ YearWindow) (time.Time, bool) {
	return makeDate(atoi(m[3]), atoi(m[1]), atoi(m[2]))
}

// buildTwoDigitGrouped disambiguates NN-NN-NN(NN) schedule dates:
// a first component > 12 implies year-first, a third component > 31 implies
// year-last, a two-digit third or first component inside the year window is a
// year, and anything else is attempted as month-day-year.
func buildTwoDigitGrouped(m []string, yw YearWindow) (time.Time, bool) {
	a, b, c := atoi(m[1]), atoi(m[2]), atoi(m[3])
	lo, hi := yw.Min-2000, yw.Max-2000

	switch {
	case a > 12:
		return makeDate(expandYear(a), b, c)
	case c > 31:
		return makeDate(expandYear(c), a, b)
	case c >= lo && c <= hi:
		return makeDate(2000+c, a, b)
	case a >= lo && a <= hi:
		return makeDate(2000+a, b, c)
	default:
		return makeDate(expandYear(c), a, b)
	}
}

func expandYear(y int) int {
	if y < 100 {
		return 2000 + y
	}
	return y
}

// makeDate rejects component combinations that time.Date would silently
// normalize (e.g. month 13 or February 30).
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
