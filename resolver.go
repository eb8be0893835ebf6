package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DatedFile is a resolved input file tagged with the calendar date it covers.
type DatedFile struct {
	Date time.Time
	Path string
}

// ResolvedFiles is the bundle of inputs located for one report week. Absent
// categories stay empty; every absence is recorded as a warning rather than
// an error so one missing folder never aborts the run.
type ResolvedFiles struct {
	DailyReports    []DatedFile // at most one per weekday, Monday first
	Schedule        string
	Minutes         string
	CandidatePhotos []DatedFile // date-descending
	Warnings        []string
}

// ResolveAllFiles runs one resolution pass per category against the current
// directory snapshot. It is deterministic for an unchanged snapshot.
func ResolveAllFiles(cfg Config, rw ReportWeek) ResolvedFiles {
	var out ResolvedFiles
	yw := cfg.yearWindow()

	out.DailyReports = resolveDailyReports(cfg.DailyReportsDir, rw, cfg.DailyReportTemplate)
	found := make(map[time.Time]bool, len(out.DailyReports))
	for _, df := range out.DailyReports {
		found[df.Date] = true
	}
	for _, d := range rw.WeekdayDates() {
		if !found[d] {
			out.Warnings = append(out.Warnings, fmt.Sprintf("Missing daily report for %s %s", d.Weekday(), d.Format("01/02")))
		}
	}

	out.Schedule = resolveSchedule(cfg.SchedulesDir, cfg.LookAheadMarker, yw)
	if out.Schedule == "" {
		out.Warnings = append(out.Warnings, "No 3-week look-ahead schedule found")
	}

	out.Minutes = resolveMinutes(cfg.MinutesDir, cfg.MinutesAnnotationMarker, rw.Friday, yw)
	if out.Minutes == "" {
		out.Warnings = append(out.Warnings, "No meeting minutes found")
	}

	out.CandidatePhotos = resolvePhotos(cfg.PhotosDir, rw, cfg.MaxPhotoCandidates, yw)
	if len(out.CandidatePhotos) < 2 {
		out.Warnings = append(out.Warnings, fmt.Sprintf("Only %d candidate photos found", len(out.CandidatePhotos)))
	}

	return out
}

// resolveDailyReports matches each of the five weekday dates to a PDF in the
// daily-report folder. The exact templated name is tried first, then any PDF
// whose name contains one of four renderings of the date.
func resolveDailyReports(dir string, rw ReportWeek, template string) []DatedFile {
	names, err := listDir(dir)
	if err != nil {
		return nil
	}
	nameSet := make(map[string]bool, len(names))
	for _, n := range names {
		nameSet[n] = true
	}

	var found []DatedFile
	for _, d := range rw.WeekdayDates() {
		exact := fmt.Sprintf(template, fmt.Sprintf("%02d-%02d-%d", d.Month(), d.Day(), d.Year()))
		if nameSet[exact] {
			found = append(found, DatedFile{Date: d, Path: filepath.Join(dir, exact)})
			continue
		}

		renderings := []string{
			fmt.Sprintf("%02d-%02d-%d", d.Month(), d.Day(), d.Year()),
			fmt.Sprintf("%d-%d-%d", d.Month(), d.Day(), d.Year()),
			fmt.Sprintf("%d%02d%02d", d.Year(), d.Month(), d.Day()),
			fmt.Sprintf("%d-%02d-%02d", d.Year(), d.Month(), d.Day()),
		}
	scan:
		for _, n := range names {
			if !strings.HasSuffix(strings.ToLower(n), ".pdf") {
				continue
			}
			for _, ds := range renderings {
				if strings.Contains(n, ds) {
					found = append(found, DatedFile{Date: d, Path: filepath.Join(dir, n)})
					break scan
				}
			}
		}
	}
	return found
}

// resolveSchedule picks the look-ahead schedule with the latest parsable
// filename date.
func resolveSchedule(dir, marker string, yw YearWindow) string {
	names, err := listDir(dir)
	if err != nil {
		return ""
	}

	var candidates []DatedFile
	for _, n := range names {
		if !strings.HasSuffix(strings.ToLower(n), ".pdf") || !strings.Contains(n, marker) {
			continue
		}
		if d, ok := ParseFileDate(n, FileKindSchedule, yw); ok {
			candidates = append(candidates, DatedFile{Date: d, Path: filepath.Join(dir, n)})
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Date.After(candidates[j].Date)
	})
	return candidates[0].Path
}

// resolveMinutes picks the most recent minutes on or before the report
// Friday, preferring the clean version over one carrying the annotation
// marker in its name.
func resolveMinutes(dir, annotationMarker string, friday time.Time, yw YearWindow) string {
	names, err := listDir(dir)
	if err != nil {
		return ""
	}

	type candidate struct {
		date  time.Time
		clean bool
		path  string
	}
	var candidates []candidate
	for _, n := range names {
		if !strings.HasSuffix(strings.ToLower(n), ".pdf") {
			continue
		}
		d, ok := ParseFileDate(n, FileKindMinutes, yw)
		if !ok || d.After(friday) {
			continue
		}
		clean := annotationMarker == "" || !strings.Contains(n, annotationMarker)
		candidates = append(candidates, candidate{date: d, clean: clean, path: filepath.Join(dir, n)})
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if !candidates[i].date.Equal(candidates[j].date) {
			return candidates[i].date.After(candidates[j].date)
		}
		return candidates[i].clean && !candidates[j].clean
	})
	return candidates[0].path
}

// resolvePhotos restricts to photos taken within the report week, widening to
// the prior 14 days when fewer than 2 match. A filename with no parsable date
// falls back to the file's modification date.
func resolvePhotos(dir string, rw ReportWeek, maxCandidates int, yw YearWindow) []DatedFile {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var all []DatedFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
		default:
			continue
		}
		path := filepath.Join(dir, e.Name())
		d, ok := ParseFileDate(e.Name(), FileKindPhoto, yw)
		if !ok {
			info, err := e.Info()
			if err != nil {
				continue
			}
			d = dateOnly(info.ModTime())
		}
		all = append(all, DatedFile{Date: d, Path: path})
	}

	inWindow := func(start, end time.Time) []DatedFile {
		var out []DatedFile
		for _, p := range all {
			if !p.Date.Before(start) && !p.Date.After(end) {
				out = append(out, p)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			if !out[i].Date.Equal(out[j].Date) {
				return out[i].Date.After(out[j].Date)
			}
			return out[i].Path < out[j].Path
		})
		if len(out) > maxCandidates {
			out = out[:maxCandidates]
		}
		return out
	}

	week := inWindow(rw.Monday, rw.Friday)
	if len(week) >= 2 {
		return week
	}
	return inWindow(rw.Monday.AddDate(0, 0, -14), rw.Friday)
}

// listDir returns the sorted file names in dir, or an error for a missing or
// unreadable directory.
func listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
