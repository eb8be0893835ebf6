package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"
)

// ScheduleActivity is one construction activity row from the master project
// schedule export (Primavera P6 XER). Immutable once parsed.
type ScheduleActivity struct {
	TaskCode    string
	TaskName    string
	WBSCategory string
	EarlyStart  time.Time
	EarlyEnd    time.Time
	Status      string // "Not Started", "Active", "Complete", "Unknown"
}

// defaultWBSKeywords selects construction-relevant work-breakdown categories.
// Overridable via config so the parser works beyond this one project.
var defaultWBSKeywords = []string{
	"foundation", "structure", "roof level", "mep",
	"finishes", "exteriors", "demo", "building",
	"site improvements", "external site", "close out",
	"testing", "commissioning",
}

var taskStatusLabels = map[string]string{
	"TK_Complete": "Complete",
	"TK_Active":   "Active",
	"TK_NotStart": "Not Started",
}

// excludedTaskTypes are milestones and level-of-effort rows, which carry no
// field work.
var excludedTaskTypes = map[string]bool{
	"TT_Mile":    true,
	"TT_FinMile": true,
	"TT_LOE":     true,
}

// ParseMasterSchedule reads an XER export and returns its construction
// activities. The format is line-oriented: %T declares a table, %F its
// fields, %R a data row, all tab-separated. Only the PROJWBS and TASK tables
// are consumed. A missing or wholly unparsable file yields an empty list.
func ParseMasterSchedule(path string, wbsKeywords []string) []ScheduleActivity {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("master schedule not found path=%s", path)
		return nil
	}
	defer f.Close()

	if len(wbsKeywords) == 0 {
		wbsKeywords = defaultWBSKeywords
	}

	wbsNames := make(map[string]string) // wbs_id -> wbs_name
	var taskRows []map[string]string

	var currentTable string
	var fields []string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case strings.HasPrefix(line, "%T\t"):
			currentTable = strings.SplitN(line, "\t", 3)[1]
			fields = nil
		case strings.HasPrefix(line, "%F\t"):
			fields = strings.Split(line, "\t")[1:]
		case strings.HasPrefix(line, "%R\t") && len(fields) > 0:
			values := strings.Split(line, "\t")[1:]
			row := make(map[string]string, len(fields))
			for i, name := range fields {
				if i < len(values) {
					row[name] = values[i]
				}
			}
			switch currentTable {
			case "PROJWBS":
				wbsNames[row["wbs_id"]] = row["wbs_name"]
			case "TASK":
				taskRows = append(taskRows, row)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("master schedule read error path=%s err=%v", path, err)
		return nil
	}

	constructionWBS := make(map[string]bool)
	for id, name := range wbsNames {
		lower := strings.ToLower(name)
		for _, kw := range wbsKeywords {
			if strings.Contains(lower, kw) {
				constructionWBS[id] = true
				break
			}
		}
	}

	var activities []ScheduleActivity
	for _, row := range taskRows {
		if !constructionWBS[row["wbs_id"]] {
			continue
		}
		if excludedTaskTypes[row["task_type"]] {
			continue
		}
		start, ok1 := parseXERDate(row["early_start_date"])
		end, ok2 := parseXERDate(row["early_end_date"])
		if !ok1 || !ok2 {
			continue
		}
		status := taskStatusLabels[row["status_code"]]
		if status == "" {
			status = "Unknown"
		}
		activities = append(activities, ScheduleActivity{
			TaskCode:    row["task_code"],
			TaskName:    row["task_name"],
			WBSCategory: wbsNames[row["wbs_id"]],
			EarlyStart:  start,
			EarlyEnd:    end,
			Status:      status,
		})
	}
	return activities
}

// parseXERDate takes the date portion of an XER date-time string
// ("2026-02-06 08:00" or bare "2026-02-06").
func parseXERDate(s string) (time.Time, bool) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return time.Time{}, false
	}
	d, err := time.Parse("2006-01-02", parts[0])
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ActivitiesForWeek returns the non-complete activities whose start-end span
// overlaps [weekStart, weekEnd] inclusive, ordered by start date then name.
func ActivitiesForWeek(activities []ScheduleActivity, weekStart, weekEnd time.Time) []ScheduleActivity {
	var out []ScheduleActivity
	for _, a := range activities {
		if a.Status == "Complete" {
			continue
		}
		if !a.EarlyStart.After(weekEnd) && !a.EarlyEnd.Before(weekStart) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].EarlyStart.Equal(out[j].EarlyStart) {
			return out[i].EarlyStart.Before(out[j].EarlyStart)
		}
		return out[i].TaskName < out[j].TaskName
	})
	return out
}

// MasterScheduleContext formats the activities for numWeeks consecutive
// Monday-Friday windows starting at weekStart, as supplemental context for
// the schedule extraction agent. Empty when nothing parses, which callers
// must treat as "no supplemental context", not an error.
func MasterScheduleContext(path string, weekStart time.Time, numWeeks int, wbsKeywords []string) string {
	activities := ParseMasterSchedule(path, wbsKeywords)
	if len(activities) == 0 {
		return ""
	}

	var sections []string
	sections = append(sections, "MASTER SCHEDULE REFERENCE (from Primavera P6):")
	sections = append(sections, "Use this as a reference for activities not covered by the SIS.\n")

	current := dateOnly(weekStart)
	for i := 0; i < numWeeks; i++ {
		wStart := current
		wEnd := wStart.AddDate(0, 0, 4)
		weekActs := ActivitiesForWeek(activities, wStart, wEnd)

		label := fmt.Sprintf("Week %d (%s–%s)", i+1, wStart.Format("01/02"), wEnd.Format("01/02"))
		if len(weekActs) == 0 {
			sections = append(sections, fmt.Sprintf("  %s: No activities scheduled", label))
		} else {
			lines := []string{fmt.Sprintf("  %s:", label)}
			for _, a := range weekActs {
				span := a.EarlyStart.Format("01/02") + "–" + a.EarlyEnd.Format("01/02")
				lines = append(lines, fmt.Sprintf("    - %s [%s] (%s)", a.TaskName, span, a.WBSCategory))
			}
			sections = append(sections, strings.Join(lines, "\n"))
		}
		current = current.AddDate(0, 0, 7)
	}
	return strings.Join(sections, "\n")
}
