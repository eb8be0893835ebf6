package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ReportData is the flat record the PDF template is filled from. JSON tags
// double as the audit-file format and the manual-override keys.
type ReportData struct {
	ReportNumber string `json:"report_number"` // zero-padded, e.g. "03"
	ReportWeek   string `json:"report_week"`
	IssuedDate   string `json:"issued_date"`

	ProjectName         string `json:"project_name"`
	ProjectSubtitle     string `json:"project_subtitle"`
	ProjectAddress      string `json:"project_address"`
	Architect           string `json:"architect"`
	ProjectDuration     string `json:"project_duration"`
	PreparedBy          string `json:"prepared_by"`
	GeneralContractor   string `json:"general_contractor"`
	ConstructionManager string `json:"construction_manager"`
	District            string `json:"district"`
	ProjectDescription  string `json:"project_description"`

	CountdownDays   string `json:"countdown_days"`
	Phase           string `json:"phase"`
	OverallProgress string `json:"overall_progress"`
	ScheduleStatus  string `json:"schedule_status"`

	ActivitiesCompleted []string `json:"activities_completed"`
	MilestonesAchieved  []string `json:"milestones_achieved"`
	CriticalItems       []string `json:"critical_items"`

	Week1Dates      string   `json:"week1_dates"`
	Week1Level      string   `json:"week1_level"`
	Week1Activities []string `json:"week1_activities"`
	Week2Dates      string   `json:"week2_dates"`
	Week2Level      string   `json:"week2_level"`
	Week2Activities []string `json:"week2_activities"`
	Week3Dates      string   `json:"week3_dates"`
	Week3Level      string   `json:"week3_level"`
	Week3Activities []string `json:"week3_activities"`

	PlannedActivities     []string `json:"planned_activities"`
	NoiseIndex            string   `json:"noise_index"`
	NoiseLevel            string   `json:"noise_level"`
	SpecialConsiderations []string `json:"special_considerations"`

	Photos        []string `json:"photos"`
	PhotoCaptions []string `json:"photo_captions"`

	CommitmentText string `json:"commitment_text"`
	ContactName    string `json:"contact_name"`
	ContactEmail   string `json:"contact_email"`
	ContactPhone   string `json:"contact_phone"`
}

const minActivities = 5
const maxActivities = 7

// AssembleReport merges the calendar, static project metadata, and all stage
// outputs into one ReportData, applying the abbreviation table and manual
// overrides. Validation problems come back as warnings, never errors.
func AssembleReport(cfg Config, rw ReportWeek, daily WeeklySynthesis, sched ScheduleData, minutes MinutesData, photos PhotoSelection) (ReportData, []string) {
	var warnings []string
	abbr := cfg.Abbreviations

	data := ReportData{
		ReportNumber: fmt.Sprintf("%02d", rw.ReportNumber),
		ReportWeek:   rw.WeekRange,
		IssuedDate:   rw.IssuedDate,

		ProjectName:         cfg.Project.Name,
		ProjectSubtitle:     cfg.Project.Subtitle,
		ProjectAddress:      cfg.Project.Address,
		Architect:           cfg.Project.Architect,
		ProjectDuration:     cfg.Project.Duration,
		PreparedBy:          cfg.Project.PreparedBy,
		GeneralContractor:   cfg.Project.GeneralContractor,
		ConstructionManager: cfg.Project.ConstructionManager,
		District:            cfg.Project.District,
		ProjectDescription:  cfg.Project.Description,

		CountdownDays:   fmt.Sprintf("%d", rw.CountdownDays),
		Phase:           fallback(daily.Phase, "Construction"),
		OverallProgress: fallback(daily.OverallProgress, "0"),
		ScheduleStatus:  fallback(daily.ScheduleStatus, "On Schedule"),

		ActivitiesCompleted: applyAbbreviationsToList(daily.ActivitiesCompleted, abbr),
		MilestonesAchieved:  applyAbbreviationsToList(deduplicate(append(append([]string{}, daily.MilestonesAchieved...), minutes.MilestonesMentioned...)), abbr),
		CriticalItems:       applyAbbreviationsToList(deduplicate(append(append([]string{}, daily.CriticalItems...), minutes.CriticalItems...)), abbr),

		Week1Dates:      sched.Week1Dates,
		Week1Level:      sched.Week1Level,
		Week1Activities: applyAbbreviationsToList(sched.Week1Activities, abbr),
		Week2Dates:      sched.Week2Dates,
		Week2Level:      sched.Week2Level,
		Week2Activities: applyAbbreviationsToList(sched.Week2Activities, abbr),
		Week3Dates:      sched.Week3Dates,
		Week3Level:      sched.Week3Level,
		Week3Activities: applyAbbreviationsToList(sched.Week3Activities, abbr),

		PlannedActivities:     applyAbbreviationsToList(sched.PlannedActivities, abbr),
		NoiseIndex:            sched.NoiseIndex,
		NoiseLevel:            sched.NoiseLevel,
		SpecialConsiderations: applyAbbreviationsToList(sched.SpecialConsiderations, abbr),

		Photos:        photos.Photos,
		PhotoCaptions: photos.Captions,

		CommitmentText: cfg.Project.CommitmentText,
		ContactName:    cfg.Project.ContactName,
		ContactEmail:   cfg.Project.ContactEmail,
		ContactPhone:   cfg.Project.ContactPhone,
	}

	if cfg.OverridesPath != "" {
		n, err := applyOverrides(&data, cfg.OverridesPath)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Could not load overrides: %v", err))
		} else if n > 0 {
			log.Printf("applied %d manual overrides from %s", n, cfg.OverridesPath)
		}
	}

	warnings = append(warnings, validateReportData(&data)...)
	return data, warnings
}

// applyAbbreviations replaces every configured long form with its
// abbreviation, case-insensitively, longest terms first so nested terms
// resolve deterministically.
func applyAbbreviations(text string, abbreviations map[string]string) string {
	if len(abbreviations) == 0 {
		return text
	}
	terms := make([]string, 0, len(abbreviations))
	for full := range abbreviations {
		terms = append(terms, full)
	}
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})
	for _, full := range terms {
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(full))
		text = re.ReplaceAllLiteralString(text, abbreviations[full])
	}
	return text
}

func applyAbbreviationsToList(items []string, abbreviations map[string]string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = applyAbbreviations(item, abbreviations)
	}
	return out
}

// deduplicate drops near-duplicate items, keyed on the case-insensitive
// first 30 characters.
func deduplicate(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		key := item
		if len(key) > 30 {
			key = key[:30]
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if !seen[key] {
			seen[key] = true
			out = append(out, item)
		}
	}
	return out
}

// applyOverrides merges a manual-overrides JSON file over the assembled data
// via the shared JSON keys, returning how many keys were applied.
func applyOverrides(data *ReportData, path string) (int, error) {
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	var overrides map[string]json.RawMessage
	if err := json.Unmarshal(raw, &overrides); err != nil {
		return 0, fmt.Errorf("parse overrides: %w", err)
	}
	if len(overrides) == 0 {
		return 0, nil
	}

	base, err := json.Marshal(data)
	if err != nil {
		return 0, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return 0, err
	}
	for k, v := range overrides {
		merged[k] = v
	}
	remarshaled, err := json.Marshal(merged)
	if err != nil {
		return 0, err
	}
	if err := json.Unmarshal(remarshaled, data); err != nil {
		return 0, fmt.Errorf("apply overrides: %w", err)
	}
	return len(overrides), nil
}

// validateReportData checks required fields and clamps the activities list
// to the template's capacity.
func validateReportData(data *ReportData) []string {
	var warnings []string

	required := map[string]string{
		"report_number":    data.ReportNumber,
		"report_week":      data.ReportWeek,
		"issued_date":      data.IssuedDate,
		"project_name":     data.ProjectName,
		"countdown_days":   data.CountdownDays,
		"phase":            data.Phase,
		"overall_progress": data.OverallProgress,
		"schedule_status":  data.ScheduleStatus,
		"commitment_text":  data.CommitmentText,
		"contact_name":     data.ContactName,
	}
	var missing []string
	for name, val := range required {
		if val == "" {
			missing = append(missing, name)
		}
	}
	if len(data.ActivitiesCompleted) == 0 {
		missing = append(missing, "activities_completed")
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		warnings = append(warnings, fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")))
	}

	n := len(data.ActivitiesCompleted)
	switch {
	case n > 0 && n < minActivities:
		warnings = append(warnings, fmt.Sprintf("Only %d activities (minimum %d expected)", n, minActivities))
	case n > maxActivities:
		warnings = append(warnings, fmt.Sprintf("%d activities (maximum %d expected)", n, maxActivities))
		data.ActivitiesCompleted = data.ActivitiesCompleted[:maxActivities]
	}
	return warnings
}

func fallback(val, def string) string {
	if strings.TrimSpace(val) == "" {
		return def
	}
	return val
}
