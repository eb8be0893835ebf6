package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testAssembleConfig() Config {
	return Config{
		Project: ProjectInfo{
			Name:                "Bennett-Kew P-8 Academy",
			Subtitle:            "New Classroom Building Project",
			Address:             "11710 S Cherry Ave, Inglewood, CA 90303",
			Architect:           "HED Design",
			Duration:            "September 2025 - September 2026",
			PreparedBy:          "A. Wentworth, PM",
			GeneralContractor:   "PCN3, Inc.",
			ConstructionManager: "Fonder-Salari, Inc.",
			District:            "Inglewood Unified School District",
			Description:         "Single story classroom building.",
			CommitmentText:      "Zero disruptions.",
			ContactName:         "A. Wentworth",
			ContactEmail:        "aw@example.com",
			ContactPhone:        "(555) 555-0100",
		},
		Abbreviations: map[string]string{
			"Inglewood Unified School District": "IUSD",
			"Division of the State Architect":   "DSA",
		},
	}
}

func testSynthesis() WeeklySynthesis {
	return WeeklySynthesis{
		Phase:           "Foundations",
		OverallProgress: "8",
		ScheduleStatus:  "On Schedule",
		ActivitiesCompleted: []string{
			"Poured footings Grid 1-5",
			"Coordinated with Inglewood Unified School District staff",
			"Underground plumbing rough-in",
			"Erosion control maintained",
			"Conduit placement in slab area",
		},
		MilestonesAchieved: []string{"Foundation inspection passed"},
		CriticalItems:      []string{"RFI #012 response pending"},
	}
}

func TestApplyAbbreviations(t *testing.T) {
	abbr := map[string]string{
		"Inglewood Unified School District": "IUSD",
		"general contractor":                "GC",
	}
	got := applyAbbreviations("Met with the INGLEWOOD UNIFIED SCHOOL DISTRICT and the General Contractor", abbr)
	if got != "Met with the IUSD and the GC" {
		t.Fatalf("got %q", got)
	}
	if got := applyAbbreviations("no terms here", abbr); got != "no terms here" {
		t.Fatalf("got %q", got)
	}
	if got := applyAbbreviations("unchanged", nil); got != "unchanged" {
		t.Fatalf("got %q", got)
	}
}

func TestDeduplicate(t *testing.T) {
	items := []string{
		"Foundation inspection passed (DSA)",
		"foundation inspection passed and cleared",
		"Underground plumbing inspection cleared",
	}
	got := deduplicate(items)
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %v", got)
	}
	if got[0] != "Foundation inspection passed (DSA)" {
		t.Fatalf("first kept item = %q", got[0])
	}
}

func TestAssembleReportMergesAndAbbreviates(t *testing.T) {
	cfg := testAssembleConfig()
	rw := ResolveWeek(mustDate(t, "2026-02-06"), 0, mustDate(t, "2025-09-01"), mustDate(t, "2026-09-04"))

	minutes := MinutesData{
		CriticalItems:       []string{"Submit revised schedule to Division of the State Architect"},
		MilestonesMentioned: []string{"Foundation inspection passed"},
	}
	data, warnings := AssembleReport(cfg, rw, testSynthesis(), EmptySchedule(), minutes, PhotoSelection{})

	if data.ReportNumber != "23" {
		t.Fatalf("report number = %q", data.ReportNumber)
	}
	if data.ReportWeek != "02/02—02/06" {
		t.Fatalf("report week = %q", data.ReportWeek)
	}
	// Duplicate milestone from the minutes collapses.
	if len(data.MilestonesAchieved) != 1 {
		t.Fatalf("milestones = %v", data.MilestonesAchieved)
	}
	if len(data.CriticalItems) != 2 {
		t.Fatalf("critical items = %v", data.CriticalItems)
	}
	if data.CriticalItems[1] != "Submit revised schedule to DSA" {
		t.Fatalf("abbreviation not applied: %q", data.CriticalItems[1])
	}
	found := false
	for _, a := range data.ActivitiesCompleted {
		if a == "Coordinated with IUSD staff" {
			found = true
		}
	}
	if !found {
		t.Fatalf("abbreviation not applied to activities: %v", data.ActivitiesCompleted)
	}
	for _, w := range warnings {
		if strings.HasPrefix(w, "Missing required fields") {
			t.Fatalf("unexpected warning %q", w)
		}
	}
}

func TestAssembleReportActivityBounds(t *testing.T) {
	cfg := testAssembleConfig()
	rw := ResolveWeek(mustDate(t, "2026-02-06"), 0, mustDate(t, "2025-09-01"), mustDate(t, "2026-09-04"))

	syn := testSynthesis()
	syn.ActivitiesCompleted = []string{"a", "b", "c"}
	_, warnings := AssembleReport(cfg, rw, syn, EmptySchedule(), MinutesData{}, PhotoSelection{})
	if !containsPrefix(warnings, "Only 3 activities") {
		t.Fatalf("expected under-minimum warning, got %v", warnings)
	}

	syn.ActivitiesCompleted = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	data, warnings := AssembleReport(cfg, rw, syn, EmptySchedule(), MinutesData{}, PhotoSelection{})
	if len(data.ActivitiesCompleted) != 7 {
		t.Fatalf("expected clamp to 7, got %d", len(data.ActivitiesCompleted))
	}
	if !containsPrefix(warnings, "9 activities") {
		t.Fatalf("expected over-maximum warning, got %v", warnings)
	}
}

func TestAssembleReportMissingFieldsWarn(t *testing.T) {
	cfg := testAssembleConfig()
	cfg.Project.CommitmentText = ""
	rw := ResolveWeek(mustDate(t, "2026-02-06"), 0, mustDate(t, "2025-09-01"), mustDate(t, "2026-09-04"))

	syn := testSynthesis()
	syn.ActivitiesCompleted = nil
	_, warnings := AssembleReport(cfg, rw, syn, EmptySchedule(), MinutesData{}, PhotoSelection{})

	var missing string
	for _, w := range warnings {
		if strings.HasPrefix(w, "Missing required fields") {
			missing = w
		}
	}
	if missing == "" {
		t.Fatalf("expected missing-fields warning, got %v", warnings)
	}
	if !strings.Contains(missing, "commitment_text") || !strings.Contains(missing, "activities_completed") {
		t.Fatalf("warning incomplete: %q", missing)
	}
}

func TestAssembleReportOverrides(t *testing.T) {
	cfg := testAssembleConfig()
	dir := t.TempDir()
	cfg.OverridesPath = filepath.Join(dir, "overrides.json")
	overrides := `{"phase": "Vertical Construction", "critical_items": ["Manual note from the PM"]}`
	if err := os.WriteFile(cfg.OverridesPath, []byte(overrides), 0644); err != nil {
		t.Fatalf("write overrides: %v", err)
	}

	rw := ResolveWeek(mustDate(t, "2026-02-06"), 0, mustDate(t, "2025-09-01"), mustDate(t, "2026-09-04"))
	data, _ := AssembleReport(cfg, rw, testSynthesis(), EmptySchedule(), MinutesData{}, PhotoSelection{})

	if data.Phase != "Vertical Construction" {
		t.Fatalf("phase override not applied: %q", data.Phase)
	}
	if len(data.CriticalItems) != 1 || data.CriticalItems[0] != "Manual note from the PM" {
		t.Fatalf("critical items override not applied: %v", data.CriticalItems)
	}
	// Untouched fields survive the merge round-trip.
	if data.OverallProgress != "8" {
		t.Fatalf("overall progress = %q", data.OverallProgress)
	}
}

func TestAssembleReportAbsentOverridesFileIsFine(t *testing.T) {
	cfg := testAssembleConfig()
	cfg.OverridesPath = filepath.Join(t.TempDir(), "absent.json")
	rw := ResolveWeek(mustDate(t, "2026-02-06"), 0, mustDate(t, "2025-09-01"), mustDate(t, "2026-09-04"))

	_, warnings := AssembleReport(cfg, rw, testSynthesis(), EmptySchedule(), MinutesData{}, PhotoSelection{})
	for _, w := range warnings {
		if strings.HasPrefix(w, "Could not load overrides") {
			t.Fatalf("absent overrides should be silent, got %q", w)
		}
	}
}

func containsPrefix(items []string, prefix string) bool {
	for _, s := range items {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
