package main

import (
	"os"
	"path/filepath"
	"testing"
)

const testConfigYAML = `daily_reports_dir: /share/daily
schedules_dir: /share/schedules
minutes_dir: /share/minutes
photos_dir: /share/photos
report_start_date: "2025-09-01"
substantial_completion_date: "2026-09-04"
anthropic_api_key: test-key
filename_year_min: 2025
filename_year_max: 2030
project:
  name: Bennett-Kew P-8 Academy
  district: Inglewood Unified School District
abbreviations:
  Inglewood Unified School District: IUSD
holidays:
  - date: "2026-02-16"
    label: Presidents' Day
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig(writeTestConfig(t, testConfigYAML))

	if cfg.DailyReportsDir != "/share/daily" {
		t.Fatalf("daily_reports_dir = %q", cfg.DailyReportsDir)
	}
	if cfg.OutputDir != "./output" {
		t.Fatalf("output dir default = %q", cfg.OutputDir)
	}
	if cfg.DailyReportTemplate != "Daily_Report_-%s.pdf" {
		t.Fatalf("daily template default = %q", cfg.DailyReportTemplate)
	}
	if cfg.PhotosPerReport != 2 || cfg.MaxPhotoCandidates != 10 {
		t.Fatalf("photo defaults = %d/%d", cfg.PhotosPerReport, cfg.MaxPhotoCandidates)
	}
	if cfg.CronSchedule != "0 16 * * FRI" {
		t.Fatalf("cron default = %q", cfg.CronSchedule)
	}
	if cfg.ExtractModel == "" || cfg.EmailModel != cfg.SynthesisModel {
		t.Fatalf("model defaults = %q/%q/%q", cfg.ExtractModel, cfg.SynthesisModel, cfg.EmailModel)
	}
	if len(cfg.WeatherKeywords) == 0 || len(cfg.WBSKeywords) == 0 {
		t.Fatal("keyword defaults not applied")
	}
}

func TestLoadConfigParsesDatesAndHolidays(t *testing.T) {
	cfg := LoadConfig(writeTestConfig(t, testConfigYAML))

	if got := cfg.StartDate.Format("2006-01-02"); got != "2025-09-01" {
		t.Fatalf("start date = %s", got)
	}
	if got := cfg.SubstantialCompl.Format("2006-01-02"); got != "2026-09-04" {
		t.Fatalf("completion date = %s", got)
	}
	if len(cfg.HolidayTable) != 1 || cfg.HolidayTable[0].Label != "Presidents' Day" {
		t.Fatalf("holiday table = %v", cfg.HolidayTable)
	}
	if cfg.Abbreviations["Inglewood Unified School District"] != "IUSD" {
		t.Fatalf("abbreviations = %v", cfg.Abbreviations)
	}
	yw := cfg.yearWindow()
	if yw.Min != 2025 || yw.Max != 2030 {
		t.Fatalf("year window = %+v", yw)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("OUTPUT_DIR", "/tmp/site-out")
	t.Setenv("LLM_EXTRACT_MODEL", "claude-haiku-test")
	t.Setenv("PHOTOS_PER_REPORT", "4")

	cfg := LoadConfig(writeTestConfig(t, testConfigYAML))
	if cfg.OutputDir != "/tmp/site-out" {
		t.Fatalf("env override output dir = %q", cfg.OutputDir)
	}
	if cfg.ExtractModel != "claude-haiku-test" {
		t.Fatalf("env override model = %q", cfg.ExtractModel)
	}
	if cfg.PhotosPerReport != 4 {
		t.Fatalf("env override photos = %d", cfg.PhotosPerReport)
	}
}
