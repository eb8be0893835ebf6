package main

import (
	"strings"
	"testing"
	"time"
)

func TestBuildRunSummary(t *testing.T) {
	rw := ResolveWeek(mustDate(t, "2026-02-06"), 0, mustDate(t, "2025-09-01"), mustDate(t, "2026-09-04"))
	result := RunResult{
		Week:             rw,
		Usage:            LLMUsage{InputTokens: 12000, OutputTokens: 3400},
		Warnings:         []string{"Missing daily report for Wednesday 02/04"},
		PDFPath:          "/out/Weekly_Progress_Report_23.pdf",
		EmailPath:        "/out/draft_23.eml",
		DailyReportCount: 4,
		Duration:         42 * time.Second,
	}
	result.Data.Photos = []string{"a.jpg", "b.jpg"}

	got := buildRunSummary(result)
	for _, want := range []string{
		"*Weekly Progress Report 23* (02/02—02/06) generated in 42s",
		"Daily reports: 4 | Photos: 2 | Tokens: 12000 in / 3400 out",
		"PDF: `/out/Weekly_Progress_Report_23.pdf`",
		"Email draft: `/out/draft_23.eml`",
		":warning: 1 warnings:",
		"• Missing daily report for Wednesday 02/04",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestBuildRunSummaryOmitsEmptySections(t *testing.T) {
	got := buildRunSummary(RunResult{Week: ReportWeek{ReportNumber: 1, WeekRange: "09/01—09/05"}})
	if strings.Contains(got, "PDF:") || strings.Contains(got, "Email draft:") || strings.Contains(got, ":warning:") {
		t.Fatalf("empty sections rendered:\n%s", got)
	}
}

func TestNotifyRunCompleteDisabledWithoutToken(t *testing.T) {
	// Must return without any network attempt.
	NotifyRunComplete(Config{}, RunResult{})
	NotifyRunComplete(Config{SlackBotToken: "xoxb-test"}, RunResult{})
}
