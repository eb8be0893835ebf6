package main

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInsertAndLatestReportRun(t *testing.T) {
	db := newTestDB(t)

	friday := time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC)
	id, err := InsertReportRun(db, ReportRun{
		ReportNumber: 23,
		WeekFriday:   friday,
		PDFPath:      "/out/Weekly_Progress_Report_23.pdf",
		DailyReports: 5,
		PhotosUsed:   2,
		InputTokens:  42000,
		OutputTokens: 3100,
		Warnings:     "Only 1 candidate photos found",
		DurationSecs: 74.2,
	})
	if err != nil {
		t.Fatalf("InsertReportRun: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a row id")
	}

	run, err := LatestReportRun(db)
	if err != nil {
		t.Fatalf("LatestReportRun: %v", err)
	}
	if run.ReportNumber != 23 || run.DailyReports != 5 || run.InputTokens != 42000 {
		t.Fatalf("latest run = %+v", run)
	}
	if !run.WeekFriday.Equal(friday) {
		t.Fatalf("week friday = %v", run.WeekFriday)
	}
}

func TestLatestReportRunSkipsDryRuns(t *testing.T) {
	db := newTestDB(t)

	friday := time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC)
	if _, err := InsertReportRun(db, ReportRun{ReportNumber: 22, WeekFriday: friday.AddDate(0, 0, -7)}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := InsertReportRun(db, ReportRun{ReportNumber: 23, WeekFriday: friday, DryRun: true}); err != nil {
		t.Fatalf("insert dry: %v", err)
	}

	run, err := LatestReportRun(db)
	if err != nil {
		t.Fatalf("LatestReportRun: %v", err)
	}
	if run.ReportNumber != 22 {
		t.Fatalf("expected the real run, got %+v", run)
	}
}

func TestRunExistsForWeek(t *testing.T) {
	db := newTestDB(t)

	friday := time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC)
	exists, err := RunExistsForWeek(db, friday)
	if err != nil || exists {
		t.Fatalf("exists = %v err = %v, want false", exists, err)
	}

	if _, err := InsertReportRun(db, ReportRun{ReportNumber: 23, WeekFriday: friday}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	exists, err = RunExistsForWeek(db, friday)
	if err != nil || !exists {
		t.Fatalf("exists = %v err = %v, want true", exists, err)
	}
}

func TestGetRunsByDateRange(t *testing.T) {
	db := newTestDB(t)

	base := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if _, err := InsertReportRun(db, ReportRun{ReportNumber: 19 + i, WeekFriday: base.AddDate(0, 0, 7*i)}); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	runs, err := GetRunsByDateRange(db, base.AddDate(0, 0, 7), base.AddDate(0, 0, 28))
	if err != nil {
		t.Fatalf("GetRunsByDateRange: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].ReportNumber != 20 || runs[2].ReportNumber != 22 {
		t.Fatalf("wrong order: %+v", runs)
	}
}
