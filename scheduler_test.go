package main

import (
	"path/filepath"
	"testing"
	"time"
)

// A report recorded at UTC midnight must be found again when the scheduler
// fires later the same Friday with a wall-clock fire time.
func TestRunAlreadyDoneMatchesRecordedWeek(t *testing.T) {
	cfg := Config{DBPath: filepath.Join(t.TempDir(), "runs.db")}

	db, err := InitDB(cfg.DBPath)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	if _, err := InsertReportRun(db, ReportRun{
		ReportNumber: 23,
		WeekFriday:   mustDate(t, "2026-02-06"),
	}); err != nil {
		t.Fatalf("InsertReportRun: %v", err)
	}
	db.Close()

	fire := time.Date(2026, 2, 6, 16, 0, 0, 0, time.UTC)
	done, err := runAlreadyDone(cfg, dateOnly(mostRecentFriday(fire)))
	if err != nil {
		t.Fatalf("runAlreadyDone: %v", err)
	}
	if !done {
		t.Fatal("recorded week not recognized at a Friday-afternoon fire time")
	}

	nextFire := fire.AddDate(0, 0, 7)
	done, err = runAlreadyDone(cfg, dateOnly(mostRecentFriday(nextFire)))
	if err != nil {
		t.Fatalf("runAlreadyDone: %v", err)
	}
	if done {
		t.Fatal("next week falsely reported as done")
	}
}
