package main

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ReportRun is one completed (or dry) pipeline run.
type ReportRun struct {
	ID           int64
	ReportNumber int
	WeekFriday   time.Time
	PDFPath      string
	JSONPath     string
	EmailPath    string
	DailyReports int
	PhotosUsed   int
	InputTokens  int64
	OutputTokens int64
	Warnings     string
	DurationSecs float64
	DryRun       bool
	CreatedAt    time.Time
}

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS report_runs (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		report_number INTEGER NOT NULL,
		week_friday   DATETIME NOT NULL,
		pdf_path      TEXT DEFAULT '',
		json_path     TEXT DEFAULT '',
		email_path    TEXT DEFAULT '',
		daily_reports INTEGER DEFAULT 0,
		photos_used   INTEGER DEFAULT 0,
		input_tokens  INTEGER DEFAULT 0,
		output_tokens INTEGER DEFAULT 0,
		warnings      TEXT DEFAULT '',
		duration_secs REAL DEFAULT 0,
		dry_run       INTEGER DEFAULT 0,
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_report_runs_number ON report_runs(report_number);
	CREATE INDEX IF NOT EXISTS idx_report_runs_friday ON report_runs(week_friday);
	`
	_, err = db.Exec(schema)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func InsertReportRun(db *sql.DB, run ReportRun) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO report_runs
		 (report_number, week_friday, pdf_path, json_path, email_path, daily_reports, photos_used, input_tokens, output_tokens, warnings, duration_secs, dry_run)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ReportNumber, run.WeekFriday, run.PDFPath, run.JSONPath, run.EmailPath,
		run.DailyReports, run.PhotosUsed, run.InputTokens, run.OutputTokens,
		run.Warnings, run.DurationSecs, run.DryRun,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// LatestReportRun returns the most recent non-dry run, or sql.ErrNoRows.
func LatestReportRun(db *sql.DB) (ReportRun, error) {
	var run ReportRun
	err := db.QueryRow(
		`SELECT id, report_number, week_friday, pdf_path, json_path, email_path,
		        daily_reports, photos_used, input_tokens, output_tokens, warnings, duration_secs, dry_run, created_at
		 FROM report_runs WHERE dry_run = 0
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
	).Scan(
		&run.ID, &run.ReportNumber, &run.WeekFriday, &run.PDFPath, &run.JSONPath,
		&run.EmailPath, &run.DailyReports, &run.PhotosUsed, &run.InputTokens,
		&run.OutputTokens, &run.Warnings, &run.DurationSecs, &run.DryRun, &run.CreatedAt,
	)
	return run, err
}

// RunExistsForWeek reports whether a non-dry run was already recorded for the
// given week's Friday.
func RunExistsForWeek(db *sql.DB, friday time.Time) (bool, error) {
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM report_runs WHERE week_friday = ? AND dry_run = 0`,
		friday,
	).Scan(&count)
	return count > 0, err
}

func GetRunsByDateRange(db *sql.DB, from, to time.Time) ([]ReportRun, error) {
	rows, err := db.Query(
		`SELECT id, report_number, week_friday, pdf_path, json_path, email_path,
		        daily_reports, photos_used, input_tokens, output_tokens, warnings, duration_secs, dry_run, created_at
		 FROM report_runs WHERE week_friday >= ? AND week_friday < ?
		 ORDER BY week_friday, id`,
		from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []ReportRun
	for rows.Next() {
		var run ReportRun
		err := rows.Scan(
			&run.ID, &run.ReportNumber, &run.WeekFriday, &run.PDFPath, &run.JSONPath,
			&run.EmailPath, &run.DailyReports, &run.PhotosUsed, &run.InputTokens,
			&run.OutputTokens, &run.Warnings, &run.DurationSecs, &run.DryRun, &run.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
