package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: ./config.yaml or CONFIG_PATH)")
	dateStr := flag.String("date", "", "target date YYYY-MM-DD (default: most recent Friday)")
	reportNum := flag.Int("report-num", 0, "override the computed report number")
	dryRun := flag.Bool("dry-run", false, "run everything except rendering and outputs")
	skipEmail := flag.Bool("skip-email", false, "skip the principal email draft")
	skipPhotos := flag.Bool("skip-photos", false, "skip photo selection")
	debug := flag.Bool("debug", false, "save intermediate agent outputs")
	cronMode := flag.Bool("cron", false, "run on the configured cron schedule instead of once")
	history := flag.Bool("history", false, "print recent report runs and exit")
	flag.Parse()

	cfg := LoadConfig(*configPath)

	if *history {
		printRunHistory(cfg)
		return
	}

	opts := RunOptions{
		ReportNumber: *reportNum,
		DryRun:       *dryRun,
		SkipEmail:    *skipEmail,
		SkipPhotos:   *skipPhotos,
		Debug:        *debug,
	}
	if *dateStr != "" {
		target, err := ParseISODate(*dateStr)
		if err != nil {
			log.Fatalf("invalid --date: %v", err)
		}
		opts.TargetDate = target
	}

	if *cronMode {
		RunScheduled(cfg, opts)
		return
	}

	start := time.Now()
	result, err := RunPipeline(context.Background(), cfg, opts)
	if err != nil {
		log.Fatalf("report run failed: %v", err)
	}
	log.Printf("done report=%s pdf=%s elapsed=%.1fs",
		result.Data.ReportNumber, result.PDFPath, time.Since(start).Seconds())
}

// printRunHistory lists the last quarter's runs plus the most recent real run.
func printRunHistory(cfg Config) {
	db, err := InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("could not open run history: %v", err)
	}
	defer db.Close()

	to := time.Now().AddDate(0, 0, 7)
	from := to.AddDate(0, 0, -13*7)
	runs, err := GetRunsByDateRange(db, from, to)
	if err != nil {
		log.Fatalf("could not read run history: %v", err)
	}
	if len(runs) == 0 {
		fmt.Println("No report runs recorded.")
		return
	}
	for _, r := range runs {
		mode := ""
		if r.DryRun {
			mode = " (dry run)"
		}
		fmt.Printf("#%02d  week of %s  daily=%d photos=%d tokens=%d/%d  %.0fs%s\n",
			r.ReportNumber, r.WeekFriday.Format("2006-01-02"),
			r.DailyReports, r.PhotosUsed, r.InputTokens, r.OutputTokens,
			r.DurationSecs, mode)
	}
	if latest, err := LatestReportRun(db); err == nil {
		fmt.Printf("Latest report: #%02d at %s\n", latest.ReportNumber, latest.PDFPath)
	}
}
