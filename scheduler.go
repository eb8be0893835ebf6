package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// RunScheduled blocks and runs the pipeline on the configured cron schedule.
// The schedule is a standard 5-field cron expression (minute hour
// day-of-month month day-of-week); the default fires Fridays at 4pm local
// time so the week's last daily report has landed.
func RunScheduled(cfg Config, opts RunOptions) {
	schedule := strings.TrimSpace(cfg.CronSchedule)

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Fatalf("Invalid cron_schedule '%s': %v", schedule, err)
	}
	log.Printf("Report generation scheduled (cron: %s)", schedule)

	for {
		now := time.Now()
		next := sched.Next(now)
		wait := next.Sub(now)
		log.Printf("Next report run at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

		time.Sleep(wait)

		// Run history stores date-only Fridays; drop the fire time's clock.
		friday := dateOnly(mostRecentFriday(time.Now()))
		if done, err := runAlreadyDone(cfg, friday); err != nil {
			log.Printf("Run history check failed: %v", err)
		} else if done {
			log.Printf("Report for week of %s already generated, skipping", friday.Format("2006-01-02"))
			continue
		}

		// Each scheduled run targets its own fire time; explicit date and
		// number flags are for manual runs only.
		runOpts := opts
		runOpts.TargetDate = time.Time{}
		runOpts.ReportNumber = 0

		if _, err := RunPipeline(context.Background(), cfg, runOpts); err != nil {
			log.Printf("Scheduled run failed: %v", err)
		}
	}
}

func runAlreadyDone(cfg Config, friday time.Time) (bool, error) {
	db, err := InitDB(cfg.DBPath)
	if err != nil {
		return false, err
	}
	defer db.Close()
	return RunExistsForWeek(db, friday)
}
