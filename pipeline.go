package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// RunOptions are the per-invocation knobs, set from flags or the scheduler.
type RunOptions struct {
	TargetDate   time.Time // zero means "most recent Friday"
	ReportNumber int       // 0 means derive from the calendar
	DryRun       bool
	SkipEmail    bool
	SkipPhotos   bool
	Debug        bool
}

// RunResult summarizes one pipeline run for persistence and notification.
type RunResult struct {
	Week             ReportWeek
	Data             ReportData
	Usage            LLMUsage
	Warnings         []string
	PDFPath          string
	JSONPath         string
	EmailPath        string
	DailyReportCount int
	Duration         time.Duration
	DryRun           bool
}

// RunPipeline executes one full report run: resolve the week and its input
// files, extract and synthesize via the LLM agents, assemble, render, and
// persist. Recoverable problems accumulate as warnings; only an unusable
// week (no daily reports at all) or a render failure aborts the run.
func RunPipeline(ctx context.Context, cfg Config, opts RunOptions) (RunResult, error) {
	start := time.Now()
	result := RunResult{DryRun: opts.DryRun}

	rw := ResolveWeek(opts.TargetDate, opts.ReportNumber, cfg.StartDate, cfg.SubstantialCompl)
	result.Week = rw
	log.Printf("report week resolved number=%d range=%s friday=%s",
		rw.ReportNumber, rw.WeekRange, rw.Friday.Format("2006-01-02"))

	files := ResolveAllFiles(cfg, rw)
	result.Warnings = append(result.Warnings, files.Warnings...)
	if len(files.DailyReports) == 0 {
		return result, fmt.Errorf("no daily reports found for week %s in %s", rw.WeekRange, cfg.DailyReportsDir)
	}

	// Extract text from every input PDF before any LLM call.
	var docs []ExtractedDoc
	for _, df := range files.DailyReports {
		doc, err := ExtractDoc(df.Path)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Could not read %s: %v", filepath.Base(df.Path), err))
			continue
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return result, fmt.Errorf("all %d daily reports were unreadable", len(files.DailyReports))
	}
	result.DailyReportCount = len(docs)

	scheduleText := ""
	if files.Schedule != "" {
		text, err := ExtractText(files.Schedule)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Could not read schedule %s: %v", filepath.Base(files.Schedule), err))
		} else {
			scheduleText = text
		}
	}
	minutesText := ""
	if files.Minutes != "" {
		text, err := ExtractText(files.Minutes)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Could not read minutes %s: %v", filepath.Base(files.Minutes), err))
		} else {
			minutesText = text
		}
	}

	masterContext := ""
	if cfg.MasterSchedulePath != "" {
		// The look-ahead starts the Monday after the report week.
		masterContext = MasterScheduleContext(cfg.MasterSchedulePath, rw.Friday.AddDate(0, 0, 3), 3, cfg.WBSKeywords)
	}
	if hs := UpcomingHolidays(rw, cfg.HolidayTable, 3); len(hs) > 0 {
		var b strings.Builder
		b.WriteString("UPCOMING NON-WORK DAYS:\n")
		for _, h := range hs {
			fmt.Fprintf(&b, "- %s: %s\n", h.Date.Format("01/02/2006"), h.Label)
		}
		if masterContext != "" {
			masterContext += "\n\n"
		}
		masterContext += strings.TrimRight(b.String(), "\n")
	}

	client := newAnthropicClient(cfg.AnthropicAPIKey)

	// The three extraction agents are independent; run them concurrently.
	var (
		wg       sync.WaitGroup
		daily    WeeklySynthesis
		dailyErr error
		sched    ScheduleData
		schedErr error
		minutes  MinutesData
		minsErr  error
		usageMu  sync.Mutex
	)
	addUsage := func(u LLMUsage) {
		usageMu.Lock()
		result.Usage.Add(u)
		usageMu.Unlock()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		var u LLMUsage
		daily, u, dailyErr = ProcessDailyReports(ctx, client, cfg, docs, rw.WeekRange)
		addUsage(u)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if scheduleText == "" {
			sched = EmptySchedule()
			return
		}
		var u LLMUsage
		sched, u, schedErr = ProcessSchedule(ctx, client, cfg, scheduleText, rw.WeekRange, masterContext)
		addUsage(u)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if minutesText == "" {
			minutes = EmptyMinutes()
			return
		}
		var u LLMUsage
		minutes, u, minsErr = ProcessMinutes(ctx, client, cfg, minutesText)
		addUsage(u)
	}()

	wg.Wait()

	if dailyErr != nil {
		return result, fmt.Errorf("daily report synthesis: %w", dailyErr)
	}
	if schedErr != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Schedule extraction failed, using placeholder: %v", schedErr))
		sched = EmptySchedule()
	}
	if minsErr != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Minutes extraction failed: %v", minsErr))
		minutes = EmptyMinutes()
	}
	fillScheduleWeekDates(&sched, rw)

	var photos PhotoSelection
	if !opts.SkipPhotos && len(files.CandidatePhotos) > 0 {
		var u LLMUsage
		var err error
		photos, u, err = SelectPhotos(ctx, client, cfg, files.CandidatePhotos, daily.ActivitiesCompleted, cfg.PhotosPerReport)
		addUsage(u)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Photo selection failed: %v", err))
		}
		if photos.MismatchWarning != "" {
			result.Warnings = append(result.Warnings, photos.MismatchWarning)
		}
	}

	weatherContext := ""
	if cfg.Latitude != 0 || cfg.Longitude != 0 {
		forecast, err := GetForecast(cfg.Latitude, cfg.Longitude, cfg.WeatherUserAgent)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Weather forecast unavailable: %v", err))
		} else {
			weatherContext = CheckWeatherConflicts(forecast, sched.PlannedActivities, cfg.WeatherKeywords)
			if weatherContext != "" {
				result.Warnings = append(result.Warnings, "Weather conflict detected for planned work")
			}
		}
	}

	// A dedicated reviewer decides what, if anything, is truly critical.
	items, u, err := AssessCriticalItems(ctx, client, cfg, daily, sched, minutes, rw.WeekRange, weatherContext)
	addUsage(u)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Critical items review failed, keeping merged items: %v", err))
	} else {
		daily.CriticalItems = items
		minutes.CriticalItems = nil
	}

	data, assemblyWarnings := AssembleReport(cfg, rw, daily, sched, minutes, photos)
	result.Warnings = append(result.Warnings, assemblyWarnings...)
	result.Data = data

	if opts.Debug {
		writeDebugJSON(cfg.OutputDir, data.ReportNumber,
			debugStages(daily, sched, minutes, photos, weatherContext, masterContext, result.Warnings))
	}

	for _, w := range result.Warnings {
		log.Printf("warning: %s", w)
	}
	if opts.DryRun {
		result.Duration = time.Since(start)
		log.Printf("dry run complete number=%d warnings=%d tokens=%d",
			rw.ReportNumber, len(result.Warnings), result.Usage.TotalTokens())
		return result, nil
	}

	pdfPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("Weekly_Progress_Report_%s.pdf", data.ReportNumber))
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return result, err
	}
	if err := GenerateReportPDF(data, cfg.LogosDir, pdfPath); err != nil {
		return result, fmt.Errorf("render report: %w", err)
	}
	result.PDFPath = pdfPath
	log.Printf("report rendered path=%s", pdfPath)

	jsonPath, err := WriteReportJSON(data, cfg.OutputDir)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not save report JSON: %v", err))
	} else {
		result.JSONPath = jsonPath
	}
	if len(photos.Photos) > 0 {
		if _, err := WritePhotoLog(photos, data.ReportNumber, cfg.OutputDir); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Could not save photo log: %v", err))
		}
	}

	if !opts.SkipEmail {
		draft, u, err := DraftPrincipalEmail(ctx, client, cfg, data)
		addUsage(u)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Email draft failed: %v", err))
		} else {
			emailPath, err := WriteEmailDraftFile(draft, data.ReportNumber, cfg.OutputDir)
			if err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("Could not save email draft: %v", err))
			} else {
				result.EmailPath = emailPath
				log.Printf("email draft saved path=%s", emailPath)
			}
		}
	}

	result.Duration = time.Since(start)
	recordRun(cfg, result)
	NotifyRunComplete(cfg, result)

	log.Printf("run complete number=%d duration=%.1fs tokens=%d warnings=%d",
		rw.ReportNumber, result.Duration.Seconds(), result.Usage.TotalTokens(), len(result.Warnings))
	return result, nil
}

// fillScheduleWeekDates replaces placeholder look-ahead dates with ones
// computed from the calendar. Week 1 is the week after the report week.
func fillScheduleWeekDates(sched *ScheduleData, rw ReportWeek) {
	dates := []*string{&sched.Week1Dates, &sched.Week2Dates, &sched.Week3Dates}
	for i, d := range dates {
		if *d != "" && *d != "TBD" {
			continue
		}
		mon := rw.Monday.AddDate(0, 0, 7*(i+1))
		fri := mon.AddDate(0, 0, 4)
		*d = fmt.Sprintf("%s—%s", mon.Format("01/02"), fri.Format("01/02"))
	}
}

func recordRun(cfg Config, result RunResult) {
	db, err := InitDB(cfg.DBPath)
	if err != nil {
		log.Printf("run history unavailable: %v", err)
		return
	}
	defer db.Close()

	_, err = InsertReportRun(db, ReportRun{
		ReportNumber: result.Week.ReportNumber,
		WeekFriday:   result.Week.Friday,
		PDFPath:      result.PDFPath,
		JSONPath:     result.JSONPath,
		EmailPath:    result.EmailPath,
		DailyReports: result.DailyReportCount,
		PhotosUsed:   len(result.Data.Photos),
		InputTokens:  result.Usage.InputTokens + result.Usage.CacheCreationInputTokens + result.Usage.CacheReadInputTokens,
		OutputTokens: result.Usage.OutputTokens,
		Warnings:     strings.Join(result.Warnings, "\n"),
		DurationSecs: result.Duration.Seconds(),
		DryRun:       result.DryRun,
	})
	if err != nil {
		log.Printf("could not record run: %v", err)
	}
}

// debugStages collects every intermediate agent output for --debug. The
// per-day extractions are excluded from WeeklySynthesis's own JSON, so they
// get their own key here.
func debugStages(daily WeeklySynthesis, sched ScheduleData, minutes MinutesData, photos PhotoSelection, weatherContext, masterContext string, warnings []string) map[string]any {
	return map[string]any{
		"daily_synthesis":   daily,
		"daily_extractions": daily.DailyExtractions,
		"schedule":          sched,
		"minutes":           minutes,
		"photo_selection":   photos,
		"weather_context":   weatherContext,
		"master_context":    masterContext,
		"warnings":          warnings,
	}
}

func writeDebugJSON(outputDir, reportNumber string, stages map[string]any) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Printf("debug output unavailable: %v", err)
		return
	}
	path := filepath.Join(outputDir, fmt.Sprintf("debug_stages_%s.json", reportNumber))
	raw, err := json.MarshalIndent(stages, "", "  ")
	if err != nil {
		log.Printf("debug marshal failed: %v", err)
		return
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		log.Printf("debug write failed: %v", err)
		return
	}
	log.Printf("debug stages saved path=%s", path)
}
