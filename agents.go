package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// DailyExtraction is the structured content of one daily report.
type DailyExtraction struct {
	Date           string   `json:"date"`
	Activities     []string `json:"activities"`
	Equipment      []string `json:"equipment"`
	PersonnelCount string   `json:"personnel_count"`
	Issues         []string `json:"issues"`
	Testing        []string `json:"testing"`
	Weather        string   `json:"weather"`
	Coordination   []string `json:"coordination"`
	Subcontractors []string `json:"subcontractors"`
}

// WeeklySynthesis is the narrative summary produced from the five daily
// extractions.
type WeeklySynthesis struct {
	Phase               string   `json:"phase"`
	OverallProgress     string   `json:"overall_progress"`
	ScheduleStatus      string   `json:"schedule_status"`
	ActivitiesCompleted []string `json:"activities_completed"`
	MilestonesAchieved  []string `json:"milestones_achieved"`
	CriticalItems       []string `json:"critical_items"`

	DailyExtractions []DailyExtraction `json:"-"` // kept for audit and critical-items review
}

// ScheduleData is the 3-week impact matrix extracted from the look-ahead
// schedule.
type ScheduleData struct {
	Week1Dates            string   `json:"week1_dates"`
	Week1Level            string   `json:"week1_level"`
	Week1Activities       []string `json:"week1_activities"`
	Week2Dates            string   `json:"week2_dates"`
	Week2Level            string   `json:"week2_level"`
	Week2Activities       []string `json:"week2_activities"`
	Week3Dates            string   `json:"week3_dates"`
	Week3Level            string   `json:"week3_level"`
	Week3Activities       []string `json:"week3_activities"`
	PlannedActivities     []string `json:"planned_activities"`
	NoiseIndex            string   `json:"noise_index"`
	NoiseLevel            string   `json:"noise_level"`
	SpecialConsiderations []string `json:"special_considerations"`
}

// MinutesData is the extraction from OAC meeting minutes.
type MinutesData struct {
	CriticalItems       []string `json:"critical_items"`
	MilestonesMentioned []string `json:"milestones_mentioned"`
	CoordinationItems   []string `json:"coordination_items"`
	ScheduleNotes       string   `json:"schedule_notes"`
}

// EmailDraft is the LLM-drafted principal email. Never sent, only saved.
type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

var dailyExtractTool = anthropic.ToolParam{
	Name:        "extract_daily_data",
	Description: anthropic.String("Extract structured data from a daily construction report"),
	InputSchema: anthropic.ToolInputSchemaParam{
		Properties: map[string]any{
			"date":            stringSchema(),
			"activities":      stringArraySchema(),
			"equipment":       stringArraySchema(),
			"personnel_count": stringSchema(),
			"issues":          stringArraySchema(),
			"testing":         stringArraySchema(),
			"weather":         stringSchema(),
			"coordination":    stringArraySchema(),
			"subcontractors":  stringArraySchema(),
		},
		Required: []string{"date", "activities"},
	},
}

var weeklySynthesisTool = anthropic.ToolParam{
	Name:        "weekly_synthesis",
	Description: anthropic.String("Synthesize daily reports into a weekly summary"),
	InputSchema: anthropic.ToolInputSchemaParam{
		Properties: map[string]any{
			"phase":                stringSchema(),
			"overall_progress":     stringSchema(),
			"schedule_status":      stringSchema(),
			"activities_completed": stringArraySchema(),
			"milestones_achieved":  stringArraySchema(),
			"critical_items":       stringArraySchema(),
		},
		Required: []string{"phase", "overall_progress", "schedule_status",
			"activities_completed", "milestones_achieved", "critical_items"},
	},
}

var scheduleTool = anthropic.ToolParam{
	Name:        "schedule_data",
	Description: anthropic.String("Structured 3-week look-ahead extraction"),
	InputSchema: anthropic.ToolInputSchemaParam{
		Properties: map[string]any{
			"week1_dates":            stringSchema(),
			"week1_level":            stringSchema(),
			"week1_activities":       stringArraySchema(),
			"week2_dates":            stringSchema(),
			"week2_level":            stringSchema(),
			"week2_activities":       stringArraySchema(),
			"week3_dates":            stringSchema(),
			"week3_level":            stringSchema(),
			"week3_activities":       stringArraySchema(),
			"planned_activities":     stringArraySchema(),
			"noise_index":            stringSchema(),
			"noise_level":            stringSchema(),
			"special_considerations": stringArraySchema(),
		},
		Required: []string{"week1_dates", "week1_level", "week1_activities",
			"week2_dates", "week2_level", "week2_activities",
			"week3_dates", "week3_level", "week3_activities",
			"planned_activities", "noise_index", "noise_level",
			"special_considerations"},
	},
}

var minutesTool = anthropic.ToolParam{
	Name:        "minutes_data",
	Description: anthropic.String("Structured meeting-minutes extraction"),
	InputSchema: anthropic.ToolInputSchemaParam{
		Properties: map[string]any{
			"critical_items":       stringArraySchema(),
			"milestones_mentioned": stringArraySchema(),
			"coordination_items":   stringArraySchema(),
			"schedule_notes":       stringSchema(),
		},
		Required: []string{"critical_items", "milestones_mentioned",
			"coordination_items", "schedule_notes"},
	},
}

var criticalItemsTool = anthropic.ToolParam{
	Name:        "critical_items_assessment",
	Description: anthropic.String("PM assessment of critical items for the stakeholder report"),
	InputSchema: anthropic.ToolInputSchemaParam{
		Properties: map[string]any{
			"critical_items": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"maxItems": 2,
			},
		},
		Required: []string{"critical_items"},
	},
}

var emailDraftTool = anthropic.ToolParam{
	Name:        "email_draft",
	Description: anthropic.String("Draft the principal email"),
	InputSchema: anthropic.ToolInputSchemaParam{
		Properties: map[string]any{
			"subject": stringSchema(),
			"body":    stringSchema(),
		},
		Required: []string{"subject", "body"},
	},
}

var weekdayLabels = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// ProcessDailyReports extracts each daily report in turn, then synthesizes
// the week. Per-day extraction runs on the cheaper extract model; synthesis
// on the synthesis model.
func ProcessDailyReports(ctx context.Context, client anthropic.Client, cfg Config, docs []ExtractedDoc, weekRange string) (WeeklySynthesis, LLMUsage, error) {
	var usage LLMUsage
	extractions := make([]DailyExtraction, 0, len(docs))

	for i, doc := range docs {
		label := fmt.Sprintf("Day %d", i+1)
		if i < len(weekdayLabels) {
			label = weekdayLabels[i]
		}
		log.Printf("llm extract agent=daily day=%s file=%s chars=%d", label, doc.Filename, doc.Length)

		var ext DailyExtraction
		u, err := extractWithTool(ctx, client, cfg.ExtractModel, 1500, dailyExtractSystem,
			[]anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(fmt.Sprintf("Extract data from this %s daily report:\n\n%s", label, doc.Text)),
			}, dailyExtractTool, &ext)
		usage.Add(u)
		if err != nil {
			return WeeklySynthesis{}, usage, fmt.Errorf("daily extraction %s: %w", label, err)
		}
		extractions = append(extractions, ext)
	}

	log.Printf("llm extract agent=synthesis days=%d", len(extractions))
	var synth WeeklySynthesis
	u, err := extractWithTool(ctx, client, cfg.SynthesisModel, 2000, weeklySynthesisSystem,
		[]anthropic.ContentBlockParamUnion{
			anthropic.NewTextBlock(fmt.Sprintf(
				"Synthesize these %d daily reports for the week of %s into a weekly progress summary:\n%s",
				len(extractions), weekRange, buildDailySummaryText(extractions))),
		}, weeklySynthesisTool, &synth)
	usage.Add(u)
	if err != nil {
		return WeeklySynthesis{}, usage, fmt.Errorf("weekly synthesis: %w", err)
	}
	synth.DailyExtractions = extractions
	return synth, usage, nil
}

// buildDailySummaryText flattens the per-day extractions into the synthesis
// prompt body.
func buildDailySummaryText(extractions []DailyExtraction) string {
	var b strings.Builder
	for _, ext := range extractions {
		date := ext.Date
		if date == "" {
			date = "Unknown"
		}
		fmt.Fprintf(&b, "\n--- %s ---\n", date)
		fmt.Fprintf(&b, "Activities: %s\n", strings.Join(ext.Activities, "; "))
		fmt.Fprintf(&b, "Equipment: %s\n", strings.Join(ext.Equipment, ", "))
		fmt.Fprintf(&b, "Issues: %s\n", strings.Join(ext.Issues, "; "))
		fmt.Fprintf(&b, "Testing: %s\n", strings.Join(ext.Testing, "; "))
		weather := ext.Weather
		if weather == "" {
			weather = "N/A"
		}
		fmt.Fprintf(&b, "Weather: %s\n", weather)
		fmt.Fprintf(&b, "Coordination: %s\n", strings.Join(ext.Coordination, "; "))
	}
	return b.String()
}

// ProcessSchedule extracts the 3-week impact matrix. masterContext, when
// non-empty, is the master-schedule supplement appended after the short
// schedule text.
func ProcessSchedule(ctx context.Context, client anthropic.Client, cfg Config, scheduleText, weekRange, masterContext string) (ScheduleData, LLMUsage, error) {
	prompt := fmt.Sprintf(
		"Extract the 3-week look-ahead data from this schedule. "+
			"The current report week is %s. "+
			"Week 1 should be the week AFTER the report week.\n\nSchedule text:\n%s",
		weekRange, scheduleText)
	if masterContext != "" {
		prompt += "\n\n" + masterContext
	}

	log.Printf("llm extract agent=schedule chars=%d master_supplement=%t", len(scheduleText), masterContext != "")
	var data ScheduleData
	usage, err := extractWithTool(ctx, client, cfg.ExtractModel, 1500, scheduleExtractSystem,
		[]anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(prompt)}, scheduleTool, &data)
	if err != nil {
		return ScheduleData{}, usage, fmt.Errorf("schedule extraction: %w", err)
	}
	return data, usage, nil
}

// EmptySchedule is the placeholder used when no look-ahead schedule was
// found, keeping the rendered report reviewable rather than blank.
func EmptySchedule() ScheduleData {
	return ScheduleData{
		Week1Dates: "TBD", Week1Level: "MODERATE", Week1Activities: []string{"TBD"},
		Week2Dates: "TBD", Week2Level: "MODERATE", Week2Activities: []string{"TBD"},
		Week3Dates: "TBD", Week3Level: "MODERATE", Week3Activities: []string{"TBD"},
		PlannedActivities:     []string{"Activities to be determined from schedule"},
		NoiseIndex:            "Moderate",
		NoiseLevel:            "3/5",
		SpecialConsiderations: []string{"Coordinate with school for campus activities"},
	}
}

// ProcessMinutes extracts key items from OAC meeting minutes text.
func ProcessMinutes(ctx context.Context, client anthropic.Client, cfg Config, minutesText string) (MinutesData, LLMUsage, error) {
	log.Printf("llm extract agent=minutes chars=%d", len(minutesText))
	var data MinutesData
	usage, err := extractWithTool(ctx, client, cfg.SynthesisModel, 1000, minutesExtractSystem,
		[]anthropic.ContentBlockParamUnion{
			anthropic.NewTextBlock("Extract key items from these OAC meeting minutes:\n\n" + minutesText),
		}, minutesTool, &data)
	if err != nil {
		return MinutesData{}, usage, fmt.Errorf("minutes extraction: %w", err)
	}
	return data, usage, nil
}

func EmptyMinutes() MinutesData {
	return MinutesData{
		CriticalItems:       []string{},
		MilestonesMentioned: []string{},
		CoordinationItems:   []string{},
		ScheduleNotes:       "",
	}
}

// AssessCriticalItems reviews everything extracted this week and returns
// 0-2 items worth the report's Critical Items section.
func AssessCriticalItems(ctx context.Context, client anthropic.Client, cfg Config, daily WeeklySynthesis, sched ScheduleData, minutes MinutesData, weekRange, weatherContext string) ([]string, LLMUsage, error) {
	review := buildCriticalItemsContext(daily, sched, minutes, weatherContext)

	log.Printf("llm extract agent=critical-items chars=%d", len(review))
	var out struct {
		CriticalItems []string `json:"critical_items"`
	}
	usage, err := extractWithTool(ctx, client, cfg.SynthesisModel, 500, criticalItemsSystem,
		[]anthropic.ContentBlockParamUnion{
			anthropic.NewTextBlock(fmt.Sprintf(
				"Review the following data for the week of %s and determine if there are any critical items (0-2) worth reporting to the school principal and district.\n\n%s",
				weekRange, review)),
		}, criticalItemsTool, &out)
	if err != nil {
		return nil, usage, fmt.Errorf("critical items assessment: %w", err)
	}
	return out.CriticalItems, usage, nil
}

// buildCriticalItemsContext assembles the review context from every source
// that can carry a critical item.
func buildCriticalItemsContext(daily WeeklySynthesis, sched ScheduleData, minutes MinutesData, weatherContext string) string {
	var sections []string

	if daily.OverallProgress != "" {
		sections = append(sections, fmt.Sprintf("PROJECT STATUS: %s%% complete, %s", daily.OverallProgress, daily.ScheduleStatus))
	}
	if len(daily.ActivitiesCompleted) > 0 {
		sections = append(sections, "ACTIVITIES COMPLETED THIS WEEK:\n"+bulletList(daily.ActivitiesCompleted))
	}

	weeks := []struct {
		dates, level string
		acts         []string
	}{
		{sched.Week1Dates, sched.Week1Level, sched.Week1Activities},
		{sched.Week2Dates, sched.Week2Level, sched.Week2Activities},
		{sched.Week3Dates, sched.Week3Level, sched.Week3Activities},
	}
	for i, w := range weeks {
		if w.dates != "" && w.dates != "TBD" {
			sections = append(sections, fmt.Sprintf("WEEK %d (%s) - Impact: %s\n%s", i+1, w.dates, w.level, bulletList(w.acts)))
		}
	}

	if minutes.ScheduleNotes != "" {
		sections = append(sections, "SCHEDULE NOTES FROM OAC MEETING:\n"+minutes.ScheduleNotes)
	}
	if len(minutes.CoordinationItems) > 0 {
		sections = append(sections, "COORDINATION ITEMS FROM OAC MEETING:\n"+bulletList(minutes.CoordinationItems))
	}
	if len(sched.PlannedActivities) > 0 {
		sections = append(sections, "PLANNED ACTIVITIES NEXT WEEK:\n"+bulletList(sched.PlannedActivities))
	}
	if len(sched.SpecialConsiderations) > 0 {
		sections = append(sections, "SPECIAL CONSIDERATIONS:\n"+bulletList(sched.SpecialConsiderations))
	}

	var issues []string
	for _, ext := range daily.DailyExtractions {
		issues = append(issues, ext.Issues...)
	}
	if len(issues) > 0 {
		sections = append(sections, "ISSUES NOTED IN DAILY REPORTS:\n"+bulletList(issues))
	}

	if weatherContext != "" {
		sections = append(sections, weatherContext)
	}

	return strings.Join(sections, "\n\n")
}

// DraftPrincipalEmail generates the weekly email draft from assembled report
// data.
func DraftPrincipalEmail(ctx context.Context, client anthropic.Client, cfg Config, data ReportData) (EmailDraft, LLMUsage, error) {
	summary := fmt.Sprintf(
		"Report #%s for week of %s\nPhase: %s\nProgress: %s%% Complete\nSchedule: %s\n\n"+
			"Activities completed this week:\n%s\n\nMilestones:\n%s\n\nCritical items:\n%s\n\n"+
			"Next week planned:\n%s\n\nNoise level next week: %s\nCountdown: %s calendar days remaining",
		data.ReportNumber, data.ReportWeek, data.Phase, data.OverallProgress, data.ScheduleStatus,
		bulletList(data.ActivitiesCompleted), bulletList(data.MilestonesAchieved), bulletList(data.CriticalItems),
		bulletList(data.PlannedActivities), data.NoiseIndex, data.CountdownDays)

	log.Printf("llm extract agent=email model=%s", cfg.EmailModel)
	var draft EmailDraft
	usage, err := extractWithTool(ctx, client, cfg.EmailModel, 1000, emailDraftSystem,
		[]anthropic.ContentBlockParamUnion{
			anthropic.NewTextBlock("Draft the principal email based on this week's data:\n\n" + summary),
		}, emailDraftTool, &draft)
	if err != nil {
		// Fall back to a manual placeholder so the run still completes.
		log.Printf("email draft failed, using placeholder: %v", err)
		return EmailDraft{
			Subject: fmt.Sprintf("Week #%s Construction Update - %s", data.ReportNumber, data.ProjectName),
			Body:    "(Email draft generation failed - please write manually)",
		}, usage, nil
	}
	return draft, usage, nil
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return "- none"
	}
	var b strings.Builder
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
