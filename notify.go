package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/slack-go/slack"
)

// NotifyRunComplete posts a short run summary to the configured Slack
// channel. A missing token disables notifications; posting failures are
// logged but never fail the run.
func NotifyRunComplete(cfg Config, result RunResult) {
	if cfg.SlackBotToken == "" || cfg.SlackChannelID == "" {
		return
	}

	api := slack.New(cfg.SlackBotToken)

	_, _, err := api.PostMessage(cfg.SlackChannelID,
		slack.MsgOptionText(buildRunSummary(result), false),
	)
	if err != nil {
		log.Printf("slack notify failed: %v", err)
		return
	}
	log.Printf("posted run summary to Slack channel=%s", cfg.SlackChannelID)
}

func buildRunSummary(result RunResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, ":building_construction: *Weekly Progress Report %02d* (%s) generated in %.0fs\n",
		result.Week.ReportNumber, result.Week.WeekRange, result.Duration.Seconds())
	fmt.Fprintf(&b, "Daily reports: %d | Photos: %d | Tokens: %d in / %d out\n",
		result.DailyReportCount, len(result.Data.Photos),
		result.Usage.InputTokens, result.Usage.OutputTokens)
	if result.PDFPath != "" {
		fmt.Fprintf(&b, "PDF: `%s`\n", result.PDFPath)
	}
	if result.EmailPath != "" {
		fmt.Fprintf(&b, "Email draft: `%s`\n", result.EmailPath)
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintf(&b, ":warning: %d warnings:\n", len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "• %s\n", w)
		}
	}
	return b.String()
}
