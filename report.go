package main

import (
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
)

// WriteReportJSON saves the assembled report record for auditing and manual
// re-renders.
func WriteReportJSON(data ReportData, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(outputDir, fmt.Sprintf("report_data_%s.json", data.ReportNumber))
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, raw, 0644)
}

// WritePhotoLog saves the scored photo selection next to the report JSON.
func WritePhotoLog(sel PhotoSelection, reportNumber, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(outputDir, fmt.Sprintf("photo_selections_%s.json", reportNumber))
	raw, err := json.MarshalIndent(sel, "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, raw, 0644)
}

// WriteEmailDraftFile saves the principal email as an .eml draft. The file
// opens in any mail client for review; nothing is ever sent automatically.
func WriteEmailDraftFile(draft EmailDraft, reportNumber, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%s_%s.eml", sanitizeFilename(draft.Subject), reportNumber)
	path := filepath.Join(outputDir, filename)
	return path, os.WriteFile(path, []byte(buildEML(draft.Subject, draft.Body)), 0644)
}

func buildEML(subject, body string) string {
	const boundary = "siteweekly-alt"
	headers := []string{
		"MIME-Version: 1.0",
		fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q", boundary),
		fmt.Sprintf("Subject: %s", subject),
	}
	plain := normalizeCRLF(body)

	var out strings.Builder
	out.WriteString(strings.Join(headers, "\r\n"))
	out.WriteString("\r\n\r\n")
	out.WriteString("--" + boundary + "\r\n")
	out.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	out.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	out.WriteString(plain)
	if !strings.HasSuffix(plain, "\r\n") {
		out.WriteString("\r\n")
	}
	out.WriteString("\r\n--" + boundary + "\r\n")
	out.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	out.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
	out.WriteString(bodyToHTML(body))
	out.WriteString("\r\n--" + boundary + "--\r\n")
	return out.String()
}

func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	return replacer.Replace(s)
}

func normalizeCRLF(s string) string {
	normalized := strings.ReplaceAll(s, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\n", "\r\n")
	return normalized
}

func bodyToHTML(body string) string {
	escaped := html.EscapeString(strings.ReplaceAll(body, "\r\n", "\n"))
	escaped = strings.ReplaceAll(escaped, "\n", "<br>\n")
	return `<html><body style="font-family: Calibri, Arial, sans-serif; font-size: 11pt; color: #1f1f1f; line-height: 1.35;">` + escaped + `</body></html>`
}
