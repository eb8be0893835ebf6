package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// PhotoScore is the model's assessment of one candidate photo.
type PhotoScore struct {
	Index        int     `json:"index"`
	Relevance    float64 `json:"relevance"`
	ProgressDemo float64 `json:"progress_demo"`
	Quality      float64 `json:"quality"`
	TotalScore   float64 `json:"total_score"`
	Description  string  `json:"description"`
	Caption      string  `json:"caption"`
}

// PhotoSelection is the outcome of photo scoring: the chosen photo paths,
// their captions, all scores for the audit log, and a warning when the
// available photos poorly represent the week's work.
type PhotoSelection struct {
	Photos          []string     `json:"photos"`
	Captions        []string     `json:"photo_captions"`
	Scores          []PhotoScore `json:"photo_scores"`
	MismatchWarning string       `json:"mismatch_warning,omitempty"`
}

// maxPhotoAPICandidates caps how many images go to the vision model per run.
const maxPhotoAPICandidates = 4

// mismatchThreshold is the average total score below which the selection is
// flagged as not representing the week's activities.
const mismatchThreshold = 2.5

var photoScoresTool = anthropic.ToolParam{
	Name:        "photo_scores",
	Description: anthropic.String("Score and caption construction photos"),
	InputSchema: anthropic.ToolInputSchemaParam{
		Properties: map[string]any{
			"scores": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"index":         map[string]any{"type": "integer"},
						"relevance":     map[string]any{"type": "number"},
						"progress_demo": map[string]any{"type": "number"},
						"quality":       map[string]any{"type": "number"},
						"total_score":   map[string]any{"type": "number"},
						"description":   map[string]any{"type": "string"},
						"caption":       map[string]any{"type": "string"},
					},
					"required": []string{"index", "relevance", "progress_demo",
						"quality", "total_score", "description", "caption"},
				},
			},
		},
		Required: []string{"scores"},
	},
}

// SelectPhotos scores the candidate photos against this week's completed
// activities and picks the best numPhotos with captions. Scoring failure
// degrades to the most recent photos with a generic caption.
func SelectPhotos(ctx context.Context, client anthropic.Client, cfg Config, candidates []DatedFile, activities []string, numPhotos int) (PhotoSelection, LLMUsage, error) {
	if len(candidates) == 0 {
		return PhotoSelection{
			MismatchWarning: "No candidate photos found for this week.",
		}, LLMUsage{}, nil
	}

	if len(candidates) > maxPhotoAPICandidates {
		candidates = candidates[:maxPhotoAPICandidates]
	}

	content := []anthropic.ContentBlockParamUnion{
		anthropic.NewTextBlock(fmt.Sprintf(
			"This week's completed activities:\n%s\n\nPlease analyze these %d candidate photos and score each one. The photos are indexed 0 through %d.",
			bulletList(activities), len(candidates), len(candidates)-1)),
	}
	loaded := 0
	for i, c := range candidates {
		data, mediaType, err := encodeImage(c.Path)
		if err != nil {
			log.Printf("photo load skipped path=%s err=%v", c.Path, err)
			continue
		}
		content = append(content,
			anthropic.NewTextBlock(fmt.Sprintf("\n--- Photo %d (dated %s, file: %s) ---", i, c.Date.Format("2006-01-02"), filepath.Base(c.Path))),
			anthropic.NewImageBlockBase64(mediaType, data),
		)
		loaded++
	}
	if loaded == 0 {
		return PhotoSelection{
			MismatchWarning: "Could not load any candidate photos.",
		}, LLMUsage{}, nil
	}

	log.Printf("llm extract agent=photos candidates=%d", loaded)
	var out struct {
		Scores []PhotoScore `json:"scores"`
	}
	usage, err := extractWithTool(ctx, client, cfg.SynthesisModel, 2000, photoSelectionSystem, content, photoScoresTool, &out)
	if err != nil || len(out.Scores) == 0 {
		if err != nil {
			log.Printf("photo scoring failed: %v", err)
		}
		// Fallback: candidates arrive date-descending, so take the newest.
		n := numPhotos
		if n > len(candidates) {
			n = len(candidates)
		}
		sel := PhotoSelection{MismatchWarning: "Photo scoring failed, using most recent photos."}
		for _, c := range candidates[:n] {
			sel.Photos = append(sel.Photos, c.Path)
			sel.Captions = append(sel.Captions, "Construction progress")
		}
		return sel, usage, nil
	}

	scores := out.Scores
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].TotalScore > scores[j].TotalScore })
	selected := scores
	if len(selected) > numPhotos {
		selected = selected[:numPhotos]
	}

	sel := PhotoSelection{Scores: scores}
	var totalOfSelected float64
	for _, s := range selected {
		if s.Index < 0 || s.Index >= len(candidates) {
			continue
		}
		sel.Photos = append(sel.Photos, candidates[s.Index].Path)
		sel.Captions = append(sel.Captions, s.Caption)
		totalOfSelected += s.TotalScore
	}

	if len(selected) > 0 {
		avg := totalOfSelected / float64(len(selected))
		if avg < mismatchThreshold {
			hint := activities
			if len(hint) > 3 {
				hint = hint[:3]
			}
			sel.MismatchWarning = fmt.Sprintf(
				"Low photo match score (%.1f/5.0). Available photos may not represent this week's activities well. Consider taking new photos showing: %s",
				avg, strings.Join(hint, ", "))
		}
	}
	return sel, usage, nil
}

// encodeImage reads an image file and base64-encodes it for the vision API.
func encodeImage(path string) (string, string, error) {
	mediaType := "image/jpeg"
	if strings.EqualFold(filepath.Ext(path), ".png") {
		mediaType = "image/png"
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return base64.StdEncoding.EncodeToString(raw), mediaType, nil
}
