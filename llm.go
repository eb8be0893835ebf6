package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultExtractModel = "claude-haiku-4-5-20251001"
const defaultSynthesisModel = "claude-sonnet-4-5-20250929"

type LLMUsage struct {
	InputTokens              int64
	OutputTokens             int64
	CacheCreationInputTokens int64
	CacheReadInputTokens     int64
}

func (u LLMUsage) TotalTokens() int64 {
	return u.InputTokens + u.OutputTokens
}

func (u *LLMUsage) Add(other LLMUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.CacheCreationInputTokens += other.CacheCreationInputTokens
	u.CacheReadInputTokens += other.CacheReadInputTokens
}

func newAnthropicClient(apiKey string) anthropic.Client {
	return anthropic.NewClient(option.WithAPIKey(apiKey))
}

// stringArraySchema is the JSON-schema fragment for a list of strings, the
// dominant field shape in every extraction tool.
func stringArraySchema() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

func stringSchema() map[string]any {
	return map[string]any{"type": "string"}
}

// extractWithTool runs one tool-forced extraction call: the model must
// respond through the given tool, and the tool input is decoded into out.
func extractWithTool(
	ctx context.Context,
	client anthropic.Client,
	model string,
	maxTokens int64,
	system string,
	content []anthropic.ContentBlockParamUnion,
	tool anthropic.ToolParam,
	out any,
) (LLMUsage, error) {
	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system, CacheControl: anthropic.NewCacheControlEphemeralParam()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(content...),
		},
		Tools: []anthropic.ToolUnionParam{
			{OfTool: &tool},
		},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: tool.Name},
		},
	})
	if err != nil {
		log.Printf("llm anthropic error tool=%s: %v", tool.Name, err)
		return LLMUsage{}, fmt.Errorf("Anthropic API error: %w", err)
	}

	usage := LLMUsage{
		InputTokens:              message.Usage.InputTokens,
		OutputTokens:             message.Usage.OutputTokens,
		CacheCreationInputTokens: message.Usage.CacheCreationInputTokens,
		CacheReadInputTokens:     message.Usage.CacheReadInputTokens,
	}

	for _, block := range message.Content {
		variant, ok := block.AsAny().(anthropic.ToolUseBlock)
		if !ok {
			continue
		}
		log.Printf("llm anthropic response tool=%s model=%s tokens_in=%d tokens_out=%d cache_create=%d cache_read=%d",
			tool.Name, model, usage.InputTokens, usage.OutputTokens, usage.CacheCreationInputTokens, usage.CacheReadInputTokens)
		if err := json.Unmarshal([]byte(variant.JSON.Input.Raw()), out); err != nil {
			return usage, fmt.Errorf("parsing %s tool input: %w", tool.Name, err)
		}
		return usage, nil
	}
	return usage, fmt.Errorf("no tool_use block in Anthropic response for %s", tool.Name)
}
