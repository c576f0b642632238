package llm

import (
	"context"
	"strings"
)

const (
	summarySystemPrompt = "You condense web page content into a short factual summary. " +
		"Reply with the summary only, three sentences at most."

	// Inputs beyond this are truncated before prompting so one oversized
	// page cannot blow the model's context window.
	maxSummaryInputRunes = 6000
)

// Summarizer condenses text through a completion provider.
type Summarizer struct {
	provider Provider
}

func NewSummarizer(provider Provider) *Summarizer {
	return &Summarizer{provider: provider}
}

func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	if runes := []rune(text); len(runes) > maxSummaryInputRunes {
		text = string(runes[:maxSummaryInputRunes])
	}

	out, err := s.provider.Complete(ctx, CompletionRequest{
		System:    summarySystemPrompt,
		Prompt:    text,
		MaxTokens: 256,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
