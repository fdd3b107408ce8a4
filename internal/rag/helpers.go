package rag

import (
	"strings"

	"github.com/campuskeep/NotesAPI/internal/config"
	"github.com/campuskeep/NotesAPI/internal/domain/noteModel"
	"github.com/campuskeep/NotesAPI/internal/rag/fault"
)

// buildContextBlock joins retrieved chunks in rank order for the prompt.
func buildContextBlock(matches []noteModel.RetrievedChunk) string {
	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		texts = append(texts, m.Text)
	}
	return strings.Join(texts, "\n\n")
}

// toSources maps retrieval hits to the citations the student sees.
func toSources(matches []noteModel.RetrievedChunk) []noteModel.Source {
	sources := make([]noteModel.Source, 0, len(matches))
	for _, m := range matches {
		sources = append(sources, noteModel.Source{
			FileName: m.FileName,
			Excerpt:  truncateExcerpt(m.Text, config.SourceExcerptLimit),
		})
	}
	return sources
}

func truncateExcerpt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "…"
}

func defaultRetryPolicy() fault.RetryPolicy {
	return fault.RetryPolicy{
		MaxAttempts: config.RetryMaxAttempts,
		BaseDelay:   config.RetryBaseDelay,
		MaxDelay:    config.RetryMaxDelay,
	}
}
