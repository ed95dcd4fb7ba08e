package retrieval

import (
	"strings"
)

const (
	// NoReadableTextMessage is the answer when no document in scope has any text
	NoReadableTextMessage = "I couldn't extract readable text from the uploaded documents (or OCR is needed for images)."

	noMatchPrefix = "I couldn't find a strong match. Here\u2019s a preview of the documents:\n\n"
	summaryPrefix = "Summary (best-matching parts):\n\n"
	bestPrefix    = "Best-matching text from your documents:\n\n"

	previewLimit   = 600
	summaryLimit   = 900
	bestMatchLimit = 1400

	chunkSeparator    = "\n\n---\n\n"
	documentSeparator = "\n\n"
)

var summaryKeywords = []string{"summary", "summarize", "about"}

// CombineTexts concatenates document texts the way the corpus is built for scoring
func CombineTexts(texts []string) string {
	return strings.Join(texts, documentSeparator)
}

// Compose builds the local answer from the ranked chunks of fullText
func Compose(question string, scored []ScoredChunk, fullText string) string {
	if strings.TrimSpace(fullText) == "" {
		return NoReadableTextMessage
	}

	if len(scored) == 0 {
		return noMatchPrefix + truncate(fullText, previewLimit)
	}

	parts := make([]string, len(scored))
	for i, chunk := range scored {
		parts[i] = chunk.Text
	}
	joined := strings.Join(parts, chunkSeparator)

	if isSummaryQuestion(question) {
		return summaryPrefix + truncate(joined, summaryLimit)
	}
	return bestPrefix + truncate(joined, bestMatchLimit)
}

func isSummaryQuestion(question string) bool {
	lower := strings.ToLower(question)
	for _, keyword := range summaryKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// truncate keeps the first limit characters and marks a cut with "..."
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
