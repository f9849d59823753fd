package search

import (
	"fmt"
	"strings"

	"github.com/picmem/picmem/core"
)

// snippetsHeader introduces the rendered snippet block.
const snippetsHeader = "Here are relevant Picture snippets and IDs:"

// BuildSnippets renders matches as prompt-ready lines under an
// approximate token budget. Matches are consumed in order; the first
// snippet that would exceed the budget stops the rendering.
func BuildSnippets(matches []core.Match, tokenBudget int) string {
	if len(matches) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(snippetsHeader)

	remaining := tokenBudget - estimateTokens(snippetsHeader)
	for _, match := range matches {
		snippet := fmt.Sprintf("Picture Description: %s: %s", match.Record.Id, match.Record.Text)
		cost := estimateTokens(snippet)
		if cost > remaining {
			break
		}
		remaining -= cost
		b.WriteString("\n")
		b.WriteString(snippet)
	}

	return b.String()
}

// estimateTokens approximates the token count of a text. Four bytes per
// token tracks typical English tokenizers closely enough for budgeting.
func estimateTokens(text string) int {
	return len(text)/4 + 1
}
