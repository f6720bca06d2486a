package blogservice

import (
	"html"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	contentPolicy = bluemonday.UGCPolicy()
	textPolicy    = bluemonday.StrictPolicy()
)

// sanitizeContent strips scripts, event handlers and other unsafe markup
// from user supplied HTML.
func sanitizeContent(content string) string {
	return contentPolicy.Sanitize(content)
}

// plainText returns the text of an HTML fragment with whitespace collapsed.
func plainText(content string) string {
	text := html.UnescapeString(textPolicy.Sanitize(content))
	return strings.Join(strings.Fields(text), " ")
}

func readingTime(content string) int {
	words := len(strings.Fields(plainText(content)))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}

	return minutes
}

// makeExcerpt cuts the plain text of content to at most n runes on a word boundary.
func makeExcerpt(content string, n int) string {
	text := plainText(content)
	if utf8.RuneCountInString(text) <= n {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:n])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}

	return strings.TrimRight(cut, " .,;:") + "..."
}
