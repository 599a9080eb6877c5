package textsplit

import (
	"regexp"
	"strings"
)

var (
	spaceRun   = regexp.MustCompile(`[ \t]+`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// Clean normalizes extracted text before summarization: collapses runs of
// horizontal whitespace and caps consecutive blank lines at one. Paragraph
// breaks are kept because the splitter prefers them as cut points.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = spaceRun.ReplaceAllString(text, " ")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
