// Package cleanup tidies a pruned document: empty style elements and empty
// media queries are removed and runs of blank lines are collapsed.
package cleanup

import (
	"regexp"
	"strings"
)

var (
	emptyStyleLine = regexp.MustCompile(`(?im)^[ \t]*<style\b[^>]*>\s*(?:<!--\s*-->\s*)?</style\s*>[ \t]*\r?\n`)
	emptyStyle     = regexp.MustCompile(`(?i)<style\b[^>]*>\s*(?:<!--\s*-->\s*)?</style\s*>`)
	emptyMediaLine = regexp.MustCompile(`(?m)^[ \t]*@media\b[^{}]*\{\s*\}[ \t]*\r?\n`)
	emptyMedia     = regexp.MustCompile(`@media\b[^{}]*\{\s*\}`)
	blankLines     = regexp.MustCompile(`\r?\n(?:[ \t]*\r?\n){2,}`)
)

// Clean removes <style> elements holding only whitespace or an empty
// "<!-- -->" wrapper, and empty @media blocks, until none are left. It then
// collapses two or more consecutive blank lines into one and makes the
// document end with exactly one line break. Documents using CRLF
// line endings keep them.
func Clean(html string) string {
	for {
		next := emptyMediaLine.ReplaceAllString(html, "")
		next = emptyMedia.ReplaceAllString(next, "")
		next = emptyStyleLine.ReplaceAllString(next, "")
		next = emptyStyle.ReplaceAllString(next, "")
		if next == html {
			break
		}
		html = next
	}

	eol := "\n"
	if strings.Contains(html, "\r\n") {
		eol = "\r\n"
	}
	html = blankLines.ReplaceAllString(html, eol+eol)

	html = strings.TrimRight(html, " \t\r\n")
	if html == "" {
		return ""
	}
	return html + eol
}
