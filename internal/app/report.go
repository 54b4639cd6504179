package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"bennypowers.dev/emailprune/internal/log"
	"bennypowers.dev/emailprune/internal/parser/html"
	"bennypowers.dev/emailprune/internal/scan"
	"bennypowers.dev/emailprune/prune"
)

// FileReport is one entry of the --report JSON document.
type FileReport struct {
	File string `json:"file"`
	*prune.Result
	BytesBefore int       `json:"bytesBefore"`
	BytesAfter  int       `json:"bytesAfter"`
	Problems    []Problem `json:"problems,omitempty"`
}

// Problem is a markup problem found by --check.
type Problem struct {
	Line    uint   `json:"line"`
	Column  uint   `json:"column"`
	Message string `json:"message"`
}

func newFileReport(name, src string, res *prune.Result) FileReport {
	return FileReport{
		File:        name,
		Result:      res,
		BytesBefore: len(src),
		BytesAfter:  len(res.HTML),
	}
}

func writeReport(path string, reports []FileReport) error {
	if reports == nil {
		reports = []FileReport{}
	}
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil { //nolint:gosec // G306: report is not sensitive
		return fmt.Errorf("unable to write report: %w", err)
	}
	return nil
}

// check logs markup problems tree-sitter finds in src, plus style elements
// the pruning scanner did not pick up and therefore left untouched.
func check(name, src string) []Problem {
	var problems []Problem
	for _, p := range html.Check(src) {
		msg := p.Kind.String()
		if p.Text != "" {
			msg += fmt.Sprintf(" %q", p.Text)
		}
		problems = append(problems, Problem{Line: p.Line, Column: p.Column, Message: msg})
	}

	seen := make(map[int]bool)
	for _, s := range scan.Scan(src).Styles {
		seen[s.Start] = true
	}
	for _, r := range html.StyleRegions(src) {
		if !seen[r.Start] {
			line, col := lineColumn(src, r.Start)
			problems = append(problems, Problem{Line: line, Column: col, Message: "style element skipped by the scanner"})
		}
	}

	for _, p := range problems {
		log.Warn("%s:%d:%d: %s", name, p.Line, p.Column, p.Message)
	}
	return problems
}

// lineColumn converts a byte offset into a 1-based line and column.
func lineColumn(src string, offset int) (uint, uint) {
	before := src[:offset]
	line := strings.Count(before, "\n") + 1
	col := offset - strings.LastIndexByte(before, '\n')
	return uint(line), uint(col) //nolint:gosec // G115: bounded by source length
}
