// Package html checks email markup with tree-sitter-html. The pruning engine
// never depends on it: it is a second opinion on documents the scanner
// tolerates silently.
package html

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

const maxProblemText = 40

// Parser wraps a tree-sitter HTML parser and its style element query
type Parser struct {
	parser     *sitter.Parser
	styleQuery *sitter.Query
}

var htmlLang = sitter.NewLanguage(tree_sitter_html.Language())

// parserPool is a pool of reusable HTML parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(htmlLang); err != nil {
			panic(fmt.Sprintf("failed to set HTML language: %v", err))
		}

		styleQuery, qerr := sitter.NewQuery(htmlLang, `(style_element (raw_text) @css)`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile style query: %v", qerr))
		}

		return &Parser{
			parser:     parser,
			styleQuery: styleQuery,
		}
	},
}

// AcquireParser gets a parser from the pool
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to the pool
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Check parses source and returns its markup problems in document order.
func Check(source string) []Problem {
	p := AcquireParser()
	defer ReleaseParser(p)
	return p.Check(source)
}

// StyleRegions returns the text spans of non-empty style elements.
func StyleRegions(source string) []Region {
	p := AcquireParser()
	defer ReleaseParser(p)
	return p.StyleRegions(source)
}

// Check parses source and returns its markup problems in document order.
func (p *Parser) Check(source string) []Problem {
	src := []byte(source)
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() && !hasStrayEndTag(root) {
		return nil
	}

	var problems []Problem
	collect(root, src, &problems)
	return problems
}

// StyleRegions returns the text spans of non-empty style elements.
func (p *Parser) StyleRegions(source string) []Region {
	src := []byte(source)
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	var regions []Region
	matches := cursor.Matches(p.styleQuery, tree.RootNode(), src)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			regions = append(regions, Region{
				Start: int(capture.Node.StartByte()), //nolint:gosec // G115: bounded by source length
				End:   int(capture.Node.EndByte()),   //nolint:gosec // G115: bounded by source length
			})
		}
	}
	return regions
}

func hasStrayEndTag(node *sitter.Node) bool {
	if node.Kind() == "erroneous_end_tag" {
		return true
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil && hasStrayEndTag(child) {
			return true
		}
	}
	return false
}

func collect(node *sitter.Node, src []byte, out *[]Problem) {
	switch {
	case node.IsMissing():
		*out = append(*out, newProblem(MissingNode, node, node.Kind()))
		return
	case node.IsError():
		*out = append(*out, newProblem(SyntaxError, node, snippet(src, node)))
		return
	case node.Kind() == "erroneous_end_tag":
		*out = append(*out, newProblem(StrayEndTag, node, snippet(src, node)))
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			collect(child, src, out)
		}
	}
}

func newProblem(kind ProblemKind, node *sitter.Node, text string) Problem {
	pos := node.StartPosition()
	return Problem{
		Kind:   kind,
		Line:   pos.Row + 1,
		Column: pos.Column + 1,
		Text:   text,
	}
}

func snippet(src []byte, node *sitter.Node) string {
	text := string(src[node.StartByte():node.EndByte()])
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		text = text[:i]
	}
	return truncate(text, maxProblemText)
}

// truncate shortens text to at most n bytes without splitting a rune.
func truncate(text string, n int) string {
	if len(text) <= n {
		return text
	}
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n] + "…"
}
