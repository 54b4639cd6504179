// Package css decomposes raw CSS selector text into atomic class and id
// tokens (".name" and "#name").
package css

import (
	"fmt"
	"sync"

	"bennypowers.dev/emailprune/internal/collections"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

// IsNameChar reports whether c may appear in a selector lump:
// letters, digits, '-', '_', '.' and '#'.
func IsNameChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return c == '-' || c == '_' || c == '.' || c == '#'
}

// IsName reports whether s is a non-empty class or id name made of
// [A-Za-z0-9_-] only.
func IsName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if c := s[i]; c == '.' || c == '#' || !IsNameChar(c) {
			return false
		}
	}
	return true
}

// IsToken reports whether s is a selector token: '.' or '#' followed by a name.
func IsToken(s string) bool {
	return len(s) > 1 && (s[0] == '.' || s[0] == '#') && IsName(s[1:])
}

var cssLang = sitter.NewLanguage(tree_sitter_css.Language())

type extractor struct {
	parser *sitter.Parser
}

var pool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(cssLang); err != nil {
			panic(fmt.Sprintf("failed to set CSS language: %v", err))
		}
		return &extractor{parser: parser}
	},
}

// Extract returns the class and id tokens referenced by a selector, e.g.
// "td.a > #b:not(.c)" yields {".a", "#b", ".c"}. Text inside attribute
// selectors and strings is ignored. Unparseable input yields whatever
// tokens tree-sitter could still recover, possibly none.
func Extract(sel string) collections.Set[string] {
	out := collections.NewSet[string]()
	if sel == "" {
		return out
	}

	e := pool.Get().(*extractor)
	defer pool.Put(e)
	e.parser.Reset()

	// wrap the selector in an empty rule so it parses as a rule_set
	src := []byte(sel + "{}")
	tree := e.parser.Parse(src, nil)
	if tree == nil {
		return out
	}
	defer tree.Close()

	walk(tree.RootNode(), src, out)
	return out
}

func walk(node *sitter.Node, src []byte, out collections.Set[string]) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "class_selector":
		addChild(node, "class_name", ".", src, out)
	case "id_selector":
		addChild(node, "id_name", "#", src, out)
	case "block":
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		walk(node.Child(i), src, out)
	}
}

// addChild records the named child of kind as a token with the given prefix.
func addChild(node *sitter.Node, kind, prefix string, src []byte, out collections.Set[string]) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.Kind() != kind {
			continue
		}
		name := string(src[child.StartByte():child.EndByte()])
		if IsName(name) {
			out.Add(prefix + name)
		}
	}
}
