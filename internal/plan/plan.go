// Package plan turns deletion sets into concrete text ranges over the
// original document.
package plan

import (
	"strings"

	"bennypowers.dev/emailprune/internal/collections"
	"bennypowers.dev/emailprune/internal/parser/css"
	"bennypowers.dev/emailprune/internal/ranges"
	"bennypowers.dev/emailprune/internal/scan"
)

// Plan scans src and returns the ranges that remove every style rule piece
// referencing a token in head and every token in body from class/id
// attributes. Style ranges are pushed before attribute ranges, each in
// source order.
func Plan(src string, head, body collections.Set[string]) *ranges.Set {
	doc := scan.Scan(src)
	out := ranges.New()
	if len(head) > 0 {
		for _, rule := range doc.Rules {
			planRule(doc, rule, head, out)
		}
	}
	if len(body) > 0 {
		for _, attr := range doc.Attrs {
			planAttr(src, attr, body, out)
		}
	}
	return out
}

func planRule(doc *scan.Document, rule scan.Rule, head collections.Set[string], out *ranges.Set) {
	dead := make([]bool, len(rule.Pieces))
	survivor := -1
	for i, p := range rule.Pieces {
		dead[i] = head.HasAny(css.Extract(doc.PieceText(p)).Members()...)
		if !dead[i] {
			survivor = i
		}
	}

	if survivor < 0 {
		if len(rule.Pieces) > 0 {
			out.Push(rule.Start, rule.End(), "")
		}
		return
	}

	last := len(rule.Pieces) - 1
	for i := range rule.Pieces {
		switch {
		case !dead[i]:
		case i < survivor:
			out.Push(rule.Pieces[i].Start, rule.Pieces[i+1].Start, "")
		default:
			// everything after the last survivor goes, comma included
			out.Push(rule.Pieces[survivor].End, rule.Pieces[last].End, "")
			return
		}
	}
}

func planAttr(src string, attr scan.Attr, body collections.Set[string], out *ranges.Set) {
	fragments := attr.Fragments(src)
	keep := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if css.IsName(f) && body.Has(attr.Kind.Prefix()+f) {
			continue
		}
		keep = append(keep, f)
	}
	if len(keep) == len(fragments) {
		return
	}

	start := attr.Start
	for start > 0 && isSpace(src[start-1]) {
		start--
	}
	if len(keep) == 0 {
		// glued attributes still need a separator: class="a"id="b"
		sep := ""
		if attr.End < len(src) && !isSpace(src[attr.End]) && src[attr.End] != '>' && src[attr.End] != '/' {
			sep = " "
		}
		out.Push(start, attr.End, sep)
		return
	}

	// keep the attribute name as written
	name := src[attr.Start : attr.Start+len(attr.Kind.Name())]

	var b strings.Builder
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteByte('=')
	b.WriteByte(attr.Quote)
	b.WriteString(strings.Join(keep, " "))
	b.WriteByte(attr.Quote)
	out.Push(start, attr.End, b.String())
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
