// Package scan locates style sheets and class/id attributes in raw HTML
// text without building a document tree.
package scan

import (
	"strings"

	"bennypowers.dev/emailprune/internal/collections"
	"bennypowers.dev/emailprune/internal/parser/css"
)

// State is the scanner's position in the markup grammar.
type State int

const (
	// Outside is text content between tags
	Outside State = iota
	// InTag is inside a start tag, between its name and '>'
	InTag
	// InStyle is inside a style element; the CSS walker tracks brace
	// context from there
	InStyle
	// InClassAttr is inside a class attribute value
	InClassAttr
	// InIdAttr is inside an id attribute value
	InIdAttr
)

// AttrKind distinguishes class and id attributes.
type AttrKind int

const (
	ClassAttr AttrKind = iota
	IDAttr
)

// Name returns the attribute name as written in markup.
func (k AttrKind) Name() string {
	if k == IDAttr {
		return "id"
	}
	return "class"
}

// Prefix returns the selector prefix for tokens of this kind.
func (k AttrKind) Prefix() string {
	if k == IDAttr {
		return "#"
	}
	return "."
}

// Span is a half-open byte interval.
type Span struct {
	Start int
	End   int
}

// Attr is a class or id attribute found at or after the body start.
type Attr struct {
	Kind AttrKind
	// Start is the offset of the attribute name.
	Start int
	// Value is the span between the quotes.
	Value Span
	// End is the offset just past the closing quote.
	End   int
	Quote byte
}

// Fragments returns the whitespace-separated pieces of the attribute value.
func (a Attr) Fragments(src string) []string {
	return strings.Fields(src[a.Value.Start:a.Value.End])
}

// Tokens returns the selector tokens referenced by the attribute, in order.
// Fragments that are not valid names are skipped.
func (a Attr) Tokens(src string) []string {
	var out []string
	for _, f := range a.Fragments(src) {
		if css.IsName(f) {
			out = append(out, a.Kind.Prefix()+f)
		}
	}
	return out
}

// Document holds the regions found by a scan. All offsets point into Source.
type Document struct {
	Source string
	// BodyStart is the offset of the "<body" tag, or 0 for fragments
	// without one.
	BodyStart int
	// Styles are the content spans of style blocks.
	Styles []Span
	// Rules are the terminated qualified rules of all style blocks.
	Rules []Rule
	// Attrs are the class and id attributes at or after BodyStart.
	Attrs []Attr
}

// PieceText returns the selector text of a rule piece.
func (d *Document) PieceText(p Piece) string {
	return d.Source[p.Start:p.End]
}

// Lumps returns the selector pieces that reference at least one class or
// id, in source order, duplicates included.
func (d *Document) Lumps() []string {
	var out []string
	for _, r := range d.Rules {
		for _, p := range r.Pieces {
			text := d.PieceText(p)
			if strings.ContainsAny(text, ".#") {
				out = append(out, text)
			}
		}
	}
	return out
}

// BodyClasses returns the class tokens used in the body.
func (d *Document) BodyClasses() collections.Set[string] {
	return d.bodyTokens(ClassAttr)
}

// BodyIDs returns the id tokens used in the body.
func (d *Document) BodyIDs() collections.Set[string] {
	return d.bodyTokens(IDAttr)
}

func (d *Document) bodyTokens(kind AttrKind) collections.Set[string] {
	out := collections.NewSet[string]()
	for _, a := range d.Attrs {
		if a.Kind == kind {
			out.Add(a.Tokens(d.Source)...)
		}
	}
	return out
}

// scanner is the cursor and state of a single forward pass.
type scanner struct {
	src   string
	pos   int
	state State
	attr  Attr
	doc   *Document
}

// Scan performs one forward pass over src. It never fails: unterminated
// tags, attributes and style blocks stop contributing from where they break.
func Scan(src string) *Document {
	s := &scanner{
		src: src,
		doc: &Document{Source: src, BodyStart: findBody(src)},
	}
	s.run()
	return s.doc
}

func (s *scanner) run() {
	for s.pos < len(s.src) {
		switch s.state {
		case Outside:
			s.outside()
		case InTag:
			s.inTag()
		case InStyle:
			s.style()
		case InClassAttr, InIdAttr:
			s.attrValue()
		}
	}
}

func (s *scanner) outside() {
	i := strings.IndexByte(s.src[s.pos:], '<')
	if i < 0 {
		s.pos = len(s.src)
		return
	}
	s.pos += i
	switch {
	case strings.HasPrefix(s.src[s.pos:], "<!--"):
		s.pos = skipHTMLComment(s.src, s.pos)
	case isTag(s.src, s.pos, "style"):
		s.state = InStyle
	case s.pos+1 < len(s.src) && isAlpha(s.src[s.pos+1]):
		s.pos++
		for s.pos < len(s.src) && isTagNameChar(s.src[s.pos]) {
			s.pos++
		}
		s.state = InTag
	default:
		s.pos++
	}
}

func (s *scanner) inTag() {
	c := s.src[s.pos]
	switch {
	case c == '>':
		s.pos++
		s.state = Outside
	case c == '"' || c == '\'':
		end := strings.IndexByte(s.src[s.pos+1:], c)
		if end < 0 {
			s.pos = len(s.src)
			return
		}
		s.pos += end + 2
	case isSpace(c):
		s.pos++
		if s.pos >= s.doc.BodyStart {
			s.attrStart()
		}
	default:
		s.pos++
	}
}

// attrStart enters an attribute value state when a class or id attribute
// begins at the cursor.
func (s *scanner) attrStart() {
	for _, kind := range []AttrKind{ClassAttr, IDAttr} {
		name := kind.Name()
		rest := s.src[s.pos:]
		if len(rest) < len(name)+2 || !strings.EqualFold(rest[:len(name)], name) || rest[len(name)] != '=' {
			continue
		}
		quote := rest[len(name)+1]
		if quote != '"' && quote != '\'' {
			continue
		}
		s.attr = Attr{Kind: kind, Start: s.pos, Quote: quote}
		s.pos += len(name) + 2
		s.attr.Value.Start = s.pos
		if kind == IDAttr {
			s.state = InIdAttr
		} else {
			s.state = InClassAttr
		}
		return
	}
}

func (s *scanner) attrValue() {
	end := strings.IndexByte(s.src[s.pos:], s.attr.Quote)
	if end < 0 {
		s.pos = len(s.src)
		return
	}
	s.attr.Value.End = s.pos + end
	s.attr.End = s.attr.Value.End + 1
	s.doc.Attrs = append(s.doc.Attrs, s.attr)
	s.pos = s.attr.End
	s.state = InTag
}

// style consumes a whole style element starting at its "<style" tag.
func (s *scanner) style() {
	gt := strings.IndexByte(s.src[s.pos:], '>')
	if gt < 0 {
		s.pos = len(s.src)
		return
	}
	contentStart := s.pos + gt + 1
	contentEnd := indexTag(s.src, contentStart, "/style")
	if contentEnd < 0 {
		contentEnd = len(s.src)
	}

	s.doc.Styles = append(s.doc.Styles, Span{Start: contentStart, End: contentEnd})
	s.doc.Rules = append(s.doc.Rules, walkRules(s.src, contentStart, contentEnd)...)

	s.pos = contentEnd
	if closeGT := strings.IndexByte(s.src[contentEnd:], '>'); closeGT >= 0 {
		s.pos = contentEnd + closeGT + 1
	} else {
		s.pos = len(s.src)
	}
	s.state = Outside
}

// findBody returns the offset of the first "<body" tag outside style
// blocks and comments, or 0 when there is none.
func findBody(src string) int {
	for pos := 0; pos < len(src); {
		i := strings.IndexByte(src[pos:], '<')
		if i < 0 {
			break
		}
		pos += i
		switch {
		case strings.HasPrefix(src[pos:], "<!--"):
			pos = skipHTMLComment(src, pos)
			continue
		case isTag(src, pos, "body"):
			return pos
		case isTag(src, pos, "style"):
			end := indexTag(src, pos+1, "/style")
			if end < 0 {
				return 0
			}
			pos = end
		}
		pos++
	}
	return 0
}
