package scan

import "strings"

// Piece is one comma-separated selector of a rule, trimmed of surrounding
// whitespace.
type Piece struct {
	Start int
	End   int
}

// Rule is a qualified CSS rule found inside a style block.
type Rule struct {
	// Start is the offset just after the preceding '>', '{', '}', ';',
	// "<!--" or "-->"; leading whitespace and comments belong to the rule.
	Start int
	// Open and Close are the offsets of the declaration block's braces.
	Open   int
	Close  int
	Pieces []Piece
}

// End returns the offset just past the closing brace.
func (r Rule) End() int {
	return r.Close + 1
}

// groupAtRules contain nested rules rather than declarations.
var groupAtRules = map[string]bool{
	"@media":          true,
	"@supports":       true,
	"@document":       true,
	"@-moz-document":  true,
	"@container":      true,
	"@layer":          true,
	"@scope":          true,
	"@starting-style": true,
}

// cssWalker finds qualified rules between start and end of src. Braces of
// declaration blocks and non-group at-rules are tracked but their contents
// are opaque.
type cssWalker struct {
	src   string
	end   int
	rules []Rule
}

func walkRules(src string, start, end int) []Rule {
	w := &cssWalker{src: src, end: end}
	w.block(start, false)
	return w.rules
}

// block walks rule-level content. Inside a group at-rule it returns after
// the group's closing brace.
func (w *cssWalker) block(pos int, group bool) int {
	for {
		var itemStart int
		pos, itemStart = w.skipSpaceAndComments(pos)
		if pos >= w.end {
			return w.end
		}
		switch w.src[pos] {
		case '}':
			if group {
				return pos + 1
			}
			pos++
		case ';':
			pos++
		case '@':
			pos = w.atRule(pos)
		default:
			pos = w.qualifiedRule(itemStart, pos)
		}
	}
}

func (w *cssWalker) atRule(pos int) int {
	nameEnd := pos + 1
	for nameEnd < w.end && (isAlnum(w.src[nameEnd]) || w.src[nameEnd] == '-') {
		nameEnd++
	}
	name := strings.ToLower(w.src[pos:nameEnd])

	stop := w.preludeEnd(nameEnd, true)
	if stop >= w.end {
		return w.end
	}
	switch w.src[stop] {
	case ';':
		return stop + 1
	case '}':
		return stop
	}
	if groupAtRules[name] {
		return w.block(stop+1, true)
	}
	after, _ := w.skipBlock(stop)
	return after
}

func (w *cssWalker) qualifiedRule(start, pos int) int {
	open := w.preludeEnd(pos, false)
	if open >= w.end {
		return w.end
	}
	if w.src[open] != '{' {
		// stray '}' at this level: let the caller handle it
		return open
	}

	after, ok := w.skipBlock(open)
	if !ok {
		return w.end
	}
	w.rules = append(w.rules, Rule{
		Start:  start,
		Open:   open,
		Close:  after - 1,
		Pieces: w.pieces(pos, open),
	})
	return after
}

// pieces splits the selector list in [start, end) at top-level commas.
func (w *cssWalker) pieces(start, end int) []Piece {
	var out []Piece
	add := func(a, b int) {
		a, b = trimSpace(w.src, a, b)
		if a < b {
			out = append(out, Piece{Start: a, End: b})
		}
	}

	depth := 0
	from := start
	for i := start; i < end; {
		switch c := w.src[i]; {
		case c == '"' || c == '\'':
			i = w.skipString(i)
			continue
		case c == '/' && i+1 < end && w.src[i+1] == '*':
			i = w.skipComment(i)
			continue
		case c == '(' || c == '[':
			depth++
		case (c == ')' || c == ']') && depth > 0:
			depth--
		case c == ',' && depth == 0:
			add(from, i)
			from = i + 1
		}
		i++
	}
	add(from, end)
	return out
}

// preludeEnd returns the offset of the first '{' or '}' (and ';' when
// semicolon is set) outside strings, comments and parentheses, or w.end.
func (w *cssWalker) preludeEnd(pos int, semicolon bool) int {
	depth := 0
	for pos < w.end {
		switch c := w.src[pos]; {
		case c == '"' || c == '\'':
			pos = w.skipString(pos)
			continue
		case c == '/' && pos+1 < w.end && w.src[pos+1] == '*':
			pos = w.skipComment(pos)
			continue
		case c == '(' || c == '[':
			depth++
		case (c == ')' || c == ']') && depth > 0:
			depth--
		case depth == 0 && (c == '{' || c == '}' || (semicolon && c == ';')):
			return pos
		}
		pos++
	}
	return w.end
}

// skipBlock returns the offset after the brace matching the '{' at open.
// ok is false when the block is not terminated before w.end.
func (w *cssWalker) skipBlock(open int) (after int, ok bool) {
	depth := 0
	for pos := open; pos < w.end; {
		switch c := w.src[pos]; {
		case c == '"' || c == '\'':
			pos = w.skipString(pos)
			continue
		case c == '/' && pos+1 < w.end && w.src[pos+1] == '*':
			pos = w.skipComment(pos)
			continue
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return pos + 1, true
			}
		}
		pos++
	}
	return w.end, false
}

// skipString returns the offset after the string starting at pos. Strings
// end at the matching quote or an unescaped newline.
func (w *cssWalker) skipString(pos int) int {
	quote := w.src[pos]
	for pos++; pos < w.end; pos++ {
		switch w.src[pos] {
		case '\\':
			pos++
		case quote:
			return pos + 1
		case '\n':
			return pos
		}
	}
	return w.end
}

func (w *cssWalker) skipComment(pos int) int {
	if i := strings.Index(w.src[pos+2:w.end], "*/"); i >= 0 {
		return pos + 2 + i + 2
	}
	return w.end
}

// skipSpaceAndComments returns the next significant offset and the offset
// just past the last "<!--" or "-->" marker on the way, which leading
// content of the following item must not include.
func (w *cssWalker) skipSpaceAndComments(pos int) (next, itemStart int) {
	itemStart = pos
	for pos < w.end {
		switch {
		case isSpace(w.src[pos]):
			pos++
		case w.src[pos] == '/' && pos+1 < w.end && w.src[pos+1] == '*':
			pos = w.skipComment(pos)
		case strings.HasPrefix(w.src[pos:w.end], "<!--"):
			pos += 4
			itemStart = pos
		case strings.HasPrefix(w.src[pos:w.end], "-->"):
			pos += 3
			itemStart = pos
		default:
			return pos, itemStart
		}
	}
	return pos, itemStart
}
