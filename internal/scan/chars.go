package scan

import "strings"

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isAlnum(c byte) bool {
	return isAlpha(c) || c >= '0' && c <= '9'
}

func isTagNameChar(c byte) bool {
	return isAlnum(c) || c == '-' || c == ':'
}

// isTag reports whether src has the tag "<name" at pos, matched
// case-insensitively and followed by whitespace, '>', '/' or end of input.
func isTag(src string, pos int, name string) bool {
	end := pos + 1 + len(name)
	if src[pos] != '<' || end > len(src) || !strings.EqualFold(src[pos+1:end], name) {
		return false
	}
	return end == len(src) || isSpace(src[end]) || src[end] == '>' || src[end] == '/'
}

// indexTag returns the offset of the first "<name" tag at or after from,
// or -1.
func indexTag(src string, from int, name string) int {
	for pos := from; pos < len(src); pos++ {
		i := strings.IndexByte(src[pos:], '<')
		if i < 0 {
			return -1
		}
		pos += i
		if isTag(src, pos, name) {
			return pos
		}
	}
	return -1
}

// trimSpace narrows [start, end) to exclude surrounding whitespace.
func trimSpace(src string, start, end int) (int, int) {
	for start < end && isSpace(src[start]) {
		start++
	}
	for end > start && isSpace(src[end-1]) {
		end--
	}
	return start, end
}

// skipHTMLComment returns the offset after the comment starting with "<!--"
// at pos. Conditional comments only skip their "<!--[if ...]>" opener: the
// markup they wrap is read by Outlook and is scanned like any other.
func skipHTMLComment(src string, pos int) int {
	body := pos + len("<!--")
	switch {
	case strings.HasPrefix(src[body:], "[if"):
		if i := strings.Index(src[body:], "]>"); i >= 0 {
			return body + i + 2
		}
		return len(src)
	case strings.HasPrefix(src[body:], ">"):
		return body + 1
	case strings.HasPrefix(src[body:], "->"):
		return body + 2
	}
	if i := strings.Index(src[body:], "-->"); i >= 0 {
		return body + i + 3
	}
	return len(src)
}
