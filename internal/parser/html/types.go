package html

// ProblemKind classifies a markup problem found by Check
type ProblemKind int

const (
	// SyntaxError marks text tree-sitter could not fit into the grammar
	SyntaxError ProblemKind = iota
	// MissingNode marks a token the parser had to insert, e.g. a closing quote
	MissingNode
	// StrayEndTag marks an end tag that closes no open element
	StrayEndTag
)

func (k ProblemKind) String() string {
	switch k {
	case MissingNode:
		return "missing"
	case StrayEndTag:
		return "stray end tag"
	default:
		return "syntax error"
	}
}

// Problem is a markup problem with a 1-based line and column
type Problem struct {
	Kind   ProblemKind
	Line   uint
	Column uint
	// Text is the offending source, truncated to a single short line
	Text string
}

// Region is the byte span of a style element's text content
type Region struct {
	Start int
	End   int
}
