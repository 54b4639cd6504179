// Package prune removes unused CSS from HTML email templates.
//
// Style rules in <style> blocks whose selectors reference a class or id the
// body never uses are deleted, and class/id tokens in the body that no
// surviving rule styles are removed from their attributes. Everything else in
// the document is left byte-for-byte intact, apart from a final tidy-up of
// empty style elements, empty media queries and runs of blank lines.
package prune

import (
	"unicode/utf8"

	"bennypowers.dev/emailprune/internal/cleanup"
	"bennypowers.dev/emailprune/internal/collections"
	"bennypowers.dev/emailprune/internal/log"
	"bennypowers.dev/emailprune/internal/plan"
	"bennypowers.dev/emailprune/internal/reconcile"
	"bennypowers.dev/emailprune/internal/scan"
)

// Result is the outcome of a Prune call. Token slices are sorted and hold no
// duplicates. Tokens carry their "." or "#" prefix.
type Result struct {
	HTML            string   `json:"-"`
	AllInHead       []string `json:"allInHead"`
	AllInBody       []string `json:"allInBody"`
	DeletedFromHead []string `json:"deletedFromHead"`
	DeletedFromBody []string `json:"deletedFromBody"`
}

// Prune removes unused style rules and unused class/id tokens from html.
// It returns an *InvalidInputError when html is not valid UTF-8 or a
// whitelist pattern is malformed. Malformed markup is not an error.
func Prune(html string, opts Options) (*Result, error) {
	if !utf8.ValidString(html) {
		return nil, NewInvalidInputError("html", "not valid UTF-8 text")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	doc := scan.Scan(html)
	lumps := doc.Lumps()
	bodyUsed := doc.BodyClasses().Union(doc.BodyIDs())
	log.Debug("scanned %d style blocks, %d rules, %d lumps, %d attributes",
		len(doc.Styles), len(doc.Rules), len(lumps), len(doc.Attrs))

	sets := reconcile.Reconcile(lumps, bodyUsed, opts.Whitelist)
	log.Debug("head tokens %d, body tokens %d, deleting %d from head and %d from body",
		len(sets.AllInHead), len(bodyUsed), len(sets.HeadToDelete), len(sets.BodyToDelete))

	edits := plan.Plan(html, sets.HeadToDelete, sets.BodyToDelete)
	log.Debug("applying %d ranges", edits.Len())

	return &Result{
		HTML:            cleanup.Clean(edits.Apply(html)),
		AllInHead:       collections.Sorted(sets.AllInHead),
		AllInBody:       collections.Sorted(bodyUsed),
		DeletedFromHead: collections.Sorted(sets.HeadToDelete),
		DeletedFromBody: collections.Sorted(sets.BodyToDelete),
	}, nil
}
