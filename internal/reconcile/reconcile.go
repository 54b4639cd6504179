// Package reconcile decides which selector tokens are unused by comparing
// the selectors declared in style sheets with the classes and ids the body
// references.
package reconcile

import (
	"bennypowers.dev/emailprune/internal/collections"
	"bennypowers.dev/emailprune/internal/parser/css"
	"bennypowers.dev/emailprune/internal/whitelist"
)

// Result holds the two deletion sets.
type Result struct {
	// AllInHead are all tokens referenced by the lumps.
	AllInHead collections.Set[string]
	// HeadToDelete are tokens whose style rules can be removed.
	HeadToDelete collections.Set[string]
	// BodyToDelete are tokens that can be removed from class/id attributes.
	BodyToDelete collections.Set[string]
}

// Reconcile runs two passes over the head lumps.
//
// The first pass keeps a lump only when every token it references is used
// in the body; tokens of dropped lumps become candidates. The second pass
// computes plain set differences: head tokens the body never uses, and body
// tokens no surviving lump references. Candidates that also lost their last
// surviving lump are added back to the head set. Whitelisted tokens never
// appear in either result.
func Reconcile(lumps []string, bodyUsed collections.Set[string], patterns []string) Result {
	tokens := make([]collections.Set[string], len(lumps))
	for i, lump := range lumps {
		tokens[i] = css.Extract(lump)
	}

	allHead := collections.NewSet[string]()
	survivors := collections.NewSet[string]()
	candidates := collections.NewSet[string]()
	for _, set := range tokens {
		members := set.Members()
		allHead.Add(members...)
		if bodyUsed.HasAll(members...) {
			survivors.Add(members...)
			continue
		}
		candidates.Add(members...)
	}
	candidates = whitelist.Exclude(candidates, patterns)

	baseline := whitelist.Exclude(allHead.Difference(bodyUsed), patterns)
	bodyToDelete := whitelist.Exclude(bodyUsed.Difference(survivors), patterns)

	return Result{
		AllInHead:    allHead,
		HeadToDelete: baseline.Union(candidates.Intersect(bodyToDelete)),
		BodyToDelete: bodyToDelete,
	}
}
