package prune

import (
	"fmt"

	"bennypowers.dev/emailprune/internal/whitelist"
)

// Options configures a Prune call.
type Options struct {
	// Whitelist holds glob patterns ("#keep-*", ".ExternalClass") for
	// tokens that are never deleted, used or not.
	Whitelist []string `json:"whitelist,omitempty" yaml:"whitelist,omitempty"`
}

// Validate checks that every whitelist entry is a usable glob pattern.
func (o Options) Validate() error {
	if err := whitelist.Validate(o.Whitelist); err != nil {
		return NewInvalidInputError("whitelist", err.Error())
	}
	return nil
}

// Merge returns a copy of o with the whitelist of other appended.
func (o Options) Merge(other Options) Options {
	merged := Options{Whitelist: make([]string, 0, len(o.Whitelist)+len(other.Whitelist))}
	merged.Whitelist = append(merged.Whitelist, o.Whitelist...)
	merged.Whitelist = append(merged.Whitelist, other.Whitelist...)
	return merged
}

// OptionsFromValue builds Options from a loosely typed configuration value,
// such as the result of decoding a JSON or YAML document into any. A nil
// value yields the defaults.
func OptionsFromValue(v any) (Options, error) {
	if v == nil {
		return Options{}, nil
	}

	m, ok := v.(map[string]any)
	if !ok {
		return Options{}, NewInvalidInputError("options", fmt.Sprintf("expected a key/value map, got %T", v))
	}

	raw, ok := m["whitelist"]
	if !ok || raw == nil {
		return Options{}, nil
	}

	var opts Options
	switch list := raw.(type) {
	case []string:
		opts.Whitelist = append(opts.Whitelist, list...)
	case []any:
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return Options{}, NewInvalidInputError("whitelist", fmt.Sprintf("entry %d: expected a string, got %T", i, item))
			}
			opts.Whitelist = append(opts.Whitelist, s)
		}
	default:
		return Options{}, NewInvalidInputError("whitelist", fmt.Sprintf("expected a sequence of glob patterns, got %T", raw))
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
