// Package converter provides the conversion tiers used by the engine.
package converter

import (
	"fmt"
	"strings"

	"github.com/ZaguanLabs/translit"
)

// Converter is an alias to the main package interface for convenience.
type Converter = translit.Converter

// DefaultChain returns the standard conversion chain: the rule-driven
// converter, then the ASCII transcoder, then the static table.
func DefaultChain() []Converter {
	return []Converter{
		NewRuleConverter(),
		NewASCIITranscoder(),
		NewStaticTable(),
	}
}

// Chain builds a conversion chain from converter names ("rules",
// "transcode", "table"), in the given order. An empty list yields
// DefaultChain.
func Chain(names []string) ([]Converter, error) {
	if len(names) == 0 {
		return DefaultChain(), nil
	}

	chain := make([]Converter, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if seen[name] {
			return nil, fmt.Errorf("converter %q listed twice", name)
		}
		seen[name] = true

		switch translit.Source(name) {
		case translit.SourceRules:
			chain = append(chain, NewRuleConverter())
		case translit.SourceTranscode:
			chain = append(chain, NewASCIITranscoder())
		case translit.SourceTable:
			chain = append(chain, NewStaticTable())
		default:
			return nil, fmt.Errorf("unknown converter %q", name)
		}
	}
	return chain, nil
}
