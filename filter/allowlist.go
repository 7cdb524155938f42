package filter

import (
	"fmt"
	"regexp"
)

// AllowList removes every rune that does not match a character-class
// fragment such as `A-Za-z0-9 \-_`.
type AllowList struct {
	fragment string
	re       *regexp.Regexp
}

// NewAllowList compiles fragment into the negated class [^fragment].
func NewAllowList(fragment string) (*AllowList, error) {
	if fragment == "" {
		return nil, fmt.Errorf("empty allow-list")
	}
	re, err := regexp.Compile("[^" + fragment + "]")
	if err != nil {
		return nil, fmt.Errorf("compiling allow-list %q: %w", fragment, err)
	}
	return &AllowList{fragment: fragment, re: re}, nil
}

// Apply returns s with every disallowed rune removed, preserving order.
func (a *AllowList) Apply(s string) string {
	return a.re.ReplaceAllLiteralString(s, "")
}

// Fragment returns the character-class fragment the list was built from.
func (a *AllowList) Fragment() string {
	return a.fragment
}
