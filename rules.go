package translit

import "strings"

// Transform IDs understood by the rule-driven converter.
const (
	RuleAnyLatin   = "Any-Latin"
	RuleLatinASCII = "Latin-ASCII"
	RuleNFD        = "NFD"
	RuleNFC        = "NFC"
	RuleNFKD       = "NFKD"
	RuleNFKC       = "NFKC"
	RuleLower      = "Any-Lower"
	RuleUpper      = "Any-Upper"
	RuleTitle      = "Any-Title"
	RuleRemoveMn   = "[:Nonspacing Mark:] Remove"
	RuleNull       = "Any-Null"
)

// RuleNames maps transform IDs to human-readable descriptions.
var RuleNames = map[string]string{
	RuleAnyLatin:   "Transliterate any script to Latin",
	RuleLatinASCII: "Fold Latin letters to their ASCII base",
	RuleNFD:        "Canonical decomposition",
	RuleNFC:        "Canonical composition",
	RuleNFKD:       "Compatibility decomposition",
	RuleNFKC:       "Compatibility composition",
	RuleLower:      "Lowercase",
	RuleUpper:      "Uppercase",
	RuleTitle:      "Titlecase",
	RuleRemoveMn:   "Remove nonspacing marks",
	RuleNull:       "Identity",
}

// ruleAliases maps lowercased spellings to canonical transform IDs.
var ruleAliases = map[string]string{
	"any-latin":                  RuleAnyLatin,
	"latin-ascii":                RuleLatinASCII,
	"any-ascii":                  RuleLatinASCII,
	"nfd":                        RuleNFD,
	"any-nfd":                    RuleNFD,
	"nfc":                        RuleNFC,
	"any-nfc":                    RuleNFC,
	"nfkd":                       RuleNFKD,
	"any-nfkd":                   RuleNFKD,
	"nfkc":                       RuleNFKC,
	"any-nfkc":                   RuleNFKC,
	"any-lower":                  RuleLower,
	"lower":                      RuleLower,
	"any-upper":                  RuleUpper,
	"upper":                      RuleUpper,
	"any-title":                  RuleTitle,
	"title":                      RuleTitle,
	"[:nonspacing mark:] remove": RuleRemoveMn,
	"[:mn:] remove":              RuleRemoveMn,
	"any-null":                   RuleNull,
	"null":                       RuleNull,
}

// CanonicalRuleID returns the canonical spelling of a transform ID.
// IDs are matched case-insensitively and may carry a leading "::".
func CanonicalRuleID(id string) (string, bool) {
	id = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(id), "::"))
	canonical, ok := ruleAliases[strings.ToLower(id)]
	return canonical, ok
}

// ParseRules splits a compound rule string ("Any-Latin; Latin-ASCII") into
// canonical transform IDs, in application order.
func ParseRules(rules string) ([]string, error) {
	var ids []string
	for _, part := range strings.Split(rules, ";") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		id, ok := CanonicalRuleID(part)
		if !ok {
			return nil, &RuleError{Rules: rules, ID: strings.TrimSpace(part)}
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, &RuleError{Rules: rules}
	}
	return ids, nil
}

// GetRuleDescription returns the description for a transform ID.
// Falls back to the ID itself if not found.
func GetRuleDescription(id string) string {
	if canonical, ok := CanonicalRuleID(id); ok {
		return RuleNames[canonical]
	}
	return id
}

// ResolveRules picks the rule identifier for a call: the explicit value,
// then the configured fallback, then DefaultRules.
func ResolveRules(rules, fallback string) string {
	if strings.TrimSpace(rules) != "" {
		return rules
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return DefaultRules
}
