package converter

import (
	"strings"
	"sync"
	"unicode"

	"github.com/ZaguanLabs/translit"
	"github.com/rainycape/unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// step applies a single transform ID.
type step func(string) (string, error)

var steps = map[string]step{
	translit.RuleAnyLatin:   anyToLatin,
	translit.RuleLatinASCII: latinToASCII,
	translit.RuleNFD:        normalize(norm.NFD),
	translit.RuleNFC:        normalize(norm.NFC),
	translit.RuleNFKD:       normalize(norm.NFKD),
	translit.RuleNFKC:       normalize(norm.NFKC),
	translit.RuleLower: func(s string) (string, error) {
		return cases.Lower(language.Und).String(s), nil
	},
	translit.RuleUpper: func(s string) (string, error) {
		return cases.Upper(language.Und).String(s), nil
	},
	translit.RuleTitle: func(s string) (string, error) {
		return cases.Title(language.Und).String(s), nil
	},
	translit.RuleRemoveMn: func(s string) (string, error) {
		out, _, err := transform.String(runes.Remove(runes.In(unicode.Mn)), s)
		return out, err
	},
	translit.RuleNull: func(s string) (string, error) {
		return s, nil
	},
}

// compiled is the parse result for one rule string.
type compiled struct {
	ids []string
	err error
}

// RuleConverter applies compound transform rules such as
// "Any-Latin; Latin-ASCII". Parsed rule strings are memoized.
type RuleConverter struct {
	mu    sync.RWMutex
	rules map[string]compiled
}

// NewRuleConverter creates a rule-driven converter.
func NewRuleConverter() *RuleConverter {
	return &RuleConverter{
		rules: make(map[string]compiled),
	}
}

// Name returns "rules".
func (c *RuleConverter) Name() string {
	return string(translit.SourceRules)
}

// Convert applies rules to text. An unknown or empty rule string yields a
// *translit.RuleError.
func (c *RuleConverter) Convert(text, rules string) (string, error) {
	ids, err := c.compile(rules)
	if err != nil {
		return "", err
	}

	out := text
	for _, id := range ids {
		if out, err = steps[id](out); err != nil {
			return "", &translit.ConverterError{Converter: c.Name(), Rules: id, Cause: err}
		}
	}
	return out, nil
}

// Supports reports whether every transform ID in rules is understood.
func (c *RuleConverter) Supports(rules string) bool {
	_, err := c.compile(rules)
	return err == nil
}

func (c *RuleConverter) compile(rules string) ([]string, error) {
	c.mu.RLock()
	entry, ok := c.rules[rules]
	c.mu.RUnlock()
	if ok {
		return entry.ids, entry.err
	}

	ids, err := translit.ParseRules(rules)
	c.mu.Lock()
	c.rules[rules] = compiled{ids: ids, err: err}
	c.mu.Unlock()
	return ids, err
}

func normalize(form norm.Form) step {
	return func(s string) (string, error) {
		return form.String(s), nil
	}
}

// latinSpecials covers Latin letters and punctuation that canonical
// decomposition leaves outside ASCII.
var latinSpecials = strings.NewReplacer(
	"ß", "ss", "ẞ", "SS",
	"Æ", "AE", "æ", "ae",
	"Œ", "OE", "œ", "oe",
	"Ø", "O", "ø", "o",
	"Đ", "D", "đ", "d",
	"Ð", "D", "ð", "d",
	"Ł", "L", "ł", "l",
	"Þ", "TH", "þ", "th",
	"Ħ", "H", "ħ", "h",
	"Ŋ", "N", "ŋ", "n",
	"ı", "i", "ſ", "s",
	"‘", "'", "’", "'", "‚", "'",
	"“", "\"", "”", "\"", "„", "\"",
	"«", "<<", "»", ">>",
	"–", "-", "—", "-",
	"…", "...",
	"€", "EUR",
)

// latinToASCII folds Latin letters to their unaccented base. Combining
// marks are removed only when they follow an ASCII or Latin base, so other
// scripts are left intact.
func latinToASCII(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))

	latinBase := false
	for _, r := range norm.NFD.String(latinSpecials.Replace(s)) {
		if unicode.Is(unicode.Mn, r) {
			if !latinBase {
				b.WriteRune(r)
			}
			continue
		}
		latinBase = r <= unicode.MaxASCII || unicode.Is(unicode.Latin, r)
		b.WriteRune(r)
	}

	folded := norm.NFC.String(b.String())
	b.Reset()
	for _, r := range folded {
		if r <= unicode.MaxASCII || !unicode.In(r, unicode.Latin, unicode.Common) {
			b.WriteRune(r)
			continue
		}
		if compat := foldCompat(r); compat != "" {
			b.WriteString(compat)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// foldCompat spells a Latin or script-neutral rune in ASCII: ligatures,
// fullwidth forms, superscripts, fractions and Roman numerals. It returns
// "" when no ASCII spelling exists.
func foldCompat(r rune) string {
	var b strings.Builder
	for _, d := range norm.NFKD.String(string(r)) {
		switch {
		case d <= unicode.MaxASCII:
			b.WriteRune(d)
		case unicode.Is(unicode.Mn, d):
		default:
			b.WriteString(unidecode.Unidecode(string(d)))
		}
	}
	return b.String()
}

// anyToLatin romanizes runs of non-Latin letters. ASCII, Latin, and
// script-neutral characters are kept as they are.
func anyToLatin(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))

	src := []rune(s)
	for i := 0; i < len(src); {
		if !foreign(src[i]) {
			b.WriteRune(src[i])
			i++
			continue
		}

		j := i
		for j < len(src) && foreign(src[j]) {
			j++
		}
		b.WriteString(strings.TrimRight(unidecode.Unidecode(string(src[i:j])), " "))
		// Han romanizes to space-separated syllables; keep the last one
		// apart from following text. Alphabetic scripts join as written.
		if j < len(src) && unicode.Is(unicode.Han, src[j-1]) &&
			(unicode.IsLetter(src[j]) || unicode.IsDigit(src[j])) {
			b.WriteByte(' ')
		}
		i = j
	}
	return b.String(), nil
}

// foreign reports whether r belongs to a script other than Latin.
func foreign(r rune) bool {
	if r <= unicode.MaxASCII {
		return false
	}
	return !unicode.In(r, unicode.Latin, unicode.Common, unicode.Inherited)
}

// Verify RuleConverter implements Converter
var _ Converter = (*RuleConverter)(nil)
