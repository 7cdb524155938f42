package converter

import (
	"strings"
	"unicode"

	"github.com/ZaguanLabs/translit"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiSpecials covers characters that compatibility decomposition does
// not reduce to ASCII.
var asciiSpecials = strings.NewReplacer(
	"ß", "ss", "ẞ", "SS",
	"Æ", "AE", "æ", "ae",
	"Œ", "OE", "œ", "oe",
	"Ø", "O", "ø", "o",
	"Đ", "D", "đ", "d",
	"Ð", "D", "ð", "d",
	"Ł", "L", "ł", "l",
	"Þ", "TH", "þ", "th",
	"ı", "i", "ħ", "h", "Ħ", "H",
	"€", "EUR", "£", "GBP", "¥", "JPY",
	"©", "(C)", "®", "(R)",
	"«", "<<", "»", ">>",
	"‘", "'", "’", "'", "‚", "'",
	"“", "\"", "”", "\"", "„", "\"",
	"–", "-", "—", "-", "−", "-",
	"⁄", "/", "×", "x", "÷", ":",
	"•", "*", "·", ".",
)

var nonASCII = runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII
})

// ASCIITranscoder performs a lossy conversion to 7-bit ASCII: characters
// are decomposed, marks and known ligatures are folded, and anything left
// outside ASCII is dropped.
type ASCIITranscoder struct{}

// NewASCIITranscoder creates a best-effort ASCII transcoder.
func NewASCIITranscoder() *ASCIITranscoder {
	return &ASCIITranscoder{}
}

// Name returns "transcode".
func (t *ASCIITranscoder) Name() string {
	return string(translit.SourceTranscode)
}

// Convert transcodes text to ASCII. rules is ignored. Returns
// translit.ErrNoOutput when non-empty input transcodes to nothing.
func (t *ASCIITranscoder) Convert(text, _ string) (string, error) {
	if text == "" {
		return "", nil
	}

	// Transformers carry state; build a fresh chain per call.
	chain := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(nonASCII),
	)

	out, _, err := transform.String(chain, asciiSpecials.Replace(text))
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", translit.ErrNoOutput
	}
	return out, nil
}

// Verify ASCIITranscoder implements Converter
var _ Converter = (*ASCIITranscoder)(nil)
