package converter

import (
	"errors"
	"testing"
	"unicode"

	"github.com/ZaguanLabs/translit"
)

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func TestRuleConverter_Convert(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		rules    string
		expected string
	}{
		{"accent", "café", translit.DefaultRules, "cafe"},
		{"greeting", "héllo world!", translit.DefaultRules, "hello world!"},
		{"ligatures", "Ærøskøbing", translit.DefaultRules, "AEroskobing"},
		{"sharp s", "Straße", translit.DefaultRules, "Strasse"},
		{"cyrillic", "Москва", translit.DefaultRules, "Moskva"},
		{"ascii unchanged", "plain ASCII-text_1", translit.DefaultRules, "plain ASCII-text_1"},
		{"empty", "", translit.DefaultRules, ""},
		{"latin only keeps cyrillic", "Москва é", "Latin-ASCII", "Москва e"},
		{"lower", "ÀB", "Any-Lower", "àb"},
		{"upper", "àb", "Upper", "ÀB"},
		{"strip marks", "Crème", "NFD; [:Nonspacing Mark:] Remove; NFC", "Creme"},
		{"null", "Crème", "Any-Null", "Crème"},
		{"case insensitive ids", "café", "any-latin; latin-ascii", "cafe"},
		{"ij ligature", "ĳssel", translit.DefaultRules, "ijssel"},
		{"fi ligature", "ﬁne", translit.DefaultRules, "fine"},
		{"fullwidth", "Ｔｏｋｙｏ", translit.DefaultRules, "Tokyo"},
		{"latin small f with hook", "ƒoo", translit.DefaultRules, "foo"},
		{"titlecase digraph", "ǅemal", translit.DefaultRules, "Dzemal"},
		{"superscript", "x²", translit.DefaultRules, "x2"},
		{"vulgar fraction", "½ cup", translit.DefaultRules, "1/2 cup"},
		{"roman numeral", "Louis Ⅻ", translit.DefaultRules, "Louis XII"},
		{"euro sign", "10€", translit.DefaultRules, "10EUR"},
		{"greek joined to latin", "Ωmega", translit.DefaultRules, "Omega"},
		{"han spaced from latin", "東京Tower", translit.DefaultRules, "Dong Jing Tower"},
		{"latin-ascii keeps han", "日本 ĳ", "Latin-ASCII", "日本 ij"},
	}

	c := NewRuleConverter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := c.Convert(tt.input, tt.rules)
			if err != nil {
				t.Fatalf("Convert(%q, %q) failed: %v", tt.input, tt.rules, err)
			}
			if out != tt.expected {
				t.Errorf("Convert(%q, %q) = %q, want %q", tt.input, tt.rules, out, tt.expected)
			}
		})
	}
}

func TestRuleConverter_NonLatinScripts(t *testing.T) {
	c := NewRuleConverter()

	for _, input := range []string{"日本", "Ελληνικά", "안녕하세요", "東京 Tower"} {
		out, err := c.Convert(input, translit.DefaultRules)
		if err != nil {
			t.Fatalf("Convert(%q) failed: %v", input, err)
		}
		if out == "" || !isASCII(out) {
			t.Errorf("Convert(%q) = %q, want non-empty ASCII", input, out)
		}
	}
}

func TestRuleConverter_InvalidRules(t *testing.T) {
	c := NewRuleConverter()

	for _, rules := range []string{"Bogus-Rules", "", "Any-Latin; Nope"} {
		_, err := c.Convert("café", rules)
		var ruleErr *translit.RuleError
		if !errors.As(err, &ruleErr) {
			t.Errorf("Convert with rules %q: error = %v, want *RuleError", rules, err)
		}
		if c.Supports(rules) {
			t.Errorf("Supports(%q) = true, want false", rules)
		}
	}

	if !c.Supports(translit.DefaultRules) {
		t.Error("Supports(DefaultRules) = false")
	}
}

func TestRuleConverter_Idempotent(t *testing.T) {
	c := NewRuleConverter()

	once, _ := c.Convert("Ærøskøbing café", translit.DefaultRules)
	twice, _ := c.Convert(once, translit.DefaultRules)
	if once != twice {
		t.Errorf("second pass changed %q to %q", once, twice)
	}
}

func TestASCIITranscoder_Convert(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"café", "cafe"},
		{"Straße", "Strasse"},
		{"œuvre", "oeuvre"},
		{"10€", "10EUR"},
		{"ﬁne", "fine"},
		{"“quoted” — text", `"quoted" - text`},
		{"日本 Tokyo", " Tokyo"},
		{"", ""},
	}

	tr := NewASCIITranscoder()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out, err := tr.Convert(tt.input, "ignored")
			if err != nil {
				t.Fatalf("Convert(%q) failed: %v", tt.input, err)
			}
			if out != tt.expected {
				t.Errorf("Convert(%q) = %q, want %q", tt.input, out, tt.expected)
			}
		})
	}
}

func TestASCIITranscoder_NoOutput(t *testing.T) {
	_, err := NewASCIITranscoder().Convert("日本", "")
	if !errors.Is(err, translit.ErrNoOutput) {
		t.Errorf("Convert(日本) error = %v, want ErrNoOutput", err)
	}
}

func TestStaticTable_Convert(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"café", "cafe"},
		{"ÀÁÂÃÄÅ", "AAAAAA"},
		{"ŠŽšž", "SZsz"},
		{"ß", "s"},
		{"œ", "o"}, // one rune in, one rune out
		{"Æ", "A"},
		{"日本", "日本"},
		{"ASCII", "ASCII"},
		{"", ""},
	}

	table := NewStaticTable()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out, err := table.Convert(tt.input, "")
			if err != nil {
				t.Fatalf("Convert(%q) failed: %v", tt.input, err)
			}
			if out != tt.expected {
				t.Errorf("Convert(%q) = %q, want %q", tt.input, out, tt.expected)
			}
		})
	}
}

func TestStaticTable_Len(t *testing.T) {
	if n := NewStaticTable().Len(); n != 69 {
		t.Errorf("Len() = %d, want 69", n)
	}
}

func TestChain(t *testing.T) {
	chain, err := Chain(nil)
	if err != nil {
		t.Fatalf("Chain(nil) failed: %v", err)
	}
	if len(chain) != 3 || chain[0].Name() != "rules" || chain[1].Name() != "transcode" || chain[2].Name() != "table" {
		t.Errorf("Chain(nil) = %v, want default chain", chain)
	}

	chain, err = Chain([]string{" Table "})
	if err != nil {
		t.Fatalf("Chain(table) failed: %v", err)
	}
	if len(chain) != 1 || chain[0].Name() != "table" {
		t.Errorf("Chain(table) = %v", chain)
	}

	if _, err := Chain([]string{"icu"}); err == nil {
		t.Error("Chain(icu) should fail")
	}
	if _, err := Chain([]string{"table", "table"}); err == nil {
		t.Error("Chain with duplicates should fail")
	}
}

func TestMockConverter(t *testing.T) {
	m := NewMockConverter()

	out, err := m.Convert("café", "X")
	if err != nil || out != "cafe" {
		t.Errorf("Convert(café) = %q, %v", out, err)
	}
	out, _ = m.Convert("other", "Y")
	if out != "[other]" {
		t.Errorf("Convert(other) = %q, want [other]", out)
	}
	if m.CallCount() != 2 || m.LastRules() != "Y" {
		t.Errorf("CallCount = %d, LastRules = %q", m.CallCount(), m.LastRules())
	}

	m.Reset()
	if m.CallCount() != 0 {
		t.Errorf("CallCount after Reset = %d", m.CallCount())
	}
}
