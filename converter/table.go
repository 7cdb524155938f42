package converter

import (
	"strings"

	"github.com/ZaguanLabs/translit"
)

// Characters covered by the static table and their replacements, paired
// by position. Every mapping is one rune to one rune.
const (
	tableFrom = "ŠŒŽšœžŸ¥µÀÁÂÃÄÅÆÇÈÉÊËÌÍÎÏÐÑÒÓÔÕÖØÙÚÛÜÝßàáâãäåæçèéêëìíîïðñòóôõöøùúûüýÿ"
	tableTo   = "SOZsozYYuAAAAAAACEEEEIIIIDNOOOOOOUUUUYsaaaaaaaceeeeiiiionoooooouuuuyy"
)

var substitutions = buildTable(tableFrom, tableTo)

func buildTable(from, to string) map[rune]rune {
	src, dst := []rune(from), []rune(to)
	if len(src) != len(dst) {
		panic("converter: substitution table length mismatch")
	}
	table := make(map[rune]rune, len(src))
	for i, r := range src {
		table[r] = dst[i]
	}
	return table
}

// StaticTable replaces common accented Latin characters with their
// unaccented ASCII equivalent. Characters outside the table, including
// other scripts, pass through unchanged. It never fails.
type StaticTable struct{}

// NewStaticTable creates a static substitution converter.
func NewStaticTable() *StaticTable {
	return &StaticTable{}
}

// Name returns "table".
func (t *StaticTable) Name() string {
	return string(translit.SourceTable)
}

// Convert applies the substitution table. rules is ignored.
func (t *StaticTable) Convert(text, _ string) (string, error) {
	return strings.Map(substitute, text), nil
}

// Len returns the number of characters covered by the table.
func (t *StaticTable) Len() int {
	return len(substitutions)
}

func substitute(r rune) rune {
	if sub, ok := substitutions[r]; ok {
		return sub
	}
	return r
}

// Verify StaticTable implements Converter
var _ Converter = (*StaticTable)(nil)
