// Package translit converts Unicode text to ASCII-safe approximations.
//
// An Engine resolves a rule identifier, consults its cache and then runs an
// ordered chain of converters until one of them produces output. The
// converter package provides the standard chain: a rule-driven transformer
// (Any-Latin, Latin-ASCII, NFD, ...), a best-effort ASCII transcoder and a
// static substitution table. The filter package exposes the engine to
// text/template and html/template as the "transliterate" and "to_ascii"
// functions.
//
// Basic usage:
//
//	import (
//	    "github.com/ZaguanLabs/translit"
//	    "github.com/ZaguanLabs/translit/cache"
//	    "github.com/ZaguanLabs/translit/converter"
//	)
//
//	func main() {
//	    e := translit.NewEngine(
//	        translit.WithCache(cache.NewInMemoryCache(0)),
//	        translit.WithConverters(converter.DefaultChain()...),
//	    )
//
//	    fmt.Println(e.Transliterate("Ærøskøbing", "")) // AEroskobing
//	}
package translit
