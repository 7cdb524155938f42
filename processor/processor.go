// Package processor provides content processing implementations.
package processor

import "github.com/ZaguanLabs/translit"

// ContentProcessor is an alias to the main package interface.
type ContentProcessor = translit.ContentProcessor

// TextNode is an alias to the main package type.
type TextNode = translit.TextNode
