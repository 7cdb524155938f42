package translit

// DefaultRules is used when neither the caller nor the engine configuration
// supplies a rule identifier.
const DefaultRules = "Any-Latin; Latin-ASCII"

// DefaultAllowedChars is the character class fragment kept by to_ascii.
const DefaultAllowedChars = `A-Za-z0-9 \-_`

// Source identifies which stage produced a transliteration.
type Source string

const (
	// SourceCache means the result was served from the cache.
	SourceCache Source = "cache"
	// SourceRules means the primary rule-driven converter produced the result.
	SourceRules Source = "rules"
	// SourceTranscode means the best-effort ASCII transcoder produced the result.
	SourceTranscode Source = "transcode"
	// SourceTable means the static substitution table produced the result.
	SourceTable Source = "table"
	// SourcePassthrough means no converter succeeded and the input was returned as is.
	SourcePassthrough Source = "passthrough"
)

// Request is a single transliteration request.
type Request struct {
	Text  string // Input text, arbitrary Unicode
	Rules string // Rule identifier (empty = engine default)
}

// Result is the outcome of a transliteration.
type Result struct {
	Text   string // Transliterated text
	Rules  string // Resolved rule identifier
	Source Source // Stage that produced Text
	Cached bool   // Whether Text came from the cache
}

// TextNode represents a transliterable unit of structured content.
type TextNode struct {
	ID       string            // Unique identifier within the document
	Text     string            // Original text content (trimmed)
	Hash     string            // SHA-256 hash of Text
	NodeType string            // Content type: "html_text", ...
	Metadata map[string]string // Additional info (parent tag, ...)
}

// ProcessedContent is the result of processing structured content.
type ProcessedContent struct {
	Content        string // Transliterated content
	ConvertedCount int    // Number of nodes converted on this call
	CachedCount    int    // Number of cache hits
	TotalNodes     int    // Total transliterable nodes found
}

// Stats reports engine counters.
type Stats struct {
	Hits      uint64 `json:"hits"`      // Cache hits
	Misses    uint64 `json:"misses"`    // Cache misses
	Fallbacks uint64 `json:"fallbacks"` // Conversions produced after an earlier converter failed
	Failures  uint64 `json:"failures"`  // Converter errors (each failed tier counts once)
}

// Diagnostic describes a converter failure. It is delivered to the hook
// registered with WithDiagnostics and never returned to callers.
type Diagnostic struct {
	Converter string
	Rules     string
	Err       error
}

// IgnoredTags contains HTML tags whose content should not be transliterated.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
}
