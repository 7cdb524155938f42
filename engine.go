package translit

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/ZaguanLabs/translit/cache"
	"golang.org/x/sync/singleflight"
)

// Engine is the transliteration engine. It is safe for concurrent use.
type Engine struct {
	cache          Cache
	converters     []Converter
	defaultRules   string
	logger         *slog.Logger
	diagnostics    func(Diagnostic)
	processors     map[string]ContentProcessor
	batchThreshold int

	group     singleflight.Group
	hits      atomic.Uint64
	misses    atomic.Uint64
	fallbacks atomic.Uint64
	failures  atomic.Uint64
}

// Converter is one tier of the conversion chain.
type Converter interface {
	// Name identifies the converter in logs, diagnostics and Result.Source.
	Name() string

	// Convert transliterates text according to rules. Converters that do
	// not interpret rules ignore them.
	Convert(text, rules string) (string, error)
}

// Availability is implemented by converters whose backing capability may be
// missing at runtime. Unavailable converters are skipped without logging.
type Availability interface {
	Available() bool
}

// Cache is the interface for transliteration caching.
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// ContentProcessor is the interface for structured content processing.
type ContentProcessor interface {
	Extract(content string) (interface{}, []TextNode, error)
	Apply(parsed interface{}, nodes []TextNode, results map[string]string) (string, error)
	ContentType() string
}

// EngineOption is a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithCache sets the transliteration cache. A nil cache disables caching.
func WithCache(c Cache) EngineOption {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithConverters sets the conversion chain, in priority order.
func WithConverters(converters ...Converter) EngineOption {
	return func(e *Engine) {
		e.converters = converters
	}
}

// WithDefaultRules sets the rule identifier used when a call passes none.
func WithDefaultRules(rules string) EngineOption {
	return func(e *Engine) {
		e.defaultRules = rules
	}
}

// WithLogger sets the logger used for converter failures.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithDiagnostics registers a hook that receives every converter failure.
// The hook runs synchronously on the calling goroutine.
func WithDiagnostics(fn func(Diagnostic)) EngineOption {
	return func(e *Engine) {
		e.diagnostics = fn
	}
}

// WithProcessor registers a content processor.
func WithProcessor(processor ContentProcessor) EngineOption {
	return func(e *Engine) {
		e.processors[processor.ContentType()] = processor
	}
}

// WithBatchThreshold sets the minimum number of distinct inputs before
// TransliterateBatch converts them concurrently.
func WithBatchThreshold(n int) EngineOption {
	return func(e *Engine) {
		e.batchThreshold = n
	}
}

// NewEngine creates a new Engine. Without WithCache the engine owns an
// in-memory cache whose entries never expire. Without WithConverters the
// engine returns its input unchanged.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		cache:          cache.NewInMemoryCache(0),
		defaultRules:   DefaultRules,
		logger:         slog.New(slog.DiscardHandler),
		processors:     make(map[string]ContentProcessor),
		batchThreshold: 5,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Transliterate converts text using rules, or the engine default when rules
// is empty. It never fails: if every converter fails the input is returned.
func (e *Engine) Transliterate(text, rules string) string {
	return e.TransliterateResult(text, rules).Text
}

// TransliterateRequest is Transliterate for a Request value.
func (e *Engine) TransliterateRequest(req Request) Result {
	return e.TransliterateResult(req.Text, req.Rules)
}

// TransliterateResult is like Transliterate but also reports which stage
// produced the output.
func (e *Engine) TransliterateResult(text, rules string) Result {
	rules = ResolveRules(rules, e.defaultRules)
	key := CacheKey(HashText(text), rules)

	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			e.hits.Add(1)
			return Result{Text: cached, Rules: rules, Source: SourceCache, Cached: true}
		}
	}
	e.misses.Add(1)

	// Concurrent misses on the same key share one conversion.
	v, _, _ := e.group.Do(key, func() (interface{}, error) {
		res := e.convert(text, rules)
		if e.cache != nil {
			if err := e.cache.Set(key, res.Text); err != nil {
				e.logger.Debug("cache set failed",
					slog.String("rules", rules),
					slog.Any("error", &CacheError{Message: "set", Cause: err}))
			}
		}
		return res, nil
	})
	return v.(Result)
}

// convert runs the converter chain in priority order.
func (e *Engine) convert(text, rules string) Result {
	attempted := false
	for _, c := range e.converters {
		if a, ok := c.(Availability); ok && !a.Available() {
			continue
		}

		out, err := e.safeConvert(c, text, rules)
		if err != nil {
			if errors.Is(err, ErrUnavailable) {
				continue
			}
			attempted = true
			e.report(c.Name(), rules, err)
			continue
		}

		if attempted {
			e.fallbacks.Add(1)
		}
		return Result{Text: out, Rules: rules, Source: Source(c.Name())}
	}

	return Result{Text: text, Rules: rules, Source: SourcePassthrough}
}

// safeConvert calls c.Convert and turns a panic into an error.
func (e *Engine) safeConvert(c Converter, text, rules string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return c.Convert(text, rules)
}

// report logs a converter failure and forwards it to the diagnostics hook.
func (e *Engine) report(name, rules string, err error) {
	e.failures.Add(1)

	var convErr *ConverterError
	if !errors.As(err, &convErr) {
		convErr = &ConverterError{Converter: name, Rules: rules, Cause: err}
	}

	e.logger.Warn("transliteration failed",
		slog.String("converter", name),
		slog.String("rules", rules),
		slog.Any("error", convErr.Cause))

	if e.diagnostics != nil {
		e.diagnostics(Diagnostic{Converter: name, Rules: rules, Err: convErr})
	}
}

// Process transliterates the text nodes of structured content.
func (e *Engine) Process(content, contentType, rules string) (*ProcessedContent, error) {
	processor, ok := e.processors[contentType]
	if !ok {
		return nil, &ProcessorError{
			Message:     "no processor registered for content type",
			ContentType: contentType,
		}
	}

	parsed, nodes, err := processor.Extract(content)
	if err != nil {
		return nil, err
	}

	if len(nodes) == 0 {
		return &ProcessedContent{Content: content}, nil
	}

	results := make(map[string]string, len(nodes))
	cachedCount, convertedCount := 0, 0
	for _, node := range nodes {
		res := e.TransliterateResult(node.Text, rules)
		results[node.Hash] = res.Text
		if res.Cached {
			cachedCount++
		} else {
			convertedCount++
		}
	}

	result, err := processor.Apply(parsed, nodes, results)
	if err != nil {
		return nil, err
	}

	return &ProcessedContent{
		Content:        result,
		ConvertedCount: convertedCount,
		CachedCount:    cachedCount,
		TotalNodes:     len(nodes),
	}, nil
}

// ProcessHTML is a convenience method for processing HTML content.
func (e *Engine) ProcessHTML(content, rules string) (*ProcessedContent, error) {
	return e.Process(content, "html", rules)
}

// Reset drops every cached entry when the cache supports it.
func (e *Engine) Reset() {
	switch c := e.cache.(type) {
	case interface{ Clear() }:
		c.Clear()
	case interface{ Clear() error }:
		if err := c.Clear(); err != nil {
			e.logger.Warn("cache clear failed",
				slog.Any("error", &CacheError{Message: "clear", Cause: err}))
		}
	}
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Hits:      e.hits.Load(),
		Misses:    e.misses.Load(),
		Fallbacks: e.fallbacks.Load(),
		Failures:  e.failures.Load(),
	}
}

// DefaultRules returns the rule identifier used when a call passes none.
func (e *Engine) DefaultRules() string {
	return ResolveRules("", e.defaultRules)
}

// Converters returns the names of the configured converters, in order.
func (e *Engine) Converters() []string {
	names := make([]string, len(e.converters))
	for i, c := range e.converters {
		names[i] = c.Name()
	}
	return names
}

// Cache returns the engine's cache.
func (e *Engine) Cache() Cache {
	return e.cache
}
