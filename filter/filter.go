// Package filter exposes the transliteration engine as the template filters
// "transliterate" and "to_ascii".
package filter

import (
	htmltemplate "html/template"
	"log/slog"
	"sync"
	"sync/atomic"
	texttemplate "text/template"

	"github.com/ZaguanLabs/translit"
)

// Filter names registered by FuncMap and TxtFuncMap.
const (
	NameTransliterate = "transliterate"
	NameToASCII       = "to_ascii"
)

// Provider binds an engine to the host configuration. It is safe for
// concurrent use.
type Provider struct {
	engine *translit.Engine
	cfg    atomic.Pointer[translit.Config]
	logger *slog.Logger

	lists sync.Map // fragment -> *AllowList
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger used for configuration problems.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Provider. A nil engine gets a passthrough engine and a nil
// cfg means DefaultConfig.
func New(engine *translit.Engine, cfg *translit.Config, opts ...Option) *Provider {
	if engine == nil {
		engine = translit.NewEngine()
	}
	if cfg == nil {
		cfg = translit.DefaultConfig()
	}

	p := &Provider{
		engine: engine,
		logger: slog.New(slog.DiscardHandler),
	}
	p.cfg.Store(cfg)

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// SetConfig replaces the configuration. The next filter call sees it.
func (p *Provider) SetConfig(cfg *translit.Config) {
	if cfg == nil {
		cfg = translit.DefaultConfig()
	}
	p.cfg.Store(cfg)
}

// Config returns the current configuration.
func (p *Provider) Config() *translit.Config {
	return p.cfg.Load()
}

// Engine returns the underlying engine.
func (p *Provider) Engine() *translit.Engine {
	return p.engine
}

// Transliterate converts text with the first non-empty rules argument, or
// with the configured rules. Disabled configurations return text unchanged.
func (p *Provider) Transliterate(text string, rules ...string) string {
	cfg := p.cfg.Load()
	if !cfg.Enabled {
		return text
	}

	selected := cfg.Rules()
	for _, r := range rules {
		if r != "" {
			selected = r
			break
		}
	}
	return p.engine.Transliterate(text, selected)
}

// ToASCII transliterates text with the configured rules and then strips
// every character outside the configured allow-list.
func (p *Provider) ToASCII(text string) string {
	cfg := p.cfg.Load()
	if !cfg.Enabled {
		return text
	}

	out := p.engine.Transliterate(text, cfg.Rules())
	return p.allowList(cfg.Allowed()).Apply(out)
}

// allowList returns the memoized list for fragment. An invalid fragment is
// logged and replaced by DefaultAllowedChars.
func (p *Provider) allowList(fragment string) *AllowList {
	if v, ok := p.lists.Load(fragment); ok {
		return v.(*AllowList)
	}

	list, err := NewAllowList(fragment)
	if err != nil {
		p.logger.Warn("invalid allowed_chars, using default",
			slog.String("allowed_chars", fragment),
			slog.Any("error", err))
		// DefaultAllowedChars always compiles
		list, _ = NewAllowList(translit.DefaultAllowedChars)
	}

	v, _ := p.lists.LoadOrStore(fragment, list)
	return v.(*AllowList)
}

// FuncMap returns the filters for html/template.
func (p *Provider) FuncMap() htmltemplate.FuncMap {
	return htmltemplate.FuncMap{
		NameTransliterate: p.Transliterate,
		NameToASCII:       p.ToASCII,
	}
}

// TxtFuncMap returns the filters for text/template.
func (p *Provider) TxtFuncMap() texttemplate.FuncMap {
	return texttemplate.FuncMap(p.FuncMap())
}
