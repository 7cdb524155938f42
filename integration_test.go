package translit_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/go-redis/redismock/v9"

	"github.com/ZaguanLabs/translit"
	"github.com/ZaguanLabs/translit/cache"
	"github.com/ZaguanLabs/translit/converter"
	"github.com/ZaguanLabs/translit/processor"
)

// Integration tests using all real components

func newDefaultEngine(opts ...translit.EngineOption) *translit.Engine {
	base := []translit.EngineOption{
		translit.WithCache(cache.NewInMemoryCache(0)),
		translit.WithConverters(converter.DefaultChain()...),
		translit.WithProcessor(processor.NewHTMLProcessor()),
	}
	return translit.NewEngine(append(base, opts...)...)
}

func TestIntegration_DefaultChain(t *testing.T) {
	e := newDefaultEngine()

	tests := []struct {
		in   string
		want string
	}{
		{"café", "cafe"},
		{"Ærøskøbing", "AEroskobing"},
		{"Straße", "Strasse"},
		{"Москва", "Moskva"},
		{"plain ascii", "plain ascii"},
		{"", ""},
	}

	for _, tt := range tests {
		res := e.TransliterateResult(tt.in, "")
		if res.Text != tt.want {
			t.Errorf("Transliterate(%q) = %q, want %q", tt.in, res.Text, tt.want)
		}
		if res.Source != translit.SourceRules {
			t.Errorf("Transliterate(%q) source = %q, want rules", tt.in, res.Source)
		}
	}
}

func TestIntegration_CacheHit(t *testing.T) {
	c := cache.NewInMemoryCache(3600)
	e := newDefaultEngine(translit.WithCache(c))

	first := e.TransliterateResult("naïve", "")
	second := e.TransliterateResult("naïve", "")

	if first.Cached || !second.Cached {
		t.Errorf("expected miss then hit, got cached=%v, %v", first.Cached, second.Cached)
	}
	if second.Source != translit.SourceCache || second.Text != "naive" {
		t.Errorf("unexpected cached result %+v", second)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 cache entry, got %d", c.Len())
	}

	stats := e.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestIntegration_RulesAreDistinctCacheEntries(t *testing.T) {
	c := cache.NewInMemoryCache(0)
	e := newDefaultEngine(translit.WithCache(c))

	lower := e.Transliterate("café", "Latin-ASCII")
	upper := e.Transliterate("café", "Latin-ASCII; Any-Upper")

	if lower != "cafe" || upper != "CAFE" {
		t.Errorf("got %q and %q", lower, upper)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 cache entries, got %d", c.Len())
	}
}

func TestIntegration_FallbackToTranscoder(t *testing.T) {
	var diags []translit.Diagnostic
	e := newDefaultEngine(translit.WithDiagnostics(func(d translit.Diagnostic) {
		diags = append(diags, d)
	}))

	res := e.TransliterateResult("café", "Bogus-Transform")
	if res.Text != "cafe" || res.Source != translit.SourceTranscode {
		t.Errorf("unexpected result %+v", res)
	}

	if len(diags) != 1 || diags[0].Converter != "rules" {
		t.Fatalf("expected one rules diagnostic, got %+v", diags)
	}
	var ruleErr *translit.RuleError
	if !errors.As(diags[0].Err, &ruleErr) || ruleErr.ID != "Bogus-Transform" {
		t.Errorf("expected RuleError for Bogus-Transform, got %v", diags[0].Err)
	}

	if e.Stats().Fallbacks != 1 {
		t.Errorf("expected 1 fallback, got %d", e.Stats().Fallbacks)
	}
}

func TestIntegration_FallbackToTable(t *testing.T) {
	var diags []translit.Diagnostic
	e := newDefaultEngine(translit.WithDiagnostics(func(d translit.Diagnostic) {
		diags = append(diags, d)
	}))

	// Invalid rules fail the rules tier and the transcoder has nothing left
	res := e.TransliterateResult("日本", "Bogus-Transform")
	if res.Text != "日本" || res.Source != translit.SourceTable {
		t.Errorf("unexpected result %+v", res)
	}

	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %+v", diags)
	}
	if !errors.Is(diags[1].Err, translit.ErrNoOutput) {
		t.Errorf("expected ErrNoOutput from transcoder, got %v", diags[1].Err)
	}
}

func TestIntegration_UnavailablePrimary(t *testing.T) {
	primary := &converter.MockConverter{ConverterName: "icu", Unavailable: true}
	var diags []translit.Diagnostic

	e := translit.NewEngine(
		translit.WithConverters(primary, converter.NewASCIITranscoder(), converter.NewStaticTable()),
		translit.WithDiagnostics(func(d translit.Diagnostic) { diags = append(diags, d) }),
	)

	if got := e.Transliterate("Ångström", ""); got != "Angstrom" {
		t.Errorf("got %q", got)
	}
	if primary.CallCount() != 0 {
		t.Error("unavailable converter should not be called")
	}
	if len(diags) != 0 {
		t.Errorf("unavailable converter should not be reported, got %+v", diags)
	}
}

func TestIntegration_ProcessHTML(t *testing.T) {
	e := newDefaultEngine()

	html := `<div>
		<h1>Crème brûlée</h1>
		<p data-no-transliterate>Crème brûlée</p>
		<script>var s = "Crème";</script>
		<p>  Ærøskøbing  </p>
	</div>`

	result, err := e.ProcessHTML(html, "")
	if err != nil {
		t.Fatalf("ProcessHTML failed: %v", err)
	}

	if !strings.Contains(result.Content, "<h1>Creme brulee</h1>") {
		t.Errorf("heading should be converted, got: %s", result.Content)
	}
	if !strings.Contains(result.Content, "<p data-no-transliterate=\"\">Crème brûlée</p>") {
		t.Errorf("skipped element should be untouched, got: %s", result.Content)
	}
	if !strings.Contains(result.Content, `var s = "Crème";`) {
		t.Errorf("script should be untouched, got: %s", result.Content)
	}
	if !strings.Contains(result.Content, "<p>  AEroskobing  </p>") {
		t.Errorf("whitespace should be preserved, got: %s", result.Content)
	}

	if result.TotalNodes != 2 || result.ConvertedCount != 2 || result.CachedCount != 0 {
		t.Errorf("unexpected counts %+v", result)
	}

	again, err := e.ProcessHTML(html, "")
	if err != nil {
		t.Fatalf("second ProcessHTML failed: %v", err)
	}
	if again.CachedCount != 2 || again.ConvertedCount != 0 {
		t.Errorf("second run should be served from cache, got %+v", again)
	}
}

func TestIntegration_UnknownContentType(t *testing.T) {
	e := newDefaultEngine()

	_, err := e.Process("{}", "json", "")
	var procErr *translit.ProcessorError
	if !errors.As(err, &procErr) || procErr.ContentType != "json" {
		t.Errorf("expected ProcessorError for json, got %v", err)
	}
}

func TestIntegration_Batch(t *testing.T) {
	e := newDefaultEngine(translit.WithBatchThreshold(2))

	in := []string{"Zoë", "Chloë", "Zoë", "São Paulo", "Kraków"}
	want := []string{"Zoe", "Chloe", "Zoe", "Sao Paulo", "Krakow"}

	got := e.TransliterateBatch(in, "")
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("batch[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIntegration_Concurrent(t *testing.T) {
	e := newDefaultEngine()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := e.Transliterate("Þórshöfn", ""); got != "THorshofn" {
				t.Errorf("got %q", got)
			}
		}()
	}
	wg.Wait()
}

func TestIntegration_RedisCache(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	rc := cache.NewRedisCacheFromClient(db, 0, "test:")
	e := newDefaultEngine(translit.WithCache(rc))

	key := "test:" + translit.CacheKey(translit.HashText("café"), translit.DefaultRules)
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, "cafe", 0).SetVal("OK")
	mock.ExpectGet(key).SetVal("cafe")

	if got := e.Transliterate("café", ""); got != "cafe" {
		t.Errorf("first call got %q", got)
	}
	res := e.TransliterateResult("café", "")
	if !res.Cached || res.Text != "cafe" {
		t.Errorf("second call should hit redis, got %+v", res)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestIntegration_ResetClearsRedisPrefix(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	rc := cache.NewRedisCacheFromClient(db, 0, "test:")
	e := newDefaultEngine(translit.WithCache(rc))

	key := "test:" + translit.CacheKey(translit.HashText("café"), translit.DefaultRules)
	mock.ExpectScan(0, "test:*", 100).SetVal([]string{key}, 0)
	mock.ExpectDel(key).SetVal(1)

	e.Reset()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestIntegration_ResetClearsCache(t *testing.T) {
	c := cache.NewInMemoryCache(0)
	e := newDefaultEngine(translit.WithCache(c))

	e.Transliterate("façade", "")
	e.Reset()

	if c.Len() != 0 {
		t.Errorf("expected empty cache after Reset, got %d", c.Len())
	}
}
