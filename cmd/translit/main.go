// Command translit transliterates text, HTML or templates to Latin/ASCII.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/Masterminds/sprig"
	"github.com/natefinch/atomic"

	"github.com/ZaguanLabs/translit"
	"github.com/ZaguanLabs/translit/cache"
	"github.com/ZaguanLabs/translit/filter"
	"github.com/ZaguanLabs/translit/processor"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = translit.Version
	commit    = translit.GitCommit
	buildDate = translit.BuildDate
)

// redisEnv supplies -redis when the flag is unset.
const redisEnv = "TRANSLIT_REDIS_URL"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("translit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Flags
	rules := fs.String("rules", "", "Transform rules (default: config custom_rules or \""+translit.DefaultRules+"\")")
	ascii := fs.Bool("ascii", false, "Apply to_ascii: transliterate, then drop characters outside -allowed")
	allowed := fs.String("allowed", "", "Allowed character class for -ascii (default: config allowed_chars)")
	configPath := fs.String("config", "", "YAML configuration file")
	converters := fs.String("converters", "", "Comma-separated converter chain (rules,transcode,table)")
	htmlMode := fs.Bool("html", false, "Treat input as HTML and transliterate text nodes only")
	templatePath := fs.String("template", "", "Render a text/template file with the input bound to .Text")
	redisURL := fs.String("redis", "", "Redis cache URL (default: "+redisEnv+" env)")
	cacheImport := fs.String("cache-import", "", "Load cache entries from a JSON export before converting")
	cacheExport := fs.String("cache-export", "", "Write cache entries to a JSON file after converting")
	output := fs.String("output", "", "Output file (default: stdout)")
	outputShort := fs.String("o", "", "Output file (short for --output)")
	dryRun := fs.Bool("dry-run", false, "With -html, list the text nodes that would be transliterated")
	jsonOutput := fs.Bool("json", false, "Output result as JSON")
	quiet := fs.Bool("quiet", false, "Suppress progress output")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error (default: config log_level)")
	showVersion := fs.Bool("version", false, "Show version")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", translit.Name, version)
		if commit != "unknown" && commit != "" {
			fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		}
		if buildDate != "unknown" && buildDate != "" {
			fmt.Fprintf(stdout, "  built:   %s\n", buildDate)
		}
		return nil
	}

	// Handle -o alias for --output
	if *outputShort != "" && *output == "" {
		*output = *outputShort
	}

	if *htmlMode && (*ascii || *templatePath != "") {
		return fmt.Errorf("--html cannot be combined with --ascii or --template")
	}
	if *dryRun && !*htmlMode {
		return fmt.Errorf("--dry-run requires --html")
	}

	// Configuration: file, then flags
	cfg := translit.DefaultConfig()
	if *configPath != "" {
		loaded, err := translit.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *rules != "" {
		cfg.CustomRules = *rules
	}
	if *allowed != "" {
		cfg.AllowedChars = *allowed
	}
	if *converters != "" {
		cfg.Converters = splitList(*converters)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	url := *redisURL
	if url == "" {
		url = os.Getenv(redisEnv)
	}
	if url != "" {
		cfg.Cache.Backend = translit.CacheBackendRedis
		cfg.Cache.RedisURL = url
	}

	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Get input
	input, inputName, err := readInput(fs, stdin)
	if err != nil {
		return err
	}

	if *dryRun {
		return runDryRun(input, inputName, stdout, *jsonOutput)
	}

	engine, err := filter.NewEngine(cfg, logger)
	if err != nil {
		return err
	}
	if closer, ok := engine.Cache().(io.Closer); ok {
		defer closer.Close()
	}
	provider := filter.New(engine, cfg, filter.WithLogger(logger))

	if *cacheImport != "" {
		res, err := cache.NewImporter(engine.Cache()).ImportFromFile(*cacheImport)
		if err != nil {
			return fmt.Errorf("importing cache: %w", err)
		}
		logger.Debug("cache imported", slog.Int("entries", res.Imported))
	}

	if !*quiet && *output != "" {
		fmt.Fprintf(stderr, "Transliterating %s...\n", inputName)
	}

	start := time.Now()
	result := &JSONOutput{}
	switch {
	case *htmlMode:
		processed, err := engine.ProcessHTML(input, cfg.Rules())
		if err != nil {
			return fmt.Errorf("processing HTML: %w", err)
		}
		result.Content = processed.Content
		result.TotalNodes = processed.TotalNodes
		result.ConvertedCount = processed.ConvertedCount
		result.CachedCount = processed.CachedCount
	case *templatePath != "":
		content, err := renderTemplate(*templatePath, input, provider)
		if err != nil {
			return err
		}
		result.Content = content
	default:
		result.Content = convertLines(input, cfg.Rules(), *ascii, engine, provider)
	}
	elapsed := time.Since(start)

	stats := engine.Stats()
	result.Rules = cfg.Rules()
	result.Stats = stats
	result.ElapsedMs = elapsed.Milliseconds()

	if err := writeOutput(*output, stdout, result, *jsonOutput); err != nil {
		return err
	}

	if *cacheExport != "" {
		meta := map[string]string{"rules": cfg.Rules(), "source": inputName}
		if err := cache.NewExporter(engine.Cache()).ExportToFile(*cacheExport, meta); err != nil {
			return fmt.Errorf("exporting cache: %w", err)
		}
	}

	// Stats
	if !*quiet && *output != "" {
		fmt.Fprintf(stderr, "Done in %v\n", elapsed.Round(time.Millisecond))
		fmt.Fprintf(stderr, "  Converted:  %d\n", stats.Misses)
		fmt.Fprintf(stderr, "  From cache: %d\n", stats.Hits)
		fmt.Fprintf(stderr, "  Fallbacks:  %d\n", stats.Fallbacks)
	}

	return nil
}

// readInput reads the file argument, or stdin when there is none.
func readInput(fs *flag.FlagSet, stdin io.Reader) (string, string, error) {
	if fs.NArg() == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	inputPath := fs.Arg(0)
	data, err := os.ReadFile(inputPath) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return "", "", fmt.Errorf("reading file: %w", err)
	}
	return string(data), filepath.Base(inputPath), nil
}

// convertLines converts plain text line by line so that -ascii keeps line
// breaks, which the default allow-list would otherwise remove.
func convertLines(input, rules string, ascii bool, engine *translit.Engine, provider *filter.Provider) string {
	trailing := strings.HasSuffix(input, "\n")
	lines := strings.Split(strings.TrimSuffix(input, "\n"), "\n")

	if ascii {
		for i, line := range lines {
			lines[i] = provider.ToASCII(line)
		}
	} else {
		lines = engine.TransliterateBatch(lines, rules)
	}

	out := strings.Join(lines, "\n")
	if trailing {
		out += "\n"
	}
	return out
}

// renderTemplate executes the template at path with sprig and the
// transliteration filters available.
func renderTemplate(path, input string, provider *filter.Provider) (string, error) {
	tmpl, err := texttemplate.New(filepath.Base(path)).
		Funcs(sprig.TxtFuncMap()).
		Funcs(provider.TxtFuncMap()).
		ParseFiles(path)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	data := struct{ Text string }{Text: input}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// runDryRun lists the HTML text nodes without converting them.
func runDryRun(input, inputName string, stdout io.Writer, jsonOut bool) error {
	proc := processor.NewHTMLProcessor()
	_, nodes, err := proc.Extract(input)
	if err != nil {
		return fmt.Errorf("extracting text: %w", err)
	}

	if jsonOut {
		type dryRunOutput struct {
			InputFile string   `json:"input_file"`
			NodeCount int      `json:"node_count"`
			Texts     []string `json:"texts"`
		}

		texts := make([]string, len(nodes))
		for i, n := range nodes {
			texts[i] = n.Text
		}

		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(dryRunOutput{
			InputFile: inputName,
			NodeCount: len(nodes),
			Texts:     texts,
		})
	}

	fmt.Fprintf(stdout, "Dry run: %s\n", inputName)
	fmt.Fprintf(stdout, "Found %d text nodes:\n\n", len(nodes))

	for i, node := range nodes {
		text := truncate(node.Text, 60)
		fmt.Fprintf(stdout, "%3d. %q", i+1, text)
		if tag := node.Metadata["parent_tag"]; tag != "" {
			fmt.Fprintf(stdout, " <%s>", tag)
		}
		fmt.Fprintln(stdout)
	}

	return nil
}

// JSONOutput represents the JSON output format.
type JSONOutput struct {
	Content        string         `json:"content"`
	Rules          string         `json:"rules"`
	TotalNodes     int            `json:"total_nodes,omitempty"`
	ConvertedCount int            `json:"converted_count,omitempty"`
	CachedCount    int            `json:"cached_count,omitempty"`
	Stats          translit.Stats `json:"stats"`
	ElapsedMs      int64          `json:"elapsed_ms"`
}

// writeOutput writes the result to path, replacing it atomically, or to
// stdout when path is empty.
func writeOutput(path string, stdout io.Writer, result *JSONOutput, jsonOut bool) error {
	var buf bytes.Buffer
	if jsonOut {
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
	} else {
		buf.WriteString(result.Content)
	}

	if path == "" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// parseLevel maps a config log level to a slog level.
func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, &translit.ConfigError{Field: "log_level", Message: fmt.Sprintf("unknown level %q", s)}
	}
	return level, nil
}

// splitList splits a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
