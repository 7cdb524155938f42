package translit

import "sync"

// TransliterateBatch transliterates texts with the same rules and returns
// the results in input order. Duplicate inputs are converted once. Batches
// with at least the configured threshold of distinct inputs are converted
// concurrently.
func (e *Engine) TransliterateBatch(texts []string, rules string) []string {
	results := make([]string, len(texts))
	if len(texts) == 0 {
		return results
	}

	// Deduplicate inputs first
	unique := make([]string, 0, len(texts))
	seen := make(map[string]bool, len(texts))
	for _, text := range texts {
		if !seen[text] {
			seen[text] = true
			unique = append(unique, text)
		}
	}

	var converted map[string]string
	if len(unique) < e.batchThreshold {
		converted = make(map[string]string, len(unique))
		for _, text := range unique {
			converted[text] = e.Transliterate(text, rules)
		}
	} else {
		converted = e.parallelConvert(unique, rules)
	}

	for i, text := range texts {
		results[i] = converted[text]
	}
	return results
}

// parallelConvert converts each distinct text on its own goroutine.
func (e *Engine) parallelConvert(texts []string, rules string) map[string]string {
	type batchResult struct {
		text  string
		value string
	}

	results := make(chan batchResult, len(texts))
	var wg sync.WaitGroup

	for _, text := range texts {
		wg.Add(1)
		go func(t string) {
			defer wg.Done()
			results <- batchResult{text: t, value: e.Transliterate(t, rules)}
		}(text)
	}

	// Close results channel when all goroutines complete
	go func() {
		wg.Wait()
		close(results)
	}()

	converted := make(map[string]string, len(texts))
	for r := range results {
		converted[r.text] = r.value
	}
	return converted
}
