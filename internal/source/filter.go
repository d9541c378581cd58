package source

import (
	"fmt"
	"net/url"
	"path"

	"github.com/nao1215/urlcount"
)

// Filter drops every entry whose normalized host matches one of patterns
// and returns the kept entries with the number dropped. Patterns use
// path.Match syntax ("*.internal.com"). Entries without a host are kept.
// The input order is preserved.
func Filter(urls []string, patterns []string) ([]string, int, error) {
	for _, p := range patterns {
		if _, err := path.Match(p, ""); err != nil {
			return nil, 0, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
	}
	if len(patterns) == 0 || urls == nil {
		return urls, 0, nil
	}

	kept := make([]string, 0, len(urls))
	ignored := 0
	for _, raw := range urls {
		if matchesHost(raw, patterns) {
			ignored++
			continue
		}
		kept = append(kept, raw)
	}
	return kept, ignored, nil
}

// matchesHost reports whether the host of raw matches any pattern.
func matchesHost(raw string, patterns []string) bool {
	u, err := url.Parse(urlcount.Normalize(raw))
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "" {
		return false
	}
	for _, p := range patterns {
		if ok, _ := path.Match(p, host); ok { //nolint:errcheck // patterns are validated in Filter
			return true
		}
	}
	return false
}
