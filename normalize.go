package urlcount

import (
	"net/url"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize returns the canonical form of rawURL.
//
// The whole string is lower-cased, including path and query. The fragment is
// dropped. One trailing slash is removed from the part before the query; a
// trailing run of two or more slashes is left as is. Query pairs are sorted
// by their unescaped key with a stable sort, so pairs sharing a key keep
// their original order. An empty query is dropped along with its "?".
//
// Normalize never fails: text that is not a URL at all is still folded by the
// same rules and returned. Normalize(Normalize(s)) == Normalize(s).
func Normalize(rawURL string) string {
	// A Caser keeps state between calls; one per call keeps Normalize reentrant.
	s := cases.Lower(language.Und).String(rawURL)

	s, _, _ = strings.Cut(s, "#")
	base, query, _ := strings.Cut(s, "?")

	base = trimTrailingSlash(base)
	query = canonicalQuery(query)
	if query == "" {
		return base
	}
	return base + "?" + query
}

// trimTrailingSlash removes one trailing '/' unless it ends a run of slashes.
func trimTrailingSlash(s string) string {
	n := len(s)
	if n == 0 || s[n-1] != '/' {
		return s
	}
	if n >= 2 && s[n-2] == '/' {
		return s
	}
	return s[:n-1]
}

// queryPair is a raw "key=value" pair and its decoded key used for ordering.
type queryPair struct {
	key string
	raw string
}

// canonicalQuery reorders the pairs of a raw query string by key.
// Pair text is kept byte for byte; empty pairs are dropped.
func canonicalQuery(query string) string {
	if query == "" {
		return ""
	}

	parts := strings.Split(query, "&")
	pairs := make([]queryPair, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		key, _, _ := strings.Cut(p, "=")
		if unescaped, err := url.QueryUnescape(key); err == nil {
			key = unescaped
		}
		pairs = append(pairs, queryPair{key: key, raw: p})
	}
	if len(pairs) == 0 {
		return ""
	}

	slices.SortStableFunc(pairs, func(a, b queryPair) int {
		return strings.Compare(a.key, b.key)
	})

	var sb strings.Builder
	sb.Grow(len(query))
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(p.raw)
	}
	return sb.String()
}
