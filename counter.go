package urlcount

import (
	"net/url"
	"slices"
	"strings"
)

// TopLevelDomain is the only top-level label CountUniqueURLsByTLD groups by.
const TopLevelDomain = "com"

// CountUniqueURLs returns the number of distinct normalized URLs in urls.
// A nil slice means no list was provided and yields 0.
//
// Entries that are not URLs are counted under their own normalized form,
// so nothing in the input is dropped silently.
func CountUniqueURLs(urls []string) int {
	if urls == nil {
		return 0
	}
	return len(uniqueSet(urls))
}

// CountUniqueURLsByTLD returns, for every host whose top-level label is
// "com", the number of entries in urls that normalize to a URL on that host.
// Every entry counts, so repeated URLs add to their host's total.
// A nil slice yields an empty map.
//
// Hosts are grouped exactly: "sub.example.com" and "example.com" are
// separate keys. Entries without a parseable host, and hosts under any other
// top-level label, are not counted.
func CountUniqueURLsByTLD(urls []string) map[string]int {
	counts := make(map[string]int)
	if urls == nil {
		return counts
	}

	for _, raw := range urls {
		host, ok := CountableHost(Normalize(raw))
		if !ok {
			continue
		}
		counts[host]++
	}
	return counts
}

// UniqueURLs returns the distinct normalized forms of urls in sorted order.
// A nil slice yields nil.
func UniqueURLs(urls []string) []string {
	if urls == nil {
		return nil
	}
	set := uniqueSet(urls)
	out := make([]string, 0, len(set))
	for u := range set {
		out = append(out, u)
	}
	slices.Sort(out)
	return out
}

// CountableHost extracts the hostname of an already normalized URL and
// reports whether CountUniqueURLsByTLD would count it.
// The port is not part of the returned host.
func CountableHost(normalized string) (string, bool) {
	u, err := url.Parse(normalized)
	if err != nil {
		return "", false
	}
	host := u.Hostname()
	if host == "" {
		return "", false
	}

	label := host
	if i := strings.LastIndexByte(host, '.'); i >= 0 {
		label = host[i+1:]
	}
	if label != TopLevelDomain {
		return host, false
	}
	return host, true
}

// uniqueSet normalizes every entry and collects the distinct results.
func uniqueSet(urls []string) map[string]struct{} {
	set := make(map[string]struct{}, len(urls))
	for _, raw := range urls {
		set[Normalize(raw)] = struct{}{}
	}
	return set
}
