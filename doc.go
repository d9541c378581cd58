// Package urlcount counts unique normalized URLs, overall and per host.
//
// Two URL strings denote the same resource when their normalized forms are
// equal. Normalization lower-cases the whole string, drops the fragment,
// removes a single trailing slash from the part before the query and sorts
// the query pairs by key:
//
//	urlcount.Normalize("HTTPS://Example.COM/?b=2&a=1") // "https://example.com?a=1&b=2"
//
// The counting functions accept a nil slice as "no list provided":
//
//	urlcount.CountUniqueURLs(nil)                              // 0
//	urlcount.CountUniqueURLs([]string{"https://example.com",
//	    "https://example.com/"})                               // 1
//	urlcount.CountUniqueURLsByTLD([]string{"https://example.com"}) // map[example.com:1]
//
// Only hosts whose last label is "com" are counted by CountUniqueURLsByTLD,
// and subdomains are kept as separate keys. Every entry adds to its host,
// so a URL listed twice counts twice there.
//
// All functions in this package are pure and safe for concurrent use.
package urlcount
