package model

import (
	"encoding/hex"
	"sort"
	"strconv"
	"time"

	"github.com/nao1215/urlcount"
	"golang.org/x/crypto/sha3"
)

// Result holds the counts computed for one URL list.
type Result struct {
	// Source is the label of the counted list (file path, "stdin" or a
	// label from the configuration file).
	Source string `json:"source"`

	// Total is the number of entries read from the source, duplicates included.
	Total int `json:"total"`

	// Ignored is the number of entries dropped by ignore patterns before counting.
	Ignored int `json:"ignored"`

	// Unique is the number of distinct normalized URLs.
	Unique int `json:"unique"`

	// ByHost maps every counted .com host to the number of entries that
	// normalize to a URL on it.
	ByHost map[string]int `json:"by_host"`

	// Excluded is the number of distinct normalized URLs that were not
	// counted under any host (no host, or a host outside .com).
	Excluded int `json:"excluded"`

	// Fingerprint is the hex SHA3-256 digest of the sorted distinct
	// normalized URLs. Two results with equal fingerprints counted the
	// same set of resources.
	Fingerprint string `json:"fingerprint"`

	// GeneratedAt is when the result was computed.
	GeneratedAt time.Time `json:"generated_at"`

	// Error contains the reason the source could not be counted.
	Error string `json:"error,omitempty"`
}

// NewResult counts urls and returns the result labeled with source.
func NewResult(source string, urls []string) *Result {
	unique := urlcount.UniqueURLs(urls)
	byHost := urlcount.CountUniqueURLsByTLD(urls)

	excluded := 0
	for _, u := range unique {
		if _, ok := urlcount.CountableHost(u); !ok {
			excluded++
		}
	}

	return &Result{
		Source:      source,
		Total:       len(urls),
		Unique:      urlcount.CountUniqueURLs(urls),
		ByHost:      byHost,
		Excluded:    excluded,
		Fingerprint: Fingerprint(unique),
		GeneratedAt: time.Now(),
	}
}

// NewErrorResult returns an empty result that records why source failed.
func NewErrorResult(source string, err error) *Result {
	r := &Result{
		Source:      source,
		ByHost:      make(map[string]int),
		GeneratedAt: time.Now(),
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// Failed reports whether the source could not be counted.
func (r *Result) Failed() bool {
	return r.Error != ""
}

// HostTotal returns the sum of all per-host counts.
func (r *Result) HostTotal() int {
	total := 0
	for _, n := range r.ByHost {
		total += n
	}
	return total
}

// HostCount is one entry of a per-host breakdown.
type HostCount struct {
	Host  string `json:"host"`
	Count int    `json:"count"`
}

// Hosts returns the per-host counts ordered by count (highest first) and
// then by host name.
func (r *Result) Hosts() []HostCount {
	hosts := make([]HostCount, 0, len(r.ByHost))
	for h, n := range r.ByHost {
		hosts = append(hosts, HostCount{Host: h, Count: n})
	}
	sort.Slice(hosts, func(i, j int) bool {
		if hosts[i].Count != hosts[j].Count {
			return hosts[i].Count > hosts[j].Count
		}
		return hosts[i].Host < hosts[j].Host
	})
	return hosts
}

// Fingerprint returns the hex SHA3-256 digest of a sorted list of
// normalized URLs. An empty list has a fixed, non-empty fingerprint.
//
// Each entry is length-prefixed, so entries containing newlines cannot
// collide with a different split of the same text.
func Fingerprint(sortedUnique []string) string {
	h := sha3.New256()
	for _, u := range sortedUnique {
		h.Write([]byte(strconv.Itoa(len(u))))
		h.Write([]byte{':'})
		h.Write([]byte(u))
	}
	return hex.EncodeToString(h.Sum(nil))
}
