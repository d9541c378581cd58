// Package source reads URL lists for counting.
//
// Two input formats are supported:
//   - FormatLines: one URL per line; blank lines and lines starting with
//     '#' are skipped
//   - FormatHTML: an HTML document whose link and resource attributes
//     (a/link/area href, script/img/iframe src) are collected
//
// The path "-" stands for standard input. Filter drops entries whose host
// matches one of a set of glob patterns before they reach the counter.
package source
