// Package report renders counting results and comparisons.
//
// Three writers share the Writer interface:
//   - SimpleWriter: plain text for terminal display
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown with a host distribution chart
//
// The data structures live in the model package; this package only
// formats them, so a new output format never touches the counting code.
package report
