// Package model defines the data structures shared by the urlcount tool.
//
// This package contains the following main types:
//   - Result: the counts computed for one URL list
//   - HostCount: one entry of a per-host breakdown
//   - Comparison: the difference between two results of the same source
//
// The counting itself lives in the root urlcount package; the types here
// wrap its output with the bookkeeping the CLI, the report writers and the
// history store need. All types serialize to JSON, which is also the format
// stored in the history database.
package model
