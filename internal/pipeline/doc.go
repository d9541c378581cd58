// Package pipeline counts several URL lists concurrently.
//
// A Job names one list (path, format, ignore patterns). BatchProcessor runs
// jobs with a bounded number of goroutines via errgroup and returns one
// model.Result per job in input order. A job that fails to load yields a
// result with its Error field set instead of stopping the batch.
//
// ProcessMerged loads every job and counts the union as a single list,
// which is how duplicates across files are collapsed.
package pipeline
