// Package report renders the human-readable delta report: the rows with the
// smallest and largest deltas, the requested percentiles, and the mean and
// sample standard deviation. Output is plain text aligned with
// text/tabwriter and meant for a terminal.
package report
