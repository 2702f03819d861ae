/*
Package observability aggregates validation outcomes across a batch of
documents into a single summary.

It backs the CLI when several files are validated in one run, and is safe
for concurrent use so callers can fan validation out across goroutines.
*/
package observability
