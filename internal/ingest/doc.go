// Package ingest fetches content from every configured source, applies
// change detection where the source type calls for it, and groups the
// resulting items by provider.
//
// Failures are isolated per source: one broken feed never aborts the run,
// and a failure inside change detection degrades to treating everything
// fetched as new rather than failing the source.
package ingest
