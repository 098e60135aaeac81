// Package preflight provides readiness checks for the credentials,
// directories, and external binaries a publishing run depends on.
//
// The run command calls RunAll before starting the pipeline so a missing
// ffmpeg or API key fails in seconds instead of after the generative
// stages have already spent their quota. The status command renders the
// same results for inspection.
package preflight
