// Package config loads, validates, and normalizes newscast configuration.
//
// Configuration lives in a TOML file (default ~/.config/newscast/config.toml,
// or ./newscast.toml in the working directory) with environment variable
// overrides for secrets: ANTHROPIC_API_KEY, GOOGLE_TTS_API_KEY, and
// PAGES_BASE_URL. The Config type centralizes every knob the CLI and the
// pipeline need, and is passed explicitly into each component.
package config
