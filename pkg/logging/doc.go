// Package logging provides the structured logging facility used across
// wayfarer. It wraps log/slog with a small package-level API where every
// message names the subsystem that emitted it:
//
//	logging.Info("OAuth", "Created session for user=%s", login)
//	logging.Error("Weather", err, "Forecast request failed")
//
// Call Init once at startup to select the minimum level and output
// writer; until then messages fall back to stderr. Helpers such as
// TruncateSessionID exist so identifiers that double as lookup keys for
// credentials are never written to the log in full.
package logging
