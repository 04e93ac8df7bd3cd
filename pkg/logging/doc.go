// Package logging provides the structured, subsystem-tagged logger used by
// dremio-auth.
//
// It is a thin layer over Go's slog package: every entry carries a subsystem
// attribute so log lines from the callback listener, the token exchange and the
// CLI can be told apart and filtered.
//
// # Log Levels
//   - **Debug**: Detailed information for debugging the OAuth flow
//   - **Info**: Flow milestones (listener started, code received, token issued)
//   - **Warn**: Recoverable problems (browser could not be opened)
//   - **Error**: Failures that end a flow
//
// # Usage
//
//	import "dremioauth/pkg/logging"
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("CallbackServer", "Listening on %s", addr)
//	logging.Error("TokenExchange", err, "Token exchange failed")
//
// # Log Files
//
// NewFileWriter returns a size-rotated writer that can be passed to InitForCLI
// when logs should go to a file instead of stderr.
//
// # Subsystems
//
//   - **OAuthFlow**: Coordinator lifecycle
//   - **CallbackServer**: Local redirect listener
//   - **TokenExchange**: Code-for-token requests
//   - **ConfigLoader**: Configuration loading
//   - **CLI**: Command execution
//
// Access tokens must never be passed to these functions directly; wrap them in
// oauth.RedactedToken first.
//
// # Thread Safety
//
// All functions are safe for concurrent use. Until InitForCLI is called, only
// WARN and ERROR entries are emitted (through slog's default logger).
package logging
