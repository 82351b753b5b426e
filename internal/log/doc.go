// Package log builds the slog loggers used by diwan.
//
// Every logger is wrapped in a SecureHandler which masks credentials
// before they reach the output:
//   - attributes whose key names a secret (auth_token, credentials, cookie)
//   - values that look like bearer tokens or JWTs
//   - authToken query parameters and passwords embedded in database URLs
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//	logger.Info("opening store", "dsn", "libsql://db.turso.io?authToken=abc")
//	// dsn=libsql://db.turso.io?authToken=***REDACTED***
package log
