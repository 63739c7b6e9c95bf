// Package config loads the server, database, auth, LLM and credit ledger
// settings. Values come from built-in defaults, an optional config.yaml and
// GRADAID_-prefixed environment variables, in increasing precedence, and are
// validated before the server starts.
package config
