// Package gemini implements generation.Generator on top of Google's Gemini API.
//
// The package is an infrastructure adapter: it renders a prompt for the
// requested document type from an embedded template, calls the Gemini model
// through the google.golang.org/genai client, and returns the plain-text draft.
// Transient API failures are retried with exponential backoff and jitter;
// safety blocks and malformed responses are returned immediately.
package gemini
