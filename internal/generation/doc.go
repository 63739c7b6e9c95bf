// Package generation defines the boundary between the application core and the
// external LLM service that drafts application documents.
//
// A Generator turns a Request (the document type, the target program and, for
// recommendation letters, the recommender) into draft text. Callers debit AI
// credits before invoking a Generator and persist the returned text through the
// document service; the Generator itself performs no persistence and no
// credit accounting. The Gemini-backed implementation lives in
// internal/platform/gemini.
package generation
