// Package service implements the application and document lifecycle, the AI
// credit ledger and the activity log on top of the repository interfaces in
// internal/store.
//
// Every mutation resolves and authorizes the acting user first, then runs in a
// single transaction (Repositories.InTx). The activity entry describing a change
// and any recomputation of the parent application's status are written in that
// same transaction, so they commit together or not at all.
//
// Services are built with constructor injection. Optional collaborators (clock,
// metrics) are passed as Options. Errors returned to callers wrap one of the
// sentinels in errors.go so the API layer can map them to status codes.
package service
