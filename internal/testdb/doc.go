// Package testdb connects integration tests to a real Postgres database.
//
// Tests call Open to get a migrated pool and WithTx to run each case inside
// a transaction that is always rolled back. Without a configured database
// URL the test is skipped locally and fails in CI.
package testdb
