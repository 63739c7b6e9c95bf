// Package store declares the persistence contracts for users, applications,
// documents, credit accounts, credit usage and activity records, plus the
// sentinel errors implementations must return.
//
// Stores are bound to a DBTX, so the same store type runs against the pool or
// inside a transaction opened by RunInTransaction.
package store
