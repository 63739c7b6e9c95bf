// Package domain contains the core business entities of the application tracker:
// users, graduate-school applications, the documents attached to them, the
// per-user AI credit account and the append-only usage and activity records.
// It is independent of any storage or delivery mechanism.
package domain
