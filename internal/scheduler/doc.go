// Package scheduler runs the periodic credit reset sweep.
//
// A ResetScheduler fires on a cron schedule, asks the credit ledger for the
// accounts whose reset date has passed, and resets them with a small pool of
// workers. Each reset is its own ledger transaction, so one failing account
// never blocks the others.
package scheduler
