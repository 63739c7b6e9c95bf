// Package ciutil centralizes detection of the execution environment and the
// environment variables that point tests at a database.
package ciutil
