package ciutil

import (
	"log/slog"
	"net/url"
	"os"
)

// TestDatabaseURL returns the database URL integration tests should use.
// GRADAID_TEST_DB_URL wins over DATABASE_URL. An empty string means no
// database is available.
func TestDatabaseURL(logger *slog.Logger) string {
	for _, name := range []string{EnvTestDBURL, EnvDatabaseURL} {
		val := os.Getenv(name)
		if val == "" {
			continue
		}
		if logger != nil {
			logger.Info("using test database URL from environment",
				slog.String("var", name),
				slog.String("value", MaskDatabaseURL(val)))
		}
		return val
	}

	if logger != nil {
		logger.Info("no test database URL found in environment")
	}
	return ""
}

// MaskDatabaseURL hides the password of a connection URL. Unparseable input
// is masked entirely.
func MaskDatabaseURL(dbURL string) string {
	if dbURL == "" {
		return ""
	}
	u, err := url.Parse(dbURL)
	if err != nil || u.Scheme == "" {
		return "[REDACTED]"
	}
	return u.Redacted()
}
