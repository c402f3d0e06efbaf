package sqlite

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// parseDSN turns a sqlite:// URL into a path the driver accepts. Relative
// paths are anchored at the working directory and query parameters pass
// through untouched.
func parseDSN(dsn string) (string, error) {
	rest, ok := strings.CutPrefix(dsn, "sqlite://")
	if !ok {
		return "", fmt.Errorf("invalid sqlite DSN scheme, expected sqlite://")
	}

	path, query, hasQuery := strings.Cut(rest, "?")
	if path == ":memory:" {
		return ":memory:", nil
	}

	unescaped, err := url.PathUnescape(path)
	if err != nil {
		return "", fmt.Errorf("unescaping path: %w", err)
	}
	path = unescaped
	if path == "" {
		return "", fmt.Errorf("sqlite DSN has no database path")
	}

	if !filepath.IsAbs(path) && !strings.HasPrefix(path, "./") {
		path = "./" + path
	}
	if hasQuery {
		path += "?" + query
	}
	return path, nil
}
