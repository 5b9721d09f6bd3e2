package migration

import (
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const busyTimeout = "busy_timeout=5000"

// OpenSQLite opens the legacy wallet database at path in read-only mode.
func OpenSQLite(path string) (*sql.DB, error) {
	options := make(url.Values)
	options.Set("mode", "ro")
	options.Add("_pragma", busyTimeout)

	db, err := sql.Open("sqlite", sqliteURI(path, options))
	if err != nil {
		return nil, fmt.Errorf("failed to open legacy database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open legacy database %s: %w", path, err)
	}

	return db, nil
}

// sqliteURI builds a SQLite URI filename for path. The path is
// percent-encoded so "?", "#" and "%" in it are not read as URI syntax.
func sqliteURI(path string, options url.Values) string {
	uri := "file:" + (&url.URL{Path: filepath.ToSlash(path)}).EscapedPath()
	if len(options) > 0 {
		uri += "?" + options.Encode()
	}

	return uri
}
