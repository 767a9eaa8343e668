package db

import (
	"net/url"
	"strings"
)

// NormalizeDSN cleans a postgres DSN given either as a URL or as a lib/pq
// key=value list. Both forms get sslmode=disable unless they name a mode.
func NormalizeDSN(raw string) string {
	s := unquote(raw)
	if s == "" {
		return s
	}
	if u, err := url.Parse(s); err == nil && (u.Scheme == "postgres" || u.Scheme == "postgresql") {
		q := u.Query()
		if q.Get("sslmode") == "" {
			q.Set("sslmode", "disable")
			u.RawQuery = q.Encode()
		}
		return u.String()
	}

	fields := strings.Fields(s)
	hasSSLMode := false
	for _, f := range fields {
		key, _, ok := strings.Cut(f, "=")
		if !ok {
			// not a key=value list; the driver reports it
			return s
		}
		if strings.EqualFold(key, "sslmode") {
			hasSSLMode = true
		}
	}
	if !hasSSLMode {
		fields = append(fields, "sslmode=disable")
	}
	return strings.Join(fields, " ")
}

// SQLiteDSN turns a file path or file: URI into a DSN with foreign key
// enforcement switched on. SQLite leaves it off per connection by default.
func SQLiteDSN(raw string) string {
	s := unquote(raw)
	lower := strings.ToLower(s)
	if strings.Contains(lower, "_foreign_keys=") || strings.Contains(lower, "_fk=") {
		return s
	}
	if strings.Contains(s, "?") {
		return s + "&_foreign_keys=1"
	}
	return s + "?_foreign_keys=1"
}

// unquote strips whitespace and the quotes .env files often leave around values.
func unquote(raw string) string {
	return strings.Trim(strings.TrimSpace(raw), "\"'")
}
