package database

import "strings"

// BuildDatabaseURL appends databaseName to a server URL, keeping any query parameters,
// and disables TLS unless an sslmode is given. An empty name returns baseURL unchanged.
func BuildDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	base, query, hasQuery := strings.Cut(baseURL, "?")
	databaseURL := strings.TrimRight(base, "/") + "/" + databaseName
	if hasQuery {
		databaseURL += "?" + query
	}

	if !strings.Contains(databaseURL, "sslmode=") {
		separator := "&"
		if !strings.Contains(databaseURL, "?") {
			separator = "?"
		}
		databaseURL += separator + "sslmode=disable"
	}
	return databaseURL
}