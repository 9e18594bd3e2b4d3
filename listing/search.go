package listing

import "strings"

// MatchesQuery reports whether the query is a case-insensitive substring
// of any of the fields. An empty query matches everything.
func MatchesQuery(query string, fields ...string) bool {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// FilterByQuery narrows rows to those whose searchable fields contain the
// query. It composes with whatever status filter produced the rows: the
// result is the intersection, never a replacement.
func FilterByQuery[T any](rows []*T, query string, fields func(*T) []string) []*T {
	if strings.TrimSpace(query) == "" {
		return rows
	}
	filtered := make([]*T, 0, len(rows))
	for _, row := range rows {
		if MatchesQuery(query, fields(row)...) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
