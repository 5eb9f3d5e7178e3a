package db

// TextQuery is the input for an FT.SEARCH over text and tag fields.
type TextQuery struct {
	IndexName string
	// Query is a complete FT query string; callers escape user input.
	Query        string
	SortBy       string // empty keeps index order
	SortAsc      bool
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
