package candidate

import "github.com/kailas-cloud/dreamdex/internal/db"

// buildIndex creates the FT index over symbol hashes.
// TEXT fields need a backend with text search (Redis 8+); callers check first.
func buildIndex(prefix string) *db.IndexDefinition {
	return db.NewIndex(indexName(prefix)).
		Prefix(keyPrefix(prefix)).
		Text(fieldName).
		Text(fieldSummary).
		TagWithOpts(fieldTags, tagSeparator, true).
		Numeric(fieldPopularity).
		SortableNumeric(fieldUpdatedAt).
		MustBuild()
}

func keyPrefix(prefix string) string { return prefix + "symbol:" }

func indexName(prefix string) string { return prefix + "symbol:idx" }
