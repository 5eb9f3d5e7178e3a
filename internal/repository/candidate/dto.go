package candidate

import (
	"strconv"
	"strings"
	"time"

	domcand "github.com/kailas-cloud/dreamdex/internal/domain/candidate"
)

// Hash field names.
const (
	fieldID         = "id"
	fieldName       = "name"
	fieldTags       = "tags"
	fieldSummary    = "summary"
	fieldPopularity = "popularity"
	fieldUpdatedAt  = "updated_at"
)

// tagSeparator joins tags in a single hash field; also the TAG index separator.
const tagSeparator = domcand.TagSeparator

// buildHashFields converts a Candidate into a flat map for HSET.
// updated_at is stored as unix milliseconds (0 when unknown) so it can be sorted.
func buildHashFields(c *domcand.Candidate) map[string]string {
	var updated int64
	if t := c.UpdatedAt(); !t.IsZero() {
		updated = t.UnixMilli()
	}
	return map[string]string{
		fieldID:         c.ID(),
		fieldName:       c.Name(),
		fieldTags:       strings.Join(c.Tags(), tagSeparator),
		fieldSummary:    c.Summary(),
		fieldPopularity: strconv.FormatInt(c.Popularity(), 10),
		fieldUpdatedAt:  strconv.FormatInt(updated, 10),
	}
}

// parseHashFields converts a flat hash back into a Candidate.
// Missing or malformed popularity hydrates to 0, updated_at to the zero time.
func parseHashFields(id string, m map[string]string) domcand.Candidate {
	if v := m[fieldID]; v != "" {
		id = v
	}

	var tags []string
	if raw := m[fieldTags]; raw != "" {
		tags = strings.Split(raw, tagSeparator)
	}

	popularity, err := strconv.ParseInt(m[fieldPopularity], 10, 64)
	if err != nil || popularity < 0 {
		popularity = 0
	}

	var updated time.Time
	if ms, err := strconv.ParseInt(m[fieldUpdatedAt], 10, 64); err == nil && ms > 0 {
		updated = time.UnixMilli(ms).UTC()
	}

	return domcand.Reconstruct(id, m[fieldName], tags, m[fieldSummary], popularity, updated)
}
