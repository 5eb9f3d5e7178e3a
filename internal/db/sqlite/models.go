package sqlite

import (
	"time"

	"github.com/kailas-cloud/dreamdex/internal/domain/candidate"
	domlog "github.com/kailas-cloud/dreamdex/internal/domain/searchlog"
)

// SymbolModel is the candidate row.
type SymbolModel struct {
	ID         string   `gorm:"primaryKey;size:256"`
	Name       string   `gorm:"not null"`
	Tags       []string `gorm:"serializer:json"`
	Summary    string
	Popularity int64     `gorm:"not null;default:0"`
	UpdatedAt  time.Time `gorm:"index;autoUpdateTime:false"`
}

// TableName pins the table name.
func (SymbolModel) TableName() string { return "symbols" }

func (m *SymbolModel) toCandidate() candidate.Candidate {
	return candidate.Reconstruct(m.ID, m.Name, m.Tags, m.Summary, m.Popularity, m.UpdatedAt)
}

func fromCandidate(c *candidate.Candidate) *SymbolModel {
	return &SymbolModel{
		ID:         c.ID(),
		Name:       c.Name(),
		Tags:       c.Tags(),
		Summary:    c.Summary(),
		Popularity: c.Popularity(),
		UpdatedAt:  c.UpdatedAt(),
	}
}

// SymbolTagModel is one tag of a symbol. FetchMatching matches tags here
// rather than against the serialized Tags column.
type SymbolTagModel struct {
	SymbolID string `gorm:"primaryKey;size:256"`
	Position int    `gorm:"primaryKey"`
	Tag      string `gorm:"not null"`
}

// TableName pins the table name.
func (SymbolTagModel) TableName() string { return "symbol_tags" }

func tagRows(c *candidate.Candidate) []SymbolTagModel {
	tags := c.Tags()
	rows := make([]SymbolTagModel, len(tags))
	for i, t := range tags {
		rows[i] = SymbolTagModel{SymbolID: c.ID(), Position: i, Tag: t}
	}
	return rows
}

// SearchLogModel is the per (query, day) counter row.
type SearchLogModel struct {
	Query    string `gorm:"primaryKey"`
	Day      string `gorm:"primaryKey;size:10;index"`
	Searches int64  `gorm:"not null;default:0"`
	Clicks   int64  `gorm:"not null;default:0"`
}

// TableName pins the table name.
func (SearchLogModel) TableName() string { return "search_logs" }

func (m *SearchLogModel) toEntry() (domlog.Entry, error) {
	day, err := domlog.ParseDay(m.Day)
	if err != nil {
		return domlog.Entry{}, err
	}
	return domlog.Entry{Query: m.Query, Day: day, Searches: m.Searches, Clicks: m.Clicks}, nil
}
