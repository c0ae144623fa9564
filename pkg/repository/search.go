package repository

import (
	"context"
	"time"
)

// SearchRow is one hit from the combined beer and brewery search.
type SearchRow struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	BreweryName *string   `json:"brewery_name"`
	SourceTable string    `json:"source_table"`
	DateUpdated time.Time `json:"date_updated"`
}

type SearchPage struct {
	Total int64
	Rows  []SearchRow
}

// Search matches the term against beer and brewery names, case
// insensitively, anywhere in the name.
func (r *Repository) Search(ctx context.Context, term string, limit, offset int) (*SearchPage, error) {
	pattern := "%" + term + "%"

	listSQL := `
		SELECT * FROM (
			SELECT beers.id, beers.name, breweries.name AS brewery_name,
			       'beers' AS source_table, beers.date_updated
			FROM beers
			LEFT JOIN breweries ON beers.brewery_id = breweries.id
			WHERE beers.name ILIKE ?
			UNION ALL
			SELECT breweries.id, breweries.name, NULL AS brewery_name,
			       'breweries' AS source_table, breweries.date_updated
			FROM breweries
			WHERE breweries.name ILIKE ?
		) AS combined
		ORDER BY name ASC, source_table ASC
		LIMIT ? OFFSET ?`

	countSQL := `
		SELECT (SELECT COUNT(*) FROM beers WHERE name ILIKE ?) +
		       (SELECT COUNT(*) FROM breweries WHERE name ILIKE ?)`

	page := &SearchPage{Rows: []SearchRow{}}

	if result := r.DB.WithContext(ctx).Raw(listSQL, pattern, pattern, limit, offset).Scan(&page.Rows); result.Error != nil {
		return nil, result.Error
	}

	if result := r.DB.WithContext(ctx).Raw(countSQL, pattern, pattern).Scan(&page.Total); result.Error != nil {
		return nil, result.Error
	}

	return page, nil
}
