package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"beercomi.dev/BeerComi/pkg/feed"
	"beercomi.dev/BeerComi/pkg/model"
)

// LogActivity appends an audit record. Failures are logged and
// swallowed so an audit problem never fails the request it describes.
func (r *Repository) LogActivity(ctx context.Context, userID *uint, action string, entityType, entityID *string, metadata map[string]interface{}) {
	entry := model.ActivityLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}

	if metadata != nil {
		encoded, err := json.Marshal(metadata)
		if err != nil {
			r.Logger.Warn("activity metadata not encodable", zap.String("action", action), zap.Error(err))
		} else {
			entry.Metadata = datatypes.JSON(encoded)
		}
	}

	if result := r.DB.WithContext(ctx).Create(&entry); result.Error != nil {
		r.Logger.Warn("activity log write failed", zap.String("action", action), zap.Error(result.Error))
	}
}

type ActivityPage struct {
	Total int64
	Rows  []model.ActivityLogRow
}

// ListActivityLog pages the audit trail newest first, joined with the
// actor's display name where the actor still exists.
func (r *Repository) ListActivityLog(ctx context.Context, limit, offset int) (*ActivityPage, error) {
	page := &ActivityPage{Rows: []model.ActivityLogRow{}}

	result := r.DB.WithContext(ctx).Model(&model.ActivityLog{}).Count(&page.Total)
	if result.Error != nil {
		return nil, result.Error
	}

	listSQL := `
		SELECT activity_log.id, activity_log.user_id, users.display_name,
		       activity_log.action, activity_log.entity_type, activity_log.entity_id,
		       activity_log.metadata, activity_log.created_at
		FROM activity_log
		LEFT JOIN users ON activity_log.user_id = users.id
		ORDER BY activity_log.created_at DESC, activity_log.id DESC
		LIMIT ? OFFSET ?`

	if result = r.DB.WithContext(ctx).Raw(listSQL, limit, offset).Scan(&page.Rows); result.Error != nil {
		return nil, result.Error
	}

	return page, nil
}

// tableSource serves feed entries for one entity table straight from
// its id and date_updated columns.
type tableSource struct {
	repo  *Repository
	table string
}

func (s tableSource) SourceName() string {
	return s.table
}

func (s tableSource) FetchSince(ctx context.Context, cursor *feed.Cursor, limit int) ([]feed.Entry, error) {
	query := fmt.Sprintf(`SELECT id, date_updated FROM %s`, s.table)
	args := []interface{}{}

	if cursor != nil {
		query += ` WHERE date_updated < ? OR (date_updated = ? AND id < ?)`
		args = append(args, cursor.UpdatedAt, cursor.UpdatedAt, cursor.ID)
	}

	query += ` ORDER BY date_updated DESC, id DESC LIMIT ?`
	args = append(args, limit)

	var rows []struct {
		ID          uint
		DateUpdated time.Time
	}

	if result := s.repo.DB.WithContext(ctx).Raw(query, args...).Scan(&rows); result.Error != nil {
		return nil, result.Error
	}

	entries := make([]feed.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, feed.Entry{Source: s.table, ID: row.ID, UpdatedAt: row.DateUpdated})
	}

	return entries, nil
}

// FeedSources lists the tables that participate in the recent-activity
// feed. Review photos are excluded: a photo change already bumps its
// review's date_updated.
func (r *Repository) FeedSources() []feed.Source {
	tables := []string{"beers", "breweries", "beer_reviews", "users", "stores"}

	sources := make([]feed.Source, 0, len(tables))
	for _, table := range tables {
		sources = append(sources, tableSource{repo: r, table: table})
	}

	return sources
}
