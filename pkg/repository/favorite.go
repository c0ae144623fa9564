package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"beercomi.dev/BeerComi/pkg/model"
)

var (
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrInvalidTable     = errors.New("invalid table selection")
	ErrNotOwner         = errors.New("not the owner")
)

const (
	FavoriteTableBeers     = "beers"
	FavoriteTableBreweries = "breweries"
	FavoriteTableAll       = "all"
)

type FavoritePage struct {
	Total int64
	Rows  []model.FavoriteRow
}

// AddBeerFavorite inserts the pair with ON CONFLICT DO NOTHING. created
// is false when the pair already existed; the caller reports that as
// success, not as an error.
func (r *Repository) AddBeerFavorite(ctx context.Context, userID, beerID uint) (favorite *model.BeerFavorite, created bool, err error) {
	row := model.BeerFavorite{UserID: userID, BeerID: beerID}

	result := r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if result.Error != nil {
		return nil, false, result.Error
	}

	if row.ID == 0 || result.RowsAffected == 0 {
		return nil, false, nil
	}

	return &row, true, nil
}

func (r *Repository) AddBreweryFavorite(ctx context.Context, userID, breweryID uint) (favorite *model.BreweryFavorite, created bool, err error) {
	row := model.BreweryFavorite{UserID: userID, BreweryID: breweryID}

	result := r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if result.Error != nil {
		return nil, false, result.Error
	}

	if row.ID == 0 || result.RowsAffected == 0 {
		return nil, false, nil
	}

	return &row, true, nil
}

// ListFavorites pages a user's favorites. table selects beers,
// breweries or the UNION of both; the combined listing carries a
// source_table discriminator. Offset pagination is deliberate here: the
// volumes are small and a moving window is acceptable.
func (r *Repository) ListFavorites(ctx context.Context, table string, userID uint, limit, offset int) (*FavoritePage, error) {
	var (
		listSQL  string
		countSQL string
	)

	switch table {
	case FavoriteTableBeers:
		listSQL = `
			SELECT bf.id, bf.beer_id AS target_id, bf.date_created,
			       beers.name AS name, breweries.name AS brewery_name,
			       'beers' AS source_table
			FROM beers_favorites bf
			LEFT JOIN beers ON bf.beer_id = beers.id
			LEFT JOIN breweries ON beers.brewery_id = breweries.id
			WHERE bf.user_id = ?
			ORDER BY bf.date_created DESC
			LIMIT ? OFFSET ?`
		countSQL = `SELECT COUNT(*) FROM beers_favorites WHERE user_id = ?`
	case FavoriteTableBreweries:
		listSQL = `
			SELECT xf.id, xf.brewery_id AS target_id, xf.date_created,
			       breweries.name AS name, NULL AS brewery_name,
			       'breweries' AS source_table
			FROM breweries_favorites xf
			LEFT JOIN breweries ON xf.brewery_id = breweries.id
			WHERE xf.user_id = ?
			ORDER BY xf.date_created DESC
			LIMIT ? OFFSET ?`
		countSQL = `SELECT COUNT(*) FROM breweries_favorites WHERE user_id = ?`
	case FavoriteTableAll:
		listSQL = `
			SELECT * FROM (
				SELECT bf.id, bf.beer_id AS target_id, bf.date_created,
				       beers.name AS name, breweries.name AS brewery_name,
				       'beers' AS source_table
				FROM beers_favorites bf
				LEFT JOIN beers ON bf.beer_id = beers.id
				LEFT JOIN breweries ON beers.brewery_id = breweries.id
				WHERE bf.user_id = ?
				UNION ALL
				SELECT xf.id, xf.brewery_id AS target_id, xf.date_created,
				       breweries.name AS name, NULL AS brewery_name,
				       'breweries' AS source_table
				FROM breweries_favorites xf
				LEFT JOIN breweries ON xf.brewery_id = breweries.id
				WHERE xf.user_id = ?
			) AS combined
			ORDER BY date_created DESC
			LIMIT ? OFFSET ?`
		countSQL = `
			SELECT (SELECT COUNT(*) FROM beers_favorites WHERE user_id = ?) +
			       (SELECT COUNT(*) FROM breweries_favorites WHERE user_id = ?)`
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidTable, table)
	}

	page := &FavoritePage{Rows: []model.FavoriteRow{}}

	listArgs := []interface{}{userID, limit, offset}
	countArgs := []interface{}{userID}

	if table == FavoriteTableAll {
		listArgs = []interface{}{userID, userID, limit, offset}
		countArgs = []interface{}{userID, userID}
	}

	if result := r.DB.WithContext(ctx).Raw(listSQL, listArgs...).Scan(&page.Rows); result.Error != nil {
		return nil, result.Error
	}

	if result := r.DB.WithContext(ctx).Raw(countSQL, countArgs...).Scan(&page.Total); result.Error != nil {
		return nil, result.Error
	}

	return page, nil
}

// FavoriteExists answers whether the user has favorited the target.
func (r *Repository) FavoriteExists(ctx context.Context, table string, targetID, userID uint) (bool, error) {
	var exists bool

	var sql string

	switch table {
	case FavoriteTableBeers:
		sql = `SELECT EXISTS (SELECT 1 FROM beers_favorites WHERE user_id = ? AND beer_id = ?)`
	case FavoriteTableBreweries:
		sql = `SELECT EXISTS (SELECT 1 FROM breweries_favorites WHERE user_id = ? AND brewery_id = ?)`
	default:
		return false, fmt.Errorf("%w: %s", ErrInvalidTable, table)
	}

	if result := r.DB.WithContext(ctx).Raw(sql, userID, targetID).Scan(&exists); result.Error != nil {
		return false, result.Error
	}

	return exists, nil
}

// RemoveFavorite deletes a favorite row owned by the user. A row owned
// by someone else is reported as forbidden by the caller; a missing row
// is not found.
func (r *Repository) RemoveFavorite(ctx context.Context, table string, favoriteID, userID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch table {
		case FavoriteTableBeers:
			var favorite model.BeerFavorite

			if result := tx.First(&favorite, favoriteID); result.Error != nil {
				if errors.Is(result.Error, gorm.ErrRecordNotFound) {
					return ErrFavoriteNotFound
				}

				return result.Error
			}

			if favorite.UserID != userID {
				return ErrNotOwner
			}

			return tx.Delete(&favorite).Error
		case FavoriteTableBreweries:
			var favorite model.BreweryFavorite

			if result := tx.First(&favorite, favoriteID); result.Error != nil {
				if errors.Is(result.Error, gorm.ErrRecordNotFound) {
					return ErrFavoriteNotFound
				}

				return result.Error
			}

			if favorite.UserID != userID {
				return ErrNotOwner
			}

			return tx.Delete(&favorite).Error
		default:
			return fmt.Errorf("%w: %s", ErrInvalidTable, table)
		}
	})
}
