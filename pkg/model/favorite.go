package model

import "time"

type BeerFavorite struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex:idx_beer_favorite_user_target" json:"user_id"`
	BeerID      uint      `gorm:"uniqueIndex:idx_beer_favorite_user_target" json:"beer_id"`
	DateCreated time.Time `gorm:"column:date_created;autoCreateTime" json:"date_created"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Beer Beer `gorm:"foreignKey:BeerID" json:"-"`
}

func (BeerFavorite) TableName() string {
	return "beers_favorites"
}

type BreweryFavorite struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex:idx_brewery_favorite_user_target" json:"user_id"`
	BreweryID   uint      `gorm:"uniqueIndex:idx_brewery_favorite_user_target" json:"brewery_id"`
	DateCreated time.Time `gorm:"column:date_created;autoCreateTime" json:"date_created"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Brewery Brewery `gorm:"foreignKey:BreweryID" json:"-"`
}

func (BreweryFavorite) TableName() string {
	return "breweries_favorites"
}

// FavoriteRow is a listing row joined with display names; SourceTable
// discriminates beers from breweries in the combined listing.
type FavoriteRow struct {
	ID          uint      `json:"id"`
	TargetID    uint      `json:"target_id"`
	DateCreated time.Time `json:"date_created"`
	Name        string    `json:"name"`
	BreweryName *string   `json:"brewery_name,omitempty"`
	SourceTable string    `json:"source_table"`
}
