package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"beercomi.dev/BeerComi/pkg/model"
)

var ErrBeerNotFound = errors.New("beer not found")

func (r *Repository) GetBeers(ctx context.Context) ([]*model.Beer, error) {
	var beers []*model.Beer

	if result := r.DB.WithContext(ctx).Order("name").Find(&beers); result.Error != nil {
		return nil, result.Error
	}

	return beers, nil
}

func (r *Repository) GetBeerByID(ctx context.Context, id uint) (*model.Beer, error) {
	var beer model.Beer

	result := r.DB.WithContext(ctx).Joins("Brewery").First(&beer, "beers.id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBeerNotFound
		}

		return nil, result.Error
	}

	return &beer, nil
}

func (r *Repository) AddBeer(ctx context.Context, beer model.Beer) (*model.Beer, error) {
	if result := r.DB.WithContext(ctx).Create(&beer); result.Error != nil {
		return nil, result.Error
	}

	return &beer, nil
}

func (r *Repository) UpdateBeer(ctx context.Context, beer *model.Beer) error {
	result := r.DB.WithContext(ctx).Model(beer).
		Updates(map[string]interface{}{
			"name":        beer.Name,
			"brewery_id":  beer.BreweryID,
			"description": beer.Description,
			"style":       beer.Style,
			"ibu":         beer.IBU,
			"abv":         int64(beer.ABV),
			"color":       beer.Color,
		})

	return result.Error
}

// SetBeerCover stores the cover path and returns the replaced one for
// file cleanup.
func (r *Repository) SetBeerCover(ctx context.Context, beerID uint, path *string) (previous *string, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var beer model.Beer

		if result := tx.First(&beer, beerID); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrBeerNotFound
			}

			return result.Error
		}

		previous = beer.CoverImage

		return tx.Model(&beer).Update("cover_image", path).Error
	})
	if err != nil {
		return nil, err
	}

	return previous, nil
}

// DeleteBeer removes the row and returns the cover path, if any, so the
// caller can delete the owned file.
func (r *Repository) DeleteBeer(ctx context.Context, beerID uint) (coverPath *string, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var beer model.Beer

		if result := tx.First(&beer, beerID); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrBeerNotFound
			}

			return result.Error
		}

		coverPath = beer.CoverImage

		return tx.Delete(&beer).Error
	})
	if err != nil {
		return nil, err
	}

	return coverPath, nil
}
