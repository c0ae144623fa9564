package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"beercomi.dev/BeerComi/pkg/model"
)

var ErrBreweryNotFound = errors.New("brewery not found")

func (r *Repository) GetBreweries(ctx context.Context) ([]*model.Brewery, error) {
	var breweries []*model.Brewery

	if result := r.DB.WithContext(ctx).Order("name").Find(&breweries); result.Error != nil {
		return nil, result.Error
	}

	return breweries, nil
}

func (r *Repository) GetBreweryByID(ctx context.Context, id uint) (*model.Brewery, error) {
	var brewery model.Brewery

	result := r.DB.WithContext(ctx).First(&brewery, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBreweryNotFound
		}

		return nil, result.Error
	}

	return &brewery, nil
}

func (r *Repository) AddBrewery(ctx context.Context, brewery model.Brewery) (*model.Brewery, error) {
	if result := r.DB.WithContext(ctx).Create(&brewery); result.Error != nil {
		return nil, result.Error
	}

	return &brewery, nil
}

func (r *Repository) UpdateBrewery(ctx context.Context, brewery *model.Brewery) error {
	result := r.DB.WithContext(ctx).Model(brewery).
		Updates(map[string]interface{}{
			"name":             brewery.Name,
			"location":         brewery.Location,
			"date_of_founding": brewery.DateOfFounding,
		})

	return result.Error
}

// SetBreweryCover stores the cover path and returns the replaced one
// for file cleanup.
func (r *Repository) SetBreweryCover(ctx context.Context, breweryID uint, path *string) (previous *string, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var brewery model.Brewery

		if result := tx.First(&brewery, breweryID); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrBreweryNotFound
			}

			return result.Error
		}

		previous = brewery.CoverImage

		return tx.Model(&brewery).Update("cover_image", path).Error
	})
	if err != nil {
		return nil, err
	}

	return previous, nil
}

func (r *Repository) SetBreweryVerified(ctx context.Context, breweryID uint, verified bool) error {
	result := r.DB.WithContext(ctx).Model(&model.Brewery{}).Where("id = ?", breweryID).
		Update("verified", verified)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrBreweryNotFound
	}

	return nil
}

// DeleteBrewery removes the row and returns the cover path, if any, so
// the caller can delete the owned file.
func (r *Repository) DeleteBrewery(ctx context.Context, breweryID uint) (coverPath *string, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var brewery model.Brewery

		if result := tx.First(&brewery, breweryID); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrBreweryNotFound
			}

			return result.Error
		}

		coverPath = brewery.CoverImage

		return tx.Delete(&brewery).Error
	})
	if err != nil {
		return nil, err
	}

	return coverPath, nil
}
