package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"beercomi.dev/BeerComi/pkg/model"
)

var (
	ErrReviewExists   = errors.New("review already exists for this beer")
	ErrReviewNotFound = errors.New("review not found")
	ErrPhotoNotFound  = errors.New("review photo not found")
)

// ReviewRepository is what the route layer needs from the review side
// of the store.
type ReviewRepository interface {
	CreateReview(ctx context.Context, review model.Review, attach func(reviewID uint) []model.ReviewPhoto) (*model.Review, error)
	UpdateReview(ctx context.Context, review *model.Review, deletePhotoIDs []uint, newPhotos []model.ReviewPhoto) ([]string, error)
	DeleteReview(ctx context.Context, reviewID uint) ([]string, error)
	DeletePhoto(ctx context.Context, photoID uint) (string, error)
	GetReviewByID(ctx context.Context, reviewID uint) (*model.Review, error)
	GetReviewsForBeer(ctx context.Context, beerID uint) ([]*model.Review, error)
	GetPhotoByID(ctx context.Context, photoID uint) (*model.ReviewPhoto, error)
}

// CreateReview inserts the review and its photo rows in one
// transaction. The photo rows need the generated review id for their
// storage paths, so they are produced by the attach callback once the
// id exists. A duplicate (author, beer) pair trips the unique index and
// surfaces as ErrReviewExists; there is no racy pre-check.
func (r *Repository) CreateReview(ctx context.Context, review model.Review, attach func(reviewID uint) []model.ReviewPhoto) (*model.Review, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Create(&review); result.Error != nil {
			return result.Error
		}

		if attach == nil {
			return nil
		}

		photoRows := attach(review.ID)
		if len(photoRows) == 0 {
			return nil
		}

		if result := tx.Create(&photoRows); result.Error != nil {
			return result.Error
		}

		review.Photos = photoRows

		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrReviewExists
		}

		return nil, err
	}

	if review.Photos == nil {
		review.Photos = []model.ReviewPhoto{}
	}

	return &review, nil
}

// UpdateReview applies the whole edit in one transaction: deletes the
// selected photo rows, updates the review fields, inserts the new photo
// rows. It returns the stored paths of the deleted photos so the caller
// can remove the files after commit.
func (r *Repository) UpdateReview(ctx context.Context, review *model.Review, deletePhotoIDs []uint, newPhotos []model.ReviewPhoto) ([]string, error) {
	var deletedPaths []string

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(deletePhotoIDs) > 0 {
			var doomed []model.ReviewPhoto

			result := tx.Where("review_id = ? AND id IN ?", review.ID, deletePhotoIDs).Find(&doomed)
			if result.Error != nil {
				return result.Error
			}

			if len(doomed) != len(deletePhotoIDs) {
				return ErrPhotoNotFound
			}

			for _, photo := range doomed {
				deletedPaths = append(deletedPaths, photo.PhotoURL)
			}

			if result = tx.Where("review_id = ? AND id IN ?", review.ID, deletePhotoIDs).
				Delete(&model.ReviewPhoto{}); result.Error != nil {
				return result.Error
			}
		}

		result := tx.Model(review).
			Updates(map[string]interface{}{"rating": review.Rating, "review": review.Review})
		if result.Error != nil {
			return result.Error
		}

		if len(newPhotos) > 0 {
			if result = tx.Create(&newPhotos); result.Error != nil {
				return result.Error
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return deletedPaths, nil
}

// DeleteReview removes the review and every child photo row, returning
// the photo paths for file cleanup.
func (r *Repository) DeleteReview(ctx context.Context, reviewID uint) ([]string, error) {
	var paths []string

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var photoRows []model.ReviewPhoto

		if result := tx.Where("review_id = ?", reviewID).Find(&photoRows); result.Error != nil {
			return result.Error
		}

		for _, photo := range photoRows {
			paths = append(paths, photo.PhotoURL)
		}

		if result := tx.Where("review_id = ?", reviewID).Delete(&model.ReviewPhoto{}); result.Error != nil {
			return result.Error
		}

		result := tx.Delete(&model.Review{}, reviewID)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrReviewNotFound
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}

// DeletePhoto removes a single photo row and returns its stored path.
// Ownership is checked by the caller against the loaded photo.
func (r *Repository) DeletePhoto(ctx context.Context, photoID uint) (string, error) {
	var path string

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var photo model.ReviewPhoto

		if result := tx.First(&photo, photoID); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrPhotoNotFound
			}

			return result.Error
		}

		path = photo.PhotoURL

		return tx.Delete(&photo).Error
	})
	if err != nil {
		return "", err
	}

	return path, nil
}

func (r *Repository) GetReviewByID(ctx context.Context, reviewID uint) (*model.Review, error) {
	var review model.Review

	result := r.DB.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("review_photos.position ASC") }).
		First(&review, reviewID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}

		return nil, result.Error
	}

	if review.Photos == nil {
		review.Photos = []model.ReviewPhoto{}
	}

	return &review, nil
}

func (r *Repository) GetReviewsForBeer(ctx context.Context, beerID uint) ([]*model.Review, error) {
	var reviews []*model.Review

	result := r.DB.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("review_photos.position ASC") }).
		Where("beer_id = ?", beerID).
		Order("date_updated DESC").
		Find(&reviews)
	if result.Error != nil {
		return nil, result.Error
	}

	return reviews, nil
}

func (r *Repository) GetPhotoByID(ctx context.Context, photoID uint) (*model.ReviewPhoto, error) {
	var photo model.ReviewPhoto

	result := r.DB.WithContext(ctx).First(&photo, photoID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}

		return nil, result.Error
	}

	return &photo, nil
}
