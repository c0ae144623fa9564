package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"beercomi.dev/BeerComi/pkg/model"
	"beercomi.dev/BeerComi/pkg/repository"
)

type ReviewTestSuite struct {
	RepositorySuite
}

func TestReviewTestSuite(t *testing.T) {
	suite.Run(t, new(ReviewTestSuite))
}

func (suite *ReviewTestSuite) TestCreateReview_AttachesPhotosWithGeneratedID() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`^INSERT INTO "beer_reviews" (.+) RETURNING "id"`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), uint(3), uint(7), 4, "Bright and juicy.").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uint(42)))
	suite.mock.ExpectQuery(`^INSERT INTO "review_photos" (.+) RETURNING "id"`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), uint(42), uint(3), "uploads/b/s/42-0.webp", 0,
			sqlmock.AnyArg(), sqlmock.AnyArg(), uint(42), uint(3), "uploads/b/s/42-1.webp", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uint(100)).AddRow(uint(101)))
	suite.mock.ExpectCommit()

	review := model.Review{AuthorID: 3, BeerID: 7, Rating: 4, Review: "Bright and juicy."}

	created, err := suite.repository.CreateReview(context.Background(), review, func(reviewID uint) []model.ReviewPhoto {
		suite.Equal(uint(42), reviewID)

		return []model.ReviewPhoto{
			{ReviewID: reviewID, UserID: 3, PhotoURL: "uploads/b/s/42-0.webp", Position: 0},
			{ReviewID: reviewID, UserID: 3, PhotoURL: "uploads/b/s/42-1.webp", Position: 1},
		}
	})
	suite.Require().NoError(err)
	suite.Equal(uint(42), created.ID)
	suite.Len(created.Photos, 2)
}

func (suite *ReviewTestSuite) TestCreateReview_NoPhotos() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`^INSERT INTO "beer_reviews" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uint(9)))
	suite.mock.ExpectCommit()

	review := model.Review{AuthorID: 3, BeerID: 7, Rating: 5}

	created, err := suite.repository.CreateReview(context.Background(), review, nil)
	suite.Require().NoError(err)
	suite.NotNil(created.Photos)
	suite.Empty(created.Photos)
}

func (suite *ReviewTestSuite) TestCreateReview_DuplicatePairReturnsReviewExists() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`^INSERT INTO "beer_reviews" (.+)`).
		WillReturnError(gorm.ErrDuplicatedKey)
	suite.mock.ExpectRollback()

	review := model.Review{AuthorID: 3, BeerID: 7, Rating: 4}

	created, err := suite.repository.CreateReview(context.Background(), review, nil)
	suite.Require().ErrorIs(err, repository.ErrReviewExists)
	suite.Nil(created)
}

func (suite *ReviewTestSuite) TestUpdateReview_DeletesInsertsAndUpdates() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "review_photos" WHERE review_id = $1 AND id IN ($2)`)).
		WithArgs(uint(42), uint(100)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "review_id", "photo_url", "position"}).
			AddRow(uint(100), uint(42), "uploads/b/s/42-0.webp", 0))
	suite.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "review_photos" WHERE review_id = $1 AND id IN ($2)`)).
		WithArgs(uint(42), uint(100)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectExec(`^UPDATE "beer_reviews" SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectQuery(`^INSERT INTO "review_photos" (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uint(102)))
	suite.mock.ExpectCommit()

	review := &model.Review{Base: model.Base{ID: 42}, Rating: 2, Review: "Changed my mind."}
	newPhotos := []model.ReviewPhoto{{ReviewID: 42, UserID: 3, PhotoURL: "uploads/b/s/42-0.webp", Position: 0}}

	deletedPaths, err := suite.repository.UpdateReview(context.Background(), review, []uint{100}, newPhotos)
	suite.Require().NoError(err)
	suite.Equal([]string{"uploads/b/s/42-0.webp"}, deletedPaths)
}

func (suite *ReviewTestSuite) TestUpdateReview_UnknownPhotoIDReturnsPhotoNotFound() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`^SELECT (.+) FROM "review_photos" (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	suite.mock.ExpectRollback()

	review := &model.Review{Base: model.Base{ID: 42}, Rating: 2}

	deletedPaths, err := suite.repository.UpdateReview(context.Background(), review, []uint{999}, nil)
	suite.Require().ErrorIs(err, repository.ErrPhotoNotFound)
	suite.Nil(deletedPaths)
}

func (suite *ReviewTestSuite) TestDeleteReview_ReturnsPhotoPaths() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "review_photos" WHERE review_id = $1`)).
		WithArgs(uint(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "review_id", "photo_url", "position"}).
			AddRow(uint(100), uint(42), "uploads/b/s/42-0.webp", 0).
			AddRow(uint(101), uint(42), "uploads/b/s/42-2.webp", 2))
	suite.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "review_photos" WHERE review_id = $1`)).
		WithArgs(uint(42)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	suite.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "beer_reviews" WHERE "beer_reviews"."id" = $1`)).
		WithArgs(uint(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectCommit()

	paths, err := suite.repository.DeleteReview(context.Background(), 42)
	suite.Require().NoError(err)
	suite.Equal([]string{"uploads/b/s/42-0.webp", "uploads/b/s/42-2.webp"}, paths)
}

func (suite *ReviewTestSuite) TestDeleteReview_MissingReviewReturnsNotFound() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`^SELECT (.+) FROM "review_photos" (.+)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	suite.mock.ExpectExec(`^DELETE FROM "review_photos" (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	suite.mock.ExpectExec(`^DELETE FROM "beer_reviews" (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	suite.mock.ExpectRollback()

	paths, err := suite.repository.DeleteReview(context.Background(), 999)
	suite.Require().ErrorIs(err, repository.ErrReviewNotFound)
	suite.Nil(paths)
}

func (suite *ReviewTestSuite) TestGetReviewByID_PreloadsPhotosInPositionOrder() {
	suite.mock.ExpectQuery(`^SELECT (.+) FROM "beer_reviews" (.+)`).
		WithArgs(uint(42), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "author_id", "beer_id", "rating", "review"}).
			AddRow(uint(42), uint(3), uint(7), 4, "Bright and juicy."))
	suite.mock.ExpectQuery(`^SELECT (.+) FROM "review_photos" (.+) ORDER BY review_photos.position ASC`).
		WithArgs(uint(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "review_id", "photo_url", "position"}).
			AddRow(uint(100), uint(42), "uploads/b/s/42-0.webp", 0).
			AddRow(uint(101), uint(42), "uploads/b/s/42-1.webp", 1))

	review, err := suite.repository.GetReviewByID(context.Background(), 42)
	suite.Require().NoError(err)
	suite.Len(review.Photos, 2)
	suite.Equal(0, review.Photos[0].Position)
	suite.Equal(1, review.Photos[1].Position)
}

func (suite *ReviewTestSuite) TestDeletePhoto_ReturnsStoredPath() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`^SELECT (.+) FROM "review_photos" (.+)`).
		WithArgs(uint(100), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "review_id", "photo_url", "position"}).
			AddRow(uint(100), uint(42), "uploads/b/s/42-0.webp", 0))
	suite.mock.ExpectExec(`^DELETE FROM "review_photos" (.+)`).
		WithArgs(uint(100)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectCommit()

	path, err := suite.repository.DeletePhoto(context.Background(), 100)
	suite.Require().NoError(err)
	suite.Equal("uploads/b/s/42-0.webp", path)
}
