package server

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"beercomi.dev/BeerComi/pkg/auth"
	"beercomi.dev/BeerComi/pkg/model"
	"beercomi.dev/BeerComi/pkg/photos"
	"beercomi.dev/BeerComi/pkg/repository"
	"beercomi.dev/BeerComi/pkg/storage"
)

const (
	minRating       = 1
	maxRating       = 5
	minReviewLength = 10
)

// CreateReview handles the multipart review-with-photos write. The
// photo count is validated before any file is touched; files are staged
// before the transaction and promoted only after it commits, so a
// duplicate review or failed insert leaves no files behind.
func (s *Server) CreateReview(c *gin.Context) {
	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})

		return
	}

	beerID, err := strconv.ParseUint(c.PostForm("beer_id"), 10, 32)
	if err != nil {
		s.badRequest(c, "invalid beer_id")

		return
	}

	rating, err := strconv.Atoi(c.PostForm("rating"))
	if err != nil || rating < minRating || rating > maxRating {
		s.badRequest(c, "rating must be between 1 and 5")

		return
	}

	text := c.PostForm("review")
	if utf8.RuneCountInString(text) < minReviewLength {
		s.badRequest(c, "review must be at least 10 characters")

		return
	}

	beer, err := s.repository.GetBeerByID(c.Request.Context(), uint(beerID))
	if err != nil {
		s.respondError(c, err)

		return
	}

	files := photoFiles(c)

	positions, err := photos.AllocatePositions(nil, len(files))
	if err != nil {
		s.respondError(c, err)

		return
	}

	staged, ok := s.stagePhotoFiles(c, files)
	if !ok {
		return
	}

	review := model.Review{
		AuthorID: principal.UserID,
		BeerID:   uint(beerID),
		Rating:   rating,
		Review:   text,
	}

	created, err := s.repository.CreateReview(c.Request.Context(), review, func(reviewID uint) []model.ReviewPhoto {
		rows := make([]model.ReviewPhoto, 0, len(staged))

		for index, upload := range staged {
			rel := storage.ReviewPhotoPath(beer.Brewery.Name, beer.Name, reviewID, positions[index])
			upload.SetFinalPath(rel)
			rows = append(rows, model.ReviewPhoto{
				ReviewID: reviewID,
				UserID:   principal.UserID,
				PhotoURL: rel,
				Position: positions[index],
			})
		}

		return rows
	})
	if err != nil {
		if discardErr := storage.DiscardAll(staged); discardErr != nil {
			s.logger.Warn("failed to discard staged uploads", zap.Error(discardErr))
		}

		s.respondError(c, err)

		return
	}

	if err = storage.PromoteAll(staged); err != nil {
		s.logger.Error("failed to promote review photos", zap.Uint("review_id", created.ID), zap.Error(err))
	}

	c.JSON(http.StatusCreated, gin.H{"data": created})
}

// UpdateReview edits rating and text, deletes the selected photos and
// attaches new ones. New photos only take slots the surviving photos do
// not hold, checked before any upload is decoded.
func (s *Server) UpdateReview(c *gin.Context) {
	reviewID, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid review id")

		return
	}

	review, ok := s.ownedReview(c, reviewID)
	if !ok {
		return
	}

	rating, err := strconv.Atoi(c.PostForm("rating"))
	if err != nil || rating < minRating || rating > maxRating {
		s.badRequest(c, "rating must be between 1 and 5")

		return
	}

	text := c.PostForm("review")
	if utf8.RuneCountInString(text) < minReviewLength {
		s.badRequest(c, "review must be at least 10 characters")

		return
	}

	deleteIDs, ok := s.deletePhotoIDs(c)
	if !ok {
		return
	}

	surviving := make([]model.ReviewPhoto, 0, len(review.Photos))

	for _, photo := range review.Photos {
		doomed := false

		for _, id := range deleteIDs {
			if photo.ID == id {
				doomed = true

				break
			}
		}

		if !doomed {
			surviving = append(surviving, photo)
		}
	}

	if len(surviving) == len(review.Photos) && len(deleteIDs) > 0 {
		s.respondError(c, repository.ErrPhotoNotFound)

		return
	}

	files := photoFiles(c)

	positions, err := photos.AllocatePositions(model.OccupiedPositions(surviving), len(files))
	if err != nil {
		s.respondError(c, err)

		return
	}

	beer, err := s.repository.GetBeerByID(c.Request.Context(), review.BeerID)
	if err != nil {
		s.respondError(c, err)

		return
	}

	staged, ok := s.stagePhotoFiles(c, files)
	if !ok {
		return
	}

	principal, _ := auth.PrincipalFrom(c)
	newPhotos := make([]model.ReviewPhoto, 0, len(staged))

	for index, upload := range staged {
		rel := storage.ReviewPhotoPath(beer.Brewery.Name, beer.Name, reviewID, positions[index])
		upload.SetFinalPath(rel)
		newPhotos = append(newPhotos, model.ReviewPhoto{
			ReviewID: reviewID,
			UserID:   principal.UserID,
			PhotoURL: rel,
			Position: positions[index],
		})
	}

	review.Rating = rating
	review.Review = text

	deletedPaths, err := s.repository.UpdateReview(c.Request.Context(), review, deleteIDs, newPhotos)
	if err != nil {
		if discardErr := storage.DiscardAll(staged); discardErr != nil {
			s.logger.Warn("failed to discard staged uploads", zap.Error(discardErr))
		}

		s.respondError(c, err)

		return
	}

	if err = storage.PromoteAll(staged); err != nil {
		s.logger.Error("failed to promote review photos", zap.Uint("review_id", reviewID), zap.Error(err))
	}

	s.uploads.RemoveAll(deletedPaths)

	updated, err := s.repository.GetReviewByID(c.Request.Context(), reviewID)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": updated})
}

func (s *Server) GetReview(c *gin.Context) {
	reviewID, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid review id")

		return
	}

	review, err := s.repository.GetReviewByID(c.Request.Context(), reviewID)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": review})
}

func (s *Server) DeleteReview(c *gin.Context) {
	reviewID, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid review id")

		return
	}

	if _, ok = s.ownedReview(c, reviewID); !ok {
		return
	}

	paths, err := s.repository.DeleteReview(c.Request.Context(), reviewID)
	if err != nil {
		s.respondError(c, err)

		return
	}

	s.uploads.RemoveAll(paths)

	c.JSON(http.StatusOK, gin.H{"data": "deleted"})
}

func (s *Server) DeleteReviewPhoto(c *gin.Context) {
	photoID, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid photo id")

		return
	}

	principal, _ := auth.PrincipalFrom(c)

	photo, err := s.repository.GetPhotoByID(c.Request.Context(), photoID)
	if err != nil {
		s.respondError(c, err)

		return
	}

	if photo.UserID != principal.UserID && !principal.IsAdmin() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not the owner of this photo"})

		return
	}

	path, err := s.repository.DeletePhoto(c.Request.Context(), photoID)
	if err != nil {
		s.respondError(c, err)

		return
	}

	s.uploads.RemoveAll([]string{path})

	c.JSON(http.StatusOK, gin.H{"data": "deleted"})
}

// ownedReview loads the review and enforces that only its author or an
// admin may change it.
func (s *Server) ownedReview(c *gin.Context, reviewID uint) (*model.Review, bool) {
	review, err := s.repository.GetReviewByID(c.Request.Context(), reviewID)
	if err != nil {
		s.respondError(c, err)

		return nil, false
	}

	principal, ok := auth.PrincipalFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})

		return nil, false
	}

	if review.AuthorID != principal.UserID && !principal.IsAdmin() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not the author of this review"})

		return nil, false
	}

	return review, true
}

// photoFiles returns the uploaded photo parts, in form order.
func photoFiles(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}

	return form.File["photos"]
}

// stagePhotoFiles stages every upload, discarding the lot on the first
// failure.
func (s *Server) stagePhotoFiles(c *gin.Context, files []*multipart.FileHeader) ([]*storage.Staged, bool) {
	staged := make([]*storage.Staged, 0, len(files))

	for _, header := range files {
		if header.Size > s.conf.Uploads.MaxFileSize {
			s.discardStaged(staged)
			s.badRequest(c, fmt.Sprintf("file %q too large", header.Filename))

			return nil, false
		}

		file, err := header.Open()
		if err != nil {
			s.discardStaged(staged)
			s.respondError(c, err)

			return nil, false
		}

		upload, err := s.uploads.StageImage(file, "")
		_ = file.Close()

		if err != nil {
			s.discardStaged(staged)
			s.badRequest(c, fmt.Sprintf("file %q is not a decodable image", header.Filename))

			return nil, false
		}

		staged = append(staged, upload)
	}

	return staged, true
}

func (s *Server) discardStaged(staged []*storage.Staged) {
	if err := storage.DiscardAll(staged); err != nil {
		s.logger.Warn("failed to discard staged uploads", zap.Error(err))
	}
}

// deletePhotoIDs reads the repeated deleted form field.
func (s *Server) deletePhotoIDs(c *gin.Context) ([]uint, bool) {
	values := c.PostFormArray("deleted")
	ids := make([]uint, 0, len(values))

	for _, value := range values {
		id, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			s.badRequest(c, "invalid deleted photo id")

			return nil, false
		}

		ids = append(ids, uint(id))
	}

	return ids, true
}
