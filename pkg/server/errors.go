package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"beercomi.dev/BeerComi/pkg/auth"
	"beercomi.dev/BeerComi/pkg/feed"
	"beercomi.dev/BeerComi/pkg/photos"
	"beercomi.dev/BeerComi/pkg/repository"
)

var ErrInvalidInput = errors.New("bad request")

// respondError maps domain errors onto HTTP statuses with a uniform
// {"error": message} envelope. Unknown errors are logged and masked.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, feed.ErrInvalidCursor),
		errors.Is(err, photos.ErrLimitExceeded),
		errors.Is(err, repository.ErrInvalidTable):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrUnauthenticated):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrForbidden),
		errors.Is(err, repository.ErrNotOwner):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrBeerNotFound),
		errors.Is(err, repository.ErrBreweryNotFound),
		errors.Is(err, repository.ErrReviewNotFound),
		errors.Is(err, repository.ErrPhotoNotFound),
		errors.Is(err, repository.ErrFavoriteNotFound),
		errors.Is(err, repository.ErrStoreNotFound),
		errors.Is(err, repository.ErrMenuNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrReviewExists),
		errors.Is(err, repository.ErrUserConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func (s *Server) badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}
