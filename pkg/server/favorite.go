package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"beercomi.dev/BeerComi/pkg/auth"
	"beercomi.dev/BeerComi/pkg/repository"
)

type favoriteRequest struct {
	Table    string `json:"table" binding:"required,oneof=beers breweries"`
	TargetID uint   `json:"target_id" binding:"required"`
}

// AddFavorite marks a beer or brewery as a favorite. Repeating the
// request is not an error: the same single row backs both calls.
func (s *Server) AddFavorite(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)

	var request favoriteRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		s.badRequest(c, bindingMessage(err))

		return
	}

	var (
		payload interface{}
		created bool
		err     error
	)

	switch request.Table {
	case repository.FavoriteTableBeers:
		if _, err = s.repository.GetBeerByID(c.Request.Context(), request.TargetID); err == nil {
			payload, created, err = s.repository.AddBeerFavorite(c.Request.Context(), principal.UserID, request.TargetID)
		}
	case repository.FavoriteTableBreweries:
		if _, err = s.repository.GetBreweryByID(c.Request.Context(), request.TargetID); err == nil {
			payload, created, err = s.repository.AddBreweryFavorite(c.Request.Context(), principal.UserID, request.TargetID)
		}
	}

	if err != nil {
		s.respondError(c, err)

		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{"data": "already a favorite"})

		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": payload})
}

func (s *Server) ListFavorites(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)
	limit, offset := pagination(c, defaultPageSize, maxPageSize)

	page, err := s.repository.ListFavorites(c.Request.Context(), c.Param("table"), principal.UserID, limit, offset)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": page.Rows, "total": page.Total})
}

func (s *Server) FavoriteExists(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)

	targetID, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid target id")

		return
	}

	exists, err := s.repository.FavoriteExists(c.Request.Context(), c.Param("table"), targetID, principal.UserID)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": exists})
}

func (s *Server) RemoveFavorite(c *gin.Context) {
	principal, _ := auth.PrincipalFrom(c)

	favoriteID, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid favorite id")

		return
	}

	if err := s.repository.RemoveFavorite(c.Request.Context(), c.Param("table"), favoriteID, principal.UserID); err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": "deleted"})
}
