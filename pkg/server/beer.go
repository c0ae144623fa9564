package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"beercomi.dev/BeerComi/pkg/auth"
	"beercomi.dev/BeerComi/pkg/model"
	"beercomi.dev/BeerComi/pkg/storage"
)

type beerRequest struct {
	Name        string  `json:"name" binding:"required,max=120"`
	BreweryID   uint    `json:"brewery_id" binding:"required"`
	Description string  `json:"description" binding:"max=2000"`
	Style       string  `json:"style" binding:"max=60"`
	IBU         int     `json:"ibu" binding:"min=0,max=200"`
	ABV         float64 `json:"abv" binding:"min=0,max=100"`
	Color       string  `json:"color" binding:"max=40"`
}

func (s *Server) ListBeers(c *gin.Context) {
	beers, err := s.repository.GetBeers(c.Request.Context())
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": beers})
}

func (s *Server) GetBeer(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid beer id")

		return
	}

	beer, err := s.repository.GetBeerByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": beer})
}

func (s *Server) AddBeer(c *gin.Context) {
	var request beerRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		s.badRequest(c, bindingMessage(err))

		return
	}

	principal, _ := auth.PrincipalFrom(c)

	// The brewery must exist before a beer can reference it.
	if _, err := s.repository.GetBreweryByID(c.Request.Context(), request.BreweryID); err != nil {
		s.respondError(c, err)

		return
	}

	beer := model.Beer{
		Name:        request.Name,
		BreweryID:   request.BreweryID,
		Description: request.Description,
		Style:       request.Style,
		IBU:         request.IBU,
		ABV:         model.ABVFromFloat(request.ABV),
		Color:       request.Color,
		AuthorID:    principal.UserID,
	}

	created, err := s.repository.AddBeer(c.Request.Context(), beer)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (s *Server) UpdateBeer(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid beer id")

		return
	}

	var request beerRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		s.badRequest(c, bindingMessage(err))

		return
	}

	beer, err := s.repository.GetBeerByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)

		return
	}

	beer.Name = request.Name
	beer.BreweryID = request.BreweryID
	beer.Description = request.Description
	beer.Style = request.Style
	beer.IBU = request.IBU
	beer.ABV = model.ABVFromFloat(request.ABV)
	beer.Color = request.Color

	if err = s.repository.UpdateBeer(c.Request.Context(), beer); err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": beer})
}

func (s *Server) DeleteBeer(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid beer id")

		return
	}

	coverPath, err := s.repository.DeleteBeer(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)

		return
	}

	if coverPath != nil {
		s.uploads.RemoveAll([]string{*coverPath})
	}

	c.JSON(http.StatusOK, gin.H{"data": "deleted"})
}

// UploadBeerCover stores the cover under the brewery/beer directory and
// replaces any previous cover file after the row is updated.
func (s *Server) UploadBeerCover(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid beer id")

		return
	}

	beer, err := s.repository.GetBeerByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)

		return
	}

	finalRel := storage.BeerCoverPath(beer.Brewery.Name, beer.Name, time.Now())

	staged, ok := s.stageUpload(c, "image", finalRel)
	if !ok {
		return
	}

	previous, err := s.repository.SetBeerCover(c.Request.Context(), id, &finalRel)
	if err != nil {
		_ = staged.Discard()
		s.respondError(c, err)

		return
	}

	if err = staged.Promote(); err != nil {
		s.respondError(c, err)

		return
	}

	if previous != nil {
		s.uploads.RemoveAll([]string{*previous})
	}

	c.JSON(http.StatusOK, gin.H{"data": finalRel})
}

func (s *Server) ListBeerReviews(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid beer id")

		return
	}

	if _, err := s.repository.GetBeerByID(c.Request.Context(), id); err != nil {
		s.respondError(c, err)

		return
	}

	reviews, err := s.repository.GetReviewsForBeer(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reviews})
}
