package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"beercomi.dev/BeerComi/pkg/auth"
	"beercomi.dev/BeerComi/pkg/model"
	"beercomi.dev/BeerComi/pkg/storage"
)

type breweryRequest struct {
	Name           string `json:"name" binding:"required,max=120"`
	Location       string `json:"location" binding:"max=200"`
	DateOfFounding string `json:"date_of_founding" binding:"max=40"`
}

func (s *Server) ListBreweries(c *gin.Context) {
	breweries, err := s.repository.GetBreweries(c.Request.Context())
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": breweries})
}

func (s *Server) GetBrewery(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid brewery id")

		return
	}

	brewery, err := s.repository.GetBreweryByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": brewery})
}

func (s *Server) AddBrewery(c *gin.Context) {
	var request breweryRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		s.badRequest(c, bindingMessage(err))

		return
	}

	principal, _ := auth.PrincipalFrom(c)

	brewery := model.Brewery{
		Name:           request.Name,
		Location:       request.Location,
		DateOfFounding: request.DateOfFounding,
		AuthorID:       principal.UserID,
	}

	created, err := s.repository.AddBrewery(c.Request.Context(), brewery)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (s *Server) UpdateBrewery(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid brewery id")

		return
	}

	var request breweryRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		s.badRequest(c, bindingMessage(err))

		return
	}

	brewery, err := s.repository.GetBreweryByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)

		return
	}

	brewery.Name = request.Name
	brewery.Location = request.Location
	brewery.DateOfFounding = request.DateOfFounding

	if err = s.repository.UpdateBrewery(c.Request.Context(), brewery); err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": brewery})
}

func (s *Server) DeleteBrewery(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid brewery id")

		return
	}

	coverPath, err := s.repository.DeleteBrewery(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)

		return
	}

	if coverPath != nil {
		s.uploads.RemoveAll([]string{*coverPath})
	}

	c.JSON(http.StatusOK, gin.H{"data": "deleted"})
}

func (s *Server) UploadBreweryCover(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid brewery id")

		return
	}

	if _, err := s.repository.GetBreweryByID(c.Request.Context(), id); err != nil {
		s.respondError(c, err)

		return
	}

	finalRel := storage.FlatImagePath(time.Now())

	staged, ok := s.stageUpload(c, "image", finalRel)
	if !ok {
		return
	}

	previous, err := s.repository.SetBreweryCover(c.Request.Context(), id, &finalRel)
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

type verifiedRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

func (s *Server) SetBreweryVerified(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid brewery id")

		return
	}

	var request verifiedRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		s.badRequest(c, bindingMessage(err))

		return
	}

	if err := s.repository.SetBreweryVerified(c.Request.Context(), id, *request.Verified); err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": "updated"})
}
