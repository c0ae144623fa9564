package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"beercomi.dev/BeerComi/pkg/auth"
	"beercomi.dev/BeerComi/pkg/model"
)

type storeRequest struct {
	Name           string `json:"name" binding:"required,max=120"`
	Location       string `json:"location" binding:"max=200"`
	DateOfFounding string `json:"date_of_founding" binding:"max=40"`
	Owner          string `json:"owner" binding:"max=120"`
}

func (s *Server) ListStores(c *gin.Context) {
	stores, err := s.repository.GetStores(c.Request.Context())
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stores})
}

func (s *Server) GetStore(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid store id")

		return
	}

	store, err := s.repository.GetStoreByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": store})
}

func (s *Server) AddStore(c *gin.Context) {
	var request storeRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		s.badRequest(c, bindingMessage(err))

		return
	}

	principal, _ := auth.PrincipalFrom(c)

	store := model.Store{
		Name:           request.Name,
		Location:       request.Location,
		DateOfFounding: request.DateOfFounding,
		Owner:          request.Owner,
		AuthorID:       principal.UserID,
	}

	created, err := s.repository.AddStore(c.Request.Context(), store)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (s *Server) UpdateStore(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid store id")

		return
	}

	var request storeRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		s.badRequest(c, bindingMessage(err))

		return
	}

	store, err := s.repository.GetStoreByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)

		return
	}

	store.Name = request.Name
	store.Location = request.Location
	store.DateOfFounding = request.DateOfFounding
	store.Owner = request.Owner

	if err = s.repository.UpdateStore(c.Request.Context(), store); err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": store})
}

func (s *Server) DeleteStore(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid store id")

		return
	}

	if err := s.repository.DeleteStore(c.Request.Context(), id); err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": "deleted"})
}

func (s *Server) SetStoreVerified(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid store id")

		return
	}

	var request verifiedRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		s.badRequest(c, bindingMessage(err))

		return
	}

	if err := s.repository.SetStoreVerified(c.Request.Context(), id, *request.Verified); err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": "updated"})
}

type storeMenuRequest struct {
	BeerID uint    `json:"beer_id" binding:"required"`
	Size   string  `json:"size" binding:"max=40"`
	Price  float64 `json:"price" binding:"min=0"`
}

func (s *Server) GetStoreMenu(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid store id")

		return
	}

	if _, err := s.repository.GetStoreByID(c.Request.Context(), id); err != nil {
		s.respondError(c, err)

		return
	}

	menu, err := s.repository.GetStoreMenu(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": menu})
}

func (s *Server) AddStoreMenu(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid store id")

		return
	}

	var request storeMenuRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		s.badRequest(c, bindingMessage(err))

		return
	}

	if _, err := s.repository.GetStoreByID(c.Request.Context(), id); err != nil {
		s.respondError(c, err)

		return
	}

	if _, err := s.repository.GetBeerByID(c.Request.Context(), request.BeerID); err != nil {
		s.respondError(c, err)

		return
	}

	principal, _ := auth.PrincipalFrom(c)

	entry := model.StoreMenu{
		StoreID:  id,
		BeerID:   request.BeerID,
		AuthorID: principal.UserID,
		Size:     request.Size,
		Price:    request.Price,
	}

	created, err := s.repository.AddStoreMenu(c.Request.Context(), entry)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (s *Server) DeleteStoreMenu(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		s.badRequest(c, "invalid menu id")

		return
	}

	if err := s.repository.DeleteStoreMenu(c.Request.Context(), id); err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": "deleted"})
}
