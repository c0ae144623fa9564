package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"beercomi.dev/BeerComi/pkg/feed"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// RecentFeed serves one keyset page of the cross-entity activity feed.
func (s *Server) RecentFeed(c *gin.Context) {
	limit := defaultPageSize

	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxPageSize {
			s.badRequest(c, "limit must be between 1 and 100")

			return
		}

		limit = parsed
	}

	var cursor *feed.Cursor

	if raw := c.Query("cursor"); raw != "" {
		parsed, err := feed.ParseCursor(raw)
		if err != nil {
			s.respondError(c, err)

			return
		}

		cursor = parsed
	}

	page, err := s.feed.Fetch(c.Request.Context(), cursor, limit)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, page)
}

func (s *Server) Search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		s.badRequest(c, "q is required")

		return
	}

	limit, offset := pagination(c, defaultPageSize, maxPageSize)

	page, err := s.repository.Search(c.Request.Context(), term, limit, offset)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": page.Rows, "total": page.Total})
}

func (s *Server) ListActivityLog(c *gin.Context) {
	limit, offset := pagination(c, 20, maxPageSize)

	page, err := s.repository.ListActivityLog(c.Request.Context(), limit, offset)
	if err != nil {
		s.respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, gin.H{"data": page.Rows, "total": page.Total})
}
