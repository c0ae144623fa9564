// Package server is the JSON route layer: gin handlers over the
// repository, with auth, uploads and the activity feed wired in.
package server

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.openly.dev/pointy"
	"go.uber.org/zap"

	"beercomi.dev/BeerComi/configs"
	"beercomi.dev/BeerComi/pkg/auth"
	"beercomi.dev/BeerComi/pkg/feed"
	"beercomi.dev/BeerComi/pkg/repository"
	"beercomi.dev/BeerComi/pkg/storage"
)

type Server struct {
	conf       *configs.Config
	repository *repository.Repository
	auth       *auth.Manager
	uploads    *storage.Store
	feed       *feed.Aggregator
	logger     *zap.Logger
}

func New(conf *configs.Config, repo *repository.Repository, authManager *auth.Manager,
	uploads *storage.Store, aggregator *feed.Aggregator, logger *zap.Logger,
) *Server {
	return &Server{
		conf:       conf,
		repository: repo,
		auth:       authManager,
		uploads:    uploads,
		feed:       aggregator,
		logger:     logger,
	}
}

// Router builds the route tree. Signup, login, the recent feed and
// search are public; everything else requires a bearer token.
func (s *Server) Router() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.MaxMultipartMemory = s.conf.Uploads.MaxFileSize

	engine.POST("/signup", s.Signup)
	engine.POST("/login", s.Login)
	engine.GET("/recent", s.RecentFeed)
	engine.GET("/search", s.Search)

	authed := engine.Group("/", s.auth.Middleware(), s.recordActivity())

	authed.GET("/users", s.ListUsers)
	authed.GET("/user/:id", s.GetUser)
	authed.PUT("/user/:id", s.UpdateUserProfile)
	authed.PUT("/user/:id/password", s.UpdateUserPassword)
	authed.PUT("/user/:id/role", auth.RequireAdmin(), s.UpdateUserRole)
	authed.DELETE("/user/:id", s.DeleteUser)
	authed.POST("/user/:id/image", s.UploadUserAvatar)

	authed.GET("/beers", s.ListBeers)
	authed.POST("/beers", s.AddBeer)
	authed.GET("/beers/:id", s.GetBeer)
	authed.PUT("/beers/:id", s.UpdateBeer)
	authed.DELETE("/beers/:id", s.DeleteBeer)
	authed.POST("/beers/:id/image", s.UploadBeerCover)
	authed.GET("/beers/:id/reviews", s.ListBeerReviews)

	authed.POST("/beers/review/", s.CreateReview)
	authed.GET("/beers/review/:id", s.GetReview)
	authed.PUT("/beers/review/:id", s.UpdateReview)
	authed.DELETE("/beers/review/:id", s.DeleteReview)
	authed.DELETE("/beers/review/photo/:id", s.DeleteReviewPhoto)

	authed.GET("/breweries", s.ListBreweries)
	authed.POST("/breweries", s.AddBrewery)
	authed.GET("/breweries/:id", s.GetBrewery)
	authed.PUT("/breweries/:id", s.UpdateBrewery)
	authed.DELETE("/breweries/:id", s.DeleteBrewery)
	authed.POST("/breweries/:id/image", s.UploadBreweryCover)
	authed.PUT("/breweries/:id/verified", auth.RequireAdmin(), s.SetBreweryVerified)

	authed.GET("/stores", s.ListStores)
	authed.POST("/stores", s.AddStore)
	authed.GET("/stores/:id", s.GetStore)
	authed.PUT("/stores/:id", s.UpdateStore)
	authed.DELETE("/stores/:id", s.DeleteStore)
	authed.PUT("/stores/:id/verified", auth.RequireAdmin(), s.SetStoreVerified)
	authed.GET("/stores/:id/menu", s.GetStoreMenu)
	authed.POST("/stores/:id/menu", s.AddStoreMenu)
	authed.DELETE("/stores/menu/:id", s.DeleteStoreMenu)

	authed.POST("/favorites", s.AddFavorite)
	authed.GET("/favorites/:table", s.ListFavorites)
	authed.GET("/favorites/:table/:id", s.FavoriteExists)
	authed.DELETE("/favorites/:table/:id", s.RemoveFavorite)

	authed.GET("/activitylog", auth.RequireAdmin(), s.ListActivityLog)

	return engine
}

// recordActivity appends an audit row after every successful mutating
// request. The write happens outside the request's cancellation scope
// so a client disconnect cannot lose the record.
func (s *Server) recordActivity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == "GET" || c.Writer.Status() >= 300 {
			return
		}

		var userID *uint

		if principal, ok := auth.PrincipalFrom(c); ok {
			userID = &principal.UserID
		}

		action := c.Request.Method + " " + c.FullPath()

		var entityID *string

		if id := c.Param("id"); id != "" {
			entityID = pointy.String(id)
		}

		metadata := map[string]interface{}{"status": c.Writer.Status()}

		s.repository.LogActivity(context.WithoutCancel(c.Request.Context()),
			userID, action, entityTypeFromPath(c.FullPath()), entityID, metadata)
	}
}

// entityTypeFromPath names the entity a mutating route touches.
func entityTypeFromPath(path string) *string {
	switch {
	case strings.HasPrefix(path, "/beers/review/photo"):
		return pointy.String("photo")
	case strings.HasPrefix(path, "/beers/review"):
		return pointy.String("review")
	case strings.HasPrefix(path, "/beers"):
		return pointy.String("beer")
	case strings.HasPrefix(path, "/breweries"):
		return pointy.String("brewery")
	case strings.HasPrefix(path, "/user"):
		return pointy.String("user")
	case strings.HasPrefix(path, "/stores/menu"), strings.HasSuffix(path, "/menu"):
		return pointy.String("store_menu")
	case strings.HasPrefix(path, "/stores"):
		return pointy.String("store")
	case strings.HasPrefix(path, "/favorites"):
		return pointy.String("favorite")
	}

	return nil
}

// idParam parses the :id route parameter.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}

	return uint(id), true
}

// pagination reads limit/offset query params with bounds applied.
func pagination(c *gin.Context, defaultLimit, maxLimit int) (limit, offset int) {
	limit = defaultLimit

	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 1 && parsed <= maxLimit {
			limit = parsed
		}
	}

	if raw := c.Query("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	return limit, offset
}
