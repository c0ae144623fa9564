package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"beercomi.dev/BeerComi/configs"
	"beercomi.dev/BeerComi/pkg/auth"
	"beercomi.dev/BeerComi/pkg/feed"
	"beercomi.dev/BeerComi/pkg/repository"
	"beercomi.dev/BeerComi/pkg/server"
	"beercomi.dev/BeerComi/pkg/storage"
)

const timeout = 5 * time.Second

type ServeCmd struct {
	ConfigFile string `default:".BeerComi.toml" help:"Path to config file" short:"c"`
}

func (s *ServeCmd) Run(_ *Context) error {
	logConfig := zap.NewProductionConfig()

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := configs.GetConfig(s.ConfigFile, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))

		return err
	}

	repo, err := repository.Open(conf, logger)
	if err != nil {
		logger.Error("error connecting to database", zap.Error(err))

		return err
	}
	defer repo.Close()

	uploads, err := storage.NewStore(conf.Uploads.Dir, logger)
	if err != nil {
		logger.Error("error preparing upload directory", zap.Error(err))

		return err
	}

	authManager := auth.NewManager(conf, repo, logger)
	aggregator := feed.NewAggregator(logger, repo.FeedSources()...)

	router := server.New(conf, repo, authManager, uploads, aggregator, logger).Router()

	address := fmt.Sprintf(":%d", conf.Server.Port)

	corsHandler := configureCORS(router)
	serverHandler := h2c.NewHandler(corsHandler, &http2.Server{})

	svr := &http.Server{
		Addr:              address,
		ReadHeaderTimeout: timeout,
		Handler:           serverHandler,
	}

	err = svr.ListenAndServe()
	if err != nil {
		logger.Error("failed to start server", zap.Error(err))

		return err
	}

	return nil
}

func configureCORS(handler http.Handler) http.Handler {
	corsOpts := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH"},
		AllowedHeaders: []string{
			"accept",
			"accept-encoding",
			"accept-language",
			"authorization",
			"cache-control",
			"content-encoding",
			"content-length",
			"content-type",
			"date",
			"keep-alive",
			"origin",
			"referer",
			"user-agent",
		},
		MaxAge:             86400, // 24 hours
		OptionsPassthrough: false,
	})

	return corsOpts.Handler(handler)
}
