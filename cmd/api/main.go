package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"battery-stress/internal/api/handlers"
	"battery-stress/internal/api/middleware"
	"battery-stress/internal/lpsolve"
	"battery-stress/internal/results"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	// Runs are persisted only when a database path is configured.
	var store *results.Store
	if path := os.Getenv("RESULTS_DB"); path != "" {
		var err error
		store, err = results.Open(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("open results store")
		}
		defer store.Close()
		log.Info().Str("path", path).Msg("results store open")
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())

	stressHandler := handlers.NewStressHandler(lpsolve.NewSimplex(), store, log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/stress", stressHandler.RunStress)
		api.GET("/runs/:id", stressHandler.GetRun)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("addr", addr).Msg("starting API server")
	if err := http.ListenAndServe(addr, cors.Default().Handler(router)); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
