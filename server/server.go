// Package server HTTP API для анализа поставщиков
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"vendoranalysis/analysis"
	"vendoranalysis/database"
	"vendoranalysis/internal/config"
	"vendoranalysis/server/middleware"
	"vendoranalysis/server/services"
)

// Server HTTP сервер анализа поставщиков
type Server struct {
	config *config.Config
	db     *database.VendorsDB

	analysisService   *services.AnalysisService
	similarityService *services.SimilarityService

	httpServer *http.Server
	handler    http.Handler
}

// NewServer создает новый сервер. db может быть nil - тогда анализ
// принимает записи только в теле запроса.
func NewServer(cfg *config.Config, db *database.VendorsDB) (*Server, error) {
	pipeline, err := analysis.NewPipeline(cfg.Analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	s := &Server{
		config:            cfg,
		db:                db,
		analysisService:   services.NewAnalysisService(pipeline),
		similarityService: services.NewSimilarityService(),
	}
	s.handler = s.buildHTTPHandler()

	return s, nil
}

// buildHTTPHandler собирает gin router со всеми middleware и роутами
func (s *Server) buildHTTPHandler() http.Handler {
	// Режим Gin: release по умолчанию, переопределяется через GIN_MODE
	if ginMode := os.Getenv("GIN_MODE"); ginMode == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.GinRequestIDMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.GinGzipMiddleware())
	router.Use(middleware.GinLoggerMiddleware())
	router.Use(middleware.GinRecoveryMiddleware())

	s.registerHandlers(router)

	return router
}

// registerHandlers регистрирует все роуты API
func (s *Server) registerHandlers(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "vendor-analysis",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")

	analysisAPI := api.Group("/analysis")
	{
		analysisAPI.POST("", s.handleStartAnalysis)
		analysisAPI.GET("/:taskId", s.handleTaskStatus)
		analysisAPI.GET("/:taskId/duplicates", s.handleTaskDuplicates)
		analysisAPI.GET("/:taskId/plan", s.handleTaskPlan)
		analysisAPI.GET("/:taskId/warnings", s.handleTaskWarnings)
	}

	similarityAPI := api.Group("/similarity")
	{
		similarityAPI.POST("/compare", s.handleCompareNames)
	}
}

// ServeHTTP реализует http.Handler для тестов
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Start запускает HTTP сервер и блокируется до его остановки
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // Прогоны на больших справочниках отвечают долго
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Сервер запускается на порту %s", s.config.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server on %s: %w", addr, err)
	}

	return nil
}

// Shutdown останавливает HTTP сервер gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	log.Println("Initiating graceful shutdown...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка остановки сервера: %w", err)
	}

	log.Println("Graceful shutdown completed")
	return nil
}
