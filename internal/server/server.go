package server

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CronusSR/Autosort-tovar/internal/config"
	"github.com/CronusSR/Autosort-tovar/internal/exporter"
	"github.com/CronusSR/Autosort-tovar/internal/store"
)

// Server HTTP сервер приложения
type Server struct {
	router   *gin.Engine
	cfg      *config.AppConfig
	logger   *zap.Logger
	sessions *store.MemoryStore
	runs     *store.Store
	handlers *Handlers
}

// NewServer создает сервер и открывает хранилище истории
func NewServer(cfg *config.AppConfig, logger *zap.Logger) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	runs, err := store.New(filepath.Join(dataDir, "autosort.db"))
	if err != nil {
		return nil, err
	}

	sessions := store.NewMemoryStore()
	s := &Server{
		router:   gin.New(),
		cfg:      cfg,
		logger:   logger,
		sessions: sessions,
		runs:     runs,
		handlers: NewHandlers(cfg, logger, sessions, runs, exporter.NewExporter()),
	}
	s.router.Use(gin.Recovery())
	s.setupRoutes()
	return s, nil
}

// setupRoutes маршруты API
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api/v1")
	{
		api.GET("/health", s.handlers.Health)

		api.GET("/config", s.handlers.GetConfig)
		api.PUT("/config", s.handlers.UpdateConfig)

		api.POST("/sessions", s.handlers.CreateSession)
		api.GET("/sessions/:id", s.handlers.GetSession)
		api.DELETE("/sessions/:id", s.handlers.DeleteSession)
		api.POST("/sessions/:id/upload", s.handlers.UploadWorkbook)
		api.POST("/sessions/:id/analyze", s.handlers.Analyze)
		api.POST("/sessions/:id/orders", s.handlers.GenerateOrders)
		api.POST("/sessions/:id/orders/adjust", s.handlers.AdjustOrderLine)
		api.GET("/sessions/:id/export", s.handlers.ExportWorkbook)

		api.GET("/runs", s.handlers.ListRuns)
	}
}

// Run запускает сервер на указанном адресе
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Router доступ к роутеру (для тестов)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Close закрывает хранилище истории
func (s *Server) Close() error {
	return s.runs.Close()
}
