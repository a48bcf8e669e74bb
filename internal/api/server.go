package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alligatorO15/jalali-finance/internal/api/handlers"
	"github.com/alligatorO15/jalali-finance/internal/api/middleware"
	"github.com/alligatorO15/jalali-finance/internal/config"
	"github.com/alligatorO15/jalali-finance/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Server struct {
	router   *gin.Engine
	http     *http.Server
	config   *config.Config
	services *service.Services
	log      zerolog.Logger
}

func NewServer(cfg *config.Config, services *service.Services, log zerolog.Logger) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{
		router:   router,
		config:   cfg,
		services: services,
		log:      log,
	}

	server.setupRoutes()
	server.http = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run слушает cfg.Port и блокируется до Shutdown; штатная остановка не считается ошибкой.
// Shutdown, вызванный раньше Run, тоже останавливает сервер: Run сразу вернет nil
func (s *Server) Run() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	//middleware
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.RequestLogger(s.log))

	// health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api/v1")

	// подготавливаем хэндлеры
	authHandler := handlers.NewAuthHandler(s.services.Auth)
	userHandler := handlers.NewUserHandler(s.services.User)
	categoryHandler := handlers.NewCategoryHandler(s.services.Category)
	transactionHandler := handlers.NewTransactionHandler(s.services.Transaction)
	analyticsHandler := handlers.NewAnalyticsHandler(s.services.Analytics)
	exportHandler := handlers.NewExportHandler(s.services.Export)

	// эндпоинты аутентификации (публичные)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/guest", authHandler.Guest)
	}

	// непубличные эндпоинты
	protected := api.Group("")
	protected.Use(middleware.Auth(s.services.Auth))
	{
		// user
		protected.GET("/user", userHandler.GetCurrent)

		// categories
		protected.GET("/categories", categoryHandler.List)
		protected.GET("/categories/:key", categoryHandler.GetByKey)

		// transactions
		transactions := protected.Group("/transactions")
		{
			transactions.POST("", transactionHandler.Create)
			transactions.GET("", transactionHandler.List)
			transactions.GET("/:id", transactionHandler.GetByID)
			transactions.PUT("/:id", transactionHandler.Update)
			transactions.DELETE("/:id", transactionHandler.Delete)
		}

		// analytics
		analytics := protected.Group("/analytics")
		{
			analytics.GET("/dashboard", analyticsHandler.GetDashboard)
			analytics.GET("/monthly", analyticsHandler.GetMonthly)
			analytics.GET("/yearly", analyticsHandler.GetYearly)
			analytics.GET("/categories", analyticsHandler.GetCategories)
			analytics.GET("/heatmap", analyticsHandler.GetHeatmap)
			analytics.GET("/calendar", analyticsHandler.GetCalendar)
		}

		// export
		protected.GET("/export/yearly", exportHandler.GetYearly)
	}
}
