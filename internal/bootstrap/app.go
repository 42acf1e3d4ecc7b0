package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"cloud.google.com/go/datastore"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/micollege/elms/internal/auth"
	"github.com/micollege/elms/internal/config"
	"github.com/micollege/elms/internal/database"
	"github.com/micollege/elms/internal/domain"
	"github.com/micollege/elms/internal/excel"
	"github.com/micollege/elms/internal/handler"
	"github.com/micollege/elms/internal/logger"
	"github.com/micollege/elms/internal/metrics"
	"github.com/micollege/elms/internal/middleware"
	"github.com/micollege/elms/internal/repository"
	"github.com/micollege/elms/internal/service"
	"github.com/micollege/elms/internal/service/serviceutils"
)

// App wires the record store, services, and HTTP layer together.
type App struct {
	Echo  *echo.Echo
	Store *datastore.Client

	tokens *auth.TokenIssuer
	users  domain.UserRepository
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	cfg := config.DefaultEnvConfig

	// Initialize logging
	logger.InitLogging(cfg.LOG_FILE_PATH)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	// Initialize record store connection
	store, err := database.NewDatastoreClient(ctx, cfg.GCP_PROJECT_ID)
	if err != nil {
		return fmt.Errorf("failed to initialize record store: %w", err)
	}
	a.Store = store

	// Directory search index is optional
	var search *database.ElasticSearchClient
	if cfg.ELASTICSEARCH_URL != "" {
		search, err = database.NewElasticSearchClient(cfg.ELASTICSEARCH_URL)
		if err != nil {
			return fmt.Errorf("failed to initialize search index: %w", err)
		}
		logger.InfoLog(ctx, "Directory search index enabled at %s", cfg.ELASTICSEARCH_URL)
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWT_SECRET, cfg.JWT_EXPIRE)
	if err != nil {
		return fmt.Errorf("failed to initialize token issuer: %w", err)
	}
	a.tokens = tokens

	// Initialize dependencies
	userRepo := repository.NewUserRepository(store)
	leaveRepo := repository.NewLeaveRepository(store)
	a.users = userRepo

	mets := metrics.NewMetrics(prometheus.DefaultRegisterer)

	authSvc := service.NewAuthService(userRepo, tokens)
	userSvc := service.NewUserService(userRepo, search)
	leaveSvc := service.NewLeaveService(leaveRepo, userRepo)
	dashSvc := service.NewDashboardService(userRepo, leaveRepo)
	importer := excel.NewImporter(userRepo, search, cfg.IMPORT_CONCURRENCY)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	leaveHandler := handler.NewLeaveHandler(leaveSvc)
	dashHandler := handler.NewDashboardHandler(dashSvc)
	excelHandler := handler.NewExcelHandler(importer, mets)

	// Register Middlewares
	a.RegisterMiddlewares(mets)

	// Register Routes
	a.RegisterRoutes(authHandler, userHandler, leaveHandler, dashHandler, excelHandler)

	return nil
}

func (a *App) RegisterMiddlewares(mets *metrics.Metrics) {
	a.Echo.Use(echomw.Recover())
	a.Echo.Use(echomw.CORS())
	a.Echo.Use(mets.Middleware())
}

func (a *App) RegisterRoutes(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	leaveHandler *handler.LeaveHandler,
	dashHandler *handler.DashboardHandler,
	excelHandler *handler.ExcelHandler,
) {
	requireAuth := middleware.RequireAuth(a.tokens, a.users)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)
	adminOrHOD := middleware.RequireRoles(domain.RoleAdmin, domain.RoleHOD)

	a.Echo.GET("/api/health", healthHandler)
	a.Echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := a.Echo.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", authHandler.LoginHandler)
	authGroup.POST("/register", authHandler.RegisterHandler, requireAuth, adminOnly)
	authGroup.GET("/me", authHandler.MeHandler, requireAuth)
	authGroup.PUT("/change-password", authHandler.ChangePasswordHandler, requireAuth)
	authGroup.POST("/logout", authHandler.LogoutHandler, requireAuth)

	users := api.Group("/users", requireAuth)
	users.GET("", userHandler.ListHandler, adminOrHOD)
	users.GET("/search", userHandler.SearchHandler, adminOrHOD)
	users.GET("/:id", userHandler.GetHandler)
	users.PUT("/:id", userHandler.UpdateHandler, adminOnly)
	users.DELETE("/:id", userHandler.DeleteHandler, adminOnly)

	leaves := api.Group("/leaves", requireAuth)
	leaves.POST("", leaveHandler.ApplyHandler)
	leaves.GET("/my", leaveHandler.MyHandler)
	leaves.GET("", leaveHandler.ListHandler, adminOrHOD)
	leaves.PUT("/:id/decision", leaveHandler.DecisionHandler, adminOrHOD)
	leaves.DELETE("/:id", leaveHandler.WithdrawHandler)

	departments := api.Group("/departments", requireAuth)
	departments.GET("", dashHandler.DepartmentsHandler)
	departments.GET("/:name/summary", dashHandler.DepartmentSummaryHandler, adminOrHOD)

	dashboard := api.Group("/dashboard", requireAuth)
	dashboard.GET("/stats", dashHandler.StatsHandler, adminOrHOD)
	dashboard.GET("/my", dashHandler.MyHandler)

	excelGroup := api.Group("/excel", requireAuth, adminOnly)
	excelGroup.GET("/template", excelHandler.TemplateHandler)
	excelGroup.POST("/upload", excelHandler.UploadHandler)
}

func healthHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "ELMS API is running", nil)
}

func (a *App) Run() error {
	defer a.Store.Close()
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}
