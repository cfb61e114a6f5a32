package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/his-platform/inventory-service/internal/application"
	"github.com/his-platform/inventory-service/internal/domain"
	mongoRepo "github.com/his-platform/inventory-service/internal/infrastructure/mongodb"
	"github.com/his-platform/inventory-service/pkg/api"
	"github.com/his-platform/inventory-service/pkg/kafka"
	"github.com/his-platform/inventory-service/pkg/logging"
	"github.com/his-platform/inventory-service/pkg/metrics"
	"github.com/his-platform/inventory-service/pkg/middleware"
	"github.com/his-platform/inventory-service/pkg/mongodb"
	"github.com/his-platform/inventory-service/pkg/tracing"
)

const serviceName = "inventory-service"

func main() {
	// Setup logger
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting inventory-service API")

	config := loadConfig()
	ctx := context.Background()

	// Initialize OpenTelemetry tracing
	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	tracingConfig.Environment = getEnv("ENVIRONMENT", "development")
	tracingConfig.Enabled = getEnv("TRACING_ENABLED", "true") == "true"

	tracerProvider, err := tracing.Initialize(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
	} else if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("Tracing initialized", "endpoint", tracingConfig.OTLPEndpoint)
	}

	// Initialize Prometheus metrics
	m := metrics.New(metrics.DefaultConfig(serviceName))
	logger.Info("Metrics initialized")

	// Initialize MongoDB with driver-level instrumentation
	mongoClient, err := mongodb.NewClient(ctx, config.MongoDB,
		mongodb.NewCommandMonitor(m),
		mongodb.NewPoolMonitor(m),
	)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer mongoClient.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	// Initialize Kafka producer behind a circuit breaker
	producer := kafka.NewBreakerProducer(kafka.NewProducer(config.Kafka), m, logger)
	defer producer.Close()
	logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)

	// Initialize repositories
	db := mongoClient.Database()
	itemRepo := mongoRepo.NewItemRepository(db)
	transactionRepo := mongoRepo.NewTransactionRepository(db)
	categoryRepo := mongoRepo.NewCategoryRepository(db)
	departmentRepo := mongoRepo.NewDepartmentRepository(db)
	userRepo := mongoRepo.NewUserRepository(db)

	// Initialize application services
	tokens := application.NewTokenManager([]byte(config.JWTSecret), serviceName, config.TokenTTL)
	authService := application.NewAuthService(userRepo, tokens, logger)
	inventoryService := application.NewInventoryService(itemRepo, producer, m, logger)
	reportService := application.NewReportService(itemRepo, transactionRepo, logger)
	categoryService := application.NewCategoryService(categoryRepo, logger)
	departmentService := application.NewDepartmentService(departmentRepo, logger)

	// Setup Gin router with middleware
	router := gin.New()

	middlewareConfig := middleware.DefaultConfig(serviceName, logger.Logger)
	middleware.Setup(router, middlewareConfig)
	router.Use(middleware.MetricsMiddleware(m))
	router.Use(middleware.SimpleTracingMiddleware(serviceName))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	// Health check endpoints
	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return mongoClient.HealthCheck(ctx)
	}))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	requireAuth := middleware.RequireAuth(tokenVerifier(tokens))
	requireManager := middleware.RequireRole("admin", "manager")
	requireAdmin := middleware.RequireRole("admin")

	// Auth routes
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", registerHandler(authService, logger))
		auth.POST("/login", loginHandler(authService, logger))
		auth.GET("/me", requireAuth, currentUserHandler(authService, logger))
		auth.GET("/users", requireAuth, requireAdmin, listUsersHandler(authService, logger))
	}

	// Item routes
	items := router.Group("/api/items", requireAuth)
	{
		items.GET("", listItemsHandler(inventoryService, logger))
		items.POST("", requireManager, createItemHandler(inventoryService, logger))
		items.GET("/:itemId", getItemHandler(inventoryService, logger))
		items.PATCH("/:itemId", requireManager, updateItemHandler(inventoryService, logger))
		items.DELETE("/:itemId", requireManager, deleteItemHandler(inventoryService, logger))
		items.GET("/:itemId/transactions", itemTransactionsHandler(reportService, logger))
		items.GET("/status/low", itemsWithStatusHandler(reportService, logger, domain.StatusLow))
		items.GET("/status/out", itemsWithStatusHandler(reportService, logger, domain.StatusOutOfStock))
		items.GET("/department/:departmentId", itemsInDepartmentHandler(reportService, logger))
	}

	// Category routes
	categories := router.Group("/api/categories", requireAuth)
	{
		categories.GET("", listCategoriesHandler(categoryService, logger))
		categories.POST("", requireManager, createCategoryHandler(categoryService, logger))
		categories.GET("/:categoryId", getCategoryHandler(categoryService, logger))
		categories.PATCH("/:categoryId", requireManager, updateCategoryHandler(categoryService, logger))
		categories.DELETE("/:categoryId", requireManager, deleteCategoryHandler(categoryService, logger))
	}

	// Department routes
	departments := router.Group("/api/departments", requireAuth)
	{
		departments.GET("", listDepartmentsHandler(departmentService, logger))
		departments.POST("", requireAdmin, createDepartmentHandler(departmentService, logger))
		departments.GET("/:departmentId", getDepartmentHandler(departmentService, logger))
		departments.PATCH("/:departmentId", requireAdmin, updateDepartmentHandler(departmentService, logger))
		departments.DELETE("/:departmentId", requireAdmin, deleteDepartmentHandler(departmentService, logger))
	}

	// Report routes
	reports := router.Group("/api/reports", requireAuth)
	{
		reports.GET("/low-stock", lowStockHandler(reportService, logger))
		reports.GET("/expiring", expiringItemsHandler(reportService, logger))
		reports.GET("/transactions", transactionsInRangeHandler(reportService, logger))
		reports.GET("/value", requireManager, inventoryValueHandler(reportService, logger))
	}

	// Start server
	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Server error")
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server stopped")
}

// Config holds application configuration
type Config struct {
	ServerAddr string
	JWTSecret  string
	TokenTTL   time.Duration
	MongoDB    *mongodb.Config
	Kafka      *kafka.Config
}

func loadConfig() *Config {
	tokenTTL := 24 * time.Hour
	if hours, err := strconv.Atoi(getEnv("TOKEN_TTL_HOURS", "24")); err == nil && hours > 0 {
		tokenTTL = time.Duration(hours) * time.Hour
	}

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		JWTSecret:  getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:   tokenTTL,
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "inventory"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
			ReplicaSet:     getEnv("MONGODB_REPLICA_SET", ""),
		},
		Kafka: &kafka.Config{
			Brokers:      []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			ClientID:     serviceName,
			BatchSize:    100,
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: -1,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func tokenVerifier(tokens *application.TokenManager) middleware.TokenVerifier {
	return func(token string) (*middleware.TokenPrincipal, error) {
		actor, claims, err := tokens.Verify(token)
		if err != nil {
			return nil, err
		}
		return &middleware.TokenPrincipal{
			UserID:   actor.UserID,
			Username: claims.Username,
			Role:     string(actor.Role),
		}, nil
	}
}

func actorFrom(c *gin.Context) application.Actor {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		return application.Actor{}
	}
	return application.Actor{
		UserID: principal.UserID,
		Role:   domain.Role(principal.Role),
	}
}

func respondError(responder *middleware.ErrorResponder, err error) {
	responder.RespondWithError(err)
}

// HTTP Handlers

func registerHandler(service *application.AuthService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			Username     string `json:"username" binding:"required,min=3,max=64"`
			Email        string `json:"email" binding:"required,email"`
			Password     string `json:"password" binding:"required,min=8"`
			FullName     string `json:"fullName"`
			Role         string `json:"role" binding:"omitempty,role"`
			DepartmentID string `json:"departmentId" binding:"omitempty,object_id"`
		}

		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		result, err := service.Register(c.Request.Context(), application.RegisterCommand{
			Username:     req.Username,
			Email:        req.Email,
			Password:     req.Password,
			FullName:     req.FullName,
			Role:         domain.Role(req.Role),
			DepartmentID: req.DepartmentID,
		})
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusCreated, result)
	}
}

func loginHandler(service *application.AuthService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			Username string `json:"username" binding:"required"`
			Password string `json:"password" binding:"required"`
		}

		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		result, err := service.Login(c.Request.Context(), application.LoginCommand{
			Username: req.Username,
			Password: req.Password,
		})
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func currentUserHandler(service *application.AuthService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		user, err := service.CurrentUser(c.Request.Context(), actorFrom(c))
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

func listUsersHandler(service *application.AuthService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		users, err := service.ListUsers(c.Request.Context(), actorFrom(c))
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"users": users, "total": len(users)})
	}
}

type supplierRequest struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email" binding:"omitempty,email"`
	Phone         string `json:"phone"`
}

func (r *supplierRequest) toInput() *application.SupplierInput {
	if r == nil {
		return nil
	}
	return &application.SupplierInput{
		Name:          r.Name,
		ContactPerson: r.ContactPerson,
		Email:         r.Email,
		Phone:         r.Phone,
	}
}

func createItemHandler(service *application.InventoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			SKU          string           `json:"sku" binding:"required,sku"`
			Name         string           `json:"name" binding:"required"`
			Description  string           `json:"description"`
			CategoryID   string           `json:"categoryId" binding:"required,object_id"`
			DepartmentID string           `json:"departmentId" binding:"omitempty,object_id"`
			Unit         string           `json:"unit" binding:"required"`
			Quantity     int              `json:"quantity" binding:"min=0"`
			MinimumLevel *int             `json:"minimumLevel" binding:"omitempty,min=0"`
			ReorderLevel *int             `json:"reorderLevel" binding:"omitempty,min=0"`
			Cost         *float64         `json:"cost" binding:"omitempty,min=0"`
			Location     string           `json:"location"`
			ExpiryDate   *time.Time       `json:"expiryDate"`
			Supplier     *supplierRequest `json:"supplier"`
			Notes        string           `json:"notes"`
		}

		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		item, err := service.CreateItem(c.Request.Context(), application.CreateItemCommand{
			Actor:        actorFrom(c),
			SKU:          req.SKU,
			Name:         req.Name,
			Description:  req.Description,
			CategoryID:   req.CategoryID,
			DepartmentID: req.DepartmentID,
			Unit:         req.Unit,
			Quantity:     req.Quantity,
			MinimumLevel: req.MinimumLevel,
			ReorderLevel: req.ReorderLevel,
			Cost:         req.Cost,
			Location:     req.Location,
			ExpiryDate:   req.ExpiryDate,
			Supplier:     req.Supplier.toInput(),
			Notes:        req.Notes,
		})
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusCreated, item)
	}
}

func listItemsHandler(service *application.InventoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		page := api.ParsePagination(c)
		items, total, err := service.ListItems(c.Request.Context(), application.ListItemsQuery{
			Offset: page.GetOffset(),
			Limit:  page.GetLimit(),
		})
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, api.NewPageResponse(items, page.Page, page.PageSize, total))
	}
}

func getItemHandler(service *application.InventoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		item, err := service.GetItem(c.Request.Context(), application.GetItemQuery{ItemID: c.Param("itemId")})
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

func updateItemHandler(service *application.InventoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			Name         *string          `json:"name"`
			Description  *string          `json:"description"`
			CategoryID   *string          `json:"categoryId" binding:"omitempty,object_id"`
			DepartmentID *string          `json:"departmentId" binding:"omitempty,object_id"`
			Unit         *string          `json:"unit"`
			Quantity     *int             `json:"quantity" binding:"omitempty,min=0"`
			MinimumLevel *int             `json:"minimumLevel" binding:"omitempty,min=0"`
			ReorderLevel *int             `json:"reorderLevel" binding:"omitempty,min=0"`
			Cost         *float64         `json:"cost" binding:"omitempty,min=0"`
			Location     *string          `json:"location"`
			ExpiryDate   *time.Time       `json:"expiryDate"`
			Supplier     *supplierRequest `json:"supplier"`
			Notes        string           `json:"notes"`
		}

		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		actor := actorFrom(c)
		item, err := service.UpdateItem(c.Request.Context(), application.UpdateItemCommand{
			Actor:        actor,
			ItemID:       c.Param("itemId"),
			Name:         req.Name,
			Description:  req.Description,
			CategoryID:   req.CategoryID,
			DepartmentID: req.DepartmentID,
			Unit:         req.Unit,
			Quantity:     req.Quantity,
			MinimumLevel: req.MinimumLevel,
			ReorderLevel: req.ReorderLevel,
			Cost:         req.Cost,
			Location:     req.Location,
			ExpiryDate:   req.ExpiryDate,
			Supplier:     req.Supplier.toInput(),
			ApprovedBy:   actor.UserID,
			Notes:        req.Notes,
		})
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

func deleteItemHandler(service *application.InventoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		err := service.DeleteItem(c.Request.Context(), application.DeleteItemCommand{
			Actor:  actorFrom(c),
			ItemID: c.Param("itemId"),
		})
		if err != nil {
			respondError(responder, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func itemTransactionsHandler(service *application.ReportService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		transactions, err := service.ItemTransactions(c.Request.Context(), application.ItemTransactionsQuery{
			ItemID: c.Param("itemId"),
		})
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"transactions": transactions, "total": len(transactions)})
	}
}

func createCategoryHandler(service *application.CategoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			Name        string `json:"name" binding:"required"`
			Description string `json:"description"`
		}

		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		category, err := service.CreateCategory(c.Request.Context(), application.CreateCategoryCommand{
			Actor:       actorFrom(c),
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusCreated, category)
	}
}

func listCategoriesHandler(service *application.CategoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		categories, err := service.ListCategories(c.Request.Context())
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"categories": categories, "total": len(categories)})
	}
}

func getCategoryHandler(service *application.CategoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		category, err := service.GetCategory(c.Request.Context(), c.Param("categoryId"))
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, category)
	}
}

func updateCategoryHandler(service *application.CategoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			Name        string `json:"name" binding:"required"`
			Description string `json:"description"`
		}

		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		category, err := service.UpdateCategory(c.Request.Context(), application.UpdateCategoryCommand{
			Actor:       actorFrom(c),
			CategoryID:  c.Param("categoryId"),
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, category)
	}
}

func deleteCategoryHandler(service *application.CategoryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		err := service.DeleteCategory(c.Request.Context(), application.DeleteCategoryCommand{
			Actor:      actorFrom(c),
			CategoryID: c.Param("categoryId"),
		})
		if err != nil {
			respondError(responder, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func createDepartmentHandler(service *application.DepartmentService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			Name        string `json:"name" binding:"required"`
			Description string `json:"description"`
			Location    string `json:"location"`
			HeadOfDept  string `json:"headOfDepartment"`
		}

		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		department, err := service.CreateDepartment(c.Request.Context(), application.CreateDepartmentCommand{
			Actor:       actorFrom(c),
			Name:        req.Name,
			Description: req.Description,
			Location:    req.Location,
			HeadOfDept:  req.HeadOfDept,
		})
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusCreated, department)
	}
}

func listDepartmentsHandler(service *application.DepartmentService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		departments, err := service.ListDepartments(c.Request.Context())
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"departments": departments, "total": len(departments)})
	}
}

func getDepartmentHandler(service *application.DepartmentService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		department, err := service.GetDepartment(c.Request.Context(), c.Param("departmentId"))
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, department)
	}
}

func updateDepartmentHandler(service *application.DepartmentService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req struct {
			Name        string `json:"name" binding:"required"`
			Description string `json:"description"`
			Location    string `json:"location"`
			HeadOfDept  string `json:"headOfDepartment"`
		}

		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		department, err := service.UpdateDepartment(c.Request.Context(), application.UpdateDepartmentCommand{
			Actor:        actorFrom(c),
			DepartmentID: c.Param("departmentId"),
			Name:         req.Name,
			Description:  req.Description,
			Location:     req.Location,
			HeadOfDept:   req.HeadOfDept,
		})
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, department)
	}
}

func deleteDepartmentHandler(service *application.DepartmentService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		err := service.DeleteDepartment(c.Request.Context(), application.DeleteDepartmentCommand{
			Actor:        actorFrom(c),
			DepartmentID: c.Param("departmentId"),
		})
		if err != nil {
			respondError(responder, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func lowStockHandler(service *application.ReportService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		items, err := service.LowStockItems(c.Request.Context())
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	}
}

func itemsWithStatusHandler(service *application.ReportService, logger *logging.Logger, status domain.Status) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		items, err := service.ItemsWithStatus(c.Request.Context(), status)
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	}
}

func itemsInDepartmentHandler(service *application.ReportService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		items, err := service.ItemsInDepartment(c.Request.Context(), c.Param("departmentId"))
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	}
}

func expiringItemsHandler(service *application.ReportService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		days := 0
		if daysStr := c.Query("days"); daysStr != "" {
			parsed, err := strconv.Atoi(daysStr)
			if err != nil || parsed < 0 {
				responder.RespondBadRequest("days must be a non-negative integer")
				return
			}
			days = parsed
		}

		items, err := service.ExpiringItems(c.Request.Context(), application.ExpiringItemsQuery{Days: days})
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
	}
}

func transactionsInRangeHandler(service *application.ReportService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		query := application.TransactionsInRangeQuery{}

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse(time.RFC3339, fromStr)
			if err != nil {
				responder.RespondBadRequest("from must be an RFC 3339 timestamp")
				return
			}
			query.From = &from
		}

		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse(time.RFC3339, toStr)
			if err != nil {
				responder.RespondBadRequest("to must be an RFC 3339 timestamp")
				return
			}
			query.To = &to
		}

		transactions, err := service.TransactionsInRange(c.Request.Context(), query)
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"transactions": transactions, "total": len(transactions)})
	}
}

func inventoryValueHandler(service *application.ReportService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		report, err := service.InventoryValue(c.Request.Context())
		if err != nil {
			respondError(responder, err)
			return
		}

		c.JSON(http.StatusOK, report)
	}
}
