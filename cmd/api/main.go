package main

import (
	"log"
	"os"

	_ "glerp/api/swagger" // swagger docs
	"glerp/internal/database"
	"glerp/internal/handler"
	"glerp/internal/middleware"
	"glerp/internal/repository"
	"glerp/internal/service"
	"glerp/internal/websocket"
	"glerp/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           GL Approval Workflow API
// @version         1.0
// @description     Amount-routed approval workflow engine for general ledger journal entries.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	zlog, err := logger.FromEnv()
	if err != nil {
		log.Fatalf("Logger initialization failed: %v", err)
	}
	defer zlog.Sync()

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		zlog.Fatal("Database connection failed", zap.Error(err))
	}
	zlog.Info("Connected to PostgreSQL")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(zlog)
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txm := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	journalRepo := repository.NewJournalRepository(db)
	workflowRepo := repository.NewWorkflowRepository(db)
	levelRepo := repository.NewApprovalLevelRepository(db)
	approverRepo := repository.NewApproverRepository(db)
	auditRepo := repository.NewWorkflowAuditRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	glRepo := repository.NewGLAccountRepository(db)
	buRepo := repository.NewBusinessUnitRepository(db)
	docTypeRepo := repository.NewDocumentTypeRepository(db)

	resolver := service.NewApprovalLevelResolver(journalRepo, levelRepo)
	directory := service.NewApproverDirectory(approverRepo)
	dispatcher := service.NewNotificationDispatcher(notifRepo, wsHub, zlog)
	engine := service.NewWorkflowEngine(txm, journalRepo, workflowRepo, approverRepo,
		auditRepo, statsRepo, resolver, directory, dispatcher, zlog)

	userService := service.NewUserService(userRepo)
	journalService := service.NewJournalService(txm, journalRepo, glRepo, docTypeRepo, zlog)
	configService := service.NewApprovalConfigService(levelRepo, approverRepo, userRepo)
	masterDataService := service.NewMasterDataService(glRepo, buRepo, docTypeRepo)
	auditService := service.NewAuditService(auditRepo)
	notificationService := service.NewNotificationService(notifRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	workflowHandler := handler.NewWorkflowHandler(engine)
	journalHandler := handler.NewJournalHandler(journalService)
	configHandler := handler.NewApprovalConfigHandler(configService)
	masterDataHandler := handler.NewMasterDataHandler(masterDataService)
	auditHandler := handler.NewAuditHandler(auditService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	api := router.Group("")
	userHandler.RegisterRoutes(api)
	workflowHandler.RegisterRoutes(api)
	journalHandler.RegisterRoutes(api)
	configHandler.RegisterRoutes(api)
	masterDataHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)
	notificationHandler.RegisterRoutes(api)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	zlog.Info("Server listening", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		zlog.Fatal("Server failed", zap.Error(err))
	}
}
