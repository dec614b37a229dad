package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jlobacci/goout-backend/internal/config"
	"github.com/jlobacci/goout-backend/internal/handler"
	"github.com/jlobacci/goout-backend/internal/middleware"
	"github.com/jlobacci/goout-backend/internal/migration"
	"github.com/jlobacci/goout-backend/internal/poll"
	"github.com/jlobacci/goout-backend/internal/repository"
	"github.com/jlobacci/goout-backend/internal/routes"
	"github.com/jlobacci/goout-backend/internal/service"
	"github.com/jlobacci/goout-backend/internal/ws"
	pkgcache "github.com/jlobacci/goout-backend/pkg/cache"
	"github.com/jlobacci/goout-backend/pkg/jwt"
	pkglogger "github.com/jlobacci/goout-backend/pkg/logger"
	pkgredis "github.com/jlobacci/goout-backend/pkg/redis"
)

// @title           goOut Backend API
// @version         1.0
// @description     Event coordination backend: events, applications, messaging and notifications
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.Init(env)
	pkglogger.Get().Info().
		Str("env", env).
		Strs("env_files", dotenvFiles).
		Msg("Starting goout-backend")

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// MySQL
	db, err := initDB(cfg)
	if err != nil {
		pkglogger.Get().Warn().Err(err).Msg("Failed to connect to database, continuing without DB")
		db = nil
	} else {
		pkglogger.Get().Info().Msg("Connected to MySQL")
		if err := migration.Run(db); err != nil {
			pkglogger.Get().Warn().Err(err).Msg("Migration warning")
		}
	}

	// Redis
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.Get().Warn().Err(err).Msg("Failed to connect to Redis, continuing without Redis")
		redisClient = nil
	} else {
		pkglogger.Get().Info().Msg("Connected to Redis")
	}

	cacheService := pkgcache.NewService(redisClient)

	// WebSocket hub
	wsHub := ws.NewHub(redisClient)
	go wsHub.Run()
	defer wsHub.Stop()

	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiresIn.Std(),
		cfg.JWT.RefreshIn.Std(),
	)

	router := gin.Default()

	// CORS
	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitAndTrim(allowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           86400,
	}))

	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "goout-backend",
			"time":    time.Now().Unix(),
		})
	})

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	pollRunner := poll.NewRunner()
	defer pollRunner.Stop()

	if db != nil {
		memberRepo := repository.NewMemberRepository(db)
		eventRepo := repository.NewEventRepository(db)
		appRepo := repository.NewApplicationRepository(db)
		msgRepo := repository.NewMessageRepository(db)
		dmRepo := repository.NewDMRepository(db)
		readRepo := repository.NewReadMarkerRepository(db)
		watermarkRepo := repository.NewWatermarkRepository(db)

		memberService := service.NewMemberService(memberRepo)
		eventService := service.NewEventService(eventRepo, cacheService)
		applicationService := service.NewApplicationService(appRepo, eventRepo)
		threadService := service.NewThreadService(dmRepo, memberRepo)
		messageService := service.NewMessageService(msgRepo, dmRepo, eventRepo, wsHub)
		readStateService := service.NewReadStateService(readRepo, watermarkRepo, msgRepo, dmRepo, cacheService)
		notificationService := service.NewNotificationService(
			eventRepo, msgRepo, dmRepo, appRepo, watermarkRepo, cacheService, cfg.Notification)

		authHandler := handler.NewAuthHandler(memberService, jwtManager)
		eventHandler := handler.NewEventHandler(eventService)
		applicationHandler := handler.NewApplicationHandler(applicationService)
		messageHandler := handler.NewMessageHandler(messageService, readStateService)
		dmHandler := handler.NewDMHandler(threadService, messageService)
		notificationHandler := handler.NewNotificationHandler(notificationService)
		wsHandler := handler.NewWSHandler(wsHub, jwtManager, eventRepo, threadService)

		routes.Setup(
			router,
			authHandler,
			eventHandler,
			applicationHandler,
			messageHandler,
			dmHandler,
			notificationHandler,
			wsHandler,
			jwtManager,
		)

		// Feed the DB connection gauge
		pollRunner.Add("db-stats", 15*time.Second, func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			middleware.SetDBConnectionsActive(float64(sqlDB.Stats().InUse))
			return nil
		})
		pollRunner.Start()
	} else {
		pkglogger.Get().Warn().Msg("Database unavailable, API routes disabled")
	}

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	pkglogger.Get().Info().Str("addr", addr).Msg("Listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	mysqlCfg := mysqldriver.NewConfig()
	mysqlCfg.User = cfg.Database.User
	mysqlCfg.Passwd = cfg.Database.Password
	mysqlCfg.Net = "tcp"
	mysqlCfg.Addr = fmt.Sprintf("%s:%d", cfg.Database.Host, cfg.Database.Port)
	mysqlCfg.DBName = cfg.Database.Name
	mysqlCfg.ParseTime = true
	mysqlCfg.Loc = time.UTC
	mysqlCfg.Params = map[string]string{"charset": "utf8mb4"}

	gormLogLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		gormLogLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(mysqlCfg.FormatDSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormLogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
