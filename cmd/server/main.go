package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/HannanShehzad/TaskManager/internal/cache"
	"github.com/HannanShehzad/TaskManager/internal/config"
	"github.com/HannanShehzad/TaskManager/internal/handlers"
	"github.com/HannanShehzad/TaskManager/internal/logging"
	"github.com/HannanShehzad/TaskManager/internal/middleware"
	"github.com/HannanShehzad/TaskManager/internal/monitoring"
	"github.com/HannanShehzad/TaskManager/internal/repositories"
	"github.com/HannanShehzad/TaskManager/internal/services"
)

// Application holds all server dependencies.
type Application struct {
	Config  *config.Config
	Logger  *zap.Logger
	DB      *gorm.DB
	Cache   cache.Cache
	Router  *gin.Engine
	Server  *http.Server
	Metrics *monitoring.Metrics

	TaskService     services.TaskService
	AuthService     services.AuthService
	RegisterService services.RegisterService
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := initializeApplication(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	app.setupRoutes()
	app.startServer()
}

func initializeApplication(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	app := &Application{Config: cfg, Logger: logger}

	logger.Info("initializing task tracker backend",
		zap.String("environment", cfg.Server.Environment))

	db, err := repositories.Connect(&cfg.Database)
	if err != nil {
		return nil, err
	}
	app.DB = db
	logger.Info("database connected")

	migrationCfg := &repositories.MigrationConfig{
		MigrationsPath: "file://migrations",
		DBName:         cfg.Database.Name,
		MaxRetries:     3,
		RetryDelay:     2 * time.Second,
	}
	if err := repositories.RunMigrations(db, migrationCfg, logger); err != nil {
		return nil, err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-process cache", zap.Error(err))
		app.Cache = cache.NewMemoryCache()
	} else {
		app.Cache = cache.NewRedisCache(redisClient)
		logger.Info("redis connected")
	}

	app.AuthService = services.NewAuthService(cfg.JWTSecret(), cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	app.RegisterService = services.NewRegisterService()
	app.TaskService = services.NewCachedTaskService(services.NewTaskService(), app.Cache, cfg.Redis.TaskTTL)
	app.Metrics = monitoring.NewMetrics()

	logger.Info("all services initialized")
	return app, nil
}

func (app *Application) setupRoutes() {
	r := gin.New()

	r.Use(middleware.RequestLogger(app.Logger))
	r.Use(middleware.RecoveryWithLog(app.Logger))
	r.Use(app.Metrics.Middleware())

	rateLimit := rate.Limit(float64(app.Config.RateLimit.RequestsPerMin) / 60.0)
	r.Use(middleware.RateLimiter(rateLimit, app.Config.RateLimit.BurstSize))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", app.healthHandler())
	r.GET("/ready", app.readinessHandler())
	r.GET("/metrics", app.Metrics.Handler())

	taskHandler := handlers.NewTaskHandler(app.DB, app.TaskService, app.Logger)
	authHandler := handlers.NewAuthHandler(app.DB, app.AuthService, app.RegisterService, app.Logger)
	authMW := middleware.BearerAuth(app.DB, app.AuthService)

	handlers.RegisterRoutes(r, taskHandler, authHandler, authMW)

	app.Router = r
}

func (app *Application) startServer() {
	addr := app.Config.GetServerAddr()

	app.Server = &http.Server{
		Addr:         addr,
		Handler:      app.Router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		app.Logger.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.Server.Shutdown(ctx); err != nil {
			app.Logger.Error("server forced to shutdown", zap.Error(err))
		}

		app.cleanup()
	}()

	app.Logger.Info("server starting", zap.String("addr", addr))

	if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		app.Logger.Fatal("server failed to start", zap.Error(err))
	}
	app.Logger.Info("server stopped")
}

func (app *Application) cleanup() {
	if app.Cache != nil {
		if err := app.Cache.Close(); err != nil {
			app.Logger.Warn("error closing cache", zap.Error(err))
		}
	}
	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				app.Logger.Warn("error closing database", zap.Error(err))
			}
		}
	}
}

func (app *Application) healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "task-tracker-backend",
		}

		if err := repositories.Health(app.DB); err != nil {
			health["status"] = "unhealthy"
			health["database"] = "down"
			c.JSON(http.StatusServiceUnavailable, health)
			return
		}
		health["database"] = "up"

		if app.Cache != nil {
			if err := app.Cache.Health(); err != nil {
				health["cache"] = "down"
			} else {
				health["cache"] = "up"
			}
		}

		c.JSON(http.StatusOK, health)
	}
}

func (app *Application) readinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := repositories.Health(app.DB); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ready":  false,
				"reason": "database not ready",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ready": true})
	}
}
