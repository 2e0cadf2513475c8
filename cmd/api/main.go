package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campushq/its-api/api/swagger"
	"github.com/campushq/its-api/internal/handler"
	"github.com/campushq/its-api/internal/middleware"
	"github.com/campushq/its-api/internal/models"
	"github.com/campushq/its-api/internal/repository"
	"github.com/campushq/its-api/internal/service"
	"github.com/campushq/its-api/pkg/cache"
	"github.com/campushq/its-api/pkg/config"
	"github.com/campushq/its-api/pkg/database"
	"github.com/campushq/its-api/pkg/logger"
	corsmiddleware "github.com/campushq/its-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campushq/its-api/pkg/middleware/requestid"
)

// @title ITS API
// @version 1.0.0
// @description Accounts, roles and tutor-student relationships
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		logr.Sugar().Fatalw("failed to run migrations", "error", err)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	userRepo := repository.NewUserRepository(db)
	teachesRepo := repository.NewTeachesRepository(db)
	revocationRepo := repository.NewRevocationRepository(redisClient, logr)

	metrics := service.NewMetricsService()
	validate := validator.New()

	authSvc := service.NewAuthService(userRepo, revocationRepo, validate, logr, metrics, service.AuthConfig{
		Secret:            cfg.JWT.Secret,
		Issuer:            cfg.JWT.Issuer,
		AccessExpiration:  cfg.JWT.AccessExpiration,
		RefreshExpiration: cfg.JWT.RefreshExpiration,
	})
	rosterSvc := service.NewRosterService(userRepo, teachesRepo, logr)
	roleSvc := service.NewRoleService(userRepo, logr, metrics)
	relationshipSvc := service.NewRelationshipService(teachesRepo, userRepo, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(rosterSvc)
	tutorHandler := handler.NewTutorHandler(rosterSvc)
	roleHandler := handler.NewRoleHandler(roleSvc)
	relationshipHandler := handler.NewRelationshipHandler(relationshipSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/signup", authHandler.SignUp)
	api.POST("/login", authHandler.Login)
	api.POST("/refresh", authHandler.Refresh)

	authed := api.Group("", middleware.JWT(authSvc))
	authed.POST("/logout", authHandler.Logout)
	authed.POST("/change-password", authHandler.ChangePassword)
	authed.GET("/me", authHandler.Me)
	authed.PATCH("/me", middleware.RequireRole(models.RoleStudent, models.RoleTutor), authHandler.UpdateMe)

	rosters := authed.Group("", middleware.RequireRole(models.RoleTutor, models.RoleManager))
	rosters.GET("/students", studentHandler.List)
	rosters.GET("/tutors", tutorHandler.List)
	rosters.POST("/relationships", relationshipHandler.Add)

	managers := authed.Group("", middleware.RequireRole(models.RoleManager))
	managers.POST("/students/promote", roleHandler.Promote)
	managers.POST("/tutors/demote", roleHandler.Demote)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
