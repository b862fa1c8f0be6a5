package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lecture-backend/internal/shared/middleware"
	"lecture-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupLectureRoutes(v1, c)
		setupMultimediaRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.AccountHandler.Login)
		auth.GET("/roles", middleware.AuthMiddleware(c.JWTManager), c.AccountHandler.Roles)
	}
}

// ========================================
// LECTURE ROUTES
// ========================================
func setupLectureRoutes(v1 *gin.RouterGroup, c *container.Container) {
	authn := middleware.AuthMiddleware(c.JWTManager)
	admin := middleware.AdminMiddleware()

	lectures := v1.Group("/lectures")
	{
		// Public: tạo lecture cùng account sở hữu
		lectures.POST("", c.LectureHandler.Create)

		lectures.GET("", authn, c.LectureHandler.Find)
		lectures.GET("/:id", authn, c.LectureHandler.GetByID)
		lectures.PUT("/:id", authn, c.LectureHandler.Update)

		// Values
		lectures.GET("/name/:prefix", authn, c.ValuesHandler.NamesByPrefix)
		lectures.GET("/version/:id", authn, c.ValuesHandler.VersionByID)

		// Admin
		lectures.GET("/export", authn, admin, c.LectureHandler.Export)
		lectures.DELETE("/:id", authn, admin, c.LectureHandler.DeleteByID)
		lectures.DELETE("", authn, admin, c.LectureHandler.DeleteByName)
	}
}

// ========================================
// MULTIMEDIA ROUTES
// ========================================
func setupMultimediaRoutes(v1 *gin.RouterGroup, c *container.Container) {
	multimedia := v1.Group("/multimedia", middleware.AuthMiddleware(c.JWTManager))
	{
		multimedia.PUT("/:id", c.MultimediaHandler.Upload)
		multimedia.GET("/:id", c.MultimediaHandler.Download)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  gin.H{},
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Check redis
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}
		if appCtx.DB != nil {
			if stats, err := appCtx.DB.Stats(); err == nil {
				health["pool"] = stats
			}
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
