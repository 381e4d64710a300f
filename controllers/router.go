package controllers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	v1 "github.com/applysink/applysink/controllers/api/v1"
	"github.com/applysink/applysink/conf"
	"github.com/applysink/applysink/docs"
	"github.com/applysink/applysink/middlewares"
	"github.com/applysink/applysink/network"
)

// @title           ApplySink API
// @version         1.0
// @description     The rest API of the ApplySink server.
//
// @contact.name   API Support
//
// @license.name  MIT
//
// @host      localhost:3000
// @BasePath  /api/v1

// Setup initializes routing information.
func Setup(version, commit string) http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	// This is only for development. Use nginx or something to serve the static files.
	router.Static("/screenshots", conf.AppCfg.ScreenshotsAbsolutePath)

	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowHeaders:     []string{"*", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
		AllowWebSockets:  true,
		AllowWildcard:    true,
	}))

	apiV1 := router.Group("/api/v1")

	apiV1.Use()
	{
		// Auth
		apiV1.POST("/auth/signup", v1.CreateUser)
		apiV1.POST("/auth/login", v1.Login)
		apiV1.GET("/user/profile", middlewares.CheckAuthorizationHeader, v1.GetUserProfile)

		// Admin
		apiV1.GET("/admin/version", middlewares.CheckAuthorizationHeader, v1.GetVersion(version, commit))
		apiV1.GET("/admin/runs", middlewares.CheckAuthorizationHeader, v1.GetRunCount)

		// Applications
		apiV1.GET("/applications", middlewares.CheckAuthorizationHeader, v1.GetApplications)
		apiV1.POST("/applications", middlewares.CheckAuthorizationHeader, v1.CreateApplication)
		apiV1.GET("/applications/sessions", middlewares.CheckAuthorizationHeader, v1.GetSessions)

		apiV1.GET("/applications/:key", middlewares.CheckAuthorizationHeader, v1.GetApplication)
		apiV1.DELETE("/applications/:key", middlewares.CheckAuthorizationHeader, v1.DeleteApplication)
		apiV1.PATCH("/applications/:key/status", middlewares.CheckAuthorizationHeader, v1.UpdateApplicationStatus)
		apiV1.GET("/applications/:key/outcomes", middlewares.CheckAuthorizationHeader, v1.GetOutcomes)

		apiV1.POST("/applications/:key/apply", middlewares.CheckAuthorizationHeader, v1.StartApplication)
		apiV1.POST("/applications/:key/confirm", middlewares.CheckAuthorizationHeader, v1.ConfirmApplication)
		apiV1.POST("/applications/:key/cancel", middlewares.CheckAuthorizationHeader, v1.CancelApplication)
		apiV1.GET("/applications/:key/events", middlewares.CheckAuthorizationHeader, v1.StreamEvents)

		// Providers
		apiV1.GET("/providers", middlewares.CheckAuthorizationHeader, v1.GetProviders)
		apiV1.POST("/providers/search", middlewares.CheckAuthorizationHeader, v1.SearchBoard)
		apiV1.GET("/providers/:name/postings/:externalId", middlewares.CheckAuthorizationHeader, v1.GetPosting)

		// System
		apiV1.GET("/info/:seconds", middlewares.CheckAuthorizationHeader, v1.GetInfo)
		apiV1.GET("/info/disk", middlewares.CheckAuthorizationHeader, v1.GetDiskInfo)

		go network.WsListen()
		apiV1.GET("/ws", middlewares.CheckAuthorizationHeader, network.WsHandler)
	}

	return router
}
