package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pomflow/internal/handler"
	"pomflow/internal/middleware"
)

func New(
	tokens middleware.TokenParser,
	authHandler *handler.AuthHandler,
	syncHandler *handler.SyncHandler,
	corsOrigins []string,
) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), middleware.CORS(corsOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", middleware.Auth(tokens), authHandler.Me)

	protected := api.Group("")
	protected.Use(middleware.Auth(tokens))

	protected.GET("/tasks", syncHandler.ListTasks)
	protected.PUT("/tasks", syncHandler.ReplaceTasks)
	protected.PUT("/tasks/:id", syncHandler.UpsertTask)
	protected.DELETE("/tasks/:id", syncHandler.DeleteTask)

	protected.GET("/history", syncHandler.ListHistory)
	protected.POST("/history", syncHandler.AppendHistory)
	protected.PUT("/history", syncHandler.ReplaceHistory)
	protected.DELETE("/history", syncHandler.ClearHistory)

	protected.GET("/settings", syncHandler.GetSettings)
	protected.PUT("/settings", syncHandler.PutSettings)
	protected.GET("/session", syncHandler.GetSession)
	protected.PUT("/session", syncHandler.PutSession)

	return engine
}
