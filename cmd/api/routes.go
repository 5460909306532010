package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (app *application) routes() http.Handler {
	if app.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// request logging via zap
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		app.Logger.Sugar().Infow("http",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	})

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		for _, trusted := range app.Config.GetCORSOrigins() {
			if origin == trusted {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				break
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Authorization, X-Session-ID, accept, origin, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Session-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	v1 := r.Group("/api/v1")
	{
		v1.GET("/roles", app.Handler.ListRoles)
		v1.POST("/admin/login", app.Handler.AdminLogin)

		// candidate application workflow
		apps := v1.Group("/applications")
		{
			apps.POST("", app.Handler.StartApplication)
			apps.POST("/resume", app.Handler.UploadResume)
			apps.POST("/analyze", app.Handler.Analyze)
			apps.POST("/test/start", app.Handler.StartTest)
			apps.GET("/test/question", app.Handler.GetQuestion)
			apps.POST("/test/answer", app.Handler.SubmitAnswer)
			apps.POST("/confirm", app.Handler.Confirm)
			apps.GET("/slots", app.Handler.ListSlots)
			apps.POST("/schedule", app.Handler.Schedule)
			apps.POST("/reset", app.Handler.Reset)
			apps.GET("/status", app.Handler.Status)
		}
	}

	admin := v1.Group("/admin")
	admin.Use(app.AdminAuthMiddleware())
	{
		admin.POST("/roles", app.Handler.UpsertRole)
		admin.DELETE("/roles/:role_id", app.Handler.DeleteRole)

		admin.GET("/roles/:role_id/questions", app.Handler.ListQuestions)
		admin.POST("/roles/:role_id/questions", app.Handler.AddQuestion)
		admin.PUT("/roles/:role_id/questions/:index", app.Handler.UpdateQuestion)
		admin.DELETE("/roles/:role_id/questions/:index", app.Handler.DeleteQuestion)

		admin.GET("/slots", app.Handler.ListAdminSlots)
		admin.POST("/slots", app.Handler.AddSlot)
		admin.DELETE("/slots", app.Handler.RemoveSlot)

		admin.GET("/analytics", app.Handler.GetAnalytics)
	}

	return r
}
