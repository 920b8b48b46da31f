package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fixmycity-be/controllers"
	"fixmycity-be/middlewares"
)

// PublicRoutes sets up the unauthenticated surface: intake, map, chat,
// leaderboard and the live change stream.
func PublicRoutes(r *gin.Engine, d Deps) {
	r.GET("/", controllers.Home())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api")
	{
		api.GET("/test-db", controllers.TestDB(d.Store))
		api.GET("/problems", controllers.Problems(d.Store))
		api.POST("/submit-report",
			middlewares.SubmitRateLimiter(d.Redis, d.SubmitLimit),
			controllers.SubmitReport(d.Intake))
		api.POST("/chat", controllers.Chat(d.Bot))
		api.GET("/leaderboard", controllers.Leaderboard(d.Leaderboard))
		api.GET("/stream", controllers.Stream(d.Store))
	}
}
