package routes

import (
	"github.com/gin-gonic/gin"

	"fixmycity-be/controllers"
	"fixmycity-be/middlewares"
)

// AdminRoutes sets up the triage dashboard routes.
func AdminRoutes(r *gin.Engine, d Deps) {
	admin := r.Group("/api/admin", middlewares.RequireRole("admin"))
	{
		admin.GET("/submissions", controllers.ListSubmissions(d.Store))
		admin.GET("/predicted", controllers.ListPredicted(d.Store))
		admin.GET("/issues", controllers.ListIssues(d.Store))
		admin.GET("/verification", controllers.ListPendingVerification(d.Store))

		admin.POST("/approve", controllers.ApproveSubmission(d.Lifecycle))
		admin.POST("/reject", controllers.RejectSubmission(d.Lifecycle))
		admin.POST("/final-approve", controllers.FinalApprove(d.Lifecycle))
	}
}
