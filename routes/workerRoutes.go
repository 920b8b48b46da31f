package routes

import (
	"github.com/gin-gonic/gin"

	"fixmycity-be/controllers"
	"fixmycity-be/middlewares"
)

// WorkerRoutes sets up the field-worker routes.
func WorkerRoutes(r *gin.Engine, d Deps) {
	worker := r.Group("/api/worker", middlewares.RequireRole("worker"))
	{
		worker.GET("/orders", controllers.ListWorkOrders(d.Store))
		worker.POST("/orders/:id/proof", controllers.SubmitProof(d.Lifecycle))
	}
}
