package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"fixmycity-be/services"
	"fixmycity-be/store"
)

// Deps carries the constructed service handles into route registration.
type Deps struct {
	Store       store.Store
	Intake      *services.Intake
	Lifecycle   *services.Lifecycle
	Bot         *services.Bot
	Leaderboard *services.Leaderboard
	Redis       *redis.Client
	SubmitLimit int
}

// Register sets up every route group.
func Register(r *gin.Engine, d Deps) {
	PublicRoutes(r, d)
	AdminRoutes(r, d)
	WorkerRoutes(r, d)
}
