package httpserver

import (
	"context"

	"cartsync/internal/domain"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// SyncService is the slice of the sync core the HTTP layer calls.
type SyncService interface {
	CountRemaining(ctx context.Context, shopID int64, remainingOnly bool) (int, error)
	SelectCarts(ctx context.Context, shopID int64, offset, limit int, remainingOnly bool) ([]domain.CartPayload, error)
	MarkSynced(ctx context.Context, cartIDs []int64) error
}

// Deps carries the services the router needs.
type Deps struct {
	SyncSvc SyncService
}

// buildRouter wires routes for the sync API.
func buildRouter(logger *logrus.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/shops/:shopID/abandoned-carts", listAbandonedCarts(deps.SyncSvc))
	router.GET("/shops/:shopID/abandoned-carts/count", countAbandonedCarts(deps.SyncSvc))
	router.POST("/abandoned-carts/mark-synced", markSynced(deps.SyncSvc))

	return router
}
