package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"cartsync/internal/domain"
	"github.com/gin-gonic/gin"
)

func listAbandonedCarts(svc SyncService) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopID, ok := shopIDParam(c)
		if !ok {
			return
		}
		offset, ok := intQuery(c, "offset", 0)
		if !ok {
			return
		}
		limit, ok := intQuery(c, "limit", 0)
		if !ok {
			return
		}
		remaining := boolQuery(c, "remaining")

		payloads, err := svc.SelectCarts(c.Request.Context(), shopID, offset, limit, remaining)
		if err != nil {
			if errors.Is(err, domain.ErrShopNotConfigured) {
				c.JSON(http.StatusConflict, gin.H{"error": "shop not configured"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "select carts failed"})
			return
		}
		if payloads == nil {
			payloads = []domain.CartPayload{}
		}
		c.JSON(http.StatusOK, gin.H{"carts": payloads, "count": len(payloads)})
	}
}

func countAbandonedCarts(svc SyncService) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopID, ok := shopIDParam(c)
		if !ok {
			return
		}
		remaining := boolQuery(c, "remaining")

		n, err := svc.CountRemaining(c.Request.Context(), shopID, remaining)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": n})
	}
}

type markSyncedRequest struct {
	CartIDs []int64 `json:"cart_ids"`
}

func markSynced(svc SyncService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req markSyncedRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := svc.MarkSynced(c.Request.Context(), req.CartIDs); err != nil {
			if errors.Is(err, domain.ErrEmptyBatch) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "cart_ids must not be empty"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "mark synced failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "marked": len(req.CartIDs)})
	}
}

func shopIDParam(c *gin.Context) (int64, bool) {
	shopID, err := strconv.ParseInt(c.Param("shopID"), 10, 64)
	if err != nil || shopID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shop id"})
		return 0, false
	}
	return shopID, true
}

func intQuery(c *gin.Context, key string, def int) (int, bool) {
	v := c.Query(key)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
		return 0, false
	}
	return n, true
}

func boolQuery(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}
