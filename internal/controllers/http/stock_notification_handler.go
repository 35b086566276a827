package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) RequestStockNotification(c *gin.Context) {
	var req StockNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	n, err := h.svc.StockNotifications.Request(c.Request.Context(), currentUser(c), req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"notification": n})
}

func (h *Handler) ListStockNotifications(c *gin.Context) {
	list, err := h.svc.StockNotifications.ListMine(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

func (h *Handler) DeleteStockNotification(c *gin.Context) {
	if err := h.svc.StockNotifications.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "stock notification removed"})
}
