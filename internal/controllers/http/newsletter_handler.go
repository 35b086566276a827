package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Subscribe(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.svc.Newsletter.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "subscription reactivated"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "subscribed to newsletter"})
}

func (h *Handler) Unsubscribe(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.svc.Newsletter.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unsubscribed from newsletter"})
}
