package http

import (
	"net/http"
	"strconv"

	"chipset-komputer/internal/domain"
	"chipset-komputer/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateReview(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	review, err := h.svc.Reviews.Create(c.Request.Context(), currentUser(c), c.Param("slug"), services.ReviewInput{
		Rating:  req.Rating,
		Title:   req.Title,
		Comment: req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}

func (h *Handler) AdminListReviews(c *gin.Context) {
	filter := domain.ReviewFilter{ProductID: c.Query("productId")}
	if raw := c.Query("approved"); raw != "" {
		approved, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, domain.NewValidationError("approved must be true or false"))
			return
		}
		filter.Approved = &approved
	}

	reviews, page, err := h.svc.Reviews.List(c.Request.Context(), filter, pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "pagination": page})
}

func (h *Handler) AdminModerateReview(c *gin.Context) {
	var req ReviewApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	review, err := h.svc.Reviews.SetApproval(c.Request.Context(), c.Param("id"), *req.IsApproved)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": review})
}

func (h *Handler) AdminDeleteReview(c *gin.Context) {
	if err := h.svc.Reviews.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}
