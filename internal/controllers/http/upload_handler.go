package http

import (
	"errors"
	"net/http"

	"chipset-komputer/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			respondError(c, domain.ErrNoFile)
			return
		}
		badRequest(c, err)
		return
	}
	url, err := h.svc.Uploads.Save(c.Request.Context(), fh)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
