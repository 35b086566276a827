package http

import (
	"net/http"

	"chipset-komputer/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListCategoryTree(c *gin.Context) {
	tree, err := h.svc.Categories.Tree(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": tree})
}

func (h *Handler) ListProducts(c *gin.Context) {
	minPrice, err := decimalQuery(c, "minPrice")
	if err != nil {
		respondError(c, err)
		return
	}
	maxPrice, err := decimalQuery(c, "maxPrice")
	if err != nil {
		respondError(c, err)
		return
	}

	q := services.ProductQuery{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Featured: c.Query("featured") == "true",
		Sort:     c.Query("sort"),
	}
	products, page, err := h.svc.Products.List(c.Request.Context(), q, pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "pagination": page})
}

func (h *Handler) GetProduct(c *gin.Context) {
	detail, err := h.svc.Products.Detail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": detail})
}

func (h *Handler) ListRelatedProducts(c *gin.Context) {
	related, err := h.svc.Products.Related(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": related})
}

func (h *Handler) AdminListCategories(c *gin.Context) {
	categories, err := h.svc.Categories.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) AdminCreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	category, err := h.svc.Categories.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

func (h *Handler) AdminUpdateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	category, err := h.svc.Categories.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

func (h *Handler) AdminDeleteCategory(c *gin.Context) {
	if err := h.svc.Categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}

func (h *Handler) AdminListProducts(c *gin.Context) {
	q := services.ProductQuery{Search: c.Query("search"), Sort: c.Query("sort")}
	products, page, err := h.svc.Products.AdminList(c.Request.Context(), q, pageFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "pagination": page})
}

func (h *Handler) AdminGetProduct(c *gin.Context) {
	product, err := h.svc.Products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *Handler) AdminCreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	product, err := h.svc.Products.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

func (h *Handler) AdminUpdateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	product, err := h.svc.Products.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *Handler) AdminDeactivateProduct(c *gin.Context) {
	if err := h.svc.Products.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deactivated"})
}
