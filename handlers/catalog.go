package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogRepo "barbook/database/repository/catalog"
	"barbook/models"
)

// CatalogHandler serves the browse surface: shops, their services, and their
// barbers.
type CatalogHandler struct {
	Catalog catalogRepo.CatalogRepository
	Logger  *zap.Logger
}

func NewCatalogHandler(catalog catalogRepo.CatalogRepository, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog, Logger: logger}
}

// GetShop returns one shop by ID.
func (h *CatalogHandler) GetShop(c *gin.Context) {
	shopID := c.Param("shopID")
	shop, err := h.Catalog.GetShopByID(c.Request.Context(), shopID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "shop not found"})
		return
	}
	c.JSON(http.StatusOK, shop)
}

// ListServices returns a page of the shop's active services.
func (h *CatalogHandler) ListServices(c *gin.Context) {
	shopID := c.Param("shopID")
	page, size := pageParams(c)

	services, total, err := h.Catalog.ListServicesByShop(c.Request.Context(), shopID, page, size)
	if err != nil {
		h.Logger.Error("failed to list services", zap.String("shopId", shopID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list services"})
		return
	}
	c.JSON(http.StatusOK, models.NewPage(services, page, size, total))
}

// ListBarbers returns a page of the shop's active barbers.
func (h *CatalogHandler) ListBarbers(c *gin.Context) {
	shopID := c.Param("shopID")
	page, size := pageParams(c)

	barbers, total, err := h.Catalog.ListBarbersByShop(c.Request.Context(), shopID, page, size)
	if err != nil {
		h.Logger.Error("failed to list barbers", zap.String("shopId", shopID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list barbers"})
		return
	}
	c.JSON(http.StatusOK, models.NewPage(barbers, page, size, total))
}

// pageParams reads zero-based page and size query parameters with sane
// bounds.
func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size < 1 || size > 100 {
		size = 20
	}
	return page, size
}
