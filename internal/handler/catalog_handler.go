package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-dose-reminder/internal/service/frequency"
	"github.com/KasumiMercury/primind-dose-reminder/internal/service/timeoption"
)

// CatalogHandler serves the read-only lookups the time picker needs.
type CatalogHandler struct {
	catalog *timeoption.Catalog
}

func NewCatalogHandler(catalog *timeoption.Catalog) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
	}
}

func (h *CatalogHandler) HandleTimeOptions(c *gin.Context) {
	label := c.Query("label")

	options := h.catalog.All()
	if label != "" {
		options = h.catalog.Filtered(label)
	}

	c.JSON(http.StatusOK, gin.H{
		"options": options,
	})
}

func (h *CatalogHandler) HandleSlots(c *gin.Context) {
	c.JSON(http.StatusOK, frequency.Derive(c.Query("frequency"), c.Query("timing")))
}
