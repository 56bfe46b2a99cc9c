package handlers

import (
	"net/http"

	"questboard/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CatalogHandler struct {
	db             *gorm.DB
	catalogService services.CatalogService
}

func NewCatalogHandler(db *gorm.DB, catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{db: db, catalogService: catalogService}
}

// GetRandomTask serves GET /api/task: one random catalog entry, falling
// back to the external activity generator.
func (h *CatalogHandler) GetRandomTask(c *gin.Context) {
	task, err := h.catalogService.RandomTask(c.Request.Context(), h.db)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "no_task_available",
			"message": "could not produce a task right now",
		})
		return
	}

	c.JSON(http.StatusOK, task)
}

// CreateCatalogEntry serves POST /api/tasks/new.
func (h *CatalogHandler) CreateCatalogEntry(c *gin.Context) {
	var input struct {
		Description string `json:"description" binding:"required"`
		Category    string `json:"category"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.catalogService.AddEntry(h.db, input.Description, input.Category)
	if err != nil {
		handleLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}
