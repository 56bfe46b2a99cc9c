package handlers

import (
	"net/http"

	"questboard/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type GeneratedTaskHandler struct {
	db             *gorm.DB
	taskService    services.GeneratedTaskService
	storageService services.StorageService
}

func NewGeneratedTaskHandler(db *gorm.DB, taskService services.GeneratedTaskService, storageService services.StorageService) *GeneratedTaskHandler {
	return &GeneratedTaskHandler{db: db, taskService: taskService, storageService: storageService}
}

// CreateGeneratedTask accepts a task the user picked up from the
// catalog, or one a friend passed along (assigned_by set).
func (h *GeneratedTaskHandler) CreateGeneratedTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		TaskDescription string `json:"task_description" binding:"required"`
		Category        string `json:"category"`
		Difficulty      string `json:"difficulty" binding:"required,oneof=easy medium hard"`
		AssignedBy      string `json:"assigned_by" binding:"omitempty,uuid"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignedBy := uuid.Nil
	if input.AssignedBy != "" {
		parsed, ok := parseUUIDField(c, input.AssignedBy)
		if !ok {
			return
		}
		assignedBy = parsed
	}

	task, err := h.taskService.CreateGeneratedTask(h.db, services.CreateGeneratedTaskInput{
		TaskDescription: input.TaskDescription,
		Category:        input.Category,
		Difficulty:      input.Difficulty,
		UserID:          userID,
		AssignedBy:      assignedBy,
	})
	if err != nil {
		handleLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (h *GeneratedTaskHandler) GetGeneratedTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.GetGeneratedTasksForUser(h.db, userID)
	if err != nil {
		handleLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

func (h *GeneratedTaskHandler) CompleteGeneratedTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	input := services.CompletionInput{
		Comment: c.PostForm("comment"),
	}

	proofURL, ok := h.uploadProofIfPresent(c, id)
	if !ok {
		return
	}
	input.ProofURL = proofURL

	task, err := h.taskService.CompleteGeneratedTask(h.db, id, userID, input)
	if err != nil {
		handleLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *GeneratedTaskHandler) uploadProofIfPresent(c *gin.Context, taskID uuid.UUID) (string, bool) {
	fileHeader, err := c.FormFile("proof")
	if err != nil {
		return "", true
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read proof file"})
		return "", false
	}
	defer file.Close()

	url, err := h.storageService.UploadProof(c.Request.Context(), taskID, fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "proof upload failed",
			"message": "the completion was not recorded, please retry",
		})
		return "", false
	}

	return url, true
}
