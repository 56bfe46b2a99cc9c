package handlers

import (
	"io"
	"net/http"

	"questboard/backend/internal/models"
	"questboard/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type AssignmentHandler struct {
	db                *gorm.DB
	assignmentService services.AssignmentService
	storageService    services.StorageService
}

func NewAssignmentHandler(db *gorm.DB, assignmentService services.AssignmentService, storageService services.StorageService) *AssignmentHandler {
	return &AssignmentHandler{db: db, assignmentService: assignmentService, storageService: storageService}
}

func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		TaskDescription string `json:"task_description" binding:"required"`
		Difficulty      string `json:"difficulty" binding:"required,oneof=easy medium hard"`
		AssignedTo      string `json:"assigned_to" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignedTo, ok := parseUUIDField(c, input.AssignedTo)
	if !ok {
		return
	}

	assignment, err := h.assignmentService.CreateAssignment(h.db, services.CreateAssignmentInput{
		TaskDescription: input.TaskDescription,
		Difficulty:      input.Difficulty,
		AssignedBy:      userID,
		AssignedTo:      assignedTo,
	})
	if err != nil {
		handleLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

func (h *AssignmentHandler) GetAssignments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	assignments, err := h.assignmentService.GetAssignmentsForUser(h.db, userID)
	if err != nil {
		handleLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

func (h *AssignmentHandler) GetAssignmentByID(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	assignment, err := h.assignmentService.GetAssignmentByID(h.db, id)
	if err != nil {
		handleLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// SubmitAssignment takes a multipart form: optional proof file, a
// comment, and an optional resubmission reason. The proof upload runs
// first so a storage failure aborts before any status change.
func (h *AssignmentHandler) SubmitAssignment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	input := services.SubmissionInput{
		Comment:            c.PostForm("comment"),
		ResubmissionReason: c.PostForm("resubmission_reason"),
	}

	proofURL, ok := h.uploadProofIfPresent(c, id)
	if !ok {
		return
	}
	input.ProofURL = proofURL

	assignment, err := h.assignmentService.SubmitAssignment(h.db, id, userID, input)
	if err != nil {
		handleLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) ApproveAssignment(c *gin.Context) {
	h.review(c, h.assignmentService.ApproveAssignment)
}

func (h *AssignmentHandler) DeclineAssignment(c *gin.Context) {
	h.review(c, h.assignmentService.DeclineAssignment)
}

func (h *AssignmentHandler) review(c *gin.Context, transition func(*gorm.DB, uuid.UUID, uuid.UUID, string) (models.Assignment, error)) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var input struct {
		ReviewComment string `json:"review_comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignment, err := transition(h.db, id, userID, input.ReviewComment)
	if err != nil {
		handleLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) uploadProofIfPresent(c *gin.Context, taskID uuid.UUID) (string, bool) {
	fileHeader, err := c.FormFile("proof")
	if err != nil {
		return "", true // no proof attached
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
			"message": "the submission was not recorded, please retry",
		})
		return "", false
	}

	return url, true
}

func parseUUIDField(c *gin.Context, value string) (uuid.UUID, bool) {
	id, err := uuid.FromString(value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
