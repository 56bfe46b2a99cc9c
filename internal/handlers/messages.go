package handlers

import (
	"net/http"

	"questboard/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MessageHandler struct {
	db             *gorm.DB
	messageService services.MessageService
}

func NewMessageHandler(db *gorm.DB, messageService services.MessageService) *MessageHandler {
	return &MessageHandler{db: db, messageService: messageService}
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		ReceiverID string `json:"receiver_id" binding:"required,uuid"`
		Content    string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	receiverID, ok := parseUUIDField(c, input.ReceiverID)
	if !ok {
		return
	}

	message, err := h.messageService.SendMessage(h.db, userID, receiverID, input.Content)
	if err != nil {
		handleLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *MessageHandler) GetConversation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	otherID, ok := pathUUID(c, "user_id")
	if !ok {
		return
	}

	messages, err := h.messageService.GetConversation(h.db, userID, otherID)
	if err != nil {
		handleLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}
