package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskchat-backend/logic"
)

// ConversationController handles HTTP requests
type ConversationController struct {
	convoLogic *logic.ConversationLogic
}

func NewConversationController(logic *logic.ConversationLogic) *ConversationController {
	return &ConversationController{convoLogic: logic}
}

// GetConversations handles GET /conversations
func (c *ConversationController) GetConversations(ctx *gin.Context) {
	userID, err := extractUserID(ctx)
	if err != nil {
		return
	}

	convos, err := c.convoLogic.GetConversations(userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, convos)
}

// GetMessages handles GET /conversations/:id/messages
func (c *ConversationController) GetMessages(ctx *gin.Context) {
	userID, err := extractUserID(ctx)
	if err != nil {
		return
	}

	convoID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID"})
		return
	}

	messages, err := c.convoLogic.GetConversationMessages(userID, convoID)
	if err != nil {
		if errors.Is(err, logic.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, messages)
}

// DeleteConversation handles DELETE /conversations/:id
func (c *ConversationController) DeleteConversation(ctx *gin.Context) {
	userID, err := extractUserID(ctx)
	if err != nil {
		return
	}

	convoID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID"})
		return
	}

	if err := c.convoLogic.DeleteConversation(userID, convoID); err != nil {
		if errors.Is(err, logic.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"deleted": true})
}
