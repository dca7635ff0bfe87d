package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskchat-backend/agent"
	"taskchat-backend/logic"
)

// ChatController handles the assistant endpoint
type ChatController struct {
	exchangeLogic *logic.ExchangeLogic
}

func NewChatController(logic *logic.ExchangeLogic) *ChatController {
	return &ChatController{exchangeLogic: logic}
}

// Chat handles POST /chat
func (c *ChatController) Chat(ctx *gin.Context) {
	userID, err := extractUserID(ctx)
	if err != nil {
		return
	}

	type Request struct {
		Message        string `json:"message" binding:"required"`
		ConversationID string `json:"conversation_id"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var convoID *uuid.UUID
	if req.ConversationID != "" {
		parsed, err := uuid.Parse(req.ConversationID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID"})
			return
		}
		convoID = &parsed
	}

	result, err := c.exchangeLogic.RunExchange(ctx.Request.Context(), userID, convoID, req.Message)
	if err != nil {
		if errors.Is(err, logic.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
			return
		}
		if errors.Is(err, agent.ErrModelUnavailable) {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant is unavailable, please try again"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, result)
}
