package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/services"
)

// MessageBroadcaster mirrors stored messages onto the real-time channel.
type MessageBroadcaster interface {
	Broadcast(msg *models.Message)
}

type ChatHandler struct {
	conversations *services.ConversationService
	broadcaster   MessageBroadcaster
}

func NewChatHandler(conversations *services.ConversationService, broadcaster MessageBroadcaster) *ChatHandler {
	return &ChatHandler{conversations: conversations, broadcaster: broadcaster}
}

type ResolveConversationInput struct {
	TargetID string `json:"targetId" binding:"required"`
}

type SendMessageInput struct {
	Content string `json:"content" binding:"required"`
}

// ResolveConversation POST /chat/conversations
func (h *ChatHandler) ResolveConversation(c *gin.Context) {
	var input ResolveConversationInput
	if !bind(c, &input) {
		return
	}

	conv, created, err := h.conversations.Resolve(c.Request.Context(), requestContext(c), input.TargetID)
	if err != nil {
		fail(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"conversationId": conv.ID, "created": created})
}

// ListConversations GET /chat/conversations
func (h *ChatHandler) ListConversations(c *gin.Context) {
	summaries, err := h.conversations.ListConversationsFor(c.Request.Context(), requestContext(c).UserID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": summaries})
}

// GetMessages GET /chat/conversations/:id/messages
func (h *ChatHandler) GetMessages(c *gin.Context) {
	ctx := c.Request.Context()
	conversationID := c.Param("id")

	if _, err := h.conversations.Participant(ctx, conversationID, requestContext(c).UserID); err != nil {
		fail(c, err)
		return
	}

	messages, err := h.conversations.ListHistory(ctx, conversationID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// SendMessage POST /chat/conversations/:id/messages
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var input SendMessageInput
	if !bind(c, &input) {
		return
	}

	msg, err := h.conversations.Send(c.Request.Context(), c.Param("id"), requestContext(c).UserID, input.Content)
	if err != nil {
		fail(c, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.Broadcast(msg)
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// MarkRead POST /chat/conversations/:id/read
func (h *ChatHandler) MarkRead(c *gin.Context) {
	ctx := c.Request.Context()
	conversationID := c.Param("id")
	userID := requestContext(c).UserID

	if _, err := h.conversations.Participant(ctx, conversationID, userID); err != nil {
		fail(c, err)
		return
	}

	updated, err := h.conversations.MarkRead(ctx, conversationID, userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
