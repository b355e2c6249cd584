package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/app/services"
	"github.com/yigit/collegeportal/internal/middleware"
)

// ChatController handles direct messages between users
type ChatController struct {
	chat   *services.ChatService
	logger zerolog.Logger
}

// NewChatController creates a new ChatController
func NewChatController(chat *services.ChatService, logger zerolog.Logger) *ChatController {
	return &ChatController{chat: chat, logger: logger}
}

// Conversations lists the conversations of the logged in user
// @Summary List conversations
// @Tags conversations
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=[]models.Conversation}
// @Router /conversations [get]
func (c *ChatController) Conversations(ctx *gin.Context) {
	conversations, err := c.chat.Conversations()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(conversations, "Conversations retrieved"))
}

// GetConversation returns the conversation with the user in the path
// @Summary Get a conversation
// @Tags conversations
// @Security BearerAuth
// @Param userId path string true "Peer ID"
// @Success 200 {object} dto.StructuredResponse{data=dto.ConversationResponse}
// @Router /conversations/{userId} [get]
func (c *ChatController) GetConversation(ctx *gin.Context) {
	conversation, exists, err := c.chat.GetConversation(ctx.Param("userId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.ConversationResponse{ID: conversation.ID, Exists: exists}
	if exists {
		resp.Conversation = conversation
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(resp, "Conversation retrieved"))
}

// SendMessage sends a direct message to the user in the path
// @Summary Send a message
// @Tags conversations
// @Security BearerAuth
// @Param userId path string true "Peer ID"
// @Param request body dto.SendMessageRequest true "Message text"
// @Success 201 {object} dto.StructuredResponse{data=models.DirectMessage}
// @Router /conversations/{userId}/messages [post]
func (c *ChatController) SendMessage(ctx *gin.Context) {
	var req dto.SendMessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	message, err := c.chat.SendMessage(ctx.Request.Context(), ctx.Param("userId"), req.Text)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(message, "Message sent"))
}
