package controllers

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/app/services"
	"github.com/yigit/collegeportal/internal/middleware"
	"github.com/yigit/collegeportal/internal/pkg/genai"
)

// AssistantController exposes the AI assistant
type AssistantController struct {
	assistant *services.AssistantService
	logger    zerolog.Logger
}

// NewAssistantController creates a new AssistantController
func NewAssistantController(assistant *services.AssistantService, logger zerolog.Logger) *AssistantController {
	return &AssistantController{assistant: assistant, logger: logger}
}

// Capabilities reports which AI features are enabled
func (c *AssistantController) Capabilities(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(c.assistant.Capabilities(), "Capabilities"))
}

// Ask answers a question about the portal
// @Summary Ask about the portal
// @Tags assistant
// @Security BearerAuth
// @Param request body dto.AskRequest true "Question"
// @Success 200 {object} dto.StructuredResponse{data=dto.AskResponse}
// @Failure 403 {object} dto.ErrorResponse "Feature disabled"
// @Router /assistant/ask [post]
func (c *AssistantController) Ask(ctx *gin.Context) {
	var req dto.AskRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	answer, err := c.assistant.AskAboutPortal(ctx.Request.Context(), req.Query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.AskResponse{Answer: answer}, "Answer"))
}

// Chat streams the assistant's reply as server-sent events.
// Each "chunk" event carries a genai.Chunk; a final "done" event closes the stream.
// @Summary Chat with the assistant
// @Tags assistant
// @Security BearerAuth
// @Param request body dto.ChatRequest true "History and message"
// @Produce text/event-stream
// @Router /assistant/chat [post]
func (c *AssistantController) Chat(ctx *gin.Context) {
	var req dto.ChatRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	stream, err := c.assistant.StartChat(ctx.Request.Context(), req.History, req.Message, genai.ChatOptions{WebSearch: req.WebSearch})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer stream.Close()

	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")
	for {
		select {
		case <-ctx.Request.Context().Done():
			c.logger.Debug().Msg("Client left the assistant chat stream")
			return
		case chunk, ok := <-stream.Chunks():
			if !ok {
				ctx.SSEvent("done", gin.H{})
				ctx.Writer.Flush()
				c.logger.Debug().Msg("Assistant chat stream finished")
				return
			}
			ctx.SSEvent("chunk", chunk)
			ctx.Writer.Flush()
		}
	}
}

// GenerateImage renders an avatar and returns it as a data URL
// @Summary Generate an avatar
// @Tags assistant
// @Security BearerAuth
// @Param request body dto.ImageRequest true "Prompt"
// @Success 200 {object} dto.StructuredResponse{data=dto.ImageResponse}
// @Failure 502 {object} dto.ErrorResponse "Image service unavailable"
// @Router /assistant/image [post]
func (c *AssistantController) GenerateImage(ctx *gin.Context) {
	var req dto.ImageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	img, err := c.assistant.GenerateAvatar(ctx.Request.Context(), req.Prompt)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	dataURL := "data:" + http.DetectContentType(img) + ";base64," + base64.StdEncoding.EncodeToString(img)
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.ImageResponse{DataURL: dataURL}, "Image generated"))
}
