package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/app/services"
	"github.com/yigit/collegeportal/internal/middleware"
)

// StoryController handles stories and notes, both of which expire after a day
type StoryController struct {
	stories *services.StoryService
	logger  zerolog.Logger
}

// NewStoryController creates a new StoryController
func NewStoryController(stories *services.StoryService, logger zerolog.Logger) *StoryController {
	return &StoryController{stories: stories, logger: logger}
}

// Feed returns the live stories of the caller and their friends, grouped by user
// @Summary Story feed
// @Tags stories
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=[]models.StoryGroup}
// @Router /stories [get]
func (c *StoryController) Feed(ctx *gin.Context) {
	groups, err := c.stories.StoryFeed()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(groups, "Stories retrieved"))
}

// CreateStory posts a story
func (c *StoryController) CreateStory(ctx *gin.Context) {
	var req dto.CreateStoryRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	story, err := c.stories.AddStory(ctx.Request.Context(), req.ImageURL)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(story, "Story posted"))
}

// ViewStory records that the caller saw a story
func (c *StoryController) ViewStory(ctx *gin.Context) {
	story, err := c.stories.ViewStory(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(story, "Story viewed"))
}

// DeleteStory removes a story
func (c *StoryController) DeleteStory(ctx *gin.Context) {
	if err := c.stories.DeleteStory(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Story deleted"))
}

// Notes returns the live notes of the caller and their friends
func (c *StoryController) Notes(ctx *gin.Context) {
	notes, err := c.stories.Notes()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(notes, "Notes retrieved"))
}

// SetNote replaces the caller's note
func (c *StoryController) SetNote(ctx *gin.Context) {
	var req dto.CreateNoteRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	note, err := c.stories.AddNote(ctx.Request.Context(), req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(note, "Note saved"))
}

// DeleteNote removes the caller's note
func (c *StoryController) DeleteNote(ctx *gin.Context) {
	if err := c.stories.DeleteNote(ctx.Request.Context()); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Note deleted"))
}
