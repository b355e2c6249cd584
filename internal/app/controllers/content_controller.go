package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/app/services"
	"github.com/yigit/collegeportal/internal/middleware"
)

// ContentController handles notices, the forum, resources, events, the marketplace and placements
type ContentController struct {
	content *services.ContentService
	logger  zerolog.Logger
}

// NewContentController creates a new ContentController
func NewContentController(content *services.ContentService, logger zerolog.Logger) *ContentController {
	return &ContentController{content: content, logger: logger}
}

func (c *ContentController) deleted(ctx *gin.Context, del func(context.Context, string) error, what string) {
	id := ctx.Param("id")
	if err := del(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Str("id", id).Msg(what + " deleted")
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, what+" deleted"))
}

// Notices

// Notices lists the notice board
// @Summary List notices
// @Tags notices
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=[]models.Notice}
// @Router /notices [get]
func (c *ContentController) Notices(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(c.content.Notices(), "Notices retrieved"))
}

// CreateNotice posts a notice. Administrators only.
// @Summary Post a notice
// @Tags notices
// @Security BearerAuth
// @Param request body dto.CreateNoticeRequest true "Notice"
// @Success 201 {object} dto.StructuredResponse{data=models.Notice}
// @Failure 403 {object} dto.ErrorResponse "Not an administrator"
// @Router /notices [post]
func (c *ContentController) CreateNotice(ctx *gin.Context) {
	var req dto.CreateNoticeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	notice, err := c.content.AddNotice(ctx.Request.Context(), req.ToInput())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(notice, "Notice posted"))
}

// UpdateNotice edits a notice
func (c *ContentController) UpdateNotice(ctx *gin.Context) {
	var patch models.NoticePatch
	if !middleware.BindJSON(ctx, &patch) {
		return
	}
	notice, err := c.content.UpdateNotice(ctx.Request.Context(), ctx.Param("id"), patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(notice, "Notice updated"))
}

// DeleteNotice removes a notice
func (c *ContentController) DeleteNotice(ctx *gin.Context) {
	c.deleted(ctx, c.content.DeleteNotice, "Notice")
}

// Forum

// Topics lists forum topics
func (c *ContentController) Topics(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(c.content.Topics(), "Topics retrieved"))
}

// GetTopic returns one topic with its replies
// @Summary Get a topic
// @Tags forum
// @Security BearerAuth
// @Param id path string true "Topic ID"
// @Success 200 {object} dto.StructuredResponse{data=models.Topic}
// @Failure 404 {object} dto.ErrorResponse "Topic not found"
// @Router /topics/{id} [get]
func (c *ContentController) GetTopic(ctx *gin.Context) {
	topic, err := c.content.Topic(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(topic, "Topic retrieved"))
}

// TopicsByAuthor lists the newest topics of the user in the path
func (c *ContentController) TopicsByAuthor(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "5"))
	if err != nil || limit < 0 {
		middleware.AbortWithError(ctx, http.StatusBadRequest, dto.ErrorCodeInvalidRequest, "limit must be a non-negative number")
		return
	}
	topics := c.content.TopicsByAuthor(ctx.Param("userId"), limit)
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(topics, "Topics retrieved"))
}

// CreateTopic opens a topic
func (c *ContentController) CreateTopic(ctx *gin.Context) {
	var req dto.CreateTopicRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	topic, err := c.content.AddTopic(ctx.Request.Context(), req.ToInput())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(topic, "Topic created"))
}

// UpdateTopic edits a topic
func (c *ContentController) UpdateTopic(ctx *gin.Context) {
	var patch models.TopicPatch
	if !middleware.BindJSON(ctx, &patch) {
		return
	}
	topic, err := c.content.UpdateTopic(ctx.Request.Context(), ctx.Param("id"), patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(topic, "Topic updated"))
}

// DeleteTopic removes a topic
func (c *ContentController) DeleteTopic(ctx *gin.Context) {
	c.deleted(ctx, c.content.DeleteTopic, "Topic")
}

// CreateReply answers a topic
// @Summary Reply to a topic
// @Tags forum
// @Security BearerAuth
// @Param id path string true "Topic ID"
// @Param request body dto.CreateReplyRequest true "Reply"
// @Success 201 {object} dto.StructuredResponse{data=models.Reply}
// @Router /topics/{id}/replies [post]
func (c *ContentController) CreateReply(ctx *gin.Context) {
	var req dto.CreateReplyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	reply, err := c.content.AddReply(ctx.Request.Context(), ctx.Param("id"), req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(reply, "Reply posted"))
}

// ToggleTopicLike likes or unlikes a topic
func (c *ContentController) ToggleTopicLike(ctx *gin.Context) {
	topic, liked, err := c.content.ToggleTopicLike(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.ToggleResponse{Active: liked, Item: topic}, "Like toggled"))
}

// VoteTopic votes on a topic
func (c *ContentController) VoteTopic(ctx *gin.Context) {
	var req dto.VoteRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	topic, err := c.content.VoteTopic(ctx.Request.Context(), ctx.Param("id"), models.VoteDirection(req.Direction))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(topic, "Vote recorded"))
}

// VoteReply votes on a reply
func (c *ContentController) VoteReply(ctx *gin.Context) {
	var req dto.VoteRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	reply, err := c.content.VoteReply(ctx.Request.Context(), ctx.Param("id"), ctx.Param("replyId"), models.VoteDirection(req.Direction))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(reply, "Vote recorded"))
}

// Resources

// Resources lists shared resources
func (c *ContentController) Resources(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(c.content.Resources(), "Resources retrieved"))
}

// CreateResource shares a resource
func (c *ContentController) CreateResource(ctx *gin.Context) {
	var req dto.CreateResourceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	resource, err := c.content.AddResource(ctx.Request.Context(), req.ToInput())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(resource, "Resource shared"))
}

// DeleteResource removes a resource
func (c *ContentController) DeleteResource(ctx *gin.Context) {
	c.deleted(ctx, c.content.DeleteResource, "Resource")
}

// Events

// Events lists campus events
func (c *ContentController) Events(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(c.content.Events(), "Events retrieved"))
}

// CreateEvent schedules an event
func (c *ContentController) CreateEvent(ctx *gin.Context) {
	var req dto.CreateEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	event, err := c.content.AddEvent(ctx.Request.Context(), req.ToInput())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(event, "Event created"))
}

// UpdateEvent edits an event
func (c *ContentController) UpdateEvent(ctx *gin.Context) {
	var patch models.EventPatch
	if !middleware.BindJSON(ctx, &patch) {
		return
	}
	event, err := c.content.UpdateEvent(ctx.Request.Context(), ctx.Param("id"), patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(event, "Event updated"))
}

// DeleteEvent removes an event
func (c *ContentController) DeleteEvent(ctx *gin.Context) {
	c.deleted(ctx, c.content.DeleteEvent, "Event")
}

// ToggleRSVP marks or unmarks attendance
func (c *ContentController) ToggleRSVP(ctx *gin.Context) {
	event, attending, err := c.content.ToggleRSVP(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.ToggleResponse{Active: attending, Item: event}, "RSVP toggled"))
}

// Marketplace

// MarketItems lists marketplace listings
func (c *ContentController) MarketItems(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(c.content.MarketItems(), "Listings retrieved"))
}

// CreateMarketItem lists an item for sale
// @Summary List an item
// @Tags marketplace
// @Security BearerAuth
// @Param request body dto.CreateMarketItemRequest true "Listing"
// @Success 201 {object} dto.StructuredResponse{data=models.MarketItem}
// @Router /marketplace [post]
func (c *ContentController) CreateMarketItem(ctx *gin.Context) {
	var req dto.CreateMarketItemRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	item, err := c.content.AddMarketItem(ctx.Request.Context(), req.ToInput())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(item, "Item listed"))
}

// DeleteMarketItem removes a listing
func (c *ContentController) DeleteMarketItem(ctx *gin.Context) {
	c.deleted(ctx, c.content.DeleteMarketItem, "Item")
}

// Placements

// Placements lists placement drives
func (c *ContentController) Placements(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(c.content.Placements(), "Placements retrieved"))
}

// CreatePlacement announces a placement drive
func (c *ContentController) CreatePlacement(ctx *gin.Context) {
	var req dto.CreatePlacementRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	placement, err := c.content.AddPlacement(ctx.Request.Context(), req.ToInput())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(placement, "Placement created"))
}

// UpdatePlacement edits a placement
func (c *ContentController) UpdatePlacement(ctx *gin.Context) {
	var patch models.PlacementPatch
	if !middleware.BindJSON(ctx, &patch) {
		return
	}
	placement, err := c.content.UpdatePlacement(ctx.Request.Context(), ctx.Param("id"), patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(placement, "Placement updated"))
}

// DeletePlacement removes a placement
func (c *ContentController) DeletePlacement(ctx *gin.Context) {
	c.deleted(ctx, c.content.DeletePlacement, "Placement")
}

// ToggleInterest marks or unmarks interest in a placement
func (c *ContentController) ToggleInterest(ctx *gin.Context) {
	placement, interested, err := c.content.ToggleInterest(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.ToggleResponse{Active: interested, Item: placement}, "Interest toggled"))
}
