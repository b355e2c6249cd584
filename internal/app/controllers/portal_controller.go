package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/app/services"
	"github.com/yigit/collegeportal/internal/middleware"
)

// PortalController serves the cross-collection views: notifications, search and the home feed
type PortalController struct {
	notifications *services.NotificationService
	search        *services.SearchService
	feed          *services.FeedService
}

// NewPortalController creates a new PortalController
func NewPortalController(notifications *services.NotificationService, search *services.SearchService, feed *services.FeedService) *PortalController {
	return &PortalController{
		notifications: notifications,
		search:        search,
		feed:          feed,
	}
}

// Notifications lists the caller's notifications, newest first
// @Summary List notifications
// @Tags notifications
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=[]models.Notification}
// @Router /notifications [get]
func (c *PortalController) Notifications(ctx *gin.Context) {
	list, err := c.notifications.List()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(list, "Notifications retrieved"))
}

// UnreadCount returns the number of unread notifications
func (c *PortalController) UnreadCount(ctx *gin.Context) {
	n, err := c.notifications.UnreadCount()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.CountResponse{Count: n}, "Unread count"))
}

// MarkAllRead marks every notification as read
func (c *PortalController) MarkAllRead(ctx *gin.Context) {
	if err := c.notifications.MarkAllRead(ctx.Request.Context()); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Notifications marked as read"))
}

// Search matches q against users, topics, resources and events
// @Summary Search the portal
// @Tags search
// @Security BearerAuth
// @Param q query string false "Search text"
// @Success 200 {object} dto.StructuredResponse{data=models.SearchResults}
// @Router /search [get]
func (c *PortalController) Search(ctx *gin.Context) {
	results := c.search.Search(ctx.Query("q"))
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(results, "Search results"))
}

// HomeFeed returns the newest notices, events and topics
func (c *PortalController) HomeFeed(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(c.feed.HomeFeed(), "Feed retrieved"))
}
