package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/app/services"
	"github.com/yigit/collegeportal/internal/middleware"
)

// UserController handles the friend graph of the logged in user
type UserController struct {
	social *services.SocialService
	logger zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(social *services.SocialService, logger zerolog.Logger) *UserController {
	return &UserController{social: social, logger: logger}
}

// Friends lists the friends of the logged in user
// @Summary List friends
// @Tags friends
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=[]models.User}
// @Router /friends [get]
func (c *UserController) Friends(ctx *gin.Context) {
	c.list(ctx, c.social.Friends, "Friends retrieved")
}

// IncomingRequests lists users who asked to be friends
func (c *UserController) IncomingRequests(ctx *gin.Context) {
	c.list(ctx, c.social.IncomingRequests, "Incoming requests retrieved")
}

// OutgoingRequests lists users the caller asked to be friends with
func (c *UserController) OutgoingRequests(ctx *gin.Context) {
	c.list(ctx, c.social.OutgoingRequests, "Outgoing requests retrieved")
}

// Suggestions lists users the caller has no relation with
func (c *UserController) Suggestions(ctx *gin.Context) {
	c.list(ctx, c.social.Suggestions, "Suggestions retrieved")
}

func (c *UserController) list(ctx *gin.Context, fetch func() ([]models.User, error), message string) {
	users, err := fetch()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(users, message))
}

// SendRequest sends a friend request to the user in the path
// @Summary Send a friend request
// @Tags friends
// @Security BearerAuth
// @Param userId path string true "Peer ID"
// @Success 200 {object} dto.StructuredResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Already friends or requested"
// @Router /friends/{userId}/request [post]
func (c *UserController) SendRequest(ctx *gin.Context) {
	c.transition(ctx, c.social.SendFriendRequest, "Friend request sent")
}

// AcceptRequest accepts the request sent by the user in the path
func (c *UserController) AcceptRequest(ctx *gin.Context) {
	c.transition(ctx, c.social.AcceptFriendRequest, "Friend request accepted")
}

// DeclineRequest declines the request sent by the user in the path
func (c *UserController) DeclineRequest(ctx *gin.Context) {
	c.transition(ctx, c.social.DeclineFriendRequest, "Friend request declined")
}

// RemoveFriend unfriends the user in the path
func (c *UserController) RemoveFriend(ctx *gin.Context) {
	c.transition(ctx, c.social.RemoveFriend, "Friend removed")
}

func (c *UserController) transition(ctx *gin.Context, apply func(context.Context, string) error, message string) {
	peerID := ctx.Param("userId")
	if err := apply(ctx.Request.Context(), peerID); err != nil {
		c.logger.Debug().Err(err).Str("peerID", peerID).Msg("Friend transition rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, message))
}
