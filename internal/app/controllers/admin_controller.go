package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/app/services"
	"github.com/yigit/collegeportal/internal/middleware"
)

// AdminController handles the administration panel
type AdminController struct {
	admin  *services.AdminService
	logger zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(admin *services.AdminService, logger zerolog.Logger) *AdminController {
	return &AdminController{admin: admin, logger: logger}
}

// Stats counts the main collections
// @Summary Portal statistics
// @Tags admin
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=models.AdminStats}
// @Router /admin/stats [get]
func (c *AdminController) Stats(ctx *gin.Context) {
	stats, err := c.admin.Stats()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(stats, "Statistics"))
}

// Users lists every user
func (c *AdminController) Users(ctx *gin.Context) {
	users, err := c.admin.Users()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(users, "Users retrieved"))
}

// ToggleAdmin grants or revokes administrator status
// @Summary Toggle admin status
// @Tags admin
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} dto.StructuredResponse{data=models.User}
// @Failure 403 {object} dto.ErrorResponse "Cannot revoke the only admin"
// @Router /admin/users/{userId}/admin [post]
func (c *AdminController) ToggleAdmin(ctx *gin.Context) {
	user, err := c.admin.ToggleAdminStatus(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Str("userID", user.ID).Bool("isAdmin", user.IsAdmin).Msg("Admin status changed")
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(user, "Admin status updated"))
}

// DeleteUser removes a user account
func (c *AdminController) DeleteUser(ctx *gin.Context) {
	userID := ctx.Param("userId")
	if err := c.admin.DeleteUser(ctx.Request.Context(), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Str("userID", userID).Msg("User deleted by admin")
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "User deleted"))
}

// DeleteContent removes any item of the kind in the path
// @Summary Delete content
// @Tags admin
// @Security BearerAuth
// @Param kind path string true "notice, topic, resource, event, marketplace or placement"
// @Param id path string true "Item ID"
// @Success 200 {object} dto.StructuredResponse
// @Router /admin/content/{kind}/{id} [delete]
func (c *AdminController) DeleteContent(ctx *gin.Context) {
	kind, err := models.ParseContentKind(ctx.Param("kind"))
	if err != nil {
		middleware.AbortWithError(ctx, http.StatusBadRequest, dto.ErrorCodeInvalidRequest, err.Error())
		return
	}
	if err := c.admin.DeleteContent(ctx.Request.Context(), kind, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Content deleted"))
}
