package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

// AdminService holds administrator-only operations
type AdminService struct {
	st      *portalState
	content *ContentService
	logger  zerolog.Logger
}

// Stats counts the main collections
func (s *AdminService) Stats() (models.AdminStats, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if _, err := s.st.requireAdmin(); err != nil {
		return models.AdminStats{}, err
	}
	r := s.st.repos
	return models.AdminStats{
		Users:     r.Users.Count(),
		Notices:   r.Notices.Count(),
		Topics:    r.Topics.Count(),
		Resources: r.Resources.Count(),
		Events:    r.Events.Count(),
		Market:    r.Market.Count(),
		Placement: r.Placements.Count(),
	}, nil
}

// Users lists every account
func (s *AdminService) Users() ([]models.User, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if _, err := s.st.requireAdmin(); err != nil {
		return nil, err
	}
	return s.st.repos.Users.GetAll(), nil
}

// ToggleAdminStatus grants or revokes administrator rights of userID.
// The last remaining administrator cannot be revoked.
func (s *AdminService) ToggleAdminStatus(ctx context.Context, userID string) (models.User, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if _, err := s.st.requireAdmin(); err != nil {
		return models.User{}, err
	}
	target, ok := s.st.repos.Users.GetByID(userID)
	if !ok {
		return models.User{}, apperrors.NewNotFoundError("User not found")
	}
	if target.IsAdmin && s.st.repos.Users.CountAdmins() <= 1 {
		return models.User{}, apperrors.NewUnauthorizedError("Cannot revoke status from the only admin.")
	}

	updated, _ := s.st.repos.Users.Update(ctx, userID, func(u *models.User) { u.IsAdmin = !u.IsAdmin })
	s.st.refreshActive(ctx)

	msg := "Your admin status has been revoked."
	if updated.IsAdmin {
		msg = "Your admin status has been granted."
	}
	s.st.notify(ctx, updated.ID, msg, "/profile")

	s.logger.Info().Str("userID", updated.ID).Bool("isAdmin", updated.IsAdmin).Msg("Admin status changed")
	return updated, nil
}

// DeleteUser removes an account and its credential.
// Topics, replies, conversations and friend lists of other users keep their references.
func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	admin, err := s.st.requireAdmin()
	if err != nil {
		return err
	}
	if admin.ID == userID {
		return apperrors.NewUnauthorizedError("Cannot delete your own account.")
	}
	if !s.st.repos.Users.Delete(ctx, userID) {
		return apperrors.NewNotFoundError("User not found")
	}
	s.st.repos.Credentials.Delete(ctx, userID)
	s.st.repos.Notifications.Clear(ctx, userID)

	s.logger.Info().Str("userID", userID).Str("by", admin.ID).Msg("User deleted")
	return nil
}

// DeleteContent removes one item of any board by kind
func (s *AdminService) DeleteContent(ctx context.Context, kind models.ContentKind, id string) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if _, err := s.st.requireAdmin(); err != nil {
		return err
	}
	return s.content.deleteByKind(ctx, kind, id)
}
