package services

import (
	"context"

	"github.com/yigit/collegeportal/internal/app/models"
)

// NotificationService manages per-user notification queues
type NotificationService struct {
	st *portalState
}

// Notify queues a notification for targetID
func (s *NotificationService) Notify(ctx context.Context, targetID, message, link string) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	s.st.notify(ctx, targetID, message, link)
}

// List returns the session user's notifications, newest first
func (s *NotificationService) List() ([]models.Notification, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	user, err := s.st.requireActive()
	if err != nil {
		return nil, err
	}
	return s.st.repos.Notifications.List(user.ID), nil
}

// UnreadCount returns how many of the session user's notifications are unread
func (s *NotificationService) UnreadCount() (int, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	user, err := s.st.requireActive()
	if err != nil {
		return 0, err
	}
	return s.st.repos.Notifications.UnreadCount(user.ID), nil
}

// MarkAllRead flags every notification of the session user as read
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	user, err := s.st.requireActive()
	if err != nil {
		return err
	}
	s.st.repos.Notifications.MarkAllRead(ctx, user.ID)
	return nil
}

// notify prepends a notification to targetID's queue, keeping the newest 20.
// In active-session-only mode notifications for anyone but the session user are dropped.
func (st *portalState) notify(ctx context.Context, targetID, message, link string) {
	if st.activeSessionOnly && !st.isActive(targetID) {
		st.logger.Debug().Str("targetID", targetID).Msg("Dropping notification for inactive user")
		return
	}
	n := st.repos.Notifications.Push(ctx, targetID, models.Notification{
		Message:   message,
		Link:      link,
		Timestamp: st.now(),
	})
	st.push(targetID, PushNotification, n)
}
