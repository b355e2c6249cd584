package repositories

import (
	"context"
	"slices"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/kvstore"
)

// NotificationLimit caps every queue
const NotificationLimit = 20

// NotificationRepository keeps one newest-first queue per user
type NotificationRepository struct {
	store  *kvstore.Store
	queues map[string][]models.Notification
}

// NewNotificationRepository loads the notification queues
func NewNotificationRepository(ctx context.Context, store *kvstore.Store) *NotificationRepository {
	queues := kvstore.Load(ctx, store, kvstore.KeyNotifications, map[string][]models.Notification{})
	if queues == nil {
		queues = map[string][]models.Notification{}
	}
	return &NotificationRepository{store: store, queues: queues}
}

// List returns userID's queue, newest first
func (r *NotificationRepository) List(userID string) []models.Notification {
	out := slices.Clone(r.queues[userID])
	if out == nil {
		out = []models.Notification{}
	}
	return out
}

// UnreadCount returns how many of userID's notifications are unread
func (r *NotificationRepository) UnreadCount(userID string) int {
	count := 0
	for _, n := range r.queues[userID] {
		if !n.Read {
			count++
		}
	}
	return count
}

// Push prepends n to userID's queue and drops anything beyond NotificationLimit
func (r *NotificationRepository) Push(ctx context.Context, userID string, n models.Notification) models.Notification {
	if n.ID == "" {
		n.ID = NewID()
	}
	queue := append([]models.Notification{n}, r.queues[userID]...)
	if len(queue) > NotificationLimit {
		queue = queue[:NotificationLimit]
	}
	r.queues[userID] = queue
	r.save(ctx)
	return n
}

// MarkAllRead flags every notification of userID as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) {
	queue := slices.Clone(r.queues[userID])
	if len(queue) == 0 {
		return
	}
	for i := range queue {
		queue[i].Read = true
	}
	r.queues[userID] = queue
	r.save(ctx)
}

// Clear drops userID's queue
func (r *NotificationRepository) Clear(ctx context.Context, userID string) {
	if _, ok := r.queues[userID]; !ok {
		return
	}
	delete(r.queues, userID)
	r.save(ctx)
}

func (r *NotificationRepository) save(ctx context.Context) {
	r.store.Save(ctx, kvstore.KeyNotifications, r.queues)
}
