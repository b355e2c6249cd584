package repositories

import (
	"context"
	"time"

	"github.com/yigit/collegeportal/internal/pkg/kvstore"
)

// Repositories holds all the repository instances
type Repositories struct {
	Users         *UserRepository
	Credentials   *CredentialRepository
	Notices       *NoticeRepository
	Topics        *TopicRepository
	Resources     *ResourceRepository
	Events        *EventRepository
	Market        *MarketRepository
	Placements    *PlacementRepository
	Stories       *StoryRepository
	Notes         *NoteRepository
	Notifications *NotificationRepository
	Conversations *ConversationRepository
}

// NewRepositories loads every collection from store. Ephemeral content expired at now is dropped.
func NewRepositories(ctx context.Context, store *kvstore.Store, now time.Time) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(ctx, store),
		Credentials:   NewCredentialRepository(ctx, store),
		Notices:       NewNoticeRepository(ctx, store),
		Topics:        NewTopicRepository(ctx, store),
		Resources:     NewResourceRepository(ctx, store),
		Events:        NewEventRepository(ctx, store),
		Market:        NewMarketRepository(ctx, store),
		Placements:    NewPlacementRepository(ctx, store),
		Stories:       NewStoryRepository(ctx, store, now),
		Notes:         NewNoteRepository(ctx, store, now),
		Notifications: NewNotificationRepository(ctx, store),
		Conversations: NewConversationRepository(ctx, store),
	}
}
