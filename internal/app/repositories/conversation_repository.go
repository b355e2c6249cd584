package repositories

import (
	"context"
	"slices"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/helpers"
	"github.com/yigit/collegeportal/internal/pkg/kvstore"
)

// ConversationID is the sorted pair of user ids joined by "_".
// Ids may contain "_" themselves (the seeded admin does), so a conversation id is opaque:
// it is never split back into user ids, and Get checks the stored participants.
func ConversationID(a, b string) string {
	first, second := helpers.SortedPair(a, b)
	return first + "_" + second
}

// ConversationRepository handles direct message logs
type ConversationRepository struct {
	conversations *Collection[models.Conversation]
}

// NewConversationRepository loads the conversations collection
func NewConversationRepository(ctx context.Context, store *kvstore.Store) *ConversationRepository {
	return &ConversationRepository{conversations: LoadCollection[models.Conversation](ctx, store, kvstore.KeyConversations)}
}

func cloneConversation(c models.Conversation) models.Conversation {
	c.Participants = slices.Clone(c.Participants)
	c.Messages = slices.Clone(c.Messages)
	if c.Messages == nil {
		c.Messages = []models.DirectMessage{}
	}
	return c
}

// Get returns the conversation between a and b without creating it
func (r *ConversationRepository) Get(a, b string) (models.Conversation, bool) {
	c, ok := r.conversations.ByID(ConversationID(a, b))
	if !ok || !c.HasParticipant(a) || !c.HasParticipant(b) {
		return models.Conversation{}, false
	}
	return cloneConversation(c), true
}

// ForUser returns every conversation userID takes part in
func (r *ConversationRepository) ForUser(userID string) []models.Conversation {
	out := r.conversations.Filter(func(c models.Conversation) bool { return c.HasParticipant(userID) })
	for i := range out {
		out[i] = cloneConversation(out[i])
	}
	return out
}

// AppendMessage adds msg to the conversation between sender and peer, creating it on first use
func (r *ConversationRepository) AppendMessage(ctx context.Context, senderID, peerID string, msg models.DirectMessage) models.Conversation {
	id := ConversationID(senderID, peerID)
	if c, ok := r.conversations.Update(ctx, id, func(c *models.Conversation) {
		c.Messages = append(slices.Clone(c.Messages), msg)
	}); ok {
		return cloneConversation(c)
	}

	c := models.Conversation{
		ID:           id,
		Participants: []string{senderID, peerID},
		Messages:     []models.DirectMessage{msg},
	}
	r.conversations.Append(ctx, c)
	return cloneConversation(c)
}
