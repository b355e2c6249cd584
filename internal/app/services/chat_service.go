package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/app/repositories"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
	"github.com/yigit/collegeportal/internal/pkg/validation"
)

// ChatService handles direct messages between two users
type ChatService struct {
	st     *portalState
	logger zerolog.Logger
}

// ConversationID is the id of the conversation between a and b, independent of order
func (s *ChatService) ConversationID(a, b string) string {
	return repositories.ConversationID(a, b)
}

// GetConversation returns the session user's conversation with peerID.
// A pair that never talked has no conversation and ok is false.
func (s *ChatService) GetConversation(peerID string) (models.Conversation, bool, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return models.Conversation{}, false, err
	}
	conv, ok := s.st.repos.Conversations.Get(me.ID, peerID)
	return conv, ok, nil
}

// Conversations lists every conversation of the session user
func (s *ChatService) Conversations() ([]models.Conversation, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return nil, err
	}
	return s.st.repos.Conversations.ForUser(me.ID), nil
}

// SendMessage appends text from the session user to the conversation with peerID
func (s *ChatService) SendMessage(ctx context.Context, peerID, text string) (models.DirectMessage, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return models.DirectMessage{}, err
	}
	return s.send(ctx, me.ID, peerID, text)
}

// SendDirectMessage sends text on behalf of senderID, who must be the session user.
// It backs messages arriving over a realtime connection.
func (s *ChatService) SendDirectMessage(ctx context.Context, senderID, peerID, text string) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if !s.st.isActive(senderID) {
		return apperrors.ErrNoActiveSession
	}
	_, err := s.send(ctx, senderID, peerID, text)
	return err
}

func (s *ChatService) send(ctx context.Context, senderID, peerID, text string) (models.DirectMessage, error) {
	text = validation.SanitizeText(text)
	if !validation.ValidMessage(text) {
		return models.DirectMessage{}, apperrors.NewValidationError("Message must be between 1 and 2000 characters.")
	}
	if peerID == senderID {
		return models.DirectMessage{}, apperrors.NewValidationError("You cannot message yourself.")
	}
	if _, ok := s.st.repos.Users.GetByID(peerID); !ok {
		return models.DirectMessage{}, apperrors.NewNotFoundError("User not found")
	}

	msg := models.DirectMessage{
		ID:        repositories.NewID(),
		SenderID:  senderID,
		Text:      text,
		Timestamp: s.st.now(),
	}
	conv := s.st.repos.Conversations.AppendMessage(ctx, senderID, peerID, msg)
	s.st.push(peerID, PushMessage, map[string]interface{}{
		"conversationId": conv.ID,
		"message":        msg,
	})

	s.logger.Debug().Str("conversationID", conv.ID).Str("senderID", senderID).Msg("Message sent")
	return msg, nil
}
