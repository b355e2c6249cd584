package services

import (
	"context"
	"slices"

	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

// SocialService handles the friend graph of the session user
type SocialService struct {
	st     *portalState
	logger zerolog.Logger
}

// peer resolves peerID for a pairwise transition
func (s *SocialService) peer(me models.User, peerID string) (models.User, error) {
	if peerID == me.ID {
		return models.User{}, apperrors.NewValidationError("You cannot do that with yourself.")
	}
	peer, ok := s.st.repos.Users.GetByID(peerID)
	if !ok {
		return models.User{}, apperrors.NewNotFoundError("User not found")
	}
	return peer, nil
}

// SendFriendRequest asks peerID to become a friend
func (s *SocialService) SendFriendRequest(ctx context.Context, peerID string) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return err
	}
	peer, err := s.peer(me, peerID)
	if err != nil {
		return err
	}

	switch {
	case containsID(me.Friends, peer.ID):
		return apperrors.NewConflictError("You are already friends.")
	case containsID(me.FriendRequestsSent, peer.ID):
		return apperrors.NewConflictError("Friend request already sent.")
	case containsID(me.FriendRequestsReceived, peer.ID):
		return apperrors.NewConflictError("This user has already sent you a friend request.")
	}

	s.st.repos.Users.UpdatePair(ctx, me.ID, peer.ID, func(sender, recipient *models.User) {
		sender.FriendRequestsSent = withID(sender.FriendRequestsSent, recipient.ID)
		recipient.FriendRequestsReceived = withID(recipient.FriendRequestsReceived, sender.ID)
	})
	s.st.refreshActive(ctx)
	s.st.notify(ctx, peer.ID, me.Name+" sent you a friend request.", "/friends")

	s.logger.Info().Str("from", me.ID).Str("to", peer.ID).Msg("Friend request sent")
	return nil
}

// AcceptFriendRequest accepts the pending request from senderID
func (s *SocialService) AcceptFriendRequest(ctx context.Context, senderID string) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return err
	}
	sender, err := s.peer(me, senderID)
	if err != nil {
		return err
	}
	if !containsID(me.FriendRequestsReceived, sender.ID) {
		return apperrors.NewConflictError("No pending friend request from this user.")
	}

	s.st.repos.Users.UpdatePair(ctx, me.ID, sender.ID, func(recipient, requester *models.User) {
		recipient.Friends = withID(recipient.Friends, requester.ID)
		recipient.FriendRequestsReceived = withoutID(recipient.FriendRequestsReceived, requester.ID)
		requester.Friends = withID(requester.Friends, recipient.ID)
		requester.FriendRequestsSent = withoutID(requester.FriendRequestsSent, recipient.ID)
	})
	s.st.refreshActive(ctx)
	s.st.notify(ctx, sender.ID, me.Name+" accepted your friend request.", "/friends")

	s.logger.Info().Str("userID", me.ID).Str("friendID", sender.ID).Msg("Friend request accepted")
	return nil
}

// DeclineFriendRequest drops the pending request from senderID
func (s *SocialService) DeclineFriendRequest(ctx context.Context, senderID string) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return err
	}
	sender, err := s.peer(me, senderID)
	if err != nil {
		return err
	}
	if !containsID(me.FriendRequestsReceived, sender.ID) {
		return apperrors.NewConflictError("No pending friend request from this user.")
	}

	s.st.repos.Users.UpdatePair(ctx, me.ID, sender.ID, func(recipient, requester *models.User) {
		recipient.FriendRequestsReceived = withoutID(recipient.FriendRequestsReceived, requester.ID)
		requester.FriendRequestsSent = withoutID(requester.FriendRequestsSent, recipient.ID)
	})
	s.st.refreshActive(ctx)
	return nil
}

// RemoveFriend ends the friendship with friendID
func (s *SocialService) RemoveFriend(ctx context.Context, friendID string) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return err
	}
	friend, err := s.peer(me, friendID)
	if err != nil {
		return err
	}
	if !containsID(me.Friends, friend.ID) {
		return apperrors.NewConflictError("You are not friends with this user.")
	}

	s.st.repos.Users.UpdatePair(ctx, me.ID, friend.ID, func(a, b *models.User) {
		a.Friends = withoutID(a.Friends, b.ID)
		b.Friends = withoutID(b.Friends, a.ID)
	})
	s.st.refreshActive(ctx)
	return nil
}

// Friends returns the session user's friends
func (s *SocialService) Friends() ([]models.User, error) {
	return s.listed(func(me models.User) []string { return me.Friends })
}

// IncomingRequests returns the users waiting for the session user's answer
func (s *SocialService) IncomingRequests() ([]models.User, error) {
	return s.listed(func(me models.User) []string { return me.FriendRequestsReceived })
}

// OutgoingRequests returns the users the session user is waiting on
func (s *SocialService) OutgoingRequests() ([]models.User, error) {
	return s.listed(func(me models.User) []string { return me.FriendRequestsSent })
}

// Suggestions returns users with no relationship to the session user
func (s *SocialService) Suggestions() ([]models.User, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return nil, err
	}
	return s.st.repos.Users.Filter(func(u models.User) bool {
		return u.ID != me.ID &&
			!containsID(me.Friends, u.ID) &&
			!containsID(me.FriendRequestsSent, u.ID) &&
			!containsID(me.FriendRequestsReceived, u.ID)
	}), nil
}

func (s *SocialService) listed(ids func(models.User) []string) ([]models.User, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return nil, err
	}
	wanted := ids(me)
	return s.st.repos.Users.Filter(func(u models.User) bool { return containsID(wanted, u.ID) }), nil
}

func containsID(ids []string, id string) bool {
	return slices.Contains(ids, id)
}

// withID returns a copy of ids that contains id exactly once
func withID(ids []string, id string) []string {
	if containsID(ids, id) {
		return slices.Clone(ids)
	}
	return append(slices.Clone(ids), id)
}

// withoutID returns a copy of ids without id
func withoutID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
