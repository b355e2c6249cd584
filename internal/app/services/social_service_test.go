package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

func userByID(t *testing.T, f *fixture, id string) models.User {
	t.Helper()
	u, ok := f.portal.state.repos.Users.GetByID(id)
	require.True(t, ok)
	return u
}

func assertSymmetric(t *testing.T, f *fixture, a, b string) {
	t.Helper()
	ua, ub := userByID(t, f, a), userByID(t, f, b)
	assert.Equal(t, containsID(ua.Friends, b), containsID(ub.Friends, a), "friend edge must be symmetric")
	assert.Equal(t, containsID(ua.FriendRequestsSent, b), containsID(ub.FriendRequestsReceived, a))
	assert.Equal(t, containsID(ub.FriendRequestsSent, a), containsID(ua.FriendRequestsReceived, b))
}

func TestFriendRequestLifecycle(t *testing.T) {
	f := newFixture(t)
	a := f.signup(t, "asha")
	b := f.signup(t, "bala")

	f.loginAs(t, "asha")
	require.NoError(t, f.portal.Social.SendFriendRequest(f.ctx, b.ID))
	assertSymmetric(t, f, a.ID, b.ID)

	me, _ := f.portal.Session.Current()
	assert.Equal(t, []string{b.ID}, me.FriendRequestsSent, "session view is refreshed")

	f.loginAs(t, "bala")
	incoming, err := f.portal.Social.IncomingRequests()
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, a.ID, incoming[0].ID)

	require.NoError(t, f.portal.Social.AcceptFriendRequest(f.ctx, a.ID))
	assertSymmetric(t, f, a.ID, b.ID)
	ua, ub := userByID(t, f, a.ID), userByID(t, f, b.ID)
	assert.Equal(t, []string{b.ID}, ua.Friends)
	assert.Equal(t, []string{a.ID}, ub.Friends)
	assert.Empty(t, ua.FriendRequestsSent)
	assert.Empty(t, ub.FriendRequestsReceived)

	friends, err := f.portal.Social.Friends()
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, a.ID, friends[0].ID)

	require.NoError(t, f.portal.Social.RemoveFriend(f.ctx, a.ID))
	assertSymmetric(t, f, a.ID, b.ID)
	assert.Empty(t, userByID(t, f, a.ID).Friends)
	assert.Empty(t, userByID(t, f, b.ID).Friends)
}

func TestDeclineFriendRequest(t *testing.T) {
	f := newFixture(t)
	a := f.signup(t, "asha")
	b := f.signup(t, "bala")

	f.loginAs(t, "asha")
	require.NoError(t, f.portal.Social.SendFriendRequest(f.ctx, b.ID))

	f.loginAs(t, "bala")
	require.NoError(t, f.portal.Social.DeclineFriendRequest(f.ctx, a.ID))
	assertSymmetric(t, f, a.ID, b.ID)
	assert.Empty(t, userByID(t, f, a.ID).FriendRequestsSent)
	assert.Empty(t, userByID(t, f, b.ID).FriendRequestsReceived)
	assert.Empty(t, userByID(t, f, b.ID).Friends)
}

func TestInvalidFriendTransitionsAreRejected(t *testing.T) {
	f := newFixture(t)
	a := f.signup(t, "asha")
	b := f.signup(t, "bala")

	f.loginAs(t, "asha")
	assert.ErrorIs(t, f.portal.Social.SendFriendRequest(f.ctx, a.ID), apperrors.ErrValidation)
	assert.ErrorIs(t, f.portal.Social.SendFriendRequest(f.ctx, "ghost"), apperrors.ErrNotFound)
	assert.ErrorIs(t, f.portal.Social.AcceptFriendRequest(f.ctx, b.ID), apperrors.ErrConflict)
	assert.ErrorIs(t, f.portal.Social.RemoveFriend(f.ctx, b.ID), apperrors.ErrConflict)

	require.NoError(t, f.portal.Social.SendFriendRequest(f.ctx, b.ID))
	err := f.portal.Social.SendFriendRequest(f.ctx, b.ID)
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, "Friend request already sent.", err.Error())
	assert.Len(t, userByID(t, f, b.ID).FriendRequestsReceived, 1, "duplicate must not add a second entry")

	f.loginAs(t, "bala")
	err = f.portal.Social.SendFriendRequest(f.ctx, a.ID)
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, "This user has already sent you a friend request.", err.Error())

	require.NoError(t, f.portal.Social.AcceptFriendRequest(f.ctx, a.ID))
	err = f.portal.Social.SendFriendRequest(f.ctx, a.ID)
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, "You are already friends.", err.Error())
	assertSymmetric(t, f, a.ID, b.ID)
}

func TestFriendNotifications(t *testing.T) {
	f := newFixture(t)
	a := f.signup(t, "asha")
	b := f.signup(t, "bala")

	f.loginAs(t, "asha")
	require.NoError(t, f.portal.Social.SendFriendRequest(f.ctx, b.ID))
	f.loginAs(t, "bala")
	require.NoError(t, f.portal.Social.AcceptFriendRequest(f.ctx, a.ID))

	got := f.notificationsOf(t, "bala")
	require.Len(t, got, 1)
	assert.Equal(t, "Asha sent you a friend request.", got[0].Message)
	assert.Equal(t, "/friends", got[0].Link)

	got = f.notificationsOf(t, "asha")
	require.Len(t, got, 1)
	assert.Equal(t, "Bala accepted your friend request.", got[0].Message)

	assert.Len(t, f.pusher.to(b.ID, PushNotification), 1)
	assert.Len(t, f.pusher.to(a.ID, PushNotification), 1)
}

func TestSuggestionsExcludeRelatedUsers(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "asha")
	b := f.signup(t, "bala")
	c := f.signup(t, "chitra")

	f.loginAs(t, "asha")
	require.NoError(t, f.portal.Social.SendFriendRequest(f.ctx, b.ID))

	suggestions, err := f.portal.Social.Suggestions()
	require.NoError(t, err)
	ids := make([]string, 0, len(suggestions))
	for _, u := range suggestions {
		ids = append(ids, u.ID)
	}
	assert.ElementsMatch(t, []string{models.PrimaryAdminID, c.ID}, ids)
}
