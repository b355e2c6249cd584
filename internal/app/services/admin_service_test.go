package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

func TestLastAdminCannotBeRevoked(t *testing.T) {
	f := newFixture(t)
	admin := f.loginAdmin(t)

	_, err := f.portal.Admin.ToggleAdminStatus(f.ctx, admin.ID)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, "Cannot revoke status from the only admin.", err.Error())
	assert.True(t, userByID(t, f, admin.ID).IsAdmin)

	current, _ := f.portal.Session.Current()
	assert.True(t, current.IsAdmin)
}

func TestToggleAdminStatusNotifiesAndRefreshes(t *testing.T) {
	f := newFixture(t)
	a := f.signup(t, "asha")
	admin := f.loginAdmin(t)

	granted, err := f.portal.Admin.ToggleAdminStatus(f.ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, granted.IsAdmin)

	// with two admins the original one may step down, and the session sees it at once
	revoked, err := f.portal.Admin.ToggleAdminStatus(f.ctx, admin.ID)
	require.NoError(t, err)
	assert.False(t, revoked.IsAdmin)
	current, _ := f.portal.Session.Current()
	assert.False(t, current.IsAdmin)

	_, err = f.portal.Admin.Stats()
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	list := f.notificationsOf(t, "asha")
	require.Len(t, list, 1)
	assert.Equal(t, "Your admin status has been granted.", list[0].Message)
	assert.Equal(t, "/profile", list[0].Link)
}

func TestNonAdminCannotToggle(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "asha")
	_, err := f.portal.Admin.ToggleAdminStatus(f.ctx, models.PrimaryAdminID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	a := f.signup(t, "asha")
	b := f.signup(t, "bala")
	befriend(t, f, "asha", "bala")
	admin := f.loginAdmin(t)

	err := f.portal.Admin.DeleteUser(f.ctx, admin.ID)
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, "Cannot delete your own account.", err.Error())

	require.NoError(t, f.portal.Admin.DeleteUser(f.ctx, a.ID))
	assert.ErrorIs(t, f.portal.Admin.DeleteUser(f.ctx, a.ID), apperrors.ErrNotFound)

	_, ok := f.portal.state.repos.Users.GetByID(a.ID)
	assert.False(t, ok)
	_, ok = f.portal.state.repos.Credentials.GetHash(a.ID)
	assert.False(t, ok)

	// references held by other users are left in place
	assert.Contains(t, userByID(t, f, b.ID).Friends, a.ID)
}

func TestStatsAndDeleteContent(t *testing.T) {
	f := newFixture(t)
	f.loginAdmin(t)

	notice, err := f.portal.Content.AddNotice(f.ctx, models.NoticeInput{Title: "Exams", Category: models.NoticeExam})
	require.NoError(t, err)
	placement, err := f.portal.Content.AddPlacement(f.ctx, models.PlacementInput{CompanyName: "Acme", Role: "SDE"})
	require.NoError(t, err)
	_, err = f.portal.Content.AddTopic(f.ctx, models.TopicInput{Title: "Hi"})
	require.NoError(t, err)

	stats, err := f.portal.Admin.Stats()
	require.NoError(t, err)
	assert.Equal(t, models.AdminStats{Users: 1, Notices: 1, Topics: 1, Placement: 1}, stats)

	require.NoError(t, f.portal.Admin.DeleteContent(f.ctx, models.KindNotice, notice.ID))
	require.NoError(t, f.portal.Admin.DeleteContent(f.ctx, models.KindPlacement, placement.ID))
	assert.ErrorIs(t, f.portal.Admin.DeleteContent(f.ctx, models.KindEvent, "missing"), apperrors.ErrNotFound)
	assert.ErrorIs(t, f.portal.Admin.DeleteContent(f.ctx, "poll", "x"), apperrors.ErrValidation)

	stats, err = f.portal.Admin.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.Notices)
	assert.Zero(t, stats.Placement)
	assert.Equal(t, 1, stats.Topics)

	users, err := f.portal.Admin.Users()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
