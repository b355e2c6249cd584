package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/config"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
	"github.com/yigit/collegeportal/internal/pkg/auth"
	"github.com/yigit/collegeportal/internal/pkg/helpers"
	"github.com/yigit/collegeportal/internal/pkg/kvstore"
	"github.com/yigit/collegeportal/internal/seed"
)

var baseTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type pushed struct {
	userID    string
	eventType string
	payload   interface{}
}

type recordingPusher struct {
	mu     sync.Mutex
	events []pushed
}

func (p *recordingPusher) PushToUser(userID, eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, pushed{userID, eventType, payload})
}

func (p *recordingPusher) to(userID, eventType string) []pushed {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []pushed
	for _, e := range p.events {
		if e.userID == userID && e.eventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

type capturingMailer struct {
	to, name, url string
	err           error
}

func (m *capturingMailer) SendPasswordResetEmail(toEmail, toName, resetURL string) error {
	m.to, m.name, m.url = toEmail, toName, resetURL
	return m.err
}

type fixture struct {
	ctx    context.Context
	store  *kvstore.Store
	portal *Portal
	opts   PortalOptions
	setNow func(time.Time)
	pusher *recordingPusher
}

func newFixture(t *testing.T, tweak ...func(*PortalOptions)) *fixture {
	t.Helper()
	ctx := context.Background()
	store := kvstore.NewStore(kvstore.NewMemoryBackend(), zerolog.Nop())
	_, err := seed.Bootstrap(ctx, store, zerolog.Nop())
	require.NoError(t, err)

	clock, setNow := helpers.FixedClock(baseTime)
	pusher := &recordingPusher{}
	opts := PortalOptions{
		Clock:        clock,
		Logger:       zerolog.Nop(),
		Pusher:       pusher,
		Capabilities: config.Capabilities{AIChat: true, AIImage: true, AIFeed: true},
	}
	for _, fn := range tweak {
		fn(&opts)
	}
	return &fixture{
		ctx:    ctx,
		store:  store,
		portal: NewPortal(ctx, store, opts),
		opts:   opts,
		setNow: setNow,
		pusher: pusher,
	}
}

// reopen simulates a restart on the same storage
func (f *fixture) reopen() *Portal {
	return NewPortal(f.ctx, f.store, f.opts)
}

func (f *fixture) signup(t *testing.T, username string) models.User {
	t.Helper()
	u, err := f.portal.Session.Signup(f.ctx, models.SignupData{
		Name:     strings.ToUpper(username[:1]) + username[1:],
		Username: username,
		Email:    username + "@college.edu",
		Branch:   "CSE",
		Year:     2,
		Password: "secret123",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) loginAs(t *testing.T, username string) models.User {
	t.Helper()
	u, err := f.portal.Session.Login(f.ctx, username, "")
	require.NoError(t, err)
	return u
}

func (f *fixture) loginAdmin(t *testing.T) models.User {
	return f.loginAs(t, seed.PrimaryAdmin().Username)
}

func (f *fixture) notificationsOf(t *testing.T, username string) []models.Notification {
	t.Helper()
	f.loginAs(t, username)
	list, err := f.portal.Notifications.List()
	require.NoError(t, err)
	return list
}

func TestNewPortalStartsLoggedOut(t *testing.T) {
	f := newFixture(t)
	_, ok := f.portal.Session.Current()
	assert.False(t, ok)

	_, err := f.portal.Notifications.List()
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLoginIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	u, err := f.portal.Session.Login(f.ctx, "  DEVENDAR ", "anything")
	require.NoError(t, err)
	assert.Equal(t, models.PrimaryAdminID, u.ID)

	_, err = f.portal.Session.Login(f.ctx, "nobody", "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLoginVerifiesPasswordsWhenEnabled(t *testing.T) {
	f := newFixture(t, func(o *PortalOptions) { o.VerifyPasswords = true })
	f.signup(t, "asha")
	f.portal.Session.Logout(f.ctx)

	_, err := f.portal.Session.Login(f.ctx, "asha", "wrong-one")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.portal.Session.Login(f.ctx, "asha", "secret123")
	assert.NoError(t, err)

	// the seeded admin has no credential yet
	_, err = f.portal.Session.Login(f.ctx, "devendar", "")
	assert.NoError(t, err)
}

func TestSignupRejectsCaseInsensitiveDuplicates(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "asha")

	_, err := f.portal.Session.Signup(f.ctx, models.SignupData{
		Name: "Other", Username: "ASHA", Email: "other@college.edu", Year: 1, Password: "secret123",
	})
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, "Username is already taken.", err.Error())

	_, err = f.portal.Session.Signup(f.ctx, models.SignupData{
		Name: "Other", Username: "other", Email: "ASHA@College.EDU", Year: 1, Password: "secret123",
	})
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, "User with this email already exists.", err.Error())

	_, err = f.portal.Session.Signup(f.ctx, models.SignupData{
		Name: "Other", Username: "other", Email: "other@college.edu", Year: 1, Password: "123",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSignupDefaultsAvatarAndLogsIn(t *testing.T) {
	f := newFixture(t)
	u := f.signup(t, "asha")

	assert.Equal(t, "https://i.pravatar.cc/150?u=asha@college.edu", u.AvatarURL)
	assert.False(t, u.IsAdmin)
	assert.Empty(t, u.Friends)

	current, ok := f.portal.Session.Current()
	require.True(t, ok)
	assert.Equal(t, u.ID, current.ID)
}

func TestSessionSurvivesRestart(t *testing.T) {
	f := newFixture(t)
	u := f.signup(t, "asha")

	current, ok := f.reopen().Session.Current()
	require.True(t, ok)
	assert.Equal(t, u.ID, current.ID)

	f.portal.Session.Logout(f.ctx)
	_, ok = f.reopen().Session.Current()
	assert.False(t, ok)
}

func TestRestoreIgnoresDeletedUser(t *testing.T) {
	f := newFixture(t)
	u := f.signup(t, "asha")
	f.loginAdmin(t)
	require.NoError(t, f.portal.Admin.DeleteUser(f.ctx, u.ID))

	// persist a stale session pointing at the removed user
	f.store.Save(f.ctx, kvstore.KeySession, models.Session{UserID: u.ID, User: u})

	_, ok := f.reopen().Session.Current()
	assert.False(t, ok)
	assert.Empty(t, kvstore.Load(f.ctx, f.store, kvstore.KeySession, models.Session{}).UserID)
}

func TestRestoreUsesCurrentRecordNotSnapshot(t *testing.T) {
	f := newFixture(t)
	u := f.signup(t, "asha")
	stale := u
	stale.Name = "Stale Name"
	f.store.Save(f.ctx, kvstore.KeySession, models.Session{UserID: u.ID, User: stale})

	current, ok := f.reopen().Session.Current()
	require.True(t, ok)
	assert.Equal(t, "Asha", current.Name)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)

	name := "Asha R"
	_, err := f.portal.Session.UpdateProfile(f.ctx, models.ProfileUpdate{Name: &name})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, "No user is logged in.", err.Error())

	f.signup(t, "asha")
	year := 3
	updated, err := f.portal.Session.UpdateProfile(f.ctx, models.ProfileUpdate{Name: &name, Year: &year})
	require.NoError(t, err)
	assert.Equal(t, "Asha R", updated.Name)
	assert.Equal(t, 3, updated.Year)
	assert.Equal(t, "CSE", updated.Branch)

	bad := 9
	_, err = f.portal.Session.UpdateProfile(f.ctx, models.ProfileUpdate{Year: &bad})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPasswordReset(t *testing.T) {
	mailer := &capturingMailer{}
	jwtSvc := auth.NewJWTService(auth.JWTConfig{
		SecretKey:     "test-secret",
		ResetTokenExp: 30 * time.Minute,
		TokenIssuer:   "collegeportal.test",
	})
	f := newFixture(t, func(o *PortalOptions) {
		o.Mailer = mailer
		o.JWT = jwtSvc
		o.BaseURL = "http://portal.test/"
		o.VerifyPasswords = true
	})
	f.signup(t, "asha")

	require.NoError(t, f.portal.Session.RequestPasswordReset(f.ctx, "nobody@college.edu"))
	assert.Empty(t, mailer.url, "unknown addresses are ignored")

	require.NoError(t, f.portal.Session.RequestPasswordReset(f.ctx, "ASHA@college.edu"))
	assert.Equal(t, "asha@college.edu", mailer.to)
	require.True(t, strings.HasPrefix(mailer.url, "http://portal.test/#/reset-password/"))
	token := strings.TrimPrefix(mailer.url, "http://portal.test/#/reset-password/")

	err := f.portal.Session.ResetPassword(f.ctx, "not-a-token", "newsecret")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, f.portal.Session.ResetPassword(f.ctx, token, "newsecret"))
	_, err = f.portal.Session.Login(f.ctx, "asha", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = f.portal.Session.Login(f.ctx, "asha", "newsecret")
	assert.NoError(t, err)
}

func TestTheme(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, ThemeDefaultBlue, f.portal.Session.Theme(f.ctx))

	require.NoError(t, f.portal.Session.SetTheme(f.ctx, ThemeForestGreen))
	assert.Equal(t, ThemeForestGreen, f.reopen().Session.Theme(f.ctx))

	assert.ErrorIs(t, f.portal.Session.SetTheme(f.ctx, "neon"), apperrors.ErrValidation)
}

func TestCollectionsRoundTripThroughStorage(t *testing.T) {
	f := newFixture(t)
	f.loginAdmin(t)
	_, err := f.portal.Content.AddNotice(f.ctx, models.NoticeInput{Title: "Exam schedule", Category: models.NoticeExam})
	require.NoError(t, err)
	_, err = f.portal.Content.AddTopic(f.ctx, models.TopicInput{Title: "DSA tips", Description: "share"})
	require.NoError(t, err)
	price := 120.0
	_, err = f.portal.Content.AddMarketItem(f.ctx, models.MarketItemInput{Name: "Calculator", Price: &price})
	require.NoError(t, err)

	reloaded := f.reopen()
	assert.Equal(t, f.portal.Content.Notices(), reloaded.Content.Notices())
	assert.Equal(t, f.portal.Content.Topics(), reloaded.Content.Topics())
	assert.Equal(t, f.portal.Content.MarketItems(), reloaded.Content.MarketItems())
}
