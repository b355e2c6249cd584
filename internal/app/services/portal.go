package services

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/app/repositories"
	"github.com/yigit/collegeportal/internal/config"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
	"github.com/yigit/collegeportal/internal/pkg/auth"
	"github.com/yigit/collegeportal/internal/pkg/email"
	"github.com/yigit/collegeportal/internal/pkg/genai"
	"github.com/yigit/collegeportal/internal/pkg/helpers"
	"github.com/yigit/collegeportal/internal/pkg/kvstore"
)

// Pusher delivers realtime events to a user's open connections
type Pusher interface {
	PushToUser(userID, eventType string, payload interface{})
}

// Event types pushed by the portal
const (
	PushNotification = "notification"
	PushMessage      = "message"
)

// PortalOptions holds the collaborators of a Portal. Zero values are usable:
// no gateway means the assistant is not configured, no pusher means no realtime delivery.
type PortalOptions struct {
	Clock        helpers.Clock
	Logger       zerolog.Logger
	Gateway      genai.Gateway
	Capabilities config.Capabilities
	Pusher       Pusher
	Mailer       email.EmailService
	JWT          *auth.JWTService
	// BaseURL prefixes password reset links
	BaseURL string
	// VerifyPasswords makes Login check stored credentials
	VerifyPasswords bool
	// ActiveSessionOnly drops notifications for users other than the logged in one
	ActiveSessionOnly bool
}

// portalState is shared by every service of one Portal.
// Public service methods take mu; helpers on portalState expect it held.
type portalState struct {
	mu     sync.Mutex
	store  *kvstore.Store
	repos  *repositories.Repositories
	now    helpers.Clock
	pusher Pusher
	logger zerolog.Logger

	activeSessionOnly bool

	// active is the logged in user, nil when logged out
	active *models.User
}

// Portal is the data core of one portal session
type Portal struct {
	Session       *SessionService
	Social        *SocialService
	Notifications *NotificationService
	Chat          *ChatService
	Content       *ContentService
	Stories       *StoryService
	Search        *SearchService
	Feed          *FeedService
	Admin         *AdminService
	Assistant     *AssistantService

	state *portalState
}

// NewPortal loads every collection from store and restores the persisted session
func NewPortal(ctx context.Context, store *kvstore.Store, opts PortalOptions) *Portal {
	if opts.Clock == nil {
		opts.Clock = helpers.SystemClock
	}
	if opts.Mailer == nil {
		opts.Mailer = email.NewEmailService(email.SMTPConfig{}, opts.Logger)
	}

	st := &portalState{
		store:             store,
		repos:             repositories.NewRepositories(ctx, store, opts.Clock()),
		now:               opts.Clock,
		pusher:            opts.Pusher,
		logger:            opts.Logger,
		activeSessionOnly: opts.ActiveSessionOnly,
	}

	p := &Portal{state: st}
	p.Notifications = &NotificationService{st: st}
	p.Session = &SessionService{
		st:              st,
		jwt:             opts.JWT,
		mailer:          opts.Mailer,
		baseURL:         opts.BaseURL,
		verifyPasswords: opts.VerifyPasswords,
		logger:          opts.Logger.With().Str("service", "session").Logger(),
	}
	p.Social = &SocialService{st: st, logger: opts.Logger.With().Str("service", "social").Logger()}
	p.Chat = &ChatService{st: st, logger: opts.Logger.With().Str("service", "chat").Logger()}
	p.Content = &ContentService{st: st, logger: opts.Logger.With().Str("service", "content").Logger()}
	p.Stories = &StoryService{st: st}
	p.Search = &SearchService{st: st}
	p.Feed = &FeedService{st: st}
	p.Admin = &AdminService{st: st, content: p.Content, logger: opts.Logger.With().Str("service", "admin").Logger()}
	p.Assistant = NewAssistantService(st, opts.Gateway, opts.Capabilities, opts.Logger.With().Str("service", "assistant").Logger())

	p.Session.Restore(ctx)
	return p
}

// PurgeExpired drops stories and notes that have expired by now from memory
func (p *Portal) PurgeExpired() int {
	p.state.mu.Lock()
	defer p.state.mu.Unlock()
	now := p.state.now()
	return p.state.repos.Stories.PurgeExpired(now) + p.state.repos.Notes.PurgeExpired(now)
}

// Close releases the underlying store
func (p *Portal) Close() error {
	return p.state.store.Close()
}

// requireActive returns the logged in user
func (st *portalState) requireActive() (models.User, error) {
	if st.active == nil {
		return models.User{}, apperrors.ErrNoActiveSession
	}
	return st.active.Clone(), nil
}

// requireAdmin returns the logged in user if they are an administrator
func (st *portalState) requireAdmin() (models.User, error) {
	user, err := st.requireActive()
	if err != nil {
		return models.User{}, err
	}
	if !user.IsAdmin {
		return models.User{}, apperrors.NewUnauthorizedError("Unauthorized")
	}
	return user, nil
}

// setActive makes user the session user and persists the session record
func (st *portalState) setActive(ctx context.Context, user models.User) {
	u := user.Clone()
	st.active = &u
	st.store.Save(ctx, kvstore.KeySession, models.Session{UserID: u.ID, User: u})
}

// clearActive logs out
func (st *portalState) clearActive(ctx context.Context) {
	st.active = nil
	st.store.Remove(ctx, kvstore.KeySession)
}

// refreshActive re-reads the session user from the users collection.
// A session whose user has disappeared is logged out.
func (st *portalState) refreshActive(ctx context.Context) {
	if st.active == nil {
		return
	}
	fresh, ok := st.repos.Users.GetByID(st.active.ID)
	if !ok {
		st.logger.Info().Str("userID", st.active.ID).Msg("Session user no longer exists, logging out")
		st.clearActive(ctx)
		return
	}
	st.setActive(ctx, fresh)
}

// isActive reports whether userID is the session user
func (st *portalState) isActive(userID string) bool {
	return st.active != nil && st.active.ID == userID
}

func (st *portalState) push(userID, eventType string, payload interface{}) {
	if st.pusher != nil {
		st.pusher.PushToUser(userID, eventType, payload)
	}
}
