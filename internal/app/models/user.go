package models

import (
	"slices"
	"strings"

	"github.com/jinzhu/copier"
)

// PrimaryAdminID is the id of the bootstrap administrator
const PrimaryAdminID = "admin_user_01"

// Entity is anything stored in a keyed collection
type Entity interface {
	EntityID() string
}

// User is a portal member
type User struct {
	ID                     string   `json:"id"`
	Name                   string   `json:"name"`
	Username               string   `json:"username"`
	Email                  string   `json:"email"`
	Branch                 string   `json:"branch"`
	Year                   int      `json:"year"`
	AvatarURL              string   `json:"avatarUrl,omitempty"`
	IsAdmin                bool     `json:"isAdmin"`
	Friends                []string `json:"friends"`
	FriendRequestsSent     []string `json:"friendRequestsSent"`
	FriendRequestsReceived []string `json:"friendRequestsReceived"`
}

// EntityID implements Entity
func (u User) EntityID() string { return u.ID }

// Clone returns a deep copy so callers cannot alias the stored slices
func (u User) Clone() User {
	u.Friends = slices.Clone(u.Friends)
	u.FriendRequestsSent = slices.Clone(u.FriendRequestsSent)
	u.FriendRequestsReceived = slices.Clone(u.FriendRequestsReceived)
	return u
}

// Normalize replaces nil social lists with empty ones
func (u *User) Normalize() {
	if u.Friends == nil {
		u.Friends = []string{}
	}
	if u.FriendRequestsSent == nil {
		u.FriendRequestsSent = []string{}
	}
	if u.FriendRequestsReceived == nil {
		u.FriendRequestsReceived = []string{}
	}
}

// MatchesUsername compares usernames case-insensitively
func (u User) MatchesUsername(username string) bool {
	return strings.EqualFold(u.Username, username)
}

// MatchesEmail compares emails case-insensitively
func (u User) MatchesEmail(email string) bool {
	return strings.EqualFold(u.Email, email)
}

// AuthorSnapshot is the denormalized author copied onto topics and replies
type AuthorSnapshot struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// SellerSnapshot is the denormalized seller copied onto market items
type SellerSnapshot struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthorOf snapshots u for authored content
func AuthorOf(u User) AuthorSnapshot {
	var a AuthorSnapshot
	_ = copier.Copy(&a, &u)
	return a
}

// SellerOf snapshots u for a marketplace listing
func SellerOf(u User) SellerSnapshot {
	var s SellerSnapshot
	_ = copier.Copy(&s, &u)
	return s
}

// SignupData is the input of a new account
type SignupData struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Branch    string `json:"branch"`
	Year      int    `json:"year"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Password  string `json:"password"`
}

// ProfileUpdate holds the editable profile fields; nil leaves a field unchanged
type ProfileUpdate struct {
	Name      *string `json:"name,omitempty"`
	Branch    *string `json:"branch,omitempty"`
	Year      *int    `json:"year,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// Apply merges the update into u
func (p ProfileUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Branch != nil {
		u.Branch = *p.Branch
	}
	if p.Year != nil {
		u.Year = *p.Year
	}
	if p.AvatarURL != nil {
		u.AvatarURL = *p.AvatarURL
	}
}

// Credential is the stored password hash of a user
type Credential struct {
	UserID       string `json:"userId"`
	PasswordHash string `json:"passwordHash"`
}

// EntityID implements Entity
func (c Credential) EntityID() string { return c.UserID }

// Session is the persisted login of the active user
type Session struct {
	UserID string `json:"userId"`
	User   User   `json:"user"`
}
