package models

import "time"

// Notification is an entry in a user's notification queue
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

func (n Notification) EntityID() string { return n.ID }

// DirectMessage is one message in a conversation
type DirectMessage struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"senderId"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the message log between exactly two users
type Conversation struct {
	ID           string          `json:"id"`
	Participants []string        `json:"participants"`
	Messages     []DirectMessage `json:"messages"`
}

func (c Conversation) EntityID() string { return c.ID }

// HasParticipant reports whether userID takes part in the conversation
func (c Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// Story is an image post visible for 24 hours
type Story struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ImageURL  string    `json:"imageUrl"`
	Timestamp time.Time `json:"timestamp"`
	ExpiresAt time.Time `json:"expiresAt"`
	ViewedBy  []string  `json:"viewedBy"`
}

func (s Story) EntityID() string { return s.ID }

// Expired reports whether the story is gone at now
func (s Story) Expired(now time.Time) bool { return !s.ExpiresAt.After(now) }

// Note is a short status line visible for 24 hours, one per user
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (n Note) EntityID() string { return n.ID }

// Expired reports whether the note is gone at now
func (n Note) Expired(now time.Time) bool { return !n.ExpiresAt.After(now) }

// NoteID derives the note id of a user
func NoteID(userID string) string { return "note_" + userID }

// StoryGroup is the live stories of one user
type StoryGroup struct {
	User    AuthorSnapshot `json:"user"`
	Stories []Story        `json:"stories"`
	// AllViewed is true when the viewer has seen every story in the group
	AllViewed bool `json:"allViewed"`
}
