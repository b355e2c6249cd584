package repositories

import (
	"context"
	"time"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/kvstore"
)

// NoteTTL is how long a note stays visible
const NoteTTL = 24 * time.Hour

// NoteRepository holds at most one note per user
type NoteRepository struct {
	notes *Collection[models.Note]
}

// NewNoteRepository loads the notes collection, dropping those expired at now
func NewNoteRepository(ctx context.Context, store *kvstore.Store, now time.Time) *NoteRepository {
	r := &NoteRepository{notes: LoadCollection[models.Note](ctx, store, kvstore.KeyNotes)}
	r.PurgeExpired(now)
	return r
}

// PurgeExpired drops notes whose expiry is at or before now
func (r *NoteRepository) PurgeExpired(now time.Time) int {
	return r.notes.Retain(func(n models.Note) bool { return !n.Expired(now) })
}

// Live returns the notes still visible at now
func (r *NoteRepository) Live(now time.Time) []models.Note {
	return r.notes.Filter(func(n models.Note) bool { return !n.Expired(now) })
}

// GetByUser returns userID's note if it is still visible at now
func (r *NoteRepository) GetByUser(userID string, now time.Time) (models.Note, bool) {
	n, ok := r.notes.ByID(models.NoteID(userID))
	if !ok || n.Expired(now) {
		return models.Note{}, false
	}
	return n, true
}

// Upsert replaces userID's note with content, expiring NoteTTL after now
func (r *NoteRepository) Upsert(ctx context.Context, userID, content string, now time.Time) models.Note {
	note := models.Note{
		ID:        models.NoteID(userID),
		UserID:    userID,
		Content:   content,
		ExpiresAt: now.Add(NoteTTL),
	}
	items := r.notes.Filter(func(n models.Note) bool { return n.UserID != userID })
	r.notes.Replace(ctx, append(items, note))
	return note
}

// Delete removes userID's note
func (r *NoteRepository) Delete(ctx context.Context, userID string) bool {
	return r.notes.Delete(ctx, models.NoteID(userID))
}
