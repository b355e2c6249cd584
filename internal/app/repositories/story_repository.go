package repositories

import (
	"context"
	"slices"
	"time"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/kvstore"
)

// StoryTTL is how long a story stays visible
const StoryTTL = 24 * time.Hour

// StoryRepository handles stories. Expired stories are dropped from the working copy
// when loaded and on every purge, but stay in storage until the next write.
type StoryRepository struct {
	stories *Collection[models.Story]
}

// NewStoryRepository loads the stories collection, dropping those expired at now
func NewStoryRepository(ctx context.Context, store *kvstore.Store, now time.Time) *StoryRepository {
	r := &StoryRepository{stories: LoadCollection[models.Story](ctx, store, kvstore.KeyStories)}
	r.PurgeExpired(now)
	return r
}

func cloneStory(s models.Story) models.Story {
	s.ViewedBy = slices.Clone(s.ViewedBy)
	return s
}

// PurgeExpired drops stories whose expiry is at or before now and reports how many went
func (r *StoryRepository) PurgeExpired(now time.Time) int {
	return r.stories.Retain(func(s models.Story) bool { return !s.Expired(now) })
}

// Live returns the stories still visible at now, oldest first
func (r *StoryRepository) Live(now time.Time) []models.Story {
	out := r.stories.Filter(func(s models.Story) bool { return !s.Expired(now) })
	for i := range out {
		out[i] = cloneStory(out[i])
	}
	return out
}

// GetByID returns the story with id if it is still visible at now
func (r *StoryRepository) GetByID(id string, now time.Time) (models.Story, bool) {
	s, ok := r.stories.ByID(id)
	if !ok || s.Expired(now) {
		return models.Story{}, false
	}
	return cloneStory(s), true
}

// Create appends a story by userID. The creator counts as a viewer.
func (r *StoryRepository) Create(ctx context.Context, userID, imageURL string, now time.Time) models.Story {
	story := models.Story{
		ID:        NewID(),
		UserID:    userID,
		ImageURL:  imageURL,
		Timestamp: now,
		ExpiresAt: now.Add(StoryTTL),
		ViewedBy:  []string{userID},
	}
	r.stories.Append(ctx, story)
	return cloneStory(story)
}

// AddViewer records viewerID on the story once. added is false when already recorded.
func (r *StoryRepository) AddViewer(ctx context.Context, storyID, viewerID string) (story models.Story, added bool, ok bool) {
	current, ok := r.stories.ByID(storyID)
	if !ok {
		return models.Story{}, false, false
	}
	if containsMember(current.ViewedBy, viewerID) {
		return cloneStory(current), false, true
	}
	story, _ = r.stories.Update(ctx, storyID, func(s *models.Story) {
		s.ViewedBy = addMember(s.ViewedBy, viewerID)
	})
	return cloneStory(story), true, true
}

// Delete removes the story with id
func (r *StoryRepository) Delete(ctx context.Context, id string) bool {
	return r.stories.Delete(ctx, id)
}
