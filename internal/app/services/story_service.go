package services

import (
	"context"
	"sort"
	"strings"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
	"github.com/yigit/collegeportal/internal/pkg/validation"
)

// StoryService handles 24 hour stories and notes
type StoryService struct {
	st *portalState
}

// AddStory posts an image story for the session user
func (s *StoryService) AddStory(ctx context.Context, imageURL string) (models.Story, error) {
	imageURL = strings.TrimSpace(imageURL)
	if err := required("Image", imageURL); err != nil {
		return models.Story{}, err
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return models.Story{}, err
	}
	return s.st.repos.Stories.Create(ctx, me.ID, imageURL, s.st.now()), nil
}

// ViewStory records the session user as a viewer.
// The owner is notified the first time someone else views the story.
func (s *StoryService) ViewStory(ctx context.Context, storyID string) (models.Story, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return models.Story{}, err
	}
	if _, ok := s.st.repos.Stories.GetByID(storyID, s.st.now()); !ok {
		return models.Story{}, notFound("Story")
	}
	story, added, _ := s.st.repos.Stories.AddViewer(ctx, storyID, me.ID)
	if added && story.UserID != me.ID {
		s.st.notify(ctx, story.UserID, me.Name+" viewed your story.", "/")
	}
	return story, nil
}

// StoryFeed groups the live stories of the session user and their friends, own group first.
// Users without live stories are left out.
func (s *StoryService) StoryFeed() ([]models.StoryGroup, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return nil, err
	}

	byUser := make(map[string][]models.Story)
	for _, story := range s.st.repos.Stories.Live(s.st.now()) {
		byUser[story.UserID] = append(byUser[story.UserID], story)
	}

	groups := make([]models.StoryGroup, 0)
	for _, id := range append([]string{me.ID}, me.Friends...) {
		stories := byUser[id]
		if len(stories) == 0 {
			continue
		}
		owner, ok := s.st.repos.Users.GetByID(id)
		if !ok {
			continue
		}
		sort.SliceStable(stories, func(i, j int) bool { return stories[i].Timestamp.Before(stories[j].Timestamp) })
		allViewed := true
		for _, story := range stories {
			if !containsID(story.ViewedBy, me.ID) {
				allViewed = false
				break
			}
		}
		groups = append(groups, models.StoryGroup{
			User:      models.AuthorOf(owner),
			Stories:   stories,
			AllViewed: allViewed,
		})
	}
	return groups, nil
}

// DeleteStory removes one of the session user's stories
func (s *StoryService) DeleteStory(ctx context.Context, storyID string) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return err
	}
	story, ok := s.st.repos.Stories.GetByID(storyID, s.st.now())
	if !ok {
		return notFound("Story")
	}
	if story.UserID != me.ID && !me.IsAdmin {
		return apperrors.NewUnauthorizedError("Unauthorized")
	}
	s.st.repos.Stories.Delete(ctx, storyID)
	return nil
}

// AddNote replaces the session user's note
func (s *StoryService) AddNote(ctx context.Context, content string) (models.Note, error) {
	content = validation.SanitizeText(content)
	if content == "" || !validation.ValidNote(content) {
		return models.Note{}, apperrors.NewValidationError("Note must be between 1 and 60 characters.")
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return models.Note{}, err
	}
	return s.st.repos.Notes.Upsert(ctx, me.ID, content, s.st.now()), nil
}

// DeleteNote removes the session user's note
func (s *StoryService) DeleteNote(ctx context.Context) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return err
	}
	s.st.repos.Notes.Delete(ctx, me.ID)
	return nil
}

// Notes returns the live notes of the session user and their friends, own note first
func (s *StoryService) Notes() ([]models.Note, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return nil, err
	}
	now := s.st.now()
	out := make([]models.Note, 0)
	for _, id := range append([]string{me.ID}, me.Friends...) {
		if note, ok := s.st.repos.Notes.GetByUser(id, now); ok {
			out = append(out, note)
		}
	}
	return out, nil
}
