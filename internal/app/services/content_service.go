package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
	"github.com/yigit/collegeportal/internal/pkg/validation"
)

// ContentService handles the shared boards: notices, forum, resources, events, marketplace and placements.
// Reads need no session; writes act as the session user.
type ContentService struct {
	st     *portalState
	logger zerolog.Logger
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.NewValidationError(field + " is required.")
	}
	return nil
}

func notFound(what string) error {
	return apperrors.NewNotFoundError(what + " not found")
}

// Notices

// Notices returns the notice board, newest first
func (s *ContentService) Notices() []models.Notice {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return s.st.repos.Notices.GetAll()
}

// AddNotice posts a notice. Admin only.
func (s *ContentService) AddNotice(ctx context.Context, in models.NoticeInput) (models.Notice, error) {
	in.Title = validation.SanitizeText(in.Title)
	in.Description = validation.SanitizeText(in.Description)
	if err := required("Title", in.Title); err != nil {
		return models.Notice{}, err
	}
	if !in.Category.Valid() {
		return models.Notice{}, apperrors.NewValidationError("Unknown notice category.")
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	admin, err := s.st.requireAdmin()
	if err != nil {
		return models.Notice{}, err
	}
	postedBy := admin.Name
	if postedBy == "" {
		postedBy = "Admin"
	}
	notice := s.st.repos.Notices.Create(ctx, in, postedBy, s.st.now())
	s.logger.Info().Str("noticeID", notice.ID).Str("category", string(notice.Category)).Msg("Notice posted")
	return notice, nil
}

// UpdateNotice applies patch to a notice. Admin only.
func (s *ContentService) UpdateNotice(ctx context.Context, id string, patch models.NoticePatch) (models.Notice, error) {
	if patch.Title != nil {
		title := validation.SanitizeText(*patch.Title)
		if err := required("Title", title); err != nil {
			return models.Notice{}, err
		}
		patch.Title = &title
	}
	if patch.Description != nil {
		desc := validation.SanitizeText(*patch.Description)
		patch.Description = &desc
	}
	if patch.Category != nil && !patch.Category.Valid() {
		return models.Notice{}, apperrors.NewValidationError("Unknown notice category.")
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if _, err := s.st.requireAdmin(); err != nil {
		return models.Notice{}, err
	}
	notice, ok := s.st.repos.Notices.Update(ctx, id, patch)
	if !ok {
		return models.Notice{}, notFound("Notice")
	}
	return notice, nil
}

// DeleteNotice removes a notice. Admin only.
func (s *ContentService) DeleteNotice(ctx context.Context, id string) error {
	return s.adminDelete(ctx, models.KindNotice, id)
}

// Forum

// Topics returns forum topics, newest first
func (s *ContentService) Topics() []models.Topic {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return s.st.repos.Topics.GetAll()
}

// Topic returns one topic with its replies
func (s *ContentService) Topic(id string) (models.Topic, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	t, ok := s.st.repos.Topics.GetByID(id)
	if !ok {
		return models.Topic{}, notFound("Topic")
	}
	return t, nil
}

// TopicsByAuthor returns up to limit topics written by userID, newest first
func (s *ContentService) TopicsByAuthor(userID string, limit int) []models.Topic {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return s.st.repos.Topics.GetByAuthor(userID, limit)
}

// AddTopic opens a topic authored by the session user
func (s *ContentService) AddTopic(ctx context.Context, in models.TopicInput) (models.Topic, error) {
	in.Title = validation.SanitizeText(in.Title)
	in.Description = validation.SanitizeText(in.Description)
	if err := required("Title", in.Title); err != nil {
		return models.Topic{}, err
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return models.Topic{}, err
	}
	topic := s.st.repos.Topics.Create(ctx, in, models.AuthorOf(me), s.st.now())
	s.logger.Info().Str("topicID", topic.ID).Str("authorID", me.ID).Msg("Topic created")
	return topic, nil
}

// UpdateTopic edits a topic. Only its author or an administrator may do so.
func (s *ContentService) UpdateTopic(ctx context.Context, id string, patch models.TopicPatch) (models.Topic, error) {
	if patch.Title != nil {
		title := validation.SanitizeText(*patch.Title)
		if err := required("Title", title); err != nil {
			return models.Topic{}, err
		}
		patch.Title = &title
	}
	if patch.Description != nil {
		desc := validation.SanitizeText(*patch.Description)
		patch.Description = &desc
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if _, err := s.topicOwnerOrAdmin(id); err != nil {
		return models.Topic{}, err
	}
	topic, _ := s.st.repos.Topics.Update(ctx, id, patch)
	return topic, nil
}

// DeleteTopic removes a topic and its replies. Only its author or an administrator may do so.
func (s *ContentService) DeleteTopic(ctx context.Context, id string) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if _, err := s.topicOwnerOrAdmin(id); err != nil {
		return err
	}
	s.st.repos.Topics.Delete(ctx, id)
	return nil
}

func (s *ContentService) topicOwnerOrAdmin(id string) (models.Topic, error) {
	me, err := s.st.requireActive()
	if err != nil {
		return models.Topic{}, err
	}
	topic, ok := s.st.repos.Topics.GetByID(id)
	if !ok {
		return models.Topic{}, notFound("Topic")
	}
	if topic.Author.ID != me.ID && !me.IsAdmin {
		return models.Topic{}, apperrors.NewUnauthorizedError("Unauthorized")
	}
	return topic, nil
}

// AddReply appends a reply by the session user and notifies the topic author
func (s *ContentService) AddReply(ctx context.Context, topicID, content string) (models.Reply, error) {
	content = validation.SanitizeText(content)
	if !validation.ValidMessage(content) {
		return models.Reply{}, apperrors.NewValidationError("Reply must be between 1 and 2000 characters.")
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return models.Reply{}, err
	}
	topic, reply, ok := s.st.repos.Topics.AddReply(ctx, topicID, content, models.AuthorOf(me), s.st.now())
	if !ok {
		return models.Reply{}, notFound("Topic")
	}
	if topic.Author.ID != me.ID {
		s.st.notify(ctx, topic.Author.ID, fmt.Sprintf("%s replied to your topic: %q", me.Name, topic.Title), "/forum/"+topic.ID)
	}
	return reply, nil
}

// ToggleTopicLike flips the session user's like. liked reports the new state.
func (s *ContentService) ToggleTopicLike(ctx context.Context, topicID string) (topic models.Topic, liked bool, err error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return models.Topic{}, false, err
	}
	topic, liked, ok := s.st.repos.Topics.ToggleLike(ctx, topicID, me.ID)
	if !ok {
		return models.Topic{}, false, notFound("Topic")
	}
	if liked && topic.Author.ID != me.ID {
		s.st.notify(ctx, topic.Author.ID, fmt.Sprintf("%s liked your topic: %q", me.Name, topic.Title), "/forum/"+topic.ID)
	}
	return topic, liked, nil
}

// VoteTopic adds an upvote or downvote to a topic
func (s *ContentService) VoteTopic(ctx context.Context, topicID string, dir models.VoteDirection) (models.Topic, error) {
	if !dir.Valid() {
		return models.Topic{}, apperrors.NewValidationError("Vote must be up or down.")
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if _, err := s.st.requireActive(); err != nil {
		return models.Topic{}, err
	}
	topic, ok := s.st.repos.Topics.Vote(ctx, topicID, dir)
	if !ok {
		return models.Topic{}, notFound("Topic")
	}
	return topic, nil
}

// VoteReply adds an upvote or downvote to a reply
func (s *ContentService) VoteReply(ctx context.Context, topicID, replyID string, dir models.VoteDirection) (models.Reply, error) {
	if !dir.Valid() {
		return models.Reply{}, apperrors.NewValidationError("Vote must be up or down.")
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if _, err := s.st.requireActive(); err != nil {
		return models.Reply{}, err
	}
	reply, ok := s.st.repos.Topics.VoteReply(ctx, topicID, replyID, dir)
	if !ok {
		return models.Reply{}, notFound("Reply")
	}
	return reply, nil
}

// Resources

// Resources returns shared material, newest first
func (s *ContentService) Resources() []models.Resource {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return s.st.repos.Resources.GetAll()
}

// AddResource shares material as the session user
func (s *ContentService) AddResource(ctx context.Context, in models.ResourceInput) (models.Resource, error) {
	in.Title = validation.SanitizeText(in.Title)
	in.Description = validation.SanitizeText(in.Description)
	in.Link = strings.TrimSpace(in.Link)
	in.FileName = validation.SanitizeText(in.FileName)
	in.Tags = validation.SanitizeAll(in.Tags)
	if err := required("Title", in.Title); err != nil {
		return models.Resource{}, err
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return models.Resource{}, err
	}
	if in.Link == "" && in.FileName == "" {
		s.logger.Debug().Str("title", in.Title).Msg("Resource has neither link nor file")
	}
	uploadedBy := me.Name
	if uploadedBy == "" {
		uploadedBy = "Unknown"
	}
	return s.st.repos.Resources.Create(ctx, in, uploadedBy, s.st.now()), nil
}

// DeleteResource removes a resource. Admin only.
func (s *ContentService) DeleteResource(ctx context.Context, id string) error {
	return s.adminDelete(ctx, models.KindResource, id)
}

// Events

// Events returns campus events, newest first
func (s *ContentService) Events() []models.Event {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return s.st.repos.Events.GetAll()
}

// AddEvent schedules an event. Admin only.
func (s *ContentService) AddEvent(ctx context.Context, in models.EventInput) (models.Event, error) {
	in.Title = validation.SanitizeText(in.Title)
	in.Description = validation.SanitizeText(in.Description)
	in.Organizer = validation.SanitizeText(in.Organizer)
	if err := required("Title", in.Title); err != nil {
		return models.Event{}, err
	}
	if in.Date.IsZero() {
		return models.Event{}, apperrors.NewValidationError("Date is required.")
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if _, err := s.st.requireAdmin(); err != nil {
		return models.Event{}, err
	}
	return s.st.repos.Events.Create(ctx, in), nil
}

// UpdateEvent applies patch to an event. Admin only.
func (s *ContentService) UpdateEvent(ctx context.Context, id string, patch models.EventPatch) (models.Event, error) {
	if patch.Title != nil {
		title := validation.SanitizeText(*patch.Title)
		if err := required("Title", title); err != nil {
			return models.Event{}, err
		}
		patch.Title = &title
	}
	if patch.Description != nil {
		desc := validation.SanitizeText(*patch.Description)
		patch.Description = &desc
	}
	if patch.Organizer != nil {
		org := validation.SanitizeText(*patch.Organizer)
		patch.Organizer = &org
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if _, err := s.st.requireAdmin(); err != nil {
		return models.Event{}, err
	}
	event, ok := s.st.repos.Events.Update(ctx, id, patch)
	if !ok {
		return models.Event{}, notFound("Event")
	}
	return event, nil
}

// DeleteEvent removes an event. Admin only.
func (s *ContentService) DeleteEvent(ctx context.Context, id string) error {
	return s.adminDelete(ctx, models.KindEvent, id)
}

// ToggleRSVP flips the session user's attendance. attending reports the new state.
func (s *ContentService) ToggleRSVP(ctx context.Context, eventID string) (event models.Event, attending bool, err error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return models.Event{}, false, err
	}
	event, attending, ok := s.st.repos.Events.ToggleRSVP(ctx, eventID, me.ID)
	if !ok {
		return models.Event{}, false, notFound("Event")
	}
	return event, attending, nil
}

// Marketplace

// MarketItems returns listings, newest first
func (s *ContentService) MarketItems() []models.MarketItem {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return s.st.repos.Market.GetAll()
}

// AddMarketItem lists an item sold by the session user
func (s *ContentService) AddMarketItem(ctx context.Context, in models.MarketItemInput) (models.MarketItem, error) {
	in.Name = validation.SanitizeText(in.Name)
	in.Description = validation.SanitizeText(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if err := required("Name", in.Name); err != nil {
		return models.MarketItem{}, err
	}
	if in.Price != nil && *in.Price < 0 {
		return models.MarketItem{}, apperrors.NewValidationError("Price cannot be negative.")
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return models.MarketItem{}, err
	}
	item := s.st.repos.Market.Create(ctx, in, models.SellerOf(me))
	s.logger.Info().Str("itemID", item.ID).Str("sellerID", me.ID).Msg("Marketplace item listed")
	return item, nil
}

// DeleteMarketItem removes a listing. Only its seller or an administrator may do so.
func (s *ContentService) DeleteMarketItem(ctx context.Context, id string) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return err
	}
	item, ok := s.st.repos.Market.GetByID(id)
	if !ok {
		return notFound("Item")
	}
	if item.Seller.ID != me.ID && !me.IsAdmin {
		return apperrors.NewUnauthorizedError("Unauthorized")
	}
	s.st.repos.Market.Delete(ctx, id)
	return nil
}

// Placements

// Placements returns recruitment drives, newest first
func (s *ContentService) Placements() []models.Placement {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return s.st.repos.Placements.GetAll()
}

// AddPlacement announces a drive. Admin only.
func (s *ContentService) AddPlacement(ctx context.Context, in models.PlacementInput) (models.Placement, error) {
	in.CompanyName = validation.SanitizeText(in.CompanyName)
	in.Role = validation.SanitizeText(in.Role)
	in.SalaryPackage = validation.SanitizeText(in.SalaryPackage)
	in.Eligibility = validation.SanitizeText(in.Eligibility)
	if err := required("Company name", in.CompanyName); err != nil {
		return models.Placement{}, err
	}
	if err := required("Role", in.Role); err != nil {
		return models.Placement{}, err
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if _, err := s.st.requireAdmin(); err != nil {
		return models.Placement{}, err
	}
	return s.st.repos.Placements.Create(ctx, in), nil
}

// UpdatePlacement applies patch to a drive. Admin only.
func (s *ContentService) UpdatePlacement(ctx context.Context, id string, patch models.PlacementPatch) (models.Placement, error) {
	for _, field := range []*string{patch.CompanyName, patch.Role, patch.SalaryPackage, patch.Eligibility} {
		if field != nil {
			*field = validation.SanitizeText(*field)
		}
	}
	if patch.CompanyName != nil {
		if err := required("Company name", *patch.CompanyName); err != nil {
			return models.Placement{}, err
		}
	}
	if patch.Role != nil {
		if err := required("Role", *patch.Role); err != nil {
			return models.Placement{}, err
		}
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if _, err := s.st.requireAdmin(); err != nil {
		return models.Placement{}, err
	}
	placement, ok := s.st.repos.Placements.Update(ctx, id, patch)
	if !ok {
		return models.Placement{}, notFound("Placement")
	}
	return placement, nil
}

// DeletePlacement removes a drive. Admin only.
func (s *ContentService) DeletePlacement(ctx context.Context, id string) error {
	return s.adminDelete(ctx, models.KindPlacement, id)
}

// ToggleInterest flips the session user's interest in a drive
func (s *ContentService) ToggleInterest(ctx context.Context, placementID string) (placement models.Placement, interested bool, err error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	me, err := s.st.requireActive()
	if err != nil {
		return models.Placement{}, false, err
	}
	placement, interested, ok := s.st.repos.Placements.ToggleInterest(ctx, placementID, me.ID)
	if !ok {
		return models.Placement{}, false, notFound("Placement")
	}
	return placement, interested, nil
}

func (s *ContentService) adminDelete(ctx context.Context, kind models.ContentKind, id string) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if _, err := s.st.requireAdmin(); err != nil {
		return err
	}
	return s.deleteByKind(ctx, kind, id)
}

// deleteByKind dispatches a removal to the repository owning kind. mu must be held.
func (s *ContentService) deleteByKind(ctx context.Context, kind models.ContentKind, id string) error {
	var ok bool
	switch kind {
	case models.KindNotice:
		ok = s.st.repos.Notices.Delete(ctx, id)
	case models.KindTopic:
		ok = s.st.repos.Topics.Delete(ctx, id)
	case models.KindResource:
		ok = s.st.repos.Resources.Delete(ctx, id)
	case models.KindEvent:
		ok = s.st.repos.Events.Delete(ctx, id)
	case models.KindMarketplace:
		ok = s.st.repos.Market.Delete(ctx, id)
	case models.KindPlacement:
		ok = s.st.repos.Placements.Delete(ctx, id)
	default:
		return apperrors.NewValidationError(fmt.Sprintf("Unknown content kind %q.", kind))
	}
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("No %s with id %s", kind, id))
	}
	s.logger.Info().Str("kind", string(kind)).Str("id", id).Msg("Content deleted")
	return nil
}
