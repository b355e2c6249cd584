package repositories

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/kvstore"
)

// TopicRepository handles forum topics and their replies
type TopicRepository struct {
	topics *Collection[models.Topic]
}

// NewTopicRepository loads the topics collection
func NewTopicRepository(ctx context.Context, store *kvstore.Store) *TopicRepository {
	topics := LoadCollection[models.Topic](ctx, store, kvstore.KeyTopics)
	for i := range topics.items {
		normalizeTopic(&topics.items[i])
	}
	return &TopicRepository{topics: topics}
}

func normalizeTopic(t *models.Topic) {
	if t.Replies == nil {
		t.Replies = []models.Reply{}
	}
	if t.Likes == nil {
		t.Likes = []string{}
	}
}

func cloneTopic(t models.Topic) models.Topic {
	t.Replies = slices.Clone(t.Replies)
	t.Likes = slices.Clone(t.Likes)
	return t
}

// GetAll returns topics newest first
func (r *TopicRepository) GetAll() []models.Topic {
	out := r.topics.All()
	for i := range out {
		out[i] = cloneTopic(out[i])
	}
	return out
}

// GetByID returns the topic with id
func (r *TopicRepository) GetByID(id string) (models.Topic, bool) {
	t, ok := r.topics.ByID(id)
	return cloneTopic(t), ok
}

// GetByAuthor returns up to limit topics written by userID, newest first
func (r *TopicRepository) GetByAuthor(userID string, limit int) []models.Topic {
	out := r.topics.Filter(func(t models.Topic) bool { return t.Author.ID == userID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i] = cloneTopic(out[i])
	}
	return out
}

// Create prepends a topic by author
func (r *TopicRepository) Create(ctx context.Context, in models.TopicInput, author models.AuthorSnapshot, now time.Time) models.Topic {
	topic := models.Topic{
		ID:          NewID(),
		Title:       in.Title,
		Description: in.Description,
		Author:      author,
		Timestamp:   now,
		Replies:     []models.Reply{},
		Likes:       []string{},
	}
	r.topics.Prepend(ctx, topic)
	return cloneTopic(topic)
}

// Update applies patch to the topic with id
func (r *TopicRepository) Update(ctx context.Context, id string, patch models.TopicPatch) (models.Topic, bool) {
	t, ok := r.topics.Update(ctx, id, patch.Apply)
	return cloneTopic(t), ok
}

// Delete removes the topic and its replies
func (r *TopicRepository) Delete(ctx context.Context, id string) bool {
	return r.topics.Delete(ctx, id)
}

// AddReply appends a reply to the topic with topicID
func (r *TopicRepository) AddReply(ctx context.Context, topicID, content string, author models.AuthorSnapshot, now time.Time) (models.Topic, models.Reply, bool) {
	reply := models.Reply{
		ID:        NewID(),
		Content:   content,
		Author:    author,
		Timestamp: now,
	}
	t, ok := r.topics.Update(ctx, topicID, func(t *models.Topic) {
		t.Replies = append(slices.Clone(t.Replies), reply)
	})
	return cloneTopic(t), reply, ok
}

// ToggleLike flips userID's like on the topic. liked reports the new state.
func (r *TopicRepository) ToggleLike(ctx context.Context, topicID, userID string) (topic models.Topic, liked bool, ok bool) {
	topic, ok = r.topics.Update(ctx, topicID, func(t *models.Topic) {
		t.Likes, liked = toggleMember(t.Likes, userID)
	})
	return cloneTopic(topic), liked, ok
}

// Vote adds an upvote or downvote to the topic
func (r *TopicRepository) Vote(ctx context.Context, topicID string, dir models.VoteDirection) (models.Topic, bool) {
	t, ok := r.topics.Update(ctx, topicID, func(t *models.Topic) {
		applyVote(&t.Upvotes, &t.Downvotes, dir)
	})
	return cloneTopic(t), ok
}

// VoteReply adds an upvote or downvote to one reply of the topic
func (r *TopicRepository) VoteReply(ctx context.Context, topicID, replyID string, dir models.VoteDirection) (models.Reply, bool) {
	topic, ok := r.topics.ByID(topicID)
	if !ok {
		return models.Reply{}, false
	}
	idx := slices.IndexFunc(topic.Replies, func(rep models.Reply) bool { return rep.ID == replyID })
	if idx < 0 {
		return models.Reply{}, false
	}

	var voted models.Reply
	r.topics.Update(ctx, topicID, func(t *models.Topic) {
		t.Replies = slices.Clone(t.Replies)
		applyVote(&t.Replies[idx].Upvotes, &t.Replies[idx].Downvotes, dir)
		voted = t.Replies[idx]
	})
	return voted, true
}

func applyVote(up, down *int, dir models.VoteDirection) {
	if dir == models.VoteUp {
		*up++
	} else {
		*down++
	}
}

// Count returns the number of topics
func (r *TopicRepository) Count() int {
	return r.topics.Len()
}
