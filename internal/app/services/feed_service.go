package services

import (
	"sort"

	"github.com/yigit/collegeportal/internal/app/models"
)

// HomeFeedLimit caps the home feed
const HomeFeedLimit = 20

// FeedService builds the home feed
type FeedService struct {
	st *portalState
}

// HomeFeed merges notices, events and topics, newest first
func (s *FeedService) HomeFeed() []models.FeedItem {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	items := make([]models.FeedItem, 0)
	for _, n := range s.st.repos.Notices.GetAll() {
		n := n
		items = append(items, models.FeedItem{Kind: models.KindNotice, Date: n.Date, Notice: &n})
	}
	for _, e := range s.st.repos.Events.GetAll() {
		e := e
		items = append(items, models.FeedItem{Kind: models.KindEvent, Date: e.Date, Event: &e})
	}
	for _, t := range s.st.repos.Topics.GetAll() {
		t := t
		items = append(items, models.FeedItem{Kind: models.KindTopic, Date: t.Timestamp, Topic: &t})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
	if len(items) > HomeFeedLimit {
		items = items[:HomeFeedLimit]
	}
	return items
}
