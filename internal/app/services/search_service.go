package services

import (
	"strings"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/helpers"
)

// SearchService matches a query against users, topics, resources and events
type SearchService struct {
	st *portalState
}

// Search does a case-insensitive substring match over user name/username, topic title/description,
// resource title/tags and event title/organizer. An empty query matches everything.
func (s *SearchService) Search(query string) models.SearchResults {
	q := strings.TrimSpace(query)

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	r := models.SearchResults{
		Users:     s.st.repos.Users.Filter(func(u models.User) bool { return helpers.AnyContainsFold([]string{u.Name, u.Username}, q) }),
		Topics:    []models.Topic{},
		Resources: []models.Resource{},
		Events:    []models.Event{},
	}
	for _, t := range s.st.repos.Topics.GetAll() {
		if helpers.AnyContainsFold([]string{t.Title, t.Description}, q) {
			r.Topics = append(r.Topics, t)
		}
	}
	for _, res := range s.st.repos.Resources.GetAll() {
		if helpers.ContainsFold(res.Title, q) || helpers.AnyContainsFold(res.Tags, q) {
			r.Resources = append(r.Resources, res)
		}
	}
	for _, e := range s.st.repos.Events.GetAll() {
		if helpers.AnyContainsFold([]string{e.Title, e.Organizer}, q) {
			r.Events = append(r.Events, e)
		}
	}
	return r
}
