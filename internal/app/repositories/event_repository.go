package repositories

import (
	"context"
	"slices"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/kvstore"
)

// EventRepository handles campus events and their RSVPs
type EventRepository struct {
	events *Collection[models.Event]
}

// NewEventRepository loads the events collection
func NewEventRepository(ctx context.Context, store *kvstore.Store) *EventRepository {
	events := LoadCollection[models.Event](ctx, store, kvstore.KeyEvents)
	for i := range events.items {
		if events.items[i].RSVPs == nil {
			events.items[i].RSVPs = []string{}
		}
	}
	return &EventRepository{events: events}
}

func cloneEvent(e models.Event) models.Event {
	e.RSVPs = slices.Clone(e.RSVPs)
	return e
}

// GetAll returns events newest first
func (r *EventRepository) GetAll() []models.Event {
	out := r.events.All()
	for i := range out {
		out[i] = cloneEvent(out[i])
	}
	return out
}

// GetByID returns the event with id
func (r *EventRepository) GetByID(id string) (models.Event, bool) {
	e, ok := r.events.ByID(id)
	return cloneEvent(e), ok
}

// Create prepends an event with no RSVPs
func (r *EventRepository) Create(ctx context.Context, in models.EventInput) models.Event {
	event := models.Event{
		ID:          NewID(),
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Organizer:   in.Organizer,
		RSVPs:       []string{},
	}
	r.events.Prepend(ctx, event)
	return cloneEvent(event)
}

// Update applies patch to the event with id
func (r *EventRepository) Update(ctx context.Context, id string, patch models.EventPatch) (models.Event, bool) {
	e, ok := r.events.Update(ctx, id, patch.Apply)
	return cloneEvent(e), ok
}

// Delete removes the event with id
func (r *EventRepository) Delete(ctx context.Context, id string) bool {
	return r.events.Delete(ctx, id)
}

// ToggleRSVP flips userID's attendance. attending reports the new state.
func (r *EventRepository) ToggleRSVP(ctx context.Context, eventID, userID string) (event models.Event, attending bool, ok bool) {
	event, ok = r.events.Update(ctx, eventID, func(e *models.Event) {
		e.RSVPs, attending = toggleMember(e.RSVPs, userID)
	})
	return cloneEvent(event), attending, ok
}

// Count returns the number of events
func (r *EventRepository) Count() int {
	return r.events.Len()
}
