package repositories

import (
	"context"
	"time"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/kvstore"
)

// NoticeRepository handles the notice board
type NoticeRepository struct {
	notices *Collection[models.Notice]
}

// NewNoticeRepository loads the notices collection
func NewNoticeRepository(ctx context.Context, store *kvstore.Store) *NoticeRepository {
	return &NoticeRepository{notices: LoadCollection[models.Notice](ctx, store, kvstore.KeyNotices)}
}

// GetAll returns notices newest first
func (r *NoticeRepository) GetAll() []models.Notice {
	return r.notices.All()
}

// GetByID returns the notice with id
func (r *NoticeRepository) GetByID(id string) (models.Notice, bool) {
	return r.notices.ByID(id)
}

// Create prepends a notice dated now
func (r *NoticeRepository) Create(ctx context.Context, in models.NoticeInput, postedBy string, now time.Time) models.Notice {
	notice := models.Notice{
		ID:          NewID(),
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Date:        now,
		PostedBy:    postedBy,
	}
	r.notices.Prepend(ctx, notice)
	return notice
}

// Update applies patch to the notice with id
func (r *NoticeRepository) Update(ctx context.Context, id string, patch models.NoticePatch) (models.Notice, bool) {
	return r.notices.Update(ctx, id, patch.Apply)
}

// Delete removes the notice with id
func (r *NoticeRepository) Delete(ctx context.Context, id string) bool {
	return r.notices.Delete(ctx, id)
}

// Count returns the number of notices
func (r *NoticeRepository) Count() int {
	return r.notices.Len()
}
