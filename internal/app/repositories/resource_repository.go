package repositories

import (
	"context"
	"slices"
	"time"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/kvstore"
)

// ResourceRepository handles shared study material
type ResourceRepository struct {
	resources *Collection[models.Resource]
}

// NewResourceRepository loads the resources collection
func NewResourceRepository(ctx context.Context, store *kvstore.Store) *ResourceRepository {
	return &ResourceRepository{resources: LoadCollection[models.Resource](ctx, store, kvstore.KeyResources)}
}

// GetAll returns resources newest first
func (r *ResourceRepository) GetAll() []models.Resource {
	out := r.resources.All()
	for i := range out {
		out[i].Tags = slices.Clone(out[i].Tags)
	}
	return out
}

// GetByID returns the resource with id
func (r *ResourceRepository) GetByID(id string) (models.Resource, bool) {
	res, ok := r.resources.ByID(id)
	res.Tags = slices.Clone(res.Tags)
	return res, ok
}

// Create prepends a resource uploaded now
func (r *ResourceRepository) Create(ctx context.Context, in models.ResourceInput, uploadedBy string, now time.Time) models.Resource {
	tags := slices.Clone(in.Tags)
	if tags == nil {
		tags = []string{}
	}
	res := models.Resource{
		ID:          NewID(),
		Title:       in.Title,
		Description: in.Description,
		Link:        in.Link,
		FileName:    in.FileName,
		Tags:        tags,
		UploadedBy:  uploadedBy,
		UploadDate:  now,
	}
	r.resources.Prepend(ctx, res)
	return res
}

// Delete removes the resource with id
func (r *ResourceRepository) Delete(ctx context.Context, id string) bool {
	return r.resources.Delete(ctx, id)
}

// Count returns the number of resources
func (r *ResourceRepository) Count() int {
	return r.resources.Len()
}
