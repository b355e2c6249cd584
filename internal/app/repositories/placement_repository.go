package repositories

import (
	"context"
	"slices"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/kvstore"
)

// PlacementRepository handles recruitment drives
type PlacementRepository struct {
	placements *Collection[models.Placement]
}

// NewPlacementRepository loads the placements collection
func NewPlacementRepository(ctx context.Context, store *kvstore.Store) *PlacementRepository {
	placements := LoadCollection[models.Placement](ctx, store, kvstore.KeyPlacements)
	for i := range placements.items {
		if placements.items[i].Interested == nil {
			placements.items[i].Interested = []string{}
		}
	}
	return &PlacementRepository{placements: placements}
}

func clonePlacement(p models.Placement) models.Placement {
	p.Interested = slices.Clone(p.Interested)
	return p
}

// GetAll returns placements newest first
func (r *PlacementRepository) GetAll() []models.Placement {
	out := r.placements.All()
	for i := range out {
		out[i] = clonePlacement(out[i])
	}
	return out
}

// GetByID returns the placement with id
func (r *PlacementRepository) GetByID(id string) (models.Placement, bool) {
	p, ok := r.placements.ByID(id)
	return clonePlacement(p), ok
}

// Create prepends a placement drive
func (r *PlacementRepository) Create(ctx context.Context, in models.PlacementInput) models.Placement {
	p := models.Placement{
		ID:            NewID(),
		CompanyName:   in.CompanyName,
		Role:          in.Role,
		SalaryPackage: in.SalaryPackage,
		Eligibility:   in.Eligibility,
		Interested:    []string{},
	}
	r.placements.Prepend(ctx, p)
	return clonePlacement(p)
}

// Update applies patch to the placement with id
func (r *PlacementRepository) Update(ctx context.Context, id string, patch models.PlacementPatch) (models.Placement, bool) {
	p, ok := r.placements.Update(ctx, id, patch.Apply)
	return clonePlacement(p), ok
}

// Delete removes the placement with id
func (r *PlacementRepository) Delete(ctx context.Context, id string) bool {
	return r.placements.Delete(ctx, id)
}

// ToggleInterest flips userID's interest. interested reports the new state.
func (r *PlacementRepository) ToggleInterest(ctx context.Context, placementID, userID string) (placement models.Placement, interested bool, ok bool) {
	placement, ok = r.placements.Update(ctx, placementID, func(p *models.Placement) {
		p.Interested, interested = toggleMember(p.Interested, userID)
	})
	return clonePlacement(placement), interested, ok
}

// Count returns the number of placements
func (r *PlacementRepository) Count() int {
	return r.placements.Len()
}
