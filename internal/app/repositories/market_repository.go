package repositories

import (
	"context"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/kvstore"
)

// MarketRepository handles marketplace listings
type MarketRepository struct {
	items *Collection[models.MarketItem]
}

// NewMarketRepository loads the marketplace collection
func NewMarketRepository(ctx context.Context, store *kvstore.Store) *MarketRepository {
	return &MarketRepository{items: LoadCollection[models.MarketItem](ctx, store, kvstore.KeyMarketplace)}
}

// GetAll returns listings newest first
func (r *MarketRepository) GetAll() []models.MarketItem {
	return r.items.All()
}

// GetByID returns the listing with id
func (r *MarketRepository) GetByID(id string) (models.MarketItem, bool) {
	return r.items.ByID(id)
}

// Create prepends a listing sold by seller
func (r *MarketRepository) Create(ctx context.Context, in models.MarketItemInput, seller models.SellerSnapshot) models.MarketItem {
	item := models.MarketItem{
		ID:          NewID(),
		Name:        in.Name,
		Description: in.Description,
		Seller:      seller,
		ImageURL:    in.ImageURL,
	}
	if in.Price != nil {
		price := *in.Price
		item.Price = &price
	}
	r.items.Prepend(ctx, item)
	return item
}

// Delete removes the listing with id
func (r *MarketRepository) Delete(ctx context.Context, id string) bool {
	return r.items.Delete(ctx, id)
}

// Count returns the number of listings
func (r *MarketRepository) Count() int {
	return r.items.Len()
}
