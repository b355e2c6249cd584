package repositories

import (
	"context"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/kvstore"
)

// UserRepository handles the users collection
type UserRepository struct {
	users *Collection[models.User]
}

// NewUserRepository loads the users collection
func NewUserRepository(ctx context.Context, store *kvstore.Store) *UserRepository {
	users := LoadCollection[models.User](ctx, store, kvstore.KeyUsers)
	for i := range users.items {
		users.items[i].Normalize()
	}
	return &UserRepository{users: users}
}

// GetAll returns every user in insertion order
func (r *UserRepository) GetAll() []models.User {
	out := r.users.All()
	for i := range out {
		out[i] = out[i].Clone()
	}
	return out
}

// GetByID returns a copy of the user with id
func (r *UserRepository) GetByID(id string) (models.User, bool) {
	u, ok := r.users.ByID(id)
	return u.Clone(), ok
}

// GetByUsername finds a user by username, ignoring case
func (r *UserRepository) GetByUsername(username string) (models.User, bool) {
	u, ok := r.users.Find(func(u models.User) bool { return u.MatchesUsername(username) })
	return u.Clone(), ok
}

// GetByEmail finds a user by email, ignoring case
func (r *UserRepository) GetByEmail(email string) (models.User, bool) {
	u, ok := r.users.Find(func(u models.User) bool { return u.MatchesEmail(email) })
	return u.Clone(), ok
}

// Create appends a user, normalizing its social lists
func (r *UserRepository) Create(ctx context.Context, user models.User) models.User {
	if user.ID == "" {
		user.ID = NewID()
	}
	user.Normalize()
	r.users.Append(ctx, user)
	return user.Clone()
}

// Update applies fn to the user with id
func (r *UserRepository) Update(ctx context.Context, id string, fn func(*models.User)) (models.User, bool) {
	u, ok := r.users.Update(ctx, id, fn)
	return u.Clone(), ok
}

// UpdatePair applies fn to two users and persists both in a single write
func (r *UserRepository) UpdatePair(ctx context.Context, firstID, secondID string, fn func(first, second *models.User)) bool {
	return r.users.UpdateMany(ctx, []string{firstID, secondID}, func(found map[string]*models.User) {
		fn(found[firstID], found[secondID])
	})
}

// Delete removes the user with id. References held by other users are left in place.
func (r *UserRepository) Delete(ctx context.Context, id string) bool {
	return r.users.Delete(ctx, id)
}

// CountAdmins returns the number of administrators
func (r *UserRepository) CountAdmins() int {
	return len(r.users.Filter(func(u models.User) bool { return u.IsAdmin }))
}

// Count returns the number of users
func (r *UserRepository) Count() int {
	return r.users.Len()
}

// Filter returns copies of the users matching pred
func (r *UserRepository) Filter(pred func(models.User) bool) []models.User {
	out := r.users.Filter(pred)
	for i := range out {
		out[i] = out[i].Clone()
	}
	return out
}
