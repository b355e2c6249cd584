package repositories

import (
	"context"

	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/kvstore"
)

// CredentialRepository stores password hashes apart from the public user records
type CredentialRepository struct {
	credentials *Collection[models.Credential]
}

// NewCredentialRepository loads the credentials collection
func NewCredentialRepository(ctx context.Context, store *kvstore.Store) *CredentialRepository {
	return &CredentialRepository{credentials: LoadCollection[models.Credential](ctx, store, kvstore.KeyCredentials)}
}

// GetHash returns the password hash of userID
func (r *CredentialRepository) GetHash(userID string) (string, bool) {
	c, ok := r.credentials.ByID(userID)
	return c.PasswordHash, ok
}

// SetHash stores hash for userID, replacing any previous one
func (r *CredentialRepository) SetHash(ctx context.Context, userID, hash string) {
	if _, ok := r.credentials.Update(ctx, userID, func(c *models.Credential) { c.PasswordHash = hash }); ok {
		return
	}
	r.credentials.Append(ctx, models.Credential{UserID: userID, PasswordHash: hash})
}

// Delete drops the credential of userID
func (r *CredentialRepository) Delete(ctx context.Context, userID string) bool {
	return r.credentials.Delete(ctx, userID)
}
