package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/kvstore"
)

// PrimaryAdmin is the account every fresh portal starts with
func PrimaryAdmin() models.User {
	return models.User{
		ID:                     models.PrimaryAdminID,
		Name:                   "Devendar Dharmana",
		Username:               "devendar",
		Email:                  "dharmanadevendar@gmail.com",
		Branch:                 "Computer Science",
		Year:                   4,
		AvatarURL:              "https://i.pravatar.cc/150?u=devendar",
		IsAdmin:                true,
		Friends:                []string{},
		FriendRequestsSent:     []string{},
		FriendRequestsReceived: []string{},
	}
}

// Bootstrap writes the initial dataset the first time the store is opened.
// Once the seeded flag is set it never writes again, even if the users were since removed.
// It reports whether seeding happened.
func Bootstrap(ctx context.Context, store *kvstore.Store, lgr zerolog.Logger) (bool, error) {
	if kvstore.Load(ctx, store, kvstore.KeySeeded, false) {
		lgr.Debug().Msg("Store already seeded, skipping")
		return false, nil
	}

	lgr.Info().Msg("Seeding portal store with the primary admin account...")
	var finalErr error

	users := kvstore.Load(ctx, store, kvstore.KeyUsers, []models.User{})
	hasAdmin := false
	for _, u := range users {
		if u.ID == models.PrimaryAdminID {
			hasAdmin = true
			break
		}
	}
	if !hasAdmin {
		users = append(users, PrimaryAdmin())
		if err := store.Write(ctx, kvstore.KeyUsers, users); err != nil {
			lgr.Error().Err(err).Msg("Error writing primary admin")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// Remaining collections start empty; they are created on their first write.

	if finalErr == nil {
		if err := store.Write(ctx, kvstore.KeySeeded, true); err != nil {
			lgr.Error().Err(err).Msg("Error setting seeded flag")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr != nil {
		lgr.Warn().Err(finalErr).Msg("Seeding finished with errors")
		return false, finalErr
	}
	lgr.Info().Str("adminId", models.PrimaryAdminID).Msg("Seeding complete")
	return true, nil
}
