package users

import (
	"context"

	"github.com/dmitrijs2005/masterrol/internal/server/models"
)

// Repository is the credential store.
type Repository interface {
	// Create inserts user and fills in its ID. A taken username yields
	// common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin looks a user up by exact username.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
}
