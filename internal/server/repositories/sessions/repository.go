package sessions

import (
	"context"

	"github.com/dmitrijs2005/masterrol/internal/server/models"
)

// Repository is the session store. Every method takes the owner id and
// applies it to the statement itself, so rows of other users are never
// read or touched.
type Repository interface {
	// ListByUser returns the owner's sessions, most recent date first; rows
	// with the same date keep insertion order.
	ListByUser(ctx context.Context, userID int64) ([]models.Session, error)
	// Create inserts s with s.UserID as owner and returns the new id.
	Create(ctx context.Context, s *models.Session) (int64, error)
	// Update applies patch to session id owned by userID. No matching row
	// yields common.ErrorNotFoundOrForbidden.
	Update(ctx context.Context, userID, id int64, patch models.SessionPatch) error
	// Delete removes session id owned by userID. No matching row yields
	// common.ErrorNotFoundOrForbidden.
	Delete(ctx context.Context, userID, id int64) error
}
