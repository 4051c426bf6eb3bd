package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/masterrol/internal/common"
	"github.com/dmitrijs2005/masterrol/internal/dbx"
	"github.com/dmitrijs2005/masterrol/internal/server/models"
	"github.com/dmitrijs2005/masterrol/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/masterrol/internal/timex"
)

// SessionService exposes the dashboard sessions of the calling user. The
// caller id always comes from the verified token and scopes every query.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager) *SessionService {
	return &SessionService{db: db, repomanager: m}
}

// List returns the caller's sessions, newest first. No sessions is an empty
// slice, not an error.
func (s *SessionService) List(ctx context.Context, userID int64) ([]models.Session, error) {
	var result []models.Session
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		items, err := s.repomanager.Sessions(conn).ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		result = items
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return result, nil
}

// Create stores a new session owned by userID.
func (s *SessionService) Create(ctx context.Context, userID int64, in models.SessionInput) (*models.Session, error) {
	label, err := validateLabel(in.Label)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Date) == "" {
		return nil, common.NewFieldError("fecha", "es obligatorio")
	}
	date, err := timex.ParseDate(in.Date)
	if err != nil {
		return nil, common.NewFieldError("fecha", "no es una fecha válida")
	}

	session := &models.Session{
		UserID:  userID,
		Label:   label,
		Number:  in.Number,
		Date:    date,
		Summary: in.Summary,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := s.repomanager.Sessions(tx).Create(ctx, session)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return session, nil
}

// Update applies the supplied fields of patch to session id. A session that
// does not exist and one owned by someone else are both reported as
// common.ErrorNotFoundOrForbidden.
func (s *SessionService) Update(ctx context.Context, userID, id int64, patch models.SessionPatch) error {
	if id <= 0 {
		return common.NewFieldError("idsesion", "es obligatorio")
	}
	if patch.IsEmpty() {
		return common.NewFieldError("", "no se enviaron campos para actualizar")
	}
	if patch.Label != nil {
		label, err := validateLabel(*patch.Label)
		if err != nil {
			return err
		}
		patch.Label = &label
	}
	if patch.Date != nil {
		d := timex.NormalizeDate(*patch.Date)
		patch.Date = &d
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Sessions(tx).Update(ctx, userID, id, patch)
	})
	return classify(err)
}

// Delete removes session id if the caller owns it.
func (s *SessionService) Delete(ctx context.Context, userID, id int64) error {
	if id <= 0 {
		return common.NewFieldError("idsesion", "es obligatorio")
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Sessions(tx).Delete(ctx, userID, id)
	})
	return classify(err)
}

func validateLabel(label string) (string, error) {
	label = strings.TrimSpace(label)
	if err := requireText("cronica", label); err != nil {
		return "", err
	}
	return label, nil
}
