package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/masterrol/internal/common"
	"github.com/dmitrijs2005/masterrol/internal/dbx"
	"github.com/dmitrijs2005/masterrol/internal/server/models"
)

const table = "dashboard"

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) ListByUser(ctx context.Context, userID int64) ([]models.Session, error) {
	query :=
		`SELECT idsesion, iduser, cronica, numero_de_sesion, fecha, resumen
		 FROM dashboard
		 WHERE iduser = ?
		 ORDER BY fecha DESC, idsesion ASC`

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Session, 0)
	for rows.Next() {
		var (
			s       models.Session
			summary sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.Label, &s.Number, &s.Date, &summary); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if summary.Valid {
			s.Summary = &summary.String
		}
		s.Date = s.Date.UTC()
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLRepository) Create(ctx context.Context, s *models.Session) (int64, error) {
	query :=
		`INSERT INTO dashboard (iduser, cronica, numero_de_sesion, fecha, resumen)
		 VALUES (?, ?, ?, ?, ?)`

	var summary sql.NullString
	if s.Summary != nil {
		summary = sql.NullString{String: *s.Summary, Valid: true}
	}
	args := []any{s.UserID, s.Label, s.Number, s.Date, summary}

	var id int64
	if r.dialect.Returning {
		if err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query+" RETURNING idsesion"), args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("db error: %w", err)
		}
	} else {
		res, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), args...)
		if err != nil {
			return 0, fmt.Errorf("db error: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return 0, fmt.Errorf("db error: %w", err)
		}
	}

	s.ID = id
	return id, nil
}

func (r *SQLRepository) Update(ctx context.Context, userID, id int64, patch models.SessionPatch) error {
	b := dbx.Update(table).PlaceholderFormat(r.dialect.Placeholder)

	if patch.Label != nil {
		b.Set("cronica", *patch.Label)
	}
	if patch.Number != nil {
		b.Set("numero_de_sesion", *patch.Number)
	}
	if patch.Date != nil {
		b.Set("fecha", *patch.Date)
	}
	if patch.Summary != nil {
		b.Set("resumen", *patch.Summary)
	}

	query, args, err := b.Where("idsesion", id).Where("iduser", userID).ToSQL()
	if err != nil {
		if errors.Is(err, dbx.ErrNoAssignments) {
			return common.NewFieldError("", "no se enviaron campos para actualizar")
		}
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *SQLRepository) Delete(ctx context.Context, userID, id int64) error {
	query := `DELETE FROM dashboard WHERE idsesion = ? AND iduser = ?`

	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFoundOrForbidden
	}
	return nil
}
