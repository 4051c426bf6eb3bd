package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/masterrol/internal/common"
	"github.com/dmitrijs2005/masterrol/internal/dbx"
	"github.com/dmitrijs2005/masterrol/internal/server/models"
)

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (nombre, apellido, username, password)
		 VALUES (?, ?, ?, ?)`
	args := []any{user.GivenName, user.FamilyName, user.UserName, user.PasswordHash}

	var err error
	if r.dialect.Returning {
		err = r.db.QueryRowContext(ctx, r.dialect.Rebind(query+" RETURNING iduser"), args...).Scan(&user.ID)
	} else {
		var res sql.Result
		res, err = r.db.ExecContext(ctx, r.dialect.Rebind(query), args...)
		if err == nil {
			user.ID, err = res.LastInsertId()
		}
	}

	if err != nil {
		if r.dialect.UniqueViolation(err) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	query :=
		`SELECT iduser, nombre, apellido, username, password FROM users
		 WHERE username = ?`

	return r.getOne(ctx, query, userName)
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT iduser, nombre, apellido, username, password FROM users
		 WHERE iduser = ?`

	return r.getOne(ctx, query, id)
}

func (r *SQLRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), arg).
		Scan(&user.ID, &user.GivenName, &user.FamilyName, &user.UserName, &user.PasswordHash)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
