// Package services contains server-side business logic. UserService covers
// registration, login and the caller's profile; SessionService covers the
// owner-scoped dashboard sessions.
package services

import (
	"context"
	"database/sql"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/masterrol/internal/common"
	"github.com/dmitrijs2005/masterrol/internal/dbx"
	"github.com/dmitrijs2005/masterrol/internal/server/auth"
	"github.com/dmitrijs2005/masterrol/internal/server/config"
	"github.com/dmitrijs2005/masterrol/internal/server/models"
	"github.com/dmitrijs2005/masterrol/internal/server/repositories/repomanager"
)

// MaxFieldLength bounds names, usernames and session labels, in characters.
const MaxFieldLength = 50

// PasswordHasher is the credential hashing collaborator.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(stored, password string) bool
}

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	AccessToken string
	User        *models.User
}

type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	hasher                      PasswordHasher
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, h PasswordHasher, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		hasher:                      h,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register validates r, hashes the password and stores the new user.
// A taken username yields common.ErrorConflict.
func (s *UserService) Register(ctx context.Context, r models.Registration) (*models.User, error) {
	user := &models.User{
		GivenName:  strings.TrimSpace(r.GivenName),
		FamilyName: strings.TrimSpace(r.FamilyName),
		UserName:   strings.TrimSpace(r.UserName),
	}

	if err := requireText("nombre", user.GivenName); err != nil {
		return nil, err
	}
	if err := requireText("apellido", user.FamilyName); err != nil {
		return nil, err
	}
	if err := requireText("username", user.UserName); err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.Password) == "" {
		return nil, common.NewFieldError("password", "es obligatorio")
	}

	hash, err := s.hasher.Hash(r.Password)
	if err != nil {
		return nil, classify(err)
	}
	user.PasswordHash = hash

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return created, nil
}

// Login checks username and password and issues an access token.
// Unknown usernames yield common.ErrorNotFound, a wrong password
// common.ErrorInvalidCredential.
func (s *UserService) Login(ctx context.Context, userName, password string) (*LoginResult, error) {
	if userName == "" {
		return nil, common.NewFieldError("username", "es obligatorio")
	}
	if password == "" {
		return nil, common.NewFieldError("password", "es obligatorio")
	}

	var user *models.User
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		u, err := s.repomanager.Users(conn).GetUserByLogin(ctx, userName)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, common.ErrorInvalidCredential
	}

	token, err := auth.GenerateToken(auth.Identity{
		UserID:     user.ID,
		Username:   user.UserName,
		GivenName:  user.GivenName,
		FamilyName: user.FamilyName,
	}, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, classify(err)
	}

	return &LoginResult{AccessToken: token, User: user}, nil
}

// Profile re-reads the caller from the store. A user deleted after the
// token was issued yields common.ErrorNotFound.
func (s *UserService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	var user *models.User
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		u, err := s.repomanager.Users(conn).GetByID(ctx, userID)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return user, nil
}

func requireText(field, value string) error {
	if value == "" {
		return common.NewFieldError(field, "es obligatorio")
	}
	if utf8.RuneCountInString(value) > MaxFieldLength {
		return common.NewFieldError(field, "es demasiado largo")
	}
	return nil
}
