package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/masterrol/internal/cryptox"
	"github.com/dmitrijs2005/masterrol/internal/dbx"
	"github.com/dmitrijs2005/masterrol/internal/server/config"
	"github.com/dmitrijs2005/masterrol/internal/server/models"
	"github.com/dmitrijs2005/masterrol/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/masterrol/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/masterrol/internal/server/repositories/users"
	shareddb "github.com/dmitrijs2005/masterrol/internal/server/shared/db"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

var testSecret = "k"

func testConfig() *config.Config {
	return &config.Config{SecretKey: testSecret, AccessTokenValidityDuration: time.Hour}
}

func testHasher() *cryptox.PasswordHasher {
	return cryptox.NewPasswordHasher(cryptox.Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 16, SaltLen: 8}, false)
}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// newSQLiteStore opens a migrated in-memory database and the manager for it.
func newSQLiteStore(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()
	db, d, err := shareddb.Open(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetLogger(goose.NopLogger())
	rm := repomanager.NewSQLRepositoryManager(d)
	require.NoError(t, rm.RunMigrations(context.Background(), db))
	return db, rm
}

type fakeUsersRepo struct {
	users.Repository

	created   *models.User
	createErr error

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = u
	out := *u
	out.ID = 42
	return &out, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeSessionsRepo struct {
	sessions.Repository

	calls int

	listOut []models.Session
	err     error

	gotPatch models.SessionPatch
	gotOwner int64
	gotID    int64
	created  *models.Session
}

func (f *fakeSessionsRepo) ListByUser(ctx context.Context, userID int64) ([]models.Session, error) {
	f.calls++
	f.gotOwner = userID
	return f.listOut, f.err
}

func (f *fakeSessionsRepo) Create(ctx context.Context, s *models.Session) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	s.ID = 5
	f.created = s
	return 5, nil
}

func (f *fakeSessionsRepo) Update(ctx context.Context, userID, id int64, patch models.SessionPatch) error {
	f.calls++
	f.gotOwner, f.gotID, f.gotPatch = userID, id, patch
	return f.err
}

func (f *fakeSessionsRepo) Delete(ctx context.Context, userID, id int64) error {
	f.calls++
	f.gotOwner, f.gotID = userID, id
	return f.err
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	s *fakeSessionsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.u }
func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessions.Repository     { return m.s }
