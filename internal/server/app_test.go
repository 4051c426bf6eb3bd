package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/masterrol/internal/server/config"
	"github.com/dmitrijs2005/masterrol/internal/server/models"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = "file:" + filepath.Join(t.TempDir(), "app.db")
	cfg.EndpointAddrHTTP = "127.0.0.1:0"
	cfg.EndpointAddrGRPC = "127.0.0.1:0"
	return cfg
}

func TestNewApp_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatabaseDriver = "oracle"

	_, err := NewApp(context.Background(), cfg)
	require.Error(t, err)
}

func TestNewApp_MigratesAndRegisters(t *testing.T) {
	goose.SetLogger(goose.NopLogger())
	cfg := testConfig(t)

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	u, err := app.UserService().Register(context.Background(), models.Registration{
		GivenName: "Ana", FamilyName: "Ruiz", UserName: "gm", Password: "secret123",
	})
	require.NoError(t, err)
	assert.Positive(t, u.ID)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	goose.SetLogger(goose.NopLogger())
	cfg := testConfig(t)

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after context cancel")
	}
}
