package grpc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/masterrol/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type fakePinger struct {
	mu  sync.Mutex
	err error
}

func (p *fakePinger) PingContext(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *fakePinger) set(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func statusOf(t *testing.T, s *HealthServer, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := s.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.Status
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewHealthServer("127.0.0.1:0", nopLogger{}, &fakePinger{}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewHealthServer("127.0.0.1:99999", nopLogger{}, &fakePinger{}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Run(ctx); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}

func TestProbe_FollowsStore(t *testing.T) {
	p := &fakePinger{}
	srv := NewHealthServer("127.0.0.1:0", nopLogger{}, p, time.Hour)

	srv.probe(context.Background())
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, statusOf(t, srv, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, statusOf(t, srv, ServiceName))

	p.set(errors.New("down"))
	srv.probe(context.Background())
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, statusOf(t, srv, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, statusOf(t, srv, ServiceName))
}

func TestProbeLoop_PicksUpRecovery(t *testing.T) {
	p := &fakePinger{err: errors.New("down")}
	srv := NewHealthServer("127.0.0.1:0", nopLogger{}, p, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv.probe(ctx)
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, statusOf(t, srv, ""))

	go srv.probeLoop(ctx)
	p.set(nil)

	require.Eventually(t, func() bool {
		return statusOf(t, srv, "") == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 10*time.Millisecond)
}
