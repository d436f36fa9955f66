package grpcapp

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

type pingerMock struct {
	calls int
	err   error
}

func (m *pingerMock) Ping(context.Context) error {
	m.calls++
	return m.err
}

func servingStatus(t *testing.T, app *GrpcApp, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()

	resp, err := app.healthServer.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("health check %q: %v", service, err)
	}
	return resp.GetStatus()
}

func TestRefreshMarksFailingDependency(t *testing.T) {
	postgres := &pingerMock{}
	redis := &pingerMock{err: errors.New("connection refused")}

	app := New(zap.NewNop(), "127.0.0.1", 0, time.Second, []Check{
		{Service: "companion.postgres", Pinger: postgres},
		{Service: "companion.redis", Pinger: redis},
	})

	if got := servingStatus(t, app, ""); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING before first refresh, got %v", got)
	}

	app.refresh(context.Background())

	if got := servingStatus(t, app, "companion.postgres"); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("postgres: expected SERVING, got %v", got)
	}
	if got := servingStatus(t, app, "companion.redis"); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("redis: expected NOT_SERVING, got %v", got)
	}
	if got := servingStatus(t, app, ""); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("overall: expected NOT_SERVING, got %v", got)
	}

	redis.err = nil
	app.refresh(context.Background())

	if got := servingStatus(t, app, ""); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("overall: expected SERVING after recovery, got %v", got)
	}
	if postgres.calls != 2 || redis.calls != 2 {
		t.Fatalf("unexpected ping calls: postgres=%d redis=%d", postgres.calls, redis.calls)
	}
}

func TestMonitorHealthStopsOnCancel(t *testing.T) {
	pinger := &pingerMock{}
	app := New(zap.NewNop(), "127.0.0.1", 0, time.Hour, []Check{{Service: "companion.redis", Pinger: pinger}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.MonitorHealth(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("MonitorHealth did not return after cancel")
	}
	if pinger.calls != 1 {
		t.Fatalf("expected one immediate refresh, got %d", pinger.calls)
	}
}

func TestPingerFunc(t *testing.T) {
	want := errors.New("down")
	var p Pinger = PingerFunc(func(context.Context) error { return want })

	if err := p.Ping(context.Background()); !errors.Is(err, want) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRecoveryInterceptor(t *testing.T) {
	interceptor := recoveryInterceptor(zap.NewNop())
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	_, err := interceptor(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		panic("boom")
	})

	if status.Code(err) != codes.Internal {
		t.Fatalf("expected Internal, got %v", err)
	}
}
