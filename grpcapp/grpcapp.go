package grpcapp

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

const defaultHealthInterval = 15 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// Check ties a health service name to the dependency that backs it.
type Check struct {
	Service string
	Pinger  Pinger
}

type GrpcApp struct {
	log          *zap.Logger
	gRPCServer   *grpc.Server
	healthServer *health.Server
	checks       []Check
	interval     time.Duration
	addr         string
}

func New(log *zap.Logger, host string, port int, interval time.Duration, checks []Check) *GrpcApp {
	addr := fmt.Sprintf("%s:%d", host, port)
	if interval <= 0 {
		interval = defaultHealthInterval
	}

	gRPCServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			tracingInterceptor(),
			recoveryInterceptor(log),
			loggingInterceptor(log),
		),
	)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	for _, c := range checks {
		healthServer.SetServingStatus(c.Service, healthpb.HealthCheckResponse_NOT_SERVING)
	}
	healthpb.RegisterHealthServer(gRPCServer, healthServer)

	reflection.Register(gRPCServer)

	return &GrpcApp{
		log:          log,
		gRPCServer:   gRPCServer,
		healthServer: healthServer,
		checks:       checks,
		interval:     interval,
		addr:         addr,
	}
}

// MonitorHealth refreshes dependency statuses until ctx is done.
func (a *GrpcApp) MonitorHealth(ctx context.Context) {
	a.refresh(ctx)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.refresh(ctx)
		}
	}
}

func (a *GrpcApp) refresh(ctx context.Context) {
	overall := healthpb.HealthCheckResponse_SERVING

	for _, c := range a.checks {
		pingCtx, cancel := context.WithTimeout(ctx, a.interval/2)
		err := c.Pinger.Ping(pingCtx)
		cancel()

		st := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			st = healthpb.HealthCheckResponse_NOT_SERVING
			overall = healthpb.HealthCheckResponse_NOT_SERVING
			a.log.Warn("dependency health check failed", zap.String("service", c.Service), zap.Error(err))
		}
		a.healthServer.SetServingStatus(c.Service, st)
	}

	a.healthServer.SetServingStatus("", overall)
}

func (a *GrpcApp) Run() error {
	const op = "grpcapp.Run"

	l, err := net.Listen("tcp", a.addr)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	a.log.Info("gRPC server started", zap.String("addr", l.Addr().String()))

	if err := a.gRPCServer.Serve(l); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (a *GrpcApp) Stop() {
	a.log.Info("stopping gRPC server", zap.String("addr", a.addr))
	a.healthServer.Shutdown()
	a.gRPCServer.GracefulStop()
}

func tracingInterceptor() grpc.UnaryServerInterceptor {
	tracer := otel.Tracer("fan-companion/grpc")

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			ctx = otel.GetTextMapPropagator().Extract(ctx, metadataCarrier(md))
		}

		ctx, span := tracer.Start(ctx, info.FullMethod, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		return handler(ctx, req)
	}
}

type metadataCarrier metadata.MD

func (c metadataCarrier) Get(key string) string {
	values := metadata.MD(c).Get(key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func (c metadataCarrier) Set(key, value string) {
	metadata.MD(c).Set(key, value)
}

func (c metadataCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

func loggingInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()

		resp, err := handler(ctx, req)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)),
		}

		if err != nil {
			log.Error("gRPC request failed", append(fields, zap.Error(err))...)
			return resp, err
		}

		log.Debug("gRPC request", fields...)
		return resp, nil
	}
}

func recoveryInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered", zap.Any("panic", r), zap.String("method", info.FullMethod))
				err = status.Error(codes.Internal, "internal error")
			}
		}()

		return handler(ctx, req)
	}
}
