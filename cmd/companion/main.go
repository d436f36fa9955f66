package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/ozzus/fan-companion/grpcapp"
	"github.com/ozzus/fan-companion/internal/application/service"
	"github.com/ozzus/fan-companion/internal/application/voice"
	"github.com/ozzus/fan-companion/internal/config"
	"github.com/ozzus/fan-companion/internal/domain/ports"
	"github.com/ozzus/fan-companion/internal/infrastructures/db/memory"
	postgres "github.com/ozzus/fan-companion/internal/infrastructures/db/postgres/repo"
	cacheredis "github.com/ozzus/fan-companion/internal/infrastructures/db/redis"
	elevenlabs "github.com/ozzus/fan-companion/internal/infrastructures/elevenlabs/http/client"
	"github.com/ozzus/fan-companion/internal/infrastructures/elevenlabs/signaling"
	"github.com/ozzus/fan-companion/internal/infrastructures/fixtures"
	googlemaps "github.com/ozzus/fan-companion/internal/infrastructures/googlemaps/http/client"
	openweather "github.com/ozzus/fan-companion/internal/infrastructures/openweather/http/client"
	"github.com/ozzus/fan-companion/internal/infrastructures/rtc"
	"github.com/ozzus/fan-companion/internal/infrastructures/tracing"
	"github.com/ozzus/fan-companion/internal/transport/http/handlers"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.Log.Level)
	defer func() {
		_ = log.Sync()
	}()

	shutdownTracer, err := tracing.Init("fan-companion", cfg.Env, cfg.Jaeger)
	if err != nil {
		log.Fatal("failed to init tracer", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			log.Warn("failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	log.Info("fan-companion starting",
		zap.String("http_addr", cfg.HTTP.Address()),
		zap.String("env", cfg.Env),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Warn("failed to close redis client", zap.Error(err))
		}
	}()

	repo, err := postgres.New(ctx, cfg.DB.DatabaseURL())
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer repo.Close()

	if err := repo.Migrate(ctx); err != nil {
		log.Fatal("failed to migrate postgres", zap.Error(err))
	}

	matchCache := cacheredis.NewMatchCache(redisClient)
	if _, err := fixtures.Seed(ctx, log, repo, cfg.Schedule.SeedPath); err != nil {
		log.Fatal("failed to seed match schedule", zap.Error(err), zap.String("path", cfg.Schedule.SeedPath))
	}
	if err := matchCache.Invalidate(ctx); err != nil {
		log.Warn("failed to invalidate match catalog cache", zap.Error(err))
	}

	geoCache := cacheredis.NewGeoCache(redisClient)
	voiceLogs := voiceLogStore(ctx, log, redisClient, cfg.Voice)

	maps := googlemaps.NewClient(
		cfg.Google.BaseURL,
		cfg.Google.APIKey,
		cfg.Google.Language,
		cfg.Google.Timeout,
		rate.NewLimiter(rate.Limit(cfg.Places.RPS), cfg.Places.Burst),
	)
	weatherSource := openweather.NewClient(
		cfg.OpenWeather.BaseURL,
		cfg.OpenWeather.APIKey,
		cfg.OpenWeather.Units,
		cfg.OpenWeather.Language,
		cfg.OpenWeather.Timeout,
	)
	agentAPI := elevenlabs.NewClient(cfg.ElevenLabs.BaseURL, cfg.ElevenLabs.APIKey, cfg.ElevenLabs.Timeout)

	matchService := service.NewMatchService(
		log,
		repo,
		matchCache,
		cfg.Schedule.CacheTTL,
		displayLocation(log, cfg.Schedule.DisplayTZ),
		cfg.Schedule.Locale,
		cfg.Schedule.Limit,
	)
	placesService := service.NewPlacesService(log, maps, geoCache, cfg.Places.CacheTTL, cfg.Places.DefaultRadius)
	locationService := service.NewLocationService(log, maps, geoCache, cfg.Google.GeocodeCacheTTL)
	weatherService := service.NewWeatherService(log, weatherSource, geoCache, cfg.OpenWeather.CacheTTL)
	overviewService := service.NewOverviewService(log, locationService, weatherService, matchService)

	calls := voice.NewManager(
		log,
		voiceLogs,
		agentAPI,
		rtc.NewTrackInput(log, nil),
		rtc.NewPeerFactory(log, cfg.Voice.ICEGatherTimeout, nil),
		signaling.NewDialer(log, cfg.ElevenLabs.APIKey, cfg.ElevenLabs.Timeout),
		voice.Credentials{APIKey: cfg.ElevenLabs.APIKey, AgentID: cfg.ElevenLabs.AgentID},
	)

	router := handlers.NewRouter(log, handlers.Handlers{
		Matches: handlers.NewMatchHandler(log, matchService, cfg.HTTP.RequestTimeout),
		Places:  handlers.NewPlacesHandler(log, placesService, cfg.HTTP.RequestTimeout),
		Geo:     handlers.NewGeoHandler(log, locationService, weatherService, overviewService, cfg.HTTP.RequestTimeout),
		Voice:   handlers.NewVoiceHandler(log, calls, voiceLogs, cfg.HTTP.VoiceTimeout, cfg.HTTP.RequestTimeout),
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Address(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	app := grpcapp.New(log, cfg.GRPC.Host, cfg.GRPC.Port, cfg.GRPC.HealthInterval, []grpcapp.Check{
		{Service: "companion.postgres", Pinger: repo},
		{Service: "companion.redis", Pinger: grpcapp.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})},
	})
	go app.MonitorHealth(ctx)

	errCh := make(chan error, 2)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		errCh <- app.Run()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error("server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", zap.Error(err))
	}
	calls.Close(shutdownCtx)
	app.Stop()
}

// voiceLogStore keeps the voice log in redis and falls back to process memory
// when redis cannot be reached at startup.
func voiceLogStore(ctx context.Context, log *zap.Logger, client *redis.Client, cfg config.VoiceConfig) ports.VoiceLogStore {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, voice log kept in memory", zap.Error(err))
		return memory.NewVoiceLogStore(cfg.LogCapacity)
	}
	return cacheredis.NewVoiceLogStore(client, cfg.LogKey, cfg.LogCapacity)
}

func displayLocation(log *zap.Logger, name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn("unknown display timezone, using UTC", zap.String("tz", name), zap.Error(err))
		return time.UTC
	}
	return loc
}

func setupLogger(level string) *zap.Logger {
	zapLevel := parseLogLevel(level)
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	return log
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
