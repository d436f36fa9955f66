// Command voice-logs prints the voice assistant log newest first, or clears it.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/ozzus/fan-companion/internal/config"
	"github.com/ozzus/fan-companion/internal/domain/models"
	"github.com/ozzus/fan-companion/internal/domain/ports"
	cacheredis "github.com/ozzus/fan-companion/internal/infrastructures/db/redis"
	"github.com/redis/go-redis/v9"
)

var clearLog = flag.Bool("clear", false, "empty the voice log instead of printing it")

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		_ = client.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store := cacheredis.NewVoiceLogStore(client, cfg.Voice.LogKey, cfg.Voice.LogCapacity)
	if err := run(ctx, os.Stdout, store, *clearLog); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "voice-logs: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, w io.Writer, store ports.VoiceLogStore, clearAll bool) error {
	if clearAll {
		if err := store.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(w, "voice log cleared")
		return nil
	}

	entries, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "voice log is empty")
		return nil
	}

	printEntries(w, entries)
	return nil
}

func printEntries(w io.Writer, entries []models.VoiceLogEntry) {
	sorted := make([]models.VoiceLogEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	errLine := color.New(color.FgRed)
	infoLine := color.New(color.FgCyan)

	for _, e := range sorted {
		line := infoLine
		if e.Level == models.LogLevelError {
			line = errLine
		}

		line.Fprintf(w, "%s [%s] %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Level, e.Message)
		if e.Details != "" {
			fmt.Fprintf(w, "    %s\n", e.Details)
		}
	}
}
