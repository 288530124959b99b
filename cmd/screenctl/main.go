// screenctl enqueues CV documents for processing. It is an operator tool
// for re-running the pipeline or seeding documents that were uploaded out
// of band.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/talentsift/screening/internal/config"
	"github.com/talentsift/screening/internal/database"
	"github.com/talentsift/screening/internal/queue"
	"github.com/talentsift/screening/internal/store"
)

func main() {
	var (
		cvID        = flag.String("cv-id", "", "id of an existing cv document to enqueue")
		storageKey  = flag.String("storage-key", "", "register a cv document for this storage object, then enqueue it")
		showProfile = flag.Bool("show-profile", false, "print the stored candidate profile for --cv-id instead of enqueuing")
	)
	flag.Parse()

	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if *showProfile {
		if *cvID == "" {
			fmt.Fprintln(os.Stderr, "--show-profile requires --cv-id")
			flag.Usage()
			os.Exit(2)
		}
	} else if (*cvID == "") == (*storageKey == "") {
		fmt.Fprintln(os.Stderr, "exactly one of --cv-id or --storage-key is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("load config", err)
	}

	ctx := context.Background()

	if *showProfile {
		id, err := uuid.Parse(*cvID)
		if err != nil {
			fatal("parse cv document id", err)
		}
		printProfile(ctx, cfg, id)
		return
	}

	var id uuid.UUID
	if *cvID != "" {
		id, err = uuid.Parse(*cvID)
		if err != nil {
			fatal("parse cv document id", err)
		}
	} else {
		if cfg.Database.URL == "" {
			fatal("register cv document", fmt.Errorf("DATABASE_URL is required with --storage-key"))
		}
		pool, err := database.NewPool(ctx, cfg.Database)
		if err != nil {
			fatal("connect database", err)
		}
		id, err = store.New(pool).CreateCVDocument(ctx, *storageKey)
		pool.Close()
		if err != nil {
			fatal("register cv document", err)
		}
		slog.Info("cv document registered", "cv_document_id", id, "storage_key", *storageKey)
	}

	client := queue.NewClient(cfg.Redis)
	defer client.Close()

	info, err := client.EnqueueCVProcess(ctx, id)
	if err != nil {
		fatal("enqueue cv document", err)
	}
	slog.Info("task enqueued", "cv_document_id", id, "task_id", info.ID, "queue", info.Queue)
}

func printProfile(ctx context.Context, cfg *config.Config, id uuid.UUID) {
	if cfg.Database.URL == "" {
		fatal("load candidate profile", fmt.Errorf("DATABASE_URL is required with --show-profile"))
	}
	pool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		fatal("connect database", err)
	}
	defer pool.Close()

	rec, err := store.New(pool).GetCandidateProfile(ctx, id)
	if err != nil {
		fatal("load candidate profile", err)
	}

	out, err := json.MarshalIndent(rec.Profile, "", "  ")
	if err != nil {
		fatal("encode candidate profile", err)
	}
	fmt.Println(string(out))
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
