package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/rawsy-service/internal/models/m_outbox"
	"github.com/light-bringer/rawsy-service/internal/pkg/config"
	"github.com/light-bringer/rawsy-service/internal/pkg/logger"
)

// retention holds how long processed outbox events are kept.
type retention struct {
	Completed time.Duration
	Failed    time.Duration
}

const retentionWhere = `(status = @completed AND processed_at < @completedCutoff)
   OR (status = @failed AND processed_at < @failedCutoff)`

// retentionParams binds the cutoffs for retentionWhere at now.
func (r retention) params(now time.Time) map[string]any {
	return map[string]any{
		"completed":       m_outbox.StatusCompleted,
		"failed":          m_outbox.StatusFailed,
		"completedCutoff": now.Add(-r.Completed),
		"failedCutoff":    now.Add(-r.Failed),
	}
}

func main() {
	var (
		dbFlag        = flag.String("database", "", "Spanner database path (defaults to storage.spanner_database)")
		completedDays = flag.Int("completed-retention", 30, "Retention days for completed events")
		failedDays    = flag.Int("failed-retention", 90, "Retention days for failed events")
		dryRun        = flag.Bool("dry-run", false, "Show what would be deleted without deleting")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	zl, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db := cfg.Storage.SpannerDatabase
	if *dbFlag != "" {
		db = *dbFlag
	}
	r := retention{
		Completed: time.Duration(*completedDays) * 24 * time.Hour,
		Failed:    time.Duration(*failedDays) * 24 * time.Hour,
	}

	ctx := context.Background()
	client, err := spanner.NewClient(ctx, db)
	if err != nil {
		zl.Fatal("failed to create Spanner client", zap.Error(err))
	}
	defer client.Close()

	now := time.Now().UTC()
	zl.Info("starting outbox cleanup",
		zap.Duration("completed_retention", r.Completed),
		zap.Duration("failed_retention", r.Failed),
		zap.Bool("dry_run", *dryRun),
	)

	if *dryRun {
		err = dryRunCleanup(ctx, client, r, now, zl)
	} else {
		err = performCleanup(ctx, client, r, now, zl)
	}
	if err != nil {
		zl.Fatal("cleanup failed", zap.Error(err))
	}
}

func dryRunCleanup(ctx context.Context, client *spanner.Client, r retention, now time.Time, zl *zap.Logger) error {
	stmt := spanner.Statement{
		SQL:    fmt.Sprintf("SELECT status, COUNT(*) FROM %s WHERE %s GROUP BY status", m_outbox.TableName, retentionWhere),
		Params: r.params(now),
	}
	iter := client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var total int64
	for {
		row, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to query events: %w", err)
		}

		var (
			status string
			count  int64
		)
		if err := row.Columns(&status, &count); err != nil {
			return fmt.Errorf("failed to parse row: %w", err)
		}
		zl.Info("would delete events", zap.String("status", status), zap.Int64("count", count))
		total += count
	}

	zl.Info("dry run complete", zap.Int64("total", total))
	return nil
}

func performCleanup(ctx context.Context, client *spanner.Client, r retention, now time.Time, zl *zap.Logger) error {
	stmt := spanner.Statement{
		SQL:    fmt.Sprintf("DELETE FROM %s WHERE %s", m_outbox.TableName, retentionWhere),
		Params: r.params(now),
	}
	// Partitioned DML avoids the per-transaction mutation limit on large backlogs.
	deleted, err := client.PartitionedUpdate(ctx, stmt)
	if err != nil {
		return fmt.Errorf("failed to delete events: %w", err)
	}
	zl.Info("outbox cleanup complete", zap.Int64("deleted", deleted))
	return nil
}
