package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MaxwellProfit/humanoid-robots-monitor/app/database"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/digest"
)

// BuildDigestTask runs the dedupe pipeline over a day's raw items and
// replaces the stored digest for that day. Rebuilds are idempotent: the same
// raw set and threshold always produce the same digest.
type BuildDigestTask struct {
	Task
	Day        string
	deduper    *digest.Deduplicator
	itemRepo   database.ItemRepository
	digestRepo database.DigestRepository
}

func NewBuildDigestTask(day string, deduper *digest.Deduplicator,
	itemRepo database.ItemRepository, digestRepo database.DigestRepository) *BuildDigestTask {
	return &BuildDigestTask{
		Task:       NewTask(TaskTypeBuildDigest, day),
		Day:        day,
		deduper:    deduper,
		itemRepo:   itemRepo,
		digestRepo: digestRepo,
	}
}

func (t *BuildDigestTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	raw, err := t.itemRepo.GetRawItems(t.Day)
	if err != nil {
		return fmt.Errorf("failed to load raw items: %w", err)
	}

	items := digest.LoadItems(raw)
	afterExact := t.deduper.DedupeExact(items)
	afterFuzzy := t.deduper.DedupeFuzzy(afterExact)
	assembled := digest.SortDigest(afterFuzzy)

	if err := t.digestRepo.ReplaceDigest(t.Day, assembled); err != nil {
		return fmt.Errorf("failed to store digest: %w", err)
	}

	slog.Info("Task completed",
		"type", "BuildDigest",
		"day", t.Day,
		"duration", t.GetDuration(),
		"raw", len(raw),
		"after_exact", len(afterExact),
		"after_fuzzy", len(afterFuzzy))

	return nil
}
