package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MaxwellProfit/humanoid-robots-monitor/app/collectors"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/database"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/watchlist"
)

type CollectYoutubeTask struct {
	Task
	Entity    watchlist.Entity
	Day       string
	collector *collectors.YoutubeCollector
	itemRepo  database.ItemRepository
}

func NewCollectYoutubeTask(entity watchlist.Entity, day string, collector *collectors.YoutubeCollector,
	itemRepo database.ItemRepository) *CollectYoutubeTask {
	return &CollectYoutubeTask{
		Task:      NewTask(TaskTypeCollectYoutube, entity.ID),
		Entity:    entity,
		Day:       day,
		collector: collector,
		itemRepo:  itemRepo,
	}
}

func (t *CollectYoutubeTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if len(t.Entity.YoutubeChannelIDs) == 0 {
		slog.Debug("No YouTube channels configured, skipping", "entity", t.Entity.ID)
		return nil
	}

	items, err := t.collector.Run(ctx, t.Entity)
	if err != nil {
		return fmt.Errorf("failed to collect youtube videos: %w", err)
	}

	inserted, err := t.itemRepo.StoreRawItems(t.Day, items)
	if err != nil {
		return fmt.Errorf("failed to store raw items: %w", err)
	}

	slog.Info("Task completed",
		"type", "CollectYoutube",
		"entity", t.Entity.ID,
		"day", t.Day,
		"duration", t.GetDuration(),
		"collected", len(items),
		"new", inserted)

	return nil
}
