package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MaxwellProfit/humanoid-robots-monitor/app/collectors"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/database"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/watchlist"
)

type CollectNewsTask struct {
	Task
	Entity    watchlist.Entity
	Day       string
	collector *collectors.NewsCollector
	itemRepo  database.ItemRepository
}

func NewCollectNewsTask(entity watchlist.Entity, day string, collector *collectors.NewsCollector,
	itemRepo database.ItemRepository) *CollectNewsTask {
	return &CollectNewsTask{
		Task:      NewTask(TaskTypeCollectNews, entity.ID),
		Entity:    entity,
		Day:       day,
		collector: collector,
		itemRepo:  itemRepo,
	}
}

func (t *CollectNewsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	items, err := t.collector.Run(ctx, t.Entity)
	if err != nil {
		return fmt.Errorf("failed to collect news: %w", err)
	}

	inserted, err := t.itemRepo.StoreRawItems(t.Day, items)
	if err != nil {
		return fmt.Errorf("failed to store raw items: %w", err)
	}

	slog.Info("Task completed",
		"type", "CollectNews",
		"entity", t.Entity.ID,
		"day", t.Day,
		"duration", t.GetDuration(),
		"collected", len(items),
		"new", inserted)

	return nil
}
