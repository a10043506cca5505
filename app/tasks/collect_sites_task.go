package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MaxwellProfit/humanoid-robots-monitor/app/collectors"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/database"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/watchlist"
)

type CollectSitesTask struct {
	Task
	Entity    watchlist.Entity
	Day       string
	collector *collectors.SiteCollector
	itemRepo  database.ItemRepository
}

func NewCollectSitesTask(entity watchlist.Entity, day string, collector *collectors.SiteCollector,
	itemRepo database.ItemRepository) *CollectSitesTask {
	return &CollectSitesTask{
		Task:      NewTask(TaskTypeCollectSites, entity.ID),
		Entity:    entity,
		Day:       day,
		collector: collector,
		itemRepo:  itemRepo,
	}
}

func (t *CollectSitesTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if len(t.Entity.OfficialSitemaps) == 0 && len(t.Entity.OfficialPages) == 0 {
		slog.Debug("No official sites configured, skipping", "entity", t.Entity.ID)
		return nil
	}

	items, err := t.collector.Run(ctx, t.Entity)
	if err != nil {
		return fmt.Errorf("failed to collect official sites: %w", err)
	}

	inserted, err := t.itemRepo.StoreRawItems(t.Day, items)
	if err != nil {
		return fmt.Errorf("failed to store raw items: %w", err)
	}

	slog.Info("Task completed",
		"type", "CollectSites",
		"entity", t.Entity.ID,
		"day", t.Day,
		"duration", t.GetDuration(),
		"collected", len(items),
		"new", inserted)

	return nil
}
