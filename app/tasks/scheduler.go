package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MaxwellProfit/humanoid-robots-monitor/app/cfg"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/collectors"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/database"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/digest"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/watchlist"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler drives the collect-then-build cycle: on every interval it
// enqueues a collection task per entity per source and a digest build for the
// current day, executed by a small worker pool.
type Scheduler struct {
	watchlist        *watchlist.Watchlist
	newsCollector    *collectors.NewsCollector
	youtubeCollector *collectors.YoutubeCollector
	siteCollector    *collectors.SiteCollector
	deduper          *digest.Deduplicator
	itemRepo         database.ItemRepository
	digestRepo       database.DigestRepository
	interval         time.Duration
	workerCount      int
	ctx              context.Context
	cancel           context.CancelFunc
	wg               sync.WaitGroup
	taskQueue        chan TaskInterface
}

func NewScheduler(wl *watchlist.Watchlist, newsCollector *collectors.NewsCollector,
	youtubeCollector *collectors.YoutubeCollector, siteCollector *collectors.SiteCollector,
	deduper *digest.Deduplicator, itemRepo database.ItemRepository,
	digestRepo database.DigestRepository) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		watchlist:        wl,
		newsCollector:    newsCollector,
		youtubeCollector: youtubeCollector,
		siteCollector:    siteCollector,
		deduper:          deduper,
		itemRepo:         itemRepo,
		digestRepo:       digestRepo,
		interval:         time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount:      cfg.WorkerCount,
		ctx:              ctx,
		cancel:           cancel,
		taskQueue:        make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueCycle()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueCycle()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// enqueueCycle schedules one round of collection for every entity followed by
// a digest build for today. The build runs over whatever raw items exist at
// execution time; the next cycle picks up stragglers.
func (s *Scheduler) enqueueCycle() {
	day := CurrentDay()

	slog.Debug("Scheduling collection cycle", "day", day, "entities", len(s.watchlist.Entities))

	for _, entity := range s.watchlist.Entities {
		newsTask := NewCollectNewsTask(entity, day, s.newsCollector, s.itemRepo)
		if err := s.EnqueueTask(newsTask); err != nil {
			slog.Warn("Failed to enqueue CollectNewsTask", "entity", entity.ID, "error", err)
		}

		if len(entity.YoutubeChannelIDs) > 0 {
			youtubeTask := NewCollectYoutubeTask(entity, day, s.youtubeCollector, s.itemRepo)
			if err := s.EnqueueTask(youtubeTask); err != nil {
				slog.Warn("Failed to enqueue CollectYoutubeTask", "entity", entity.ID, "error", err)
			}
		}

		if len(entity.OfficialSitemaps) > 0 || len(entity.OfficialPages) > 0 {
			sitesTask := NewCollectSitesTask(entity, day, s.siteCollector, s.itemRepo)
			if err := s.EnqueueTask(sitesTask); err != nil {
				slog.Warn("Failed to enqueue CollectSitesTask", "entity", entity.ID, "error", err)
			}
		}
	}

	buildTask := NewBuildDigestTask(day, s.deduper, s.itemRepo, s.digestRepo)
	if err := s.EnqueueTask(buildTask); err != nil {
		slog.Warn("Failed to enqueue BuildDigestTask", "day", day, "error", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "subject", task.GetSubject(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}

// CurrentDay returns today's digest key in the configured local timezone.
func CurrentDay() string {
	return time.Now().In(time.Local).Format("2006-01-02")
}
