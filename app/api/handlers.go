package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/MaxwellProfit/humanoid-robots-monitor/app/cfg"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/database"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/digest"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/render"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/tasks"
)

const recentDayLimit = 14

var dayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func NewHandler(itemRepo database.ItemRepository, digestRepo database.DigestRepository,
	deduper *digest.Deduplicator, renderer *render.Renderer,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		itemRepo:   itemRepo,
		digestRepo: digestRepo,
		deduper:    deduper,
		renderer:   renderer,
		scheduler:  scheduler,
	}
}

// GetIndex serves the landing page: the latest digest plus recent days.
func (h *Handler) GetIndex(c *gin.Context) {
	days, err := h.digestRepo.GetDays(recentDayLimit)
	if err != nil {
		slog.Error("Database error", "operation", "get_days", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	var latestDay string
	var entries []database.DigestEntry
	if len(days) > 0 {
		latestDay = days[0]
		entries, err = h.digestRepo.GetDigest(latestDay)
		if err != nil {
			slog.Error("Database error", "operation", "get_digest", "day", latestDay, "error", err)
			c.Status(http.StatusInternalServerError)
			return
		}
	}

	html, err := h.renderer.RenderIndex(latestDay, entries, days)
	if err != nil {
		slog.Error("Render error", "page", "index", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// GetDayPage serves one day's digest as HTML.
func (h *Handler) GetDayPage(c *gin.Context) {
	day := c.Param("day")
	if !dayPattern.MatchString(day) {
		c.Status(http.StatusBadRequest)
		return
	}

	entries, err := h.digestRepo.GetDigest(day)
	if err != nil {
		slog.Error("Database error", "operation", "get_digest", "day", day, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(entries) == 0 {
		c.Status(http.StatusNotFound)
		return
	}

	html, err := h.renderer.RenderDay(day, entries)
	if err != nil {
		slog.Error("Render error", "page", "day", "day", day, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// ListDigests returns the days that have a stored digest, newest first, with
// a link to each day's digest endpoint.
func (h *Handler) ListDigests(c *gin.Context) {
	days, err := h.digestRepo.GetDays(recentDayLimit)
	if err != nil {
		slog.Error("Database error", "operation", "get_days", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	listing := make([]gin.H, 0, len(days))
	for _, day := range days {
		listing = append(listing, gin.H{"day": day, "url": digestURL(day)})
	}
	c.JSON(http.StatusOK, gin.H{"days": listing})
}

// digestURL builds the public URL of a day's digest endpoint.
func digestURL(day string) string {
	if base := cfg.Get().BaseUrl; base != "" {
		return fmt.Sprintf("%s/digests/%s", base, day)
	}
	return fmt.Sprintf("http://localhost:%s/digests/%s", cfg.Get().Port, day)
}

// GetDigest returns one day's digest entries as JSON, in assembled order.
func (h *Handler) GetDigest(c *gin.Context) {
	day := c.Param("day")
	if !dayPattern.MatchString(day) {
		c.Status(http.StatusBadRequest)
		return
	}

	entries, err := h.digestRepo.GetDigest(day)
	if err != nil {
		slog.Error("Database error", "operation", "get_digest", "day", day, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(entries) == 0 {
		c.Status(http.StatusNotFound)
		return
	}

	response := make([]DigestEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, DigestEntryResponse{
			EntityID:   e.EntityID,
			EntityName: e.EntityName,
			Title:      e.Title,
			URL:        e.URL,
			Domain:     e.Domain,
			Published:  e.Published,
			Summary:    e.Summary,
			SourceFeed: e.SourceFeed,
		})
	}

	c.JSON(http.StatusOK, gin.H{"day": day, "count": len(response), "items": response})
}

// RebuildDigest re-runs the dedupe pipeline for a day's raw items.
func (h *Handler) RebuildDigest(c *gin.Context) {
	day := c.Param("day")
	if !dayPattern.MatchString(day) {
		c.Status(http.StatusBadRequest)
		return
	}

	count, err := h.itemRepo.GetRawItemCount(day)
	if err != nil {
		slog.Error("Database error", "operation", "count_raw_items", "day", day, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no raw items collected for day", "day": day})
		return
	}

	task := tasks.NewBuildDigestTask(day, h.deduper, h.itemRepo, h.digestRepo)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue rebuild", "day", day, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "task queue is full"})
		return
	}

	slog.Info("Digest rebuild enqueued", "day", day, "raw_items", count)
	c.JSON(http.StatusAccepted, gin.H{"status": "enqueued", "day": day, "raw_items": count})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": cfg.Get().Version,
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.digestRepo.GetStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"raw_items":      stats.RawItemCount,
		"digest_entries": stats.DigestEntryCount,
		"days":           stats.DayCount,
		"latest_day":     stats.LatestDay,
	})
}
