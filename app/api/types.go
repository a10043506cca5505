package api

import (
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/database"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/digest"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/render"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/tasks"
)

type Handler struct {
	itemRepo   database.ItemRepository
	digestRepo database.DigestRepository
	deduper    *digest.Deduplicator
	renderer   *render.Renderer
	scheduler  tasks.TaskSchedulerInterface
}

// DigestEntryResponse is the JSON shape of one digest entry, matching the
// field layout rendering collaborators expect.
type DigestEntryResponse struct {
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Domain     string `json:"domain"`
	Published  string `json:"published"`
	Summary    string `json:"summary"`
	SourceFeed string `json:"source_feed"`
}
