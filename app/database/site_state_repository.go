package database

import (
	"database/sql"
	"fmt"
)

var _ SiteStateRepository = (*SiteStateRepositoryImpl)(nil)

// SiteStateRepositoryImpl remembers which official-site URLs have been seen
// and their validators, so the site collector only reports changed pages.
type SiteStateRepositoryImpl struct {
	db *DB
}

func NewSiteStateRepository(db *DB) *SiteStateRepositoryImpl {
	return &SiteStateRepositoryImpl{db: db}
}

func (r *SiteStateRepositoryImpl) GetState(url string) (*SiteState, error) {
	var state SiteState
	err := r.db.QueryRow(`
		SELECT url, entity_id, etag, last_modified, first_seen_at, last_checked_at
		FROM site_state
		WHERE url = ?
	`, url).Scan(&state.URL, &state.EntityID, &state.ETag, &state.LastModified,
		&state.FirstSeenAt, &state.LastCheckedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get site state: %w", err)
	}
	return &state, nil
}

func (r *SiteStateRepositoryImpl) UpsertState(state SiteState) error {
	_, err := r.db.Exec(`
		INSERT INTO site_state (url, entity_id, etag, last_modified)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			entity_id = excluded.entity_id,
			etag = excluded.etag,
			last_modified = excluded.last_modified,
			last_checked_at = CURRENT_TIMESTAMP
	`, state.URL, state.EntityID, state.ETag, state.LastModified)
	if err != nil {
		return fmt.Errorf("failed to upsert site state: %w", err)
	}
	return nil
}
