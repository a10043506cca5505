package database

import (
	"database/sql"
	"fmt"

	"github.com/MaxwellProfit/humanoid-robots-monitor/app/digest"
)

var _ DigestRepository = (*DigestRepositoryImpl)(nil)

// DigestRepositoryImpl stores the assembled, deduplicated digest per day.
type DigestRepositoryImpl struct {
	db *DB
}

func NewDigestRepository(db *DB) *DigestRepositoryImpl {
	return &DigestRepositoryImpl{db: db}
}

// ReplaceDigest atomically swaps a day's digest for the given items, storing
// them in the order they arrive so the assembled order survives round-trips.
func (r *DigestRepositoryImpl) ReplaceDigest(day string, items []digest.Item) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM digest_entries WHERE day = ?`, day); err != nil {
		return fmt.Errorf("failed to clear existing digest: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO digest_entries
			(day, position, entity_id, entity_name, source_feed, title, url, domain, published, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for position, item := range items {
		_, err := stmt.Exec(day, position, item.EntityID, item.EntityName, item.SourceFeed,
			item.Title, item.URL, item.Domain, item.Published, item.Summary)
		if err != nil {
			return fmt.Errorf("failed to insert digest entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit digest: %w", err)
	}

	return nil
}

// GetDigest returns a day's digest entries in their stored order.
func (r *DigestRepositoryImpl) GetDigest(day string) ([]DigestEntry, error) {
	rows, err := r.db.Query(`
		SELECT id, day, position, entity_id, entity_name, source_feed,
		       title, url, domain, published, summary, created_at
		FROM digest_entries
		WHERE day = ?
		ORDER BY position
	`, day)
	if err != nil {
		return nil, fmt.Errorf("failed to get digest entries: %w", err)
	}
	defer rows.Close()

	var entries []DigestEntry
	for rows.Next() {
		var e DigestEntry
		if err := rows.Scan(&e.ID, &e.Day, &e.Position, &e.EntityID, &e.EntityName,
			&e.SourceFeed, &e.Title, &e.URL, &e.Domain, &e.Published, &e.Summary,
			&e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan digest entry row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating digest entry rows: %w", err)
	}

	return entries, nil
}

// GetDays lists days that have a digest, newest first.
func (r *DigestRepositoryImpl) GetDays(limit int) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT day FROM digest_entries ORDER BY day DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list digest days: %w", err)
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan day row: %w", err)
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating day rows: %w", err)
	}

	return days, nil
}

func (r *DigestRepositoryImpl) GetStats() (*Stats, error) {
	stats := &Stats{}

	if err := r.db.QueryRow(`SELECT COUNT(*) FROM raw_items`).Scan(&stats.RawItemCount); err != nil {
		return nil, fmt.Errorf("failed to count raw items: %w", err)
	}
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM digest_entries`).Scan(&stats.DigestEntryCount); err != nil {
		return nil, fmt.Errorf("failed to count digest entries: %w", err)
	}
	if err := r.db.QueryRow(`SELECT COUNT(DISTINCT day) FROM digest_entries`).Scan(&stats.DayCount); err != nil {
		return nil, fmt.Errorf("failed to count digest days: %w", err)
	}

	err := r.db.QueryRow(`SELECT COALESCE(MAX(day), '') FROM digest_entries`).Scan(&stats.LatestDay)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get latest day: %w", err)
	}

	return stats, nil
}
