package database

import (
	"fmt"

	"github.com/MaxwellProfit/humanoid-robots-monitor/app/digest"
)

var _ ItemRepository = (*ItemRepositoryImpl)(nil)

// ItemRepositoryImpl stores the raw, not yet deduplicated items the
// collectors produce, keyed by day.
type ItemRepositoryImpl struct {
	db *DB
}

func NewItemRepository(db *DB) *ItemRepositoryImpl {
	return &ItemRepositoryImpl{db: db}
}

// StoreRawItems inserts a batch of collected items for a day and returns how
// many were new. Re-collected items (same day, feed, entity and URL) are
// ignored so collectors can run repeatedly without piling up rows.
func (r *ItemRepositoryImpl) StoreRawItems(day string, items []digest.RawItem) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO raw_items
			(day, entity_id, entity_name, source_feed, title, url, published, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, item := range items {
		res, err := stmt.Exec(day, item.EntityID, item.EntityName, item.SourceFeed,
			item.Title, item.URL, item.Published, item.Summary)
		if err != nil {
			return 0, fmt.Errorf("failed to insert raw item: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit raw items: %w", err)
	}

	return inserted, nil
}

// GetRawItems returns a day's collected items in insertion order.
func (r *ItemRepositoryImpl) GetRawItems(day string) ([]digest.RawItem, error) {
	rows, err := r.db.Query(`
		SELECT entity_id, entity_name, source_feed, title, url, published, summary
		FROM raw_items
		WHERE day = ?
		ORDER BY id
	`, day)
	if err != nil {
		return nil, fmt.Errorf("failed to get raw items: %w", err)
	}
	defer rows.Close()

	var items []digest.RawItem
	for rows.Next() {
		var item digest.RawItem
		if err := rows.Scan(&item.EntityID, &item.EntityName, &item.SourceFeed,
			&item.Title, &item.URL, &item.Published, &item.Summary); err != nil {
			return nil, fmt.Errorf("failed to scan raw item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating raw item rows: %w", err)
	}

	return items, nil
}

func (r *ItemRepositoryImpl) GetRawItemCount(day string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM raw_items WHERE day = ?`, day).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count raw items: %w", err)
	}
	return count, nil
}
