package outbox

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rcarvalho-pb/debt_payment-go/internal/domain/event"
)

// createdAtLayout is fixed width so text ordering is chronological.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteRepository stores created_at as UTC text so ordering works the same
// with either sqlite driver.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db}
}

func (r *SQLiteRepository) Save(evt OutboxEvent) error {
	_, err := r.db.Exec(`
		INSERT INTO outbox_events (id, event_type, payload, published, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		evt.ID,
		string(evt.Type),
		evt.Payload,
		0,
		evt.CreatedAt.UTC().Format(createdAtLayout),
	)
	return err
}

func (r *SQLiteRepository) FindUnpublished(limit int) ([]OutboxEvent, error) {
	rows, err := r.db.Query(`
		SELECT id, event_type, payload, published, created_at
		FROM outbox_events
		WHERE published = 0
		ORDER BY created_at, rowid
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []OutboxEvent

	for rows.Next() {
		var (
			evt       OutboxEvent
			typ       string
			published int
			createdAt string
		)

		if err := rows.Scan(
			&evt.ID,
			&typ,
			&evt.Payload,
			&published,
			&createdAt,
		); err != nil {
			return nil, err
		}

		created, err := time.Parse(createdAtLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("outbox event %s: bad created_at: %w", evt.ID, err)
		}

		evt.Type = event.Type(typ)
		evt.Published = published == 1
		evt.CreatedAt = created
		events = append(events, evt)
	}

	return events, rows.Err()
}

func (r *SQLiteRepository) MarkPublished(id string) error {
	_, err := r.db.Exec(`
		UPDATE outbox_events
		SET published = 1
		WHERE id = ?
	`, id)

	return err
}
