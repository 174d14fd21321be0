package outbox

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rcarvalho-pb/debt_payment-go/internal/domain/event"
)

type outboxRow struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)"`
	EventType string         `gorm:"type:varchar(64);not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	Published bool           `gorm:"not null;default:false;index"`
	CreatedAt time.Time      `gorm:"not null;index"`
}

func (outboxRow) TableName() string {
	return "outbox_events"
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Migrate() error {
	return r.db.AutoMigrate(&outboxRow{})
}

func (r *GormRepository) Save(evt OutboxEvent) error {
	return r.db.Create(&outboxRow{
		ID:        evt.ID,
		EventType: string(evt.Type),
		Payload:   datatypes.JSON(evt.Payload),
		CreatedAt: evt.CreatedAt,
	}).Error
}

func (r *GormRepository) FindUnpublished(limit int) ([]OutboxEvent, error) {
	var rows []outboxRow
	if err := r.db.
		Where("published = ?", false).
		Order("created_at").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	events := make([]OutboxEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, OutboxEvent{
			ID:        row.ID,
			Type:      event.Type(row.EventType),
			Payload:   []byte(row.Payload),
			Published: row.Published,
			CreatedAt: row.CreatedAt,
		})
	}
	return events, nil
}

func (r *GormRepository) MarkPublished(id string) error {
	return r.db.Model(&outboxRow{}).
		Where("id = ?", id).
		Update("published", true).Error
}
