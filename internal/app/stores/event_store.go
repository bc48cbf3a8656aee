package stores

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/errors"
	"github.com/sarim-alis/redemption-solutionsss-sub000/internal/app/models"
)

type EventStore struct {
	db *gorm.DB
}

func NewEventStore(db *gorm.DB) *EventStore {
	return &EventStore{
		db: db,
	}
}

// Record appends one event-log row. Redelivered bodies hit the (topic,
// digest) unique index and are rewritten as duplicates instead of erroring:
// at-least-once delivery makes duplicates normal, not exceptional.
func (s *EventStore) Record(ctx context.Context, record *models.EventRecord) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "topic"}, {Name: "digest"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status": models.EventStatusDuplicate,
		}),
	}).Create(record).Error
	if err != nil {
		return apperrors.NewStorageError(err, "Failed to record event")
	}
	return nil
}
