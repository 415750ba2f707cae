package store

import (
	"time"

	"github.com/rogelio-fraga-dev/barberbot/internal/models"

	"gorm.io/gorm"
)

type ActionStore struct {
	db *gorm.DB
}

func NewActionStore(db *gorm.DB) *ActionStore {
	return &ActionStore{db: db}
}

func (s *ActionStore) Create(action *models.ScheduledAction) error {
	return s.db.Create(action).Error
}

// DuePending returns pending actions whose execution time has passed, oldest
// first. The dispatch engine applies its own batch limit on top.
func (s *ActionStore) DuePending(now time.Time) ([]models.ScheduledAction, error) {
	var actions []models.ScheduledAction
	err := s.db.Where("status = ? AND execution_time <= ?", models.ActionPending, now).
		Order("execution_time ASC").
		Find(&actions).Error
	return actions, err
}

// Save persists every lifecycle mutation (status, attempts, reschedule)
// before the dispatch engine considers it final.
func (s *ActionStore) Save(action *models.ScheduledAction) error {
	return s.db.Save(action).Error
}

// InWindowByKind lists actions of one kind scheduled inside [start, end),
// used by the nightly nudge to know whether tomorrow is already programmed.
func (s *ActionStore) InWindowByKind(start, end time.Time, kind string) ([]models.ScheduledAction, error) {
	var actions []models.ScheduledAction
	err := s.db.Where("execution_time >= ? AND execution_time < ? AND action_kind = ?", start, end, kind).
		Order("execution_time ASC").
		Find(&actions).Error
	return actions, err
}

func (s *ActionStore) PendingCount() (int64, error) {
	var n int64
	err := s.db.Model(&models.ScheduledAction{}).Where("status = ?", models.ActionPending).Count(&n).Error
	return n, err
}
