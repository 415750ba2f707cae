package store

import (
	"github.com/rogelio-fraga-dev/barberbot/internal/models"

	"gorm.io/gorm"
)

type InteractionStore struct {
	db *gorm.DB
}

func NewInteractionStore(db *gorm.DB) *InteractionStore {
	return &InteractionStore{db: db}
}

// Append writes one immutable log entry. messageID is empty for outbound
// messages; for inbound ones it backs the idempotency fallback check.
func (s *InteractionStore) Append(phone, interactionType, content, messageID string) error {
	return s.db.Create(&models.Interaction{
		ContactPhone: phone,
		Type:         interactionType,
		Content:      content,
		MessageID:    messageID,
	}).Error
}

// ExistsByMessageID is the durable half of the idempotency guard: it answers
// whether an inbound message id was already logged, surviving restarts that
// wipe the in-memory cache.
func (s *InteractionStore) ExistsByMessageID(messageID string) (bool, error) {
	if messageID == "" {
		return false, nil
	}
	var n int64
	err := s.db.Model(&models.Interaction{}).Where("message_id = ?", messageID).Count(&n).Error
	return n > 0, err
}

// HasAny reports whether the contact ever sent or received anything, which
// marks the first-contact greeting path.
func (s *InteractionStore) HasAny(phone string) (bool, error) {
	var n int64
	err := s.db.Model(&models.Interaction{}).Where("contact_phone = ?", phone).Count(&n).Error
	return n > 0, err
}

// Recent returns the latest limit entries for a contact in chronological
// order, ready to feed the AI as conversation memory.
func (s *InteractionStore) Recent(phone string, limit int) ([]models.Interaction, error) {
	var interactions []models.Interaction
	err := s.db.Where("contact_phone = ?", phone).
		Order("created_at DESC").
		Limit(limit).
		Find(&interactions).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(interactions)-1; i < j; i, j = i+1, j-1 {
		interactions[i], interactions[j] = interactions[j], interactions[i]
	}
	return interactions, nil
}
