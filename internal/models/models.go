package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact represents a WhatsApp contact. The phone number (digits only,
// country code included) is the natural key.
type Contact struct {
	PhoneNumber string     `gorm:"primaryKey;type:varchar(20)" json:"phone_number"`
	Name        string     `gorm:"type:varchar(255)" json:"name"`
	PausedUntil *time.Time `json:"paused_until"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Contact) TableName() string {
	return "contacts"
}

// Interaction direction values.
const (
	InteractionUser = "USER"
	InteractionBot  = "BOT"
)

// Interaction is one immutable log entry of the conversation with a contact.
// The most recent entries double as the short-term memory window for the AI.
type Interaction struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContactPhone string    `gorm:"index;type:varchar(20);not null" json:"contact_phone"`
	Type         string    `gorm:"type:varchar(10);not null" json:"type"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	MessageID    string    `gorm:"index;type:varchar(255)" json:"message_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Interaction) TableName() string {
	return "interactions"
}

func (i *Interaction) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// ScheduledAction lifecycle states.
const (
	ActionPending   = "PENDING"
	ActionCompleted = "COMPLETED"
	ActionFailed    = "FAILED"
)

// ScheduledAction kinds.
const (
	ActionKindReminder      = "REMINDER"
	ActionKindReviewRequest = "REVIEW_REQUEST"
	ActionKindReengagement  = "REENGAGEMENT"
)

// ScheduledAction is a persisted future send with its own lifecycle,
// independent of any live conversation. Only the dispatch engine mutates it.
type ScheduledAction struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerPhone  string     `gorm:"type:varchar(20);not null" json:"customer_phone"`
	ExecutionTime  time.Time  `gorm:"index:idx_actions_due;not null" json:"execution_time"`
	ActionKind     string     `gorm:"index;type:varchar(50);not null" json:"action_kind"`
	MessageContent string     `gorm:"type:text" json:"message_content"`
	Status         string     `gorm:"index:idx_actions_due;type:varchar(20);not null;default:'PENDING'" json:"status"`
	Attempts       int        `gorm:"default:0" json:"attempts"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at"`
}

func (ScheduledAction) TableName() string {
	return "scheduled_actions"
}

func (a *ScheduledAction) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
