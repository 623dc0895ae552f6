package model

import "time"

const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// OutboxModel: email yang sudah dirender dan menunggu dikirim worker.
type OutboxModel struct {
	ID            uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Event         string  `gorm:"column:event;type:varchar(50);not null;index" json:"event"`
	Recipient     string  `gorm:"column:recipient;type:varchar(150);not null" json:"recipient"`
	Subject       string  `gorm:"column:subject;type:varchar(255);not null" json:"subject"`
	HTML          string  `gorm:"column:html;type:text;not null" json:"-"`
	AttachmentKey *string `gorm:"column:attachment_key;type:varchar(255)" json:"attachment_key,omitempty"`

	Status        string     `gorm:"column:status;type:varchar(10);not null;index:idx_outbox_due,priority:1" json:"status"`
	Attempts      int        `gorm:"column:attempts;not null;default:0" json:"attempts"`
	LastError     *string    `gorm:"column:last_error;type:text" json:"last_error,omitempty"`
	NextAttemptAt time.Time  `gorm:"column:next_attempt_at;not null;index:idx_outbox_due,priority:2" json:"next_attempt_at"`
	SentAt        *time.Time `gorm:"column:sent_at" json:"sent_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (OutboxModel) TableName() string { return "notification_outbox" }
