package models

import (
	"time"

	"tickethub/src/types"
)

type Booking struct {
	ID      uint `gorm:"primarykey" json:"id"`
	UserID  uint `json:"user_id,omitempty"`
	EventID uint `json:"event_id,omitempty"`
	Tickets int  `json:"tickets,omitempty"`
	// TotalAmount is a snapshot of event price x tickets taken at creation
	// time; it is never recomputed when the event price changes.
	TotalAmount   float64             `json:"total_amount"`
	PaymentStatus types.PaymentStatus `gorm:"default:'pending'" json:"payment_status,omitempty"`
	PaymentID     string              `json:"payment_id,omitempty"`
	PaymentMethod string              `gorm:"default:'stripe'" json:"payment_method,omitempty"`

	ReminderSent          bool       `json:"reminder_sent"`
	PaymentReminderSent   bool       `json:"payment_reminder_sent"`
	PaymentReminderSentAt *time.Time `json:"payment_reminder_sent_at,omitempty"`

	Event *Event `gorm:"foreignKey:event_id" json:"event,omitempty"`
	User  *User  `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}
