package models

import (
	"time"

	"tickethub/src/types"
)

type Event struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Title       string            `json:"title,omitempty"`
	Slug        string            `gorm:"index" json:"slug,omitempty"`
	Description string            `json:"description,omitempty"`
	Category    string            `json:"category,omitempty"`
	Date        time.Time         `json:"date,omitempty"`
	Time        string            `json:"time,omitempty"`
	Venue       types.Venue       `gorm:"embedded;embeddedPrefix:venue_" json:"venue"`
	Price       float64           `json:"price"`
	// Invariant: 0 <= AvailableTickets <= TotalTickets. Only the booking
	// confirmation path may decrement AvailableTickets.
	TotalTickets     int               `json:"total_tickets,omitempty"`
	AvailableTickets int               `json:"available_tickets"`
	Image            string            `json:"image,omitempty"`
	Status           types.EventStatus `gorm:"default:'active'" json:"status,omitempty"`
	OrganizerID      uint              `json:"organizer_id,omitempty"`

	Organizer *User     `gorm:"foreignKey:organizer_id" json:"organizer,omitempty"`
	Bookings  []Booking `gorm:"foreignKey:event_id" json:"bookings,omitempty"`

	types.Timestamps
}
