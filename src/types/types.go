package types

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type Timestamps struct {
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at,omitempty"`
}

type EventStatus string

const (
	EVENT_ACTIVE    EventStatus = "active"
	EVENT_CANCELLED EventStatus = "cancelled"
	EVENT_COMPLETED EventStatus = "completed"
)

type PaymentStatus string

const (
	PAYMENT_PENDING   PaymentStatus = "pending"
	PAYMENT_COMPLETED PaymentStatus = "completed"
	PAYMENT_FAILED    PaymentStatus = "failed"
	PAYMENT_REFUNDED  PaymentStatus = "refunded"
)

type Role string

const (
	ROLE_USER  Role = "user"
	ROLE_ADMIN Role = "admin"
)

type Venue struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
}

type CreateEventRequestBody struct {
	Title        string  `json:"title" binding:"required"`
	Description  string  `json:"description" binding:"required"`
	Category     string  `json:"category" binding:"required,oneof=concert conference workshop sports theater other"`
	Date         string  `json:"date" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	Time         string  `json:"time" binding:"required"`
	Venue        Venue   `json:"venue" binding:"required"`
	Price        float64 `json:"price" binding:"min=0"`
	TotalTickets int     `json:"total_tickets" binding:"required,min=1"`
	Image        string  `json:"image,omitempty"`
	Status       string  `json:"status,omitempty" binding:"omitempty,oneof=active cancelled completed"`
}

type UpdateEventRequestBody struct {
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Category     *string  `json:"category,omitempty" binding:"omitempty,oneof=concert conference workshop sports theater other"`
	Date         *string  `json:"date,omitempty"`
	Time         *string  `json:"time,omitempty"`
	Venue        *Venue   `json:"venue,omitempty"`
	Price        *float64 `json:"price,omitempty" binding:"omitempty,min=0"`
	TotalTickets *int     `json:"total_tickets,omitempty" binding:"omitempty,min=1"`
	Image        *string  `json:"image,omitempty"`
	Status       *string  `json:"status,omitempty" binding:"omitempty,oneof=active cancelled completed"`
}

type EventQueryFilters struct {
	Category string `form:"category"`
	Search   string `form:"search"`
	Status   string `form:"status"`
}

type CreateBookingRequestBody struct {
	EventID uint `json:"event_id" binding:"required"`
	Tickets int  `json:"tickets" binding:"required,min=1"`
}

type ConfirmBookingRequestBody struct {
	PaymentID string `json:"payment_id" binding:"required"`
}

type CreatePaymentRequestBody struct {
	BookingID uint `json:"booking_id" binding:"required"`
}

type CapturePaymentRequestBody struct {
	OrderID   string `json:"order_id" binding:"required"`
	BookingID uint   `json:"booking_id" binding:"required"`
}

type TestEmailRequestBody struct {
	Email string `json:"email" binding:"omitempty,email"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

// ReminderResults summarizes one reminder sweep. A sweep never fails as a
// whole; per-item problems are collected in Errors.
type ReminderResults struct {
	TotalFound int      `json:"total_found"`
	EmailsSent int      `json:"emails_sent"`
	Skipped    int      `json:"skipped"`
	Errors     []string `json:"errors"`
}

type AdminStats struct {
	TotalEvents       int64   `json:"total_events"`
	ActiveEvents      int64   `json:"active_events"`
	TotalBookings     int64   `json:"total_bookings"`
	CompletedBookings int64   `json:"completed_bookings"`
	TotalUsers        int64   `json:"total_users"`
	TotalRevenue      float64 `json:"total_revenue"`
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
