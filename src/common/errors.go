package common

import "errors"

// Sentinel errors returned by the booking and payment flows. Handlers map
// these to HTTP statuses with errors.Is; anything else is a server error.
var (
	ErrEventNotFound       = errors.New("event not found")
	ErrEventNotActive      = errors.New("event is not available for booking")
	ErrNotEnoughTickets    = errors.New("not enough tickets available")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrAccessDenied        = errors.New("access denied")
	ErrBookingAlreadyPaid  = errors.New("booking already paid")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrVenueConflict       = errors.New("venue is already booked for this date and time")
	ErrSweepInProgress     = errors.New("sweep already in progress")
)
