package common

import (
	"context"
	"errors"
	"fmt"
	"log"

	"tickethub/src/db"
	"tickethub/src/lib"
	"tickethub/src/models"
	"tickethub/src/types"

	"gorm.io/gorm"
)

// CreatePaymentOrder opens a payment order with the gateway for the booking's
// snapshotted amount. The booking must belong to the caller and still be
// unpaid.
func CreatePaymentOrder(ctx context.Context, gw lib.PaymentGateway, bookingID, userID uint) (*lib.PaymentOrder, error) {
	var booking models.Booking
	err := db.GetDb().
		Preload("Event").
		Where(&models.Booking{ID: bookingID}).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrAccessDenied
	}
	if booking.PaymentStatus == types.PAYMENT_COMPLETED {
		return nil, ErrBookingAlreadyPaid
	}
	description := fmt.Sprintf("Booking for %s - %d ticket(s)", booking.Event.Title, booking.Tickets)
	order, err := gw.CreateOrder(ctx, booking.TotalAmount, "usd", description)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}
	return order, nil
}

// CapturePaymentOrder captures the order with the gateway and, only when the
// gateway reports the payment completed, confirms the booking. A capture
// error or any terminal status other than completed leaves the booking
// pending so the user can retry.
func CapturePaymentOrder(ctx context.Context, gw lib.PaymentGateway, d *Dispatcher, orderID string, bookingID, userID uint) (*models.Booking, error) {
	capture, err := gw.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to capture payment order: %w", err)
	}
	if capture.Status != lib.PaymentCaptureCompleted {
		return nil, ErrPaymentNotCompleted
	}
	booking, err := ConfirmPayment(bookingID, userID, capture.PaymentID)
	if err != nil {
		return nil, err
	}
	if d != nil {
		go func(b models.Booking) {
			if err := d.SendBookingConfirmation(&b); err != nil {
				log.Printf("Error sending booking confirmation for booking %d: %s\n", b.ID, err.Error())
			}
		}(*booking)
	}
	return booking, nil
}
