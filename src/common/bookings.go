package common

import (
	"errors"
	"log"

	"tickethub/src/db"
	"tickethub/src/models"
	"tickethub/src/types"

	"gorm.io/gorm"
)

// CreateBooking reserves no inventory. The booking is created pending with the
// total amount snapshotted from the event's current price; tickets come off
// the event only when payment is confirmed.
func CreateBooking(userID uint, body *types.CreateBookingRequestBody) (*models.Booking, error) {
	dbi := db.GetDb()
	var booking models.Booking
	err := dbi.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Where(&models.Event{ID: body.EventID}).First(&event).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		if event.Status != types.EVENT_ACTIVE {
			return ErrEventNotActive
		}
		if body.Tickets > event.AvailableTickets {
			return ErrNotEnoughTickets
		}
		booking = models.Booking{
			UserID:        userID,
			EventID:       event.ID,
			Tickets:       body.Tickets,
			TotalAmount:   event.Price * float64(body.Tickets),
			PaymentStatus: types.PAYMENT_PENDING,
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	if err := dbi.Preload("Event").First(&booking, booking.ID).Error; err != nil {
		log.Printf("Error reloading booking %d: %s\n", booking.ID, err.Error())
	}
	return &booking, nil
}

// ConfirmPayment marks a pending booking completed and decrements the event's
// available tickets in one transaction. Both writes are conditional: the
// status flip only lands on a booking that is still pending, and the decrement
// only lands while enough tickets remain. Zero rows affected on either rolls
// the whole transaction back, so a booking can never be paid twice and
// inventory can never go negative.
func ConfirmPayment(bookingID, userID uint, paymentID string) (*models.Booking, error) {
	dbi := db.GetDb()
	var booking models.Booking
	err := dbi.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&models.Booking{ID: bookingID}).First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.UserID != userID {
			return ErrAccessDenied
		}
		if booking.PaymentStatus == types.PAYMENT_COMPLETED {
			return ErrBookingAlreadyPaid
		}
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND payment_status = ?", bookingID, types.PAYMENT_PENDING).
			Updates(map[string]any{
				"payment_status": types.PAYMENT_COMPLETED,
				"payment_id":     paymentID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBookingAlreadyPaid
		}
		res = tx.Model(&models.Event{}).
			Where("id = ? AND available_tickets >= ?", booking.EventID, booking.Tickets).
			Update("available_tickets", gorm.Expr("available_tickets - ?", booking.Tickets))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotEnoughTickets
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := dbi.Preload("Event").Preload("User").First(&booking, bookingID).Error; err != nil {
		log.Printf("Error reloading booking %d: %s\n", bookingID, err.Error())
	}
	return &booking, nil
}

// ListBookings returns the user's own bookings, newest first.
func ListBookings(userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := db.GetDb().
		Preload("Event").
		Where(&models.Booking{UserID: userID}).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetBooking loads a single booking. Only the owner or an admin may see it.
func GetBooking(bookingID, userID uint, role types.Role) (*models.Booking, error) {
	var booking models.Booking
	err := db.GetDb().
		Preload("Event").
		Preload("User").
		Where(&models.Booking{ID: bookingID}).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.UserID != userID && role != types.ROLE_ADMIN {
		return nil, ErrAccessDenied
	}
	return &booking, nil
}
