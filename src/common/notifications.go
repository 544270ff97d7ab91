package common

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"tickethub/src/db"
	"tickethub/src/lib"
	"tickethub/src/models"
	"tickethub/src/types"
	"tickethub/src/utils"
)

// Dispatcher owns outbound mail. The reminder sweeps are guarded with
// per-sweep mutexes so a slow run is never overlapped by the next tick; an
// overlapping call returns ErrSweepInProgress instead of blocking.
type Dispatcher struct {
	mailer       lib.Mailer
	from         string
	fromName     string
	eventSweep   sync.Mutex
	paymentSweep sync.Mutex
}

func NewDispatcher(mailer lib.Mailer) *Dispatcher {
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@tickethub.local"
	}
	return &Dispatcher{
		mailer:   mailer,
		from:     from,
		fromName: "TicketHub",
	}
}

func (d *Dispatcher) send(to, subject, body string) error {
	return d.mailer.Send(&lib.SendMailInput{
		From:     d.from,
		FromName: d.fromName,
		To:       []string{to},
		Subject:  subject,
		Body:     body,
		Html:     true,
	})
}

// SendTestEmail verifies the mail configuration end to end. An empty
// recipient falls back to the configured sender address.
func (d *Dispatcher) SendTestEmail(to string) error {
	if to == "" {
		to = d.from
	}
	if !utils.IsValidEmail(to) {
		return fmt.Errorf("invalid recipient address %q", to)
	}
	body := fmt.Sprintf(`<h2>Test Email</h2>
<p>This is a test email from TicketHub.</p>
<p>If you received this, your email configuration is working correctly!</p>
<p>Sent at: %s</p>`, time.Now().Format(time.RFC1123))
	return d.send(to, "Test Email - TicketHub", body)
}

// SendBookingConfirmation mails the receipt for a freshly paid booking. The
// booking must carry its Event and User preloaded.
func (d *Dispatcher) SendBookingConfirmation(booking *models.Booking) error {
	if !utils.IsValidEmail(booking.User.Email) {
		return fmt.Errorf("invalid recipient address %q", booking.User.Email)
	}
	subject := fmt.Sprintf("Booking Confirmed: %s", booking.Event.Title)
	body := fmt.Sprintf(`<h2>Your booking is confirmed!</h2>
<p>Hi %s,</p>
<p>Thank you for your payment. Here are your booking details:</p>
<ul>
<li><strong>Event:</strong> %s</li>
<li><strong>Date:</strong> %s at %s</li>
<li><strong>Venue:</strong> %s, %s, %s</li>
<li><strong>Tickets:</strong> %d</li>
<li><strong>Total paid:</strong> $%.2f</li>
</ul>
<p>See you there!</p>`,
		booking.User.Name,
		booking.Event.Title,
		booking.Event.Date.Format("Monday, January 2, 2006"),
		booking.Event.Time,
		booking.Event.Venue.Name,
		booking.Event.Venue.Address,
		booking.Event.Venue.City,
		booking.Tickets,
		booking.TotalAmount,
	)
	return d.send(booking.User.Email, subject, body)
}

// SendEventReminders mails every completed, not-yet-reminded booking for
// events happening tomorrow (local midnight to midnight). Each booking is
// handled in isolation: a failed send is recorded and the sweep moves on, and
// reminder_sent is only flipped after the mail goes out.
func (d *Dispatcher) SendEventReminders() (*types.ReminderResults, error) {
	if !d.eventSweep.TryLock() {
		return nil, ErrSweepInProgress
	}
	defer d.eventSweep.Unlock()

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	end := start.AddDate(0, 0, 1)

	dbi := db.GetDb()
	results := &types.ReminderResults{Errors: []string{}}

	var events []models.Event
	err := dbi.
		Where("date >= ? AND date < ?", start, end).
		Where("status = ?", types.EVENT_ACTIVE).
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	for i := range events {
		event := &events[i]
		var bookings []models.Booking
		err := dbi.
			Preload("User").
			Where("event_id = ? AND payment_status = ? AND reminder_sent = ?", event.ID, types.PAYMENT_COMPLETED, false).
			Find(&bookings).Error
		if err != nil {
			results.Errors = append(results.Errors, fmt.Sprintf("event %d: %s", event.ID, err.Error()))
			continue
		}
		for j := range bookings {
			booking := &bookings[j]
			results.TotalFound++
			if !utils.IsValidEmail(booking.User.Email) {
				results.Skipped++
				continue
			}
			subject := fmt.Sprintf("Reminder: %s is tomorrow!", event.Title)
			body := fmt.Sprintf(`<h2>Your event is almost here!</h2>
<p>Hi %s,</p>
<p>This is a reminder that <strong>%s</strong> is happening tomorrow.</p>
<ul>
<li><strong>Date:</strong> %s at %s</li>
<li><strong>Venue:</strong> %s, %s, %s</li>
<li><strong>Tickets:</strong> %d</li>
</ul>
<p>See you there!</p>`,
				booking.User.Name,
				event.Title,
				event.Date.Format("Monday, January 2, 2006"),
				event.Time,
				event.Venue.Name,
				event.Venue.Address,
				event.Venue.City,
				booking.Tickets,
			)
			if err := d.send(booking.User.Email, subject, body); err != nil {
				results.Errors = append(results.Errors, fmt.Sprintf("booking %d: %s", booking.ID, err.Error()))
				continue
			}
			err = dbi.Model(&models.Booking{}).
				Where("id = ?", booking.ID).
				Update("reminder_sent", true).Error
			if err != nil {
				results.Errors = append(results.Errors, fmt.Sprintf("booking %d: %s", booking.ID, err.Error()))
				continue
			}
			results.EmailsSent++
		}
	}
	log.Printf("Event reminder sweep: %d found, %d sent, %d skipped, %d errors\n",
		results.TotalFound, results.EmailsSent, results.Skipped, len(results.Errors))
	return results, nil
}

// SendPaymentReminders nudges pending bookings that have not been reminded
// yet. Bookings younger than an hour are left alone unless force is set. A
// successful send stamps payment_reminder_sent so the booking is only nudged
// once.
func (d *Dispatcher) SendPaymentReminders(force bool) (*types.ReminderResults, error) {
	if !d.paymentSweep.TryLock() {
		return nil, ErrSweepInProgress
	}
	defer d.paymentSweep.Unlock()

	dbi := db.GetDb()
	results := &types.ReminderResults{Errors: []string{}}

	q := dbi.
		Preload("User").
		Preload("Event").
		Where("payment_status = ? AND payment_reminder_sent = ?", types.PAYMENT_PENDING, false)
	if !force {
		q = q.Where("created_at <= ?", time.Now().Add(-time.Hour))
	}
	var bookings []models.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}

	results.TotalFound = len(bookings)
	for i := range bookings {
		booking := &bookings[i]
		if !utils.IsValidEmail(booking.User.Email) {
			results.Skipped++
			continue
		}
		subject := fmt.Sprintf("Payment Pending: Complete Your Booking for %s", booking.Event.Title)
		body := fmt.Sprintf(`<h2>Don't lose your spot!</h2>
<p>Hi %s,</p>
<p>Your booking for <strong>%s</strong> is still awaiting payment.</p>
<ul>
<li><strong>Tickets:</strong> %d</li>
<li><strong>Amount due:</strong> $%.2f</li>
</ul>
<p>Complete your payment to confirm your booking before tickets run out.</p>`,
			booking.User.Name,
			booking.Event.Title,
			booking.Tickets,
			booking.TotalAmount,
		)
		if err := d.send(booking.User.Email, subject, body); err != nil {
			results.Errors = append(results.Errors, fmt.Sprintf("booking %d: %s", booking.ID, err.Error()))
			continue
		}
		now := time.Now()
		err := dbi.Model(&models.Booking{}).
			Where("id = ?", booking.ID).
			Updates(map[string]any{
				"payment_reminder_sent":    true,
				"payment_reminder_sent_at": &now,
			}).Error
		if err != nil {
			results.Errors = append(results.Errors, fmt.Sprintf("booking %d: %s", booking.ID, err.Error()))
			continue
		}
		results.EmailsSent++
	}
	log.Printf("Payment reminder sweep: %d found, %d sent, %d skipped, %d errors\n",
		results.TotalFound, results.EmailsSent, results.Skipped, len(results.Errors))
	return results, nil
}
