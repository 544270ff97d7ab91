package common

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"tickethub/src/db"
	"tickethub/src/lib"
	"tickethub/src/models"
	"tickethub/src/types"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB() *gorm.DB {
	d, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening sqlite database", err)
	}
	err = d.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Booking{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}
	db.NewDB(d)
	return d
}

func cleanTables(d *gorm.DB) {
	d.Exec("DELETE FROM bookings")
	d.Exec("DELETE FROM events")
	d.Exec("DELETE FROM users")
}

func seedUser(d *gorm.DB, name, email string, role types.Role) *models.User {
	user := &models.User{Name: name, Email: email, Role: role}
	if err := d.Create(user).Error; err != nil {
		log.Fatalf("Could not create user due to error: %s\n", err.Error())
	}
	return user
}

func seedEvent(d *gorm.DB, title string, price float64, total int, status types.EventStatus, date time.Time) *models.Event {
	event := &models.Event{
		Title:            title,
		Slug:             title,
		Description:      "seeded",
		Category:         "concert",
		Date:             date,
		Time:             "19:00",
		Venue:            types.Venue{Name: "Main Hall", Address: "1 Center St", City: "Springfield"},
		Price:            price,
		TotalTickets:     total,
		AvailableTickets: total,
		Status:           status,
	}
	if err := d.Create(event).Error; err != nil {
		log.Fatalf("Could not create event due to error: %s\n", err.Error())
	}
	return event
}

// fakeMailer records sends and can be told to fail for specific recipients.
type fakeMailer struct {
	mu      sync.Mutex
	sent    []*lib.SendMailInput
	failFor map[string]bool
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failFor: map[string]bool{}}
}

func (m *fakeMailer) Send(input *lib.SendMailInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, to := range input.To {
		if m.failFor[to] {
			return errors.New("smtp rejected recipient")
		}
	}
	m.sent = append(m.sent, input)
	return nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// fakeGateway returns canned orders and captures.
type fakeGateway struct {
	captureStatus string
	capturePayID  string
	captureErr    error
	createErr     error
	lastAmount    float64
	lastDesc      string
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amount float64, currency, description string) (*lib.PaymentOrder, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.lastAmount = amount
	g.lastDesc = description
	return &lib.PaymentOrder{OrderID: "order_123", ApprovalURL: "https://pay.example.com/order_123"}, nil
}

func (g *fakeGateway) CaptureOrder(ctx context.Context, orderID string) (*lib.PaymentCapture, error) {
	if g.captureErr != nil {
		return nil, g.captureErr
	}
	return &lib.PaymentCapture{Status: g.captureStatus, PaymentID: g.capturePayID}, nil
}
