package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"tickethub/src/common"
	"tickethub/src/config"
	"tickethub/src/db"
	"tickethub/src/lib"
	"tickethub/src/middlewares"
	"tickethub/src/models"
	"tickethub/src/types"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type TestSuite struct {
	suite.Suite
	DB         *gorm.DB
	Router     *gin.Engine
	Gateway    *stubGateway
	Mailer     *stubMailer
	UserToken  string
	AdminToken string
	User       *models.User
	Admin      *models.User
}

type stubMailer struct {
	sent []*lib.SendMailInput
}

func (m *stubMailer) Send(input *lib.SendMailInput) error {
	m.sent = append(m.sent, input)
	return nil
}

type stubGateway struct {
	captureStatus string
	capturePayID  string
}

func (g *stubGateway) CreateOrder(ctx context.Context, amount float64, currency, description string) (*lib.PaymentOrder, error) {
	return &lib.PaymentOrder{OrderID: "order_http", ApprovalURL: "https://pay.example.com/order_http"}, nil
}

func (g *stubGateway) CaptureOrder(ctx context.Context, orderID string) (*lib.PaymentCapture, error) {
	return &lib.PaymentCapture{Status: g.captureStatus, PaymentID: g.capturePayID}, nil
}

func (s *TestSuite) SetupSuite() {
	os.Setenv("JWT_SECRET", "secret")
	os.Setenv("API_ENV", "local")
	gin.SetMode(gin.TestMode)
	registerValidators()

	d, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening sqlite database", err)
	}
	if err := d.AutoMigrate(&models.User{}, &models.Event{}, &models.Booking{}); err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}
	db.NewDB(d)
	s.DB = d

	s.User = &models.User{Name: "Test User", Email: "someone@example.com", Role: types.ROLE_USER}
	if err := d.Create(s.User).Error; err != nil {
		log.Fatalf("Could not create user due to error: %s\n", err.Error())
	}
	s.Admin = &models.User{Name: "Test Admin", Email: "admin@example.com", Role: types.ROLE_ADMIN}
	if err := d.Create(s.Admin).Error; err != nil {
		log.Fatalf("Could not create admin due to error: %s\n", err.Error())
	}

	token, err := middlewares.GenerateToken(s.User)
	if err != nil {
		log.Fatalf("Error generating token: %s\n", err.Error())
	}
	s.UserToken = token
	token, err = middlewares.GenerateToken(s.Admin)
	if err != nil {
		log.Fatalf("Error generating token: %s\n", err.Error())
	}
	s.AdminToken = token

	s.Gateway = &stubGateway{captureStatus: lib.PaymentCaptureCompleted, capturePayID: "pay_http"}
	s.Mailer = &stubMailer{}
	dispatcher := common.NewDispatcher(s.Mailer)
	s.Router = setupRouter(s.Gateway, dispatcher)
}

func (s *TestSuite) TearDownSuite() {
	inner, err := s.DB.DB()
	if err != nil {
		log.Printf("Error accessing inner db instance: %s\n", err.Error())
		return
	}
	inner.Close()
}

func (s *TestSuite) request(method, url, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = strings.NewReader(string(raw))
	}
	req, _ := http.NewRequest(method, url, reader)
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func (s *TestSuite) TestHealthRoute() {
	w := s.request("GET", "/healthz", "", nil)
	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestCorsHeaders() {
	req, _ := http.NewRequest("GET", "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
	assert.Equal(s.T(), "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func (s *TestSuite) TestEventRoutes() {
	s.Run("Public listing needs no token", func() {
		w := s.request("GET", "/api/v1/events", "", nil)
		assert.Equal(s.T(), 200, w.Code)
	})

	s.Run("Creating events is admin only", func() {
		body := types.CreateEventRequestBody{
			Title:        "HTTP Fest",
			Description:  "over the wire",
			Category:     "concert",
			Date:         time.Now().AddDate(0, 2, 0).Format(config.TIME_PARSE_FORMAT),
			Time:         "20:00",
			Venue:        types.Venue{Name: "Wire Hall", Address: "2 Proto Ave", City: "Springfield"},
			Price:        25,
			TotalTickets: 50,
		}
		w := s.request("POST", "/api/v1/events", s.UserToken, body)
		assert.Equal(s.T(), 403, w.Code)

		w = s.request("POST", "/api/v1/events", s.AdminToken, body)
		assert.Equal(s.T(), 201, w.Code)
		raw, _ := io.ReadAll(w.Body)
		assert.Equal(s.T(), int64(50), gjson.GetBytes(raw, "data.available_tickets").Int())
	})

	s.Run("Rejects incomplete event payloads", func() {
		body := map[string]any{"title": "only a title"}
		w := s.request("POST", "/api/v1/events", s.AdminToken, body)
		assert.Equal(s.T(), 400, w.Code)
		raw, _ := io.ReadAll(w.Body)
		assert.NotEmpty(s.T(), gjson.GetBytes(raw, "error").String())
	})

	s.Run("Rejects past dates", func() {
		body := types.CreateEventRequestBody{
			Title:        "Yesterday Fest",
			Description:  "too late",
			Category:     "concert",
			Date:         time.Now().AddDate(0, 0, -1).Format(config.TIME_PARSE_FORMAT),
			Time:         "20:00",
			Venue:        types.Venue{Name: "Wire Hall", Address: "2 Proto Ave", City: "Springfield"},
			Price:        25,
			TotalTickets: 50,
		}
		w := s.request("POST", "/api/v1/events", s.AdminToken, body)
		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestBookingAndPaymentFlow() {
	event := &models.Event{
		Title:            "Flow Fest",
		Slug:             "flow-fest",
		Description:      "end to end",
		Category:         "concert",
		Date:             time.Now().AddDate(0, 1, 0),
		Time:             "19:00",
		Venue:            types.Venue{Name: "Flow Hall", Address: "3 Pipe St", City: "Springfield"},
		Price:            20,
		TotalTickets:     100,
		AvailableTickets: 100,
		Status:           types.EVENT_ACTIVE,
		OrganizerID:      s.Admin.ID,
	}
	assert.Nil(s.T(), s.DB.Create(event).Error)

	s.Run("Booking requires a token", func() {
		w := s.request("POST", "/api/v1/bookings", "", types.CreateBookingRequestBody{EventID: event.ID, Tickets: 1})
		assert.Equal(s.T(), 401, w.Code)
	})

	var bookingID uint
	s.Run("Creates a pending booking", func() {
		w := s.request("POST", "/api/v1/bookings", s.UserToken, types.CreateBookingRequestBody{EventID: event.ID, Tickets: 10})
		assert.Equal(s.T(), 201, w.Code)
		raw, _ := io.ReadAll(w.Body)
		assert.Equal(s.T(), "pending", gjson.GetBytes(raw, "data.payment_status").String())
		assert.Equal(s.T(), float64(200), gjson.GetBytes(raw, "data.total_amount").Float())
		bookingID = uint(gjson.GetBytes(raw, "data.id").Uint())

		var fresh models.Event
		s.DB.First(&fresh, event.ID)
		assert.Equal(s.T(), 100, fresh.AvailableTickets)
	})

	s.Run("Creates and captures a payment order", func() {
		w := s.request("POST", "/api/v1/payments/create", s.UserToken, types.CreatePaymentRequestBody{BookingID: bookingID})
		assert.Equal(s.T(), 201, w.Code)
		raw, _ := io.ReadAll(w.Body)
		orderID := gjson.GetBytes(raw, "data.order_id").String()
		assert.NotEmpty(s.T(), orderID)

		w = s.request("POST", "/api/v1/payments/capture", s.UserToken, types.CapturePaymentRequestBody{OrderID: orderID, BookingID: bookingID})
		assert.Equal(s.T(), 200, w.Code)
		raw, _ = io.ReadAll(w.Body)
		assert.Equal(s.T(), "completed", gjson.GetBytes(raw, "data.payment_status").String())

		var fresh models.Event
		s.DB.First(&fresh, event.ID)
		assert.Equal(s.T(), 90, fresh.AvailableTickets)
	})

	s.Run("Duplicate capture conflicts", func() {
		w := s.request("POST", "/api/v1/payments/capture", s.UserToken, types.CapturePaymentRequestBody{OrderID: "order_http", BookingID: bookingID})
		assert.Equal(s.T(), 409, w.Code)
	})

	s.Run("Owner can fetch the booking", func() {
		w := s.request("GET", fmt.Sprintf("/api/v1/bookings/%d", bookingID), s.UserToken, nil)
		assert.Equal(s.T(), 200, w.Code)
	})
}

func (s *TestSuite) TestAdminRoutes() {
	s.Run("Regular users are forbidden", func() {
		w := s.request("GET", "/api/v1/admin/stats", s.UserToken, nil)
		assert.Equal(s.T(), 403, w.Code)
	})

	s.Run("Admins get platform stats", func() {
		w := s.request("GET", "/api/v1/admin/stats", s.AdminToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		raw, _ := io.ReadAll(w.Body)
		assert.True(s.T(), gjson.GetBytes(raw, "data.total_users").Exists())
	})

	s.Run("Admins can list bookings", func() {
		w := s.request("GET", "/api/v1/admin/bookings", s.AdminToken, nil)
		assert.Equal(s.T(), 200, w.Code)
	})

	s.Run("Test email goes to a chosen recipient", func() {
		w := s.request("POST", "/api/v1/admin/test-email", s.AdminToken, types.TestEmailRequestBody{Email: "ops@example.com"})
		assert.Equal(s.T(), 200, w.Code)
		assert.Contains(s.T(), s.Mailer.sent[len(s.Mailer.sent)-1].To, "ops@example.com")
	})

	s.Run("Test email without a body falls back to the sender", func() {
		w := s.request("POST", "/api/v1/admin/test-email", s.AdminToken, nil)
		assert.Equal(s.T(), 200, w.Code)
	})

	s.Run("Test email is admin only", func() {
		w := s.request("POST", "/api/v1/admin/test-email", s.UserToken, nil)
		assert.Equal(s.T(), 403, w.Code)
	})

	s.Run("Manual payment reminder sweep returns a summary", func() {
		w := s.request("POST", "/api/v1/admin/send-payment-reminders?force=true", s.AdminToken, nil)
		assert.Equal(s.T(), 200, w.Code)
		raw, _ := io.ReadAll(w.Body)
		assert.True(s.T(), gjson.GetBytes(raw, "data.total_found").Exists())
	})
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
