package lib

import (
	"context"
	"fmt"
	"os"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

// NewStripeClient replaces the singleton, used by tests.
func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// PaymentOrder is the processor-side order created for a booking. The
// caller redirects the user to ApprovalURL to approve the payment.
type PaymentOrder struct {
	OrderID     string `json:"order_id"`
	ApprovalURL string `json:"approval_url"`
}

// PaymentCaptureCompleted is the only capture status that settles a booking.
const PaymentCaptureCompleted = "completed"

// PaymentCapture is the outcome of finalizing an order with the processor.
// Status is PaymentCaptureCompleted only when the processor reports the
// payment as settled; any other value must leave the booking pending.
type PaymentCapture struct {
	Status    string `json:"status"`
	PaymentID string `json:"payment_id"`
}

// PaymentGateway abstracts the external payment processor so the payment
// flow can be exercised with a fake in tests.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount float64, currency, description string) (*PaymentOrder, error)
	CaptureOrder(ctx context.Context, orderID string) (*PaymentCapture, error)
}

// StripeGateway drives checkout sessions: the session is the order, its URL
// is the approval redirect, and its payment status decides the capture.
type StripeGateway struct{}

func NewStripeGateway() *StripeGateway {
	return &StripeGateway{}
}

func (g *StripeGateway) CreateOrder(ctx context.Context, amount float64, currency, description string) (*PaymentOrder, error) {
	sc := GetStripeClient()
	appHost := os.Getenv("APP_HOST")
	unitAmount := int64(amount * 100)
	params := &stripe.CheckoutSessionCreateParams{
		Mode:       stripe.String("payment"),
		SuccessURL: stripe.String(fmt.Sprint(appHost, "/payment/success")),
		CancelURL:  stripe.String(fmt.Sprint(appHost, "/payment/cancel")),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(unitAmount),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	session, err := sc.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	return &PaymentOrder{
		OrderID:     session.ID,
		ApprovalURL: session.URL,
	}, nil
}

func (g *StripeGateway) CaptureOrder(ctx context.Context, orderID string) (*PaymentCapture, error) {
	sc := GetStripeClient()
	session, err := sc.V1CheckoutSessions.Retrieve(ctx, orderID, &stripe.CheckoutSessionRetrieveParams{})
	if err != nil {
		return nil, err
	}
	capture := &PaymentCapture{Status: string(session.PaymentStatus)}
	if session.PaymentIntent != nil {
		capture.PaymentID = session.PaymentIntent.ID
	}
	if session.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid {
		capture.Status = PaymentCaptureCompleted
	}
	return capture, nil
}
