package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"cap-order-service/internal/metrics"
	"cap-order-service/internal/models"
)

// Checkout defaults
const (
	DefaultCheckoutCurrency = "dkk"
	DefaultSuccessURL       = "http://elipsestudio.com/studentlife/success?session_id={CHECKOUT_SESSION_ID}"
	DefaultCancelURL        = "http://elipsestudio.com/studentlife/cancel"
)

var hundred = decimal.NewFromInt(100)

// CheckoutGateway is the hosted checkout API of the payment processor
type CheckoutGateway interface {
	CreateSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetSession(ctx context.Context, id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type stripeGateway struct {
	api *client.API
}

// NewStripeGateway creates a checkout gateway backed by Stripe
func NewStripeGateway(secretKey string) CheckoutGateway {
	return &stripeGateway{api: client.New(secretKey, nil)}
}

func (g *stripeGateway) CreateSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	params.Context = ctx
	return g.api.CheckoutSessions.New(params)
}

func (g *stripeGateway) GetSession(ctx context.Context, id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	params.Context = ctx
	return g.api.CheckoutSessions.Get(id, params)
}

// PaymentConfig holds the fixed parts of a checkout session
type PaymentConfig struct {
	Currency   string
	SuccessURL string
	CancelURL  string
}

// PaymentService creates and retrieves hosted checkout sessions
type PaymentService struct {
	gateway CheckoutGateway
	cfg     PaymentConfig
	metrics *metrics.Metrics
	logger  *logrus.Entry
}

// NewPaymentService creates a new payment service
func NewPaymentService(gateway CheckoutGateway, cfg PaymentConfig, m *metrics.Metrics, logger *logrus.Logger) *PaymentService {
	if cfg.Currency == "" {
		cfg.Currency = DefaultCheckoutCurrency
	}
	if cfg.SuccessURL == "" {
		cfg.SuccessURL = DefaultSuccessURL
	}
	if cfg.CancelURL == "" {
		cfg.CancelURL = DefaultCancelURL
	}
	cfg.Currency = strings.ToLower(cfg.Currency)

	return &PaymentService{
		gateway: gateway,
		cfg:     cfg,
		metrics: m,
		logger:  logger.WithField("component", "payment_service"),
	}
}

// UnitAmount converts a major-unit price to the processor's minor units, rounding half away from zero.
func UnitAmount(totalPrice string) (int64, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(totalPrice))
	if err != nil {
		return 0, fmt.Errorf("totalPrice must be a number")
	}
	if !price.IsPositive() {
		return 0, fmt.Errorf("totalPrice must be greater than zero")
	}
	return price.Mul(hundred).Round(0).IntPart(), nil
}

// CreateCheckoutSession opens a single line item session for the order total
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, req *models.CheckoutRequest) (*models.CheckoutSessionResponse, error) {
	amount, err := UnitAmount(req.TotalPrice.String())
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(s.cfg.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Cap Order : %s", req.OrderNumber)),
					},
					UnitAmount: stripe.Int64(amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.cfg.SuccessURL),
		CancelURL:  stripe.String(s.cfg.CancelURL),
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}

	session, err := s.gateway.CreateSession(ctx, params)
	s.metrics.CheckoutCall("create", err)
	if err != nil {
		s.logger.WithError(err).WithField("order_number", req.OrderNumber).Error("Failed to create checkout session")
		return nil, paymentError(err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": req.OrderNumber,
		"session_id":   session.ID,
		"unit_amount":  amount,
	}).Info("Checkout session created")

	return &models.CheckoutSessionResponse{ID: session.ID}, nil
}

// GetCheckoutSession retrieves a session with its line items expanded
func (s *PaymentService) GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, &ValidationError{Message: "session_id is required"}
	}

	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("line_items")

	session, err := s.gateway.GetSession(ctx, sessionID, params)
	s.metrics.CheckoutCall("get", err)
	if err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).Error("Failed to retrieve checkout session")
		return nil, paymentError(err)
	}
	return session, nil
}

// paymentError keeps the processor's human readable message
func paymentError(err error) error {
	depErr := &DependencyError{Dependency: "payment", Err: err}
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		depErr.Message = stripeErr.Msg
	}
	return depErr
}
