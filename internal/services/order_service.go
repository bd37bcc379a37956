package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"cap-order-service/internal/metrics"
	"cap-order-service/internal/models"
	"cap-order-service/internal/repository"
	"cap-order-service/internal/templates"
)

// Defaults applied to a submitted order
const (
	DefaultTotalPrice = "299.00"
	DefaultCurrency   = "DKK"
	DefaultAdminEmail = "salg@studentlife.dk"

	orderNumberPrefix = "CAP-"
	isoMillis         = "2006-01-02T15:04:05.000Z07:00"
)

// Response messages of the submit endpoint
const (
	MsgOrderCreated      = "Order created and email sent successfully"
	MsgOrderNotPersisted = "Email sent successfully but database save failed"
	WarnOrderNotSaved    = "Order not saved to database"
	MsgMissingFields     = "Missing required fields: customerDetails, selectedOptions, and email are required"
)

// EventPublisher publishes domain events. Publishing is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, event any) error
}

// OrderServiceConfig holds addresses and locales used for order emails
type OrderServiceConfig struct {
	From           string
	FromName       string
	AdminEmail     string
	CustomerLocale templates.Locale
	AdminLocale    templates.Locale
	WorkflowLocale templates.Locale
}

// OrderService renders and sends order emails and records orders
type OrderService struct {
	orders   repository.OrderRepository
	items    repository.OrderItemRepository
	mailer   Provider
	renderer *templates.Renderer
	events   EventPublisher
	metrics  *metrics.Metrics
	cfg      OrderServiceConfig
	logger   *logrus.Entry
	now      func() time.Time
}

// NewOrderService creates a new order service. events and m may be nil.
func NewOrderService(
	orders repository.OrderRepository,
	items repository.OrderItemRepository,
	mailer Provider,
	renderer *templates.Renderer,
	events EventPublisher,
	m *metrics.Metrics,
	cfg OrderServiceConfig,
	logger *logrus.Logger,
) *OrderService {
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = DefaultAdminEmail
	}
	if cfg.CustomerLocale == "" {
		cfg.CustomerLocale = templates.LocaleDanish
	}
	if cfg.AdminLocale == "" {
		cfg.AdminLocale = templates.LocaleEnglish
	}
	if cfg.WorkflowLocale == "" {
		cfg.WorkflowLocale = templates.LocaleEnglish
	}
	return &OrderService{
		orders:   orders,
		items:    items,
		mailer:   mailer,
		renderer: renderer,
		events:   events,
		metrics:  m,
		cfg:      cfg,
		logger:   logger.WithField("component", "order_service"),
		now:      time.Now,
	}
}

// SetClock replaces the time source
func (s *OrderService) SetClock(now func() time.Time) {
	s.now = now
}

// SubmitOrder validates a configurator order, sends the customer email and
// then the admin email, and finally tries to store the order. A storage
// failure only adds a warning to the response.
func (s *OrderService) SubmitOrder(ctx context.Context, req *models.SubmitOrderRequest) (*models.SubmitOrderResponse, error) {
	if req == nil || req.CustomerDetails == nil || req.SelectedOptions == nil || strings.TrimSpace(req.Email) == "" {
		return nil, &ValidationError{Message: MsgMissingFields}
	}

	now := s.now()
	data := &templates.OrderEmailData{
		Customer:    *req.CustomerDetails,
		Options:     *req.SelectedOptions,
		TotalPrice:  req.TotalPrice.String(),
		Currency:    req.Currency,
		OrderNumber: req.OrderNumber,
		OrderDate:   req.OrderDate,
		Email:       req.Email,
	}
	if data.TotalPrice == "" {
		data.TotalPrice = DefaultTotalPrice
	}
	if data.Currency == "" {
		data.Currency = DefaultCurrency
	}
	if data.OrderNumber == "" {
		data.OrderNumber = fmt.Sprintf("%s%d", orderNumberPrefix, now.UnixMilli())
	}
	if data.OrderDate == "" {
		data.OrderDate = now.UTC().Format(isoMillis)
	}

	log := s.logger.WithField("order_number", data.OrderNumber)

	customerResult, err := s.sendOrderEmail(ctx, data, s.cfg.CustomerLocale, templates.AudienceCustomer, req.Email, "")
	if err != nil {
		log.WithError(err).Error("Failed to send customer order email")
		return nil, err
	}
	if _, err := s.sendOrderEmail(ctx, data, s.cfg.AdminLocale, templates.AudienceAdmin, s.cfg.AdminEmail, req.Email); err != nil {
		log.WithError(err).Error("Failed to send admin order email")
		return nil, err
	}

	resp := &models.SubmitOrderResponse{
		Message:     MsgOrderCreated,
		OrderNumber: data.OrderNumber,
		EmailResult: models.EmailReceipt{
			MessageID: customerResult.ProviderID,
			Accepted:  customerResult.Accepted,
		},
	}
	if resp.EmailResult.Accepted == nil {
		resp.EmailResult.Accepted = []string{}
	}

	order, err := s.persistOrder(ctx, req, data, now)
	if err != nil {
		log.WithError(err).Warn("Order emails sent but the order was not saved")
		resp.Message = MsgOrderNotPersisted
		resp.Warning = WarnOrderNotSaved
	} else {
		resp.OrderID = order.ID
	}
	s.metrics.OrderSubmitted(err == nil)

	s.publish(ctx, models.SubjectOrderSubmitted, models.OrderSubmittedEvent{
		OrderNumber:   data.OrderNumber,
		OrderID:       resp.OrderID,
		CustomerEmail: req.Email,
		TotalPrice:    data.TotalPrice,
		Currency:      data.Currency,
		Persisted:     err == nil,
		OccurredAt:    now.UTC(),
	})

	log.WithField("order_id", resp.OrderID).Info("Order submitted")
	return resp, nil
}

func (s *OrderService) sendOrderEmail(
	ctx context.Context,
	data *templates.OrderEmailData,
	locale templates.Locale,
	audience templates.Audience,
	to, replyTo string,
) (*SendResult, error) {
	content, err := s.renderer.RenderOrder(data, locale, audience)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s email: %w", audience, err)
	}

	result, err := s.mailer.Send(ctx, &Message{
		To:       to,
		Subject:  content.Subject,
		Body:     content.Text,
		BodyHTML: content.HTML,
		From:     s.cfg.From,
		FromName: s.cfg.FromName,
		ReplyTo:  replyTo,
	})
	s.metrics.EmailSent(string(audience), err)
	if err != nil {
		return nil, dependencyError("mail", err)
	}
	return result, nil
}

func (s *OrderService) persistOrder(ctx context.Context, req *models.SubmitOrderRequest, data *templates.OrderEmailData, now time.Time) (*models.Order, error) {
	if s.orders == nil {
		return nil, fmt.Errorf("order storage is not configured")
	}

	total, err := decimal.NewFromString(data.TotalPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid total price %q: %w", data.TotalPrice, err)
	}
	options, err := json.Marshal(req.SelectedOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode selected options: %w", err)
	}

	orderDate := now
	if t, err := time.Parse(time.RFC3339Nano, data.OrderDate); err == nil {
		orderDate = t
	}

	details := req.CustomerDetails
	customer := &models.Customer{
		FirstName:  details.FirstName,
		LastName:   details.LastName,
		Email:      details.Email,
		Phone:      details.Phone,
		Address:    details.Address,
		City:       details.City,
		PostalCode: details.PostalCode,
		Country:    details.Country,
		SchoolName: details.SchoolName,
	}
	if customer.Email == "" {
		customer.Email = req.Email
	}

	order := &models.Order{
		OrderNumber:     data.OrderNumber,
		Token:           uuid.NewString(),
		Status:          models.OrderStatusPending,
		TotalPrice:      total,
		Currency:        data.Currency,
		OrderDate:       orderDate,
		CustomerEmail:   req.Email,
		Notes:           details.Notes,
		DeliverToSchool: details.DeliverToSchool,
		SelectedOptions: datatypes.JSON(options),
	}

	if err := s.orders.CreateWithCustomer(ctx, customer, order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateWorkflowStage replaces the stage and updater of an order item and
// emails the customer. The write is not rolled back when the email fails.
func (s *OrderService) UpdateWorkflowStage(ctx context.Context, id uint, req *models.UpdateWorkflowRequest) (*models.OrderItem, error) {
	log := s.logger.WithField("order_item_id", id)

	item, err := s.items.GetByIDWithRelations(ctx, id)
	if err != nil {
		return nil, dependencyError("database", err)
	}
	if item == nil {
		return nil, &NotFoundError{Resource: "OrderItem"}
	}
	previousStage := item.CurrentStage

	if err := s.items.UpdateWorkflow(ctx, id, req.CurrentStage, req.UpdatedBy); err != nil {
		return nil, dependencyError("database", err)
	}
	item.CurrentStage = req.CurrentStage
	item.UpdatedBy = req.UpdatedBy

	var customer *models.Customer
	if item.Order != nil {
		customer = item.Order.Customer
	}

	recipient := ""
	if customer != nil {
		recipient = customer.Email
	}
	if recipient == "" && item.Order != nil {
		recipient = item.Order.CustomerEmail
	}
	if recipient == "" {
		return nil, dependencyError("mail", fmt.Errorf("order item %d has no customer email", id))
	}

	content, err := s.renderer.RenderWorkflowUpdate(&templates.WorkflowEmailData{
		Item:      item,
		Order:     item.Order,
		Customer:  customer,
		NewStage:  req.CurrentStage,
		UpdatedAt: s.now(),
	}, s.cfg.WorkflowLocale)
	if err != nil {
		return nil, fmt.Errorf("failed to render workflow email: %w", err)
	}

	_, err = s.mailer.Send(ctx, &Message{
		To:       recipient,
		Subject:  content.Subject,
		Body:     content.Text,
		BodyHTML: content.HTML,
		From:     s.cfg.From,
		FromName: s.cfg.FromName,
	})
	s.metrics.EmailSent("workflow", err)
	if err != nil {
		log.WithError(err).Error("Failed to send workflow email")
		return nil, dependencyError("mail", err)
	}

	event := models.StageChangedEvent{
		OrderItemID:   id,
		PreviousStage: previousStage,
		CurrentStage:  req.CurrentStage,
		UpdatedBy:     req.UpdatedBy,
		OccurredAt:    s.now().UTC(),
	}
	if item.Order != nil {
		event.OrderNumber = item.Order.OrderNumber
	}
	s.publish(ctx, models.SubjectOrderStageChanged, event)

	updated, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, dependencyError("database", err)
	}
	if updated == nil {
		return nil, &NotFoundError{Resource: "OrderItem"}
	}

	log.WithField("stage", req.CurrentStage).Info("Order item stage updated")
	return updated, nil
}

func (s *OrderService) publish(ctx context.Context, subject string, event any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, subject, event); err != nil {
		s.logger.WithError(err).WithField("subject", subject).Warn("Failed to publish event")
	}
}
