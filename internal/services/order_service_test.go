package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cap-order-service/internal/models"
	"cap-order-service/internal/templates"
)

var fixedNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

type orderFixture struct {
	svc       *OrderService
	mailer    *fakeMailer
	orders    *fakeOrderRepo
	items     *fakeItemRepo
	publisher *fakePublisher
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{
		mailer:    &fakeMailer{},
		orders:    &fakeOrderRepo{},
		items:     &fakeItemRepo{items: map[uint]*models.OrderItem{}},
		publisher: &fakePublisher{},
	}
	f.svc = NewOrderService(f.orders, f.items, f.mailer, testRenderer(t), f.publisher, nil, OrderServiceConfig{
		From:     "shop@studentlife.dk",
		FromName: "Studentlife",
	}, testLogger())
	f.svc.SetClock(func() time.Time { return fixedNow })
	return f
}

func exampleRequest(t *testing.T) *models.SubmitOrderRequest {
	t.Helper()
	var req models.SubmitOrderRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"customerDetails": {"firstName":"A","lastName":"B","email":"a@b.com","phone":"1","address":"X","city":"Y","postalCode":"0","country":"DK"},
		"selectedOptions": {"Size": {"value": "58"}},
		"email": "a@b.com"
	}`), &req))
	return &req
}

func TestSubmitOrder_AppliesDefaultsAndSendsBothEmails(t *testing.T) {
	f := newOrderFixture(t)

	resp, err := f.svc.SubmitOrder(context.Background(), exampleRequest(t))
	require.NoError(t, err)

	assert.Equal(t, MsgOrderCreated, resp.Message)
	assert.Equal(t, "CAP-1792056600000", resp.OrderNumber)
	assert.True(t, strings.HasPrefix(resp.OrderNumber, "CAP-"))
	assert.Empty(t, resp.Warning)
	assert.Equal(t, uint(100), resp.OrderID)
	assert.Equal(t, "<msg-a@b.com>", resp.EmailResult.MessageID)
	assert.Equal(t, []string{"a@b.com"}, resp.EmailResult.Accepted)

	require.Len(t, f.mailer.sent, 2)
	customer, admin := f.mailer.sent[0], f.mailer.sent[1]

	assert.Equal(t, "a@b.com", customer.To)
	assert.Equal(t, "shop@studentlife.dk", customer.From)
	assert.Contains(t, customer.Subject, "CAP-1792056600000")
	assert.Contains(t, customer.Body, "299.00 DKK")
	assert.Contains(t, customer.BodyHTML, "299.00 DKK")
	assert.Contains(t, customer.Body, "SIZE\nvalue: 58\n")
	assert.Equal(t, 1, strings.Count(customer.BodyHTML, "<h3>Size</h3>"))

	assert.Equal(t, DefaultAdminEmail, admin.To)
	assert.Equal(t, "a@b.com", admin.ReplyTo)
	assert.Equal(t, "🎩 NEW ORDER: Graduation Cap Order : CAP-1792056600000 - A B", admin.Subject)
	assert.Contains(t, admin.Body, "299.00 DKK")

	require.Len(t, f.orders.orders, 1)
	order := f.orders.orders[0]
	assert.Equal(t, "CAP-1792056600000", order.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "299", order.TotalPrice.String())
	assert.Equal(t, "DKK", order.Currency)
	assert.Equal(t, fixedNow, order.OrderDate)
	assert.NotEmpty(t, order.Token)
	assert.JSONEq(t, `{"Size":{"value":"58"}}`, string(order.SelectedOptions))
	assert.Equal(t, "a@b.com", f.orders.customers[0].Email)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, models.SubjectOrderSubmitted, f.publisher.events[0].subject)
}

func TestSubmitOrder_KeepsProvidedValues(t *testing.T) {
	f := newOrderFixture(t)
	req := exampleRequest(t)
	req.TotalPrice = "349.50"
	req.Currency = "EUR"
	req.OrderNumber = "CAP-42"
	req.OrderDate = "2026-05-01T08:00:00.000Z"

	resp, err := f.svc.SubmitOrder(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "CAP-42", resp.OrderNumber)
	assert.Contains(t, f.mailer.sent[0].Body, "349.50 EUR")
	assert.Contains(t, f.mailer.sent[0].Body, "1.5.2026")
	assert.Equal(t, time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC), f.orders.orders[0].OrderDate)
}

func TestSubmitOrder_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.SubmitOrderRequest)
	}{
		{"no customer details", func(r *models.SubmitOrderRequest) { r.CustomerDetails = nil }},
		{"no selected options", func(r *models.SubmitOrderRequest) { r.SelectedOptions = nil }},
		{"no email", func(r *models.SubmitOrderRequest) { r.Email = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture(t)
			req := exampleRequest(t)
			tt.mutate(req)

			_, err := f.svc.SubmitOrder(context.Background(), req)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, MsgMissingFields, validationErr.Message)
			assert.Empty(t, f.mailer.sent)
			assert.Empty(t, f.orders.orders)
		})
	}
}

func TestSubmitOrder_PersistenceFailureIsAWarning(t *testing.T) {
	f := newOrderFixture(t)
	f.orders.err = errors.New("connection reset")

	resp, err := f.svc.SubmitOrder(context.Background(), exampleRequest(t))
	require.NoError(t, err)

	assert.Equal(t, MsgOrderNotPersisted, resp.Message)
	assert.Equal(t, WarnOrderNotSaved, resp.Warning)
	assert.Zero(t, resp.OrderID)
	assert.Len(t, f.mailer.sent, 2)
}

func TestSubmitOrder_InvalidPriceIsNotFatal(t *testing.T) {
	f := newOrderFixture(t)
	req := exampleRequest(t)
	req.TotalPrice = "gratis"

	resp, err := f.svc.SubmitOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, WarnOrderNotSaved, resp.Warning)
	assert.Contains(t, f.mailer.sent[0].Body, "gratis DKK")
}

func TestSubmitOrder_CustomerMailFailure(t *testing.T) {
	f := newOrderFixture(t)
	f.mailer.failOn = 1

	_, err := f.svc.SubmitOrder(context.Background(), exampleRequest(t))

	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, "connection refused", depErr.Error())
	assert.Len(t, f.mailer.sent, 1, "admin email is not attempted")
	assert.Empty(t, f.orders.orders)
}

func TestSubmitOrder_AdminMailFailure(t *testing.T) {
	f := newOrderFixture(t)
	f.mailer.failOn = 2

	_, err := f.svc.SubmitOrder(context.Background(), exampleRequest(t))

	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Len(t, f.mailer.sent, 2)
	assert.Empty(t, f.orders.orders)
}

func TestSubmitOrder_PublishFailureIgnored(t *testing.T) {
	f := newOrderFixture(t)
	f.publisher.err = errors.New("nats: no responders")

	_, err := f.svc.SubmitOrder(context.Background(), exampleRequest(t))
	assert.NoError(t, err)
}

func TestSubmitOrder_LocalesFromConfig(t *testing.T) {
	f := newOrderFixture(t)
	f.svc.cfg.CustomerLocale = templates.LocaleEnglish
	f.svc.cfg.AdminLocale = templates.LocaleDanish

	_, err := f.svc.SubmitOrder(context.Background(), exampleRequest(t))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(f.mailer.sent[0].Subject, "🎩 Cap Order Confirmation"))
	assert.True(t, strings.HasPrefix(f.mailer.sent[1].Subject, "🎩 NY ORDRE"))
}

func seedItem(f *orderFixture) {
	productID := uint(5)
	f.items.items[7] = &models.OrderItem{
		ID:           7,
		OrderID:      1,
		ProductID:    &productID,
		Product:      &models.Product{ID: 5, Title: "Studenterhue Classic"},
		Color:        "Hvid",
		Quantity:     1,
		CurrentStage: "Modtaget",
		Order: &models.Order{
			ID:          1,
			OrderNumber: "CAP-1",
			Token:       "tok-1",
			Customer:    &models.Customer{FirstName: "Ida", LastName: "Hansen", Email: "ida@example.dk"},
		},
	}
}

func TestUpdateWorkflowStage(t *testing.T) {
	f := newOrderFixture(t)
	seedItem(f)

	item, err := f.svc.UpdateWorkflowStage(context.Background(), 7, &models.UpdateWorkflowRequest{
		CurrentStage: "Broderi",
		UpdatedBy:    "Lars",
	})
	require.NoError(t, err)

	assert.Equal(t, uint(7), item.ID)
	assert.Equal(t, "Broderi", item.CurrentStage)
	assert.Equal(t, "Lars", item.UpdatedBy)
	assert.Equal(t, 1, f.items.updates)

	require.Len(t, f.mailer.sent, 1)
	msg := f.mailer.sent[0]
	assert.Equal(t, "ida@example.dk", msg.To)
	assert.Equal(t, "Workflow Update for Your Order Item", msg.Subject)
	assert.Contains(t, msg.Body, "New Stage: Broderi\n")
	assert.Contains(t, msg.BodyHTML, "Broderi")
	assert.Contains(t, msg.Body, "Updated By: Lars\n")
	assert.Contains(t, msg.Body, "tok-1")

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0].event.(models.StageChangedEvent)
	assert.Equal(t, "Modtaget", event.PreviousStage)
	assert.Equal(t, "Broderi", event.CurrentStage)
}

func TestUpdateWorkflowStage_NotFound(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.UpdateWorkflowStage(context.Background(), 99, &models.UpdateWorkflowRequest{CurrentStage: "x"})

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "OrderItem not found", notFound.Error())
	assert.Empty(t, f.mailer.sent)
	assert.Zero(t, f.items.updates)
}

func TestUpdateWorkflowStage_DatabaseError(t *testing.T) {
	f := newOrderFixture(t)
	f.items.getErr = errors.New("db down")

	_, err := f.svc.UpdateWorkflowStage(context.Background(), 7, &models.UpdateWorkflowRequest{})

	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, "db down", err.Error())
	assert.Empty(t, f.mailer.sent)
}

func TestUpdateWorkflowStage_MailFailureKeepsWrite(t *testing.T) {
	f := newOrderFixture(t)
	seedItem(f)
	f.mailer.failOn = 1

	_, err := f.svc.UpdateWorkflowStage(context.Background(), 7, &models.UpdateWorkflowRequest{CurrentStage: "Pakket"})

	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, "Pakket", f.items.items[7].CurrentStage)
	assert.Empty(t, f.publisher.events)
}

func TestUpdateWorkflowStage_FallsBackToOrderEmail(t *testing.T) {
	f := newOrderFixture(t)
	seedItem(f)
	f.items.items[7].Order.Customer = nil
	f.items.items[7].Order.CustomerEmail = "order@example.dk"

	_, err := f.svc.UpdateWorkflowStage(context.Background(), 7, &models.UpdateWorkflowRequest{CurrentStage: "Pakket"})
	require.NoError(t, err)
	assert.Equal(t, "order@example.dk", f.mailer.sent[0].To)
	assert.Contains(t, f.mailer.sent[0].Body, "Dear N/A,")
}
