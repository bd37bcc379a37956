package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"cap-order-service/internal/models"
	"cap-order-service/internal/templates"
)

type fakeMailer struct {
	mu      sync.Mutex
	sent    []*Message
	failOn  int // 1-based send that fails; 0 never
	failErr error
}

func (m *fakeMailer) Send(ctx context.Context, message *Message) (*SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, message)
	if m.failOn == len(m.sent) {
		err := m.failErr
		if err == nil {
			err = errors.New("connection refused")
		}
		return &SendResult{ProviderName: m.GetName(), Error: err}, err
	}
	return &SendResult{
		ProviderID:   "<msg-" + message.To + ">",
		ProviderName: m.GetName(),
		Accepted:     []string{message.To},
		Success:      true,
	}, nil
}

func (m *fakeMailer) GetName() string { return "fake" }

type fakeOrderRepo struct {
	err       error
	customers []*models.Customer
	orders    []*models.Order
}

func (r *fakeOrderRepo) CreateWithCustomer(ctx context.Context, customer *models.Customer, order *models.Order) error {
	if r.err != nil {
		return r.err
	}
	customer.ID = uint(len(r.customers) + 1)
	order.ID = uint(len(r.orders) + 100)
	order.CustomerID = customer.ID
	r.customers = append(r.customers, customer)
	r.orders = append(r.orders, order)
	return nil
}

type fakeItemRepo struct {
	items     map[uint]*models.OrderItem
	getErr    error
	updateErr error
	updates   int
}

func (r *fakeItemRepo) GetByID(ctx context.Context, id uint) (*models.OrderItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	plain := *item
	plain.Order = nil
	plain.Product = nil
	return &plain, nil
}

func (r *fakeItemRepo) GetByIDWithRelations(ctx context.Context, id uint) (*models.OrderItem, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepo) UpdateWorkflow(ctx context.Context, id uint, currentStage, updatedBy string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates++
	r.items[id].CurrentStage = currentStage
	r.items[id].UpdatedBy = updatedBy
	return nil
}

type publishedEvent struct {
	subject string
	event   any
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, subject string, event any) error {
	p.events = append(p.events, publishedEvent{subject: subject, event: event})
	return p.err
}

func testLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}

func testRenderer(t *testing.T) *templates.Renderer {
	t.Helper()
	r, err := templates.NewRenderer(templates.Options{})
	require.NoError(t, err)
	return r
}
