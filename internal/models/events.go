package models

import "time"

// Event subjects published on NATS
const (
	SubjectOrderSubmitted    = "order.submitted"
	SubjectOrderStageChanged = "order.item.stage_changed"
)

// OrderSubmittedEvent is published after the order emails went out
type OrderSubmittedEvent struct {
	OrderNumber   string    `json:"orderNumber"`
	OrderID       uint      `json:"orderId,omitempty"`
	CustomerEmail string    `json:"customerEmail"`
	TotalPrice    string    `json:"totalPrice"`
	Currency      string    `json:"currency"`
	Persisted     bool      `json:"persisted"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// StageChangedEvent is published after an order item moved to a new stage
type StageChangedEvent struct {
	OrderItemID   uint      `json:"orderItemId"`
	OrderNumber   string    `json:"orderNumber,omitempty"`
	PreviousStage string    `json:"previousStage"`
	CurrentStage  string    `json:"currentStage"`
	UpdatedBy     string    `json:"updatedBy"`
	OccurredAt    time.Time `json:"occurredAt"`
}
