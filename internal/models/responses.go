package models

// EmailReceipt is the delivery receipt returned by the mail transport
type EmailReceipt struct {
	MessageID string   `json:"messageId"`
	Accepted  []string `json:"accepted"`
}

// SubmitOrderResponse is returned by POST /capconfigurator
type SubmitOrderResponse struct {
	Message     string       `json:"message"`
	OrderID     uint         `json:"orderId,omitempty"`
	OrderNumber string       `json:"orderNumber"`
	EmailResult EmailReceipt `json:"emailResult"`
	Warning     string       `json:"warning,omitempty"`
}

// CheckoutSessionResponse is returned by POST /create-checkout-session
type CheckoutSessionResponse struct {
	ID string `json:"id"`
}

// ErrorResponse is the JSON error body of the order endpoints
type ErrorResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
