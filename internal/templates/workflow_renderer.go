package templates

import (
	"fmt"
	"strconv"
	"time"

	"cap-order-service/internal/models"
)

const notAvailable = "N/A"

// WorkflowEmailData describes a production stage change of one order item
type WorkflowEmailData struct {
	Item      *models.OrderItem
	Order     *models.Order
	Customer  *models.Customer
	NewStage  string
	UpdatedAt time.Time
}

type workflowView struct {
	Lang    Locale
	Subject string
	Text    workflowTexts
	Theme   theme

	CustomerName string
	OrderNumber  string
	ProductTitle string
	Color        string
	Quantity     string
	NewStage     string
	UpdatedBy    string
	UpdatedAt    string
	Token        string
	ViewURL      string
	Signature    string
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

// RenderWorkflowUpdate renders the customer notification for a stage change.
// Both bodies show the new stage. Missing relations render as N/A.
func (r *Renderer) RenderWorkflowUpdate(data *WorkflowEmailData, locale Locale) (*EmailContent, error) {
	if r == nil {
		return nil, ErrNilRenderer
	}
	if data == nil || data.Item == nil {
		return nil, fmt.Errorf("validation failed: order item is required")
	}

	texts, ok := workflowTextCatalog[locale]
	if !ok {
		texts = workflowTextCatalog[LocaleEnglish]
	}

	view := workflowView{
		Lang:         locale,
		Subject:      texts.Subject,
		Text:         texts,
		Theme:        customerTheme,
		CustomerName: notAvailable,
		OrderNumber:  notAvailable,
		ProductTitle: notAvailable,
		Color:        orNA(data.Item.Color),
		Quantity:     notAvailable,
		NewStage:     orNA(data.NewStage),
		UpdatedBy:    data.Item.UpdatedBy,
		UpdatedAt:    notAvailable,
		Token:        notAvailable,
		ViewURL:      r.viewOrderURL,
		Signature:    r.companyName,
	}
	if view.UpdatedBy == "" {
		view.UpdatedBy = texts.OurTeam
	}
	if !data.UpdatedAt.IsZero() {
		view.UpdatedAt = r.formatTime(data.UpdatedAt, locale, true)
	}
	if data.Item.Quantity > 0 {
		view.Quantity = strconv.Itoa(data.Item.Quantity)
	}
	if data.Item.Product != nil {
		view.ProductTitle = orNA(data.Item.Product.Title)
	}
	if data.Order != nil {
		view.OrderNumber = orNA(data.Order.OrderNumber)
		view.Token = orNA(data.Order.Token)
	}
	if data.Customer != nil {
		details := models.CustomerDetails{FirstName: data.Customer.FirstName, LastName: data.Customer.LastName}
		view.CustomerName = orNA(details.FullName())
	}

	content, err := r.render(templateWorkflowUpdate, view.Subject, view)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", templateWorkflowUpdate, err)
	}
	return content, nil
}
