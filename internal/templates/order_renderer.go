package templates

import (
	"errors"
	"fmt"
	"strings"

	"cap-order-service/internal/models"
)

// ErrMissingOrderNumber is returned when order number is empty.
var ErrMissingOrderNumber = errors.New("order number is required")

// OrderEmailData is everything an order email shows. Defaults such as the
// order number and total are filled in by the caller before rendering.
type OrderEmailData struct {
	Customer    models.CustomerDetails
	Options     models.SelectedOptions
	TotalPrice  string
	Currency    string
	OrderNumber string
	OrderDate   string
	// Email is the address given on the order request
	Email string
}

// Row is one label/value line of a section
type Row struct {
	Label string
	Value string
}

// Section is one option category with its present options
type Section struct {
	Key   string
	Title string
	Rows  []Row
}

// BuildSections turns selected options into display sections. Options that
// are not present are skipped and categories left empty are dropped, so
// both email bodies list exactly the same rows in input order.
//
// A named option gives one row with its name run through the sentinel
// mapping. A nested option gives one row per present sub-field.
func BuildSections(opts models.SelectedOptions, locale Locale) []Section {
	sections := make([]Section, 0, len(opts.Categories))
	for _, category := range opts.Categories {
		var rows []Row
		for _, option := range category.Options {
			if !option.Value.IsPresent() {
				continue
			}
			switch option.Value.Kind() {
			case models.KindNested:
				for _, sub := range option.Value.Fields() {
					if !sub.Value.IsPresent() {
						continue
					}
					rows = append(rows, Row{
						Label: FormatLabel(sub.Key, locale),
						Value: FormatValue(sub.Value, locale),
					})
				}
			case models.KindNamed:
				rows = append(rows, Row{
					Label: FormatLabel(option.Key, locale),
					Value: FormatValue(models.ScalarValue(option.Value.Text()), locale),
				})
			default:
				rows = append(rows, Row{
					Label: FormatLabel(option.Key, locale),
					Value: FormatValue(option.Value, locale),
				})
			}
		}
		if len(rows) == 0 {
			continue
		}
		sections = append(sections, Section{
			Key:   category.Key,
			Title: FormatLabel(category.Key, locale),
			Rows:  rows,
		})
	}
	return sections
}

type orderView struct {
	Lang    Locale
	Subject string
	Text    orderTexts
	Theme   theme

	OrderNumber string
	OrderDate   string
	Total       string

	CustomerName    string
	CustomerEmail   string
	Phone           string
	SchoolName      string
	Address         string
	Notes           string
	DeliverToSchool bool
	ContactEmail    string

	Sections []Section
}

func validateOrderData(data *OrderEmailData) error {
	if data == nil {
		return errors.New("email data is nil")
	}
	if data.OrderNumber == "" {
		return ErrMissingOrderNumber
	}
	return nil
}

func orderSubject(texts orderTexts, audience Audience, data *OrderEmailData) string {
	if audience == AudienceAdmin {
		name := strings.TrimSpace(data.Customer.FirstName + " " + data.Customer.LastName)
		return fmt.Sprintf(texts.Subject, data.OrderNumber, name)
	}
	return fmt.Sprintf(texts.Subject, data.OrderNumber)
}

// joinAddress renders "street, postcode city, country" skipping blank parts
func joinAddress(d models.CustomerDetails) string {
	town := strings.TrimSpace(d.PostalCode + " " + d.City)
	parts := make([]string, 0, 3)
	for _, p := range []string{strings.TrimSpace(d.Address), town, strings.TrimSpace(d.Country)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// RenderOrder renders the order email for one audience and locale.
// Output is a pure function of the input: rendering twice gives identical bodies.
func (r *Renderer) RenderOrder(data *OrderEmailData, locale Locale, audience Audience) (*EmailContent, error) {
	if r == nil {
		return nil, ErrNilRenderer
	}
	if err := validateOrderData(data); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	texts, ok := orderTextCatalog[textKey{audience, locale}]
	if !ok {
		return nil, fmt.Errorf("unsupported order email variant %s/%s", audience, locale)
	}

	name := templateOrderCustomer
	view := orderView{
		Lang:        locale,
		Text:        texts,
		Theme:       customerTheme,
		OrderNumber: data.OrderNumber,
		OrderDate:   r.formatDate(data.OrderDate, locale, false),
		Total:       strings.TrimSpace(data.TotalPrice + " " + data.Currency),

		CustomerName:    data.Customer.FullName(),
		CustomerEmail:   data.Customer.Email,
		Phone:           data.Customer.Phone,
		SchoolName:      data.Customer.SchoolName,
		Address:         joinAddress(data.Customer),
		Notes:           data.Customer.Notes,
		DeliverToSchool: data.Customer.DeliverToSchool,
		ContactEmail:    data.Email,

		Sections: BuildSections(data.Options, locale),
	}
	if view.CustomerEmail == "" {
		view.CustomerEmail = data.Email
	}
	if audience == AudienceAdmin {
		name = templateOrderAdmin
		view.Theme = adminTheme
		view.OrderDate = r.formatDate(data.OrderDate, locale, true)
	}
	view.Subject = orderSubject(texts, audience, data)

	content, err := r.render(name, view.Subject, view)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return content, nil
}
