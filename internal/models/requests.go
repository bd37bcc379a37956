package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CustomerDetails is the customer block of a configurator order
type CustomerDetails struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	City            string `json:"city"`
	PostalCode      string `json:"postalCode"`
	Country         string `json:"country"`
	SchoolName      string `json:"schoolName,omitempty"`
	Notes           string `json:"notes,omitempty"`
	DeliverToSchool bool   `json:"deliverToSchool,omitempty"`
}

// UnmarshalJSON also accepts the storefront's Danish "Skolenavn" key for the school name.
func (d *CustomerDetails) UnmarshalJSON(data []byte) error {
	type plain CustomerDetails
	var aux struct {
		plain
		Skolenavn string `json:"Skolenavn"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*d = CustomerDetails(aux.plain)
	if d.SchoolName == "" {
		d.SchoolName = aux.Skolenavn
	}
	return nil
}

// FullName joins first and last name
func (d CustomerDetails) FullName() string {
	switch {
	case d.FirstName == "":
		return d.LastName
	case d.LastName == "":
		return d.FirstName
	default:
		return d.FirstName + " " + d.LastName
	}
}

// Amount is a price that arrives either as a JSON number or a JSON string.
// The literal text is kept so "299.00" renders as sent.
type Amount string

// UnmarshalJSON accepts numbers, strings and null
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("totalPrice must be a number or a string: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

// String returns the literal text
func (a Amount) String() string { return string(a) }

// SubmitOrderRequest is the body of POST /capconfigurator
type SubmitOrderRequest struct {
	CustomerDetails *CustomerDetails `json:"customerDetails"`
	SelectedOptions *SelectedOptions `json:"selectedOptions"`
	TotalPrice      Amount           `json:"totalPrice"`
	Currency        string           `json:"currency"`
	OrderNumber     string           `json:"orderNumber"`
	OrderDate       string           `json:"orderDate"`
	Email           string           `json:"email"`
}

// UpdateWorkflowRequest is the body of PUT /workflow/:id
type UpdateWorkflowRequest struct {
	CurrentStage string `json:"currentStage"`
	UpdatedBy    string `json:"updatedBy"`
}

// CheckoutRequest is the body of POST /create-checkout-session
type CheckoutRequest struct {
	OrderNumber string `json:"orderNumber"`
	TotalPrice  Amount `json:"totalPrice"`
	Email       string `json:"email"`
}
