package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderStatus represents the lifecycle state of a stored order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Customer is the buyer of an order
type Customer struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FirstName  string    `json:"firstName" gorm:"type:varchar(255)"`
	LastName   string    `json:"lastName" gorm:"type:varchar(255)"`
	Email      string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone      string    `json:"phone" gorm:"type:varchar(50)"`
	Address    string    `json:"address" gorm:"type:varchar(500)"`
	City       string    `json:"city" gorm:"type:varchar(255)"`
	PostalCode string    `json:"postalCode" gorm:"type:varchar(20)"`
	Country    string    `json:"country" gorm:"type:varchar(100)"`
	SchoolName string    `json:"schoolName" gorm:"type:varchar(255)"`
	Orders     []Order   `json:"orders,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Product is a catalogue entry referenced by order items
type Product struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Order is a placed order. Token lets the customer look the order up without an account.
type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	OrderNumber     string          `json:"orderNumber" gorm:"type:varchar(64);uniqueIndex;not null"`
	Token           string          `json:"token" gorm:"type:varchar(64);uniqueIndex;not null"`
	CustomerID      uint            `json:"customerId" gorm:"index"`
	Customer        *Customer       `json:"customer,omitempty"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	TotalPrice      decimal.Decimal `json:"totalPrice" gorm:"type:numeric(12,2)"`
	Currency        string          `json:"currency" gorm:"type:varchar(3);default:'DKK'"`
	OrderDate       time.Time       `json:"orderDate"`
	CustomerEmail   string          `json:"customerEmail" gorm:"type:varchar(255);index"`
	Notes           string          `json:"notes" gorm:"type:text"`
	DeliverToSchool bool            `json:"deliverToSchool" gorm:"default:false"`
	SelectedOptions datatypes.JSON  `json:"selectedOptions" gorm:"type:jsonb"`
	Items           []OrderItem     `json:"items,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderItem is one product line of an order, tracked through production stages
type OrderItem struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	OrderID      uint      `json:"orderId" gorm:"index;not null"`
	Order        *Order    `json:"order,omitempty"`
	ProductID    *uint     `json:"productId" gorm:"index"`
	Product      *Product  `json:"product,omitempty"`
	Color        string    `json:"color" gorm:"type:varchar(100)"`
	Quantity     int       `json:"quantity" gorm:"default:1"`
	CurrentStage string    `json:"currentStage" gorm:"type:varchar(100)"`
	UpdatedBy    string    `json:"updatedBy" gorm:"type:varchar(255)"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
