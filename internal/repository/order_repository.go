package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cap-order-service/internal/models"
)

// OrderRepository handles order database operations
type OrderRepository interface {
	// CreateWithCustomer upserts the customer by email and creates the order for it
	CreateWithCustomer(ctx context.Context, customer *models.Customer, order *models.Order) error
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateWithCustomer(ctx context.Context, customer *models.Customer, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"first_name", "last_name", "phone", "address", "city",
				"postal_code", "country", "school_name", "updated_at",
			}),
		}).Create(customer).Error
		if err != nil {
			return err
		}

		order.CustomerID = customer.ID
		return tx.Omit(clause.Associations).Create(order).Error
	})
}

// OrderItemRepository handles order item database operations
type OrderItemRepository interface {
	GetByID(ctx context.Context, id uint) (*models.OrderItem, error)
	// GetByIDWithRelations loads the item with its order, the order's customer and the product
	GetByIDWithRelations(ctx context.Context, id uint) (*models.OrderItem, error)
	UpdateWorkflow(ctx context.Context, id uint, currentStage, updatedBy string) error
}

type orderItemRepository struct {
	db *gorm.DB
}

// NewOrderItemRepository creates a new order item repository
func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) GetByID(ctx context.Context, id uint) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *orderItemRepository) GetByIDWithRelations(ctx context.Context, id uint) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.WithContext(ctx).
		Preload("Order.Customer").
		Preload("Product").
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// UpdateWorkflow replaces both fields wholesale; there are no transition rules.
func (r *orderItemRepository) UpdateWorkflow(ctx context.Context, id uint, currentStage, updatedBy string) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_stage": currentStage,
			"updated_by":    updatedBy,
			"updated_at":    time.Now(),
		}).Error
}
