package payments

import (
	"context"
	"errors"

	"github.com/rk-consultants/rk-server/models"
	"github.com/rk-consultants/rk-server/utils"
	"gorm.io/gorm"
)

// GormStore is the Store backed by the application database
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps db
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) exists(ctx context.Context, model interface{}, id uint) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, utils.PersistenceError("Failed to look up record", err)
	}
	return count > 0, nil
}

// ClientExists implements Store
func (s *GormStore) ClientExists(ctx context.Context, clientID uint) (bool, error) {
	return s.exists(ctx, &models.Client{}, clientID)
}

// ServiceExists implements Store
func (s *GormStore) ServiceExists(ctx context.Context, serviceID uint) (bool, error) {
	return s.exists(ctx, &models.Service{}, serviceID)
}

// FindByIdempotencyKey implements Store
func (s *GormStore) FindByIdempotencyKey(ctx context.Context, clientID uint, key string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := s.db.WithContext(ctx).
		Where("client_id = ? AND idempotency_key = ?", clientID, key).
		Order("id ASC").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.PersistenceError("Failed to look up payment order", err)
	}
	return &order, nil
}

// CreateOrder implements Store
func (s *GormStore) CreateOrder(ctx context.Context, order *models.PaymentOrder) error {
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ConflictError("Payment order already exists", err)
		}
		return utils.PersistenceError("Failed to save payment order", err)
	}
	return nil
}

// CompleteOrder implements Store. The status change is a conditional update on
// status = Pending, so of two racing verifications only one writes the
// history entry; the unique index on payment_order_id backs that up.
func (s *GormStore) CompleteOrder(ctx context.Context, orderID, paymentID string) (*models.PaymentOrder, bool, error) {
	var order models.PaymentOrder
	alreadyDone := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.PaymentOrder{}).
			Where("order_id = ? AND status = ?", orderID, models.PaymentStatusPending).
			Updates(map[string]interface{}{
				"status":     models.PaymentStatusSuccess,
				"payment_id": paymentID,
			})
		if res.Error != nil {
			return utils.PersistenceError("Failed to update payment order", res.Error)
		}

		if err := tx.Where("order_id = ?", orderID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFoundError("Payment order not found", err)
			}
			return utils.PersistenceError("Failed to load payment order", err)
		}

		if res.RowsAffected == 0 {
			if order.Status == models.PaymentStatusSuccess {
				alreadyDone = true
				return nil
			}
			return utils.ConflictError("Payment order is not pending", nil)
		}

		entry := models.ClientPayment{
			ClientID:       order.ClientID,
			PaymentOrderID: order.ID,
			ServiceID:      order.ServiceID,
			PaymentID:      paymentID,
			OrderID:        order.OrderID,
			Amount:         order.Amount,
			Currency:       order.Currency,
			Status:         models.PaymentStatusSuccess,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return utils.PersistenceError("Failed to record client payment", err)
		}
		return nil
	})
	if err != nil {
		if utils.GetAppError(err) == nil {
			// begin/commit failures, including an expired request deadline
			err = utils.PersistenceError("Failed to complete payment order", err)
		}
		return nil, false, err
	}
	return &order, alreadyDone, nil
}
