package models

import "time"

// Payment order statuses. An order moves Pending -> Success at most once and
// never leaves Success.
const (
	PaymentStatusPending = "Pending"
	PaymentStatusSuccess = "Success"
	PaymentStatusFailed  = "Failed"
)

// PaymentOrder tracks one gateway order from creation to verification
type PaymentOrder struct {
	ID        uint  `gorm:"primarykey" json:"id"`
	ClientID  uint  `gorm:"index;not null" json:"client_id"`
	ServiceID *uint `json:"service_id,omitempty"`
	// Amount is in the currency's minor unit (paise for INR).
	Amount         int64     `gorm:"not null" json:"amount"`
	Currency       string    `gorm:"not null;default:INR" json:"currency"`
	OrderID        string    `gorm:"uniqueIndex;not null" json:"order_id"`
	PaymentID      string    `json:"payment_id,omitempty"`
	Status         string    `gorm:"index;not null" json:"status"`
	Receipt        string    `json:"receipt"`
	IdempotencyKey string    `gorm:"index" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsSettled reports whether the order reached Success
func (p *PaymentOrder) IsSettled() bool {
	return p.Status == PaymentStatusSuccess
}
