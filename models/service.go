package models

import (
	"time"

	"github.com/rk-consultants/rk-server/utils"
)

var (
	ServiceCategories = []string{"Construction", "Interior Design", "Real Estate Consulting", "Legal Services", "Business", "Other"}
	ServiceStatuses   = []string{"Available", "Temporarily Unavailable", "Discontinued"}
)

// SubService is a priced line item offered under a Service
type SubService struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"gte=0"`
	Currency    string  `json:"currency" binding:"iso_currency"`
}

// ServiceFields are the editable parts of a Service
type ServiceFields struct {
	Name        string       `gorm:"not null" json:"name" binding:"required"`
	Description string       `json:"description"`
	Category    string       `gorm:"not null" json:"category" binding:"required"`
	ServiceType string       `json:"service_type"`
	Price       float64      `json:"price" binding:"gte=0"`
	Currency    string       `json:"currency" binding:"iso_currency"`
	Images      []string     `gorm:"serializer:json" json:"images"`
	Status      string       `json:"status"`
	SubServices []SubService `gorm:"serializer:json" json:"sub_services" binding:"dive"`
}

// Service is a consultancy offering clients can pay for
type Service struct {
	ID uint `gorm:"primarykey" json:"id"`
	ServiceFields
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ApplyDefaults fills fields left blank by the client
func (s *ServiceFields) ApplyDefaults() {
	setDefault(&s.ServiceType, "Standard")
	setDefault(&s.Currency, "INR")
	setDefault(&s.Status, "Available")
	for i := range s.SubServices {
		setDefault(&s.SubServices[i].Currency, "INR")
	}
}

// Validate checks the enum fields
func (s *ServiceFields) Validate() error {
	return firstError(
		utils.CheckEnum("category", s.Category, ServiceCategories),
		utils.CheckEnum("status", s.Status, ServiceStatuses),
	)
}
