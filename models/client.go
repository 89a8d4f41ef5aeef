package models

import (
	"time"

	"github.com/rk-consultants/rk-server/utils"
)

var (
	Industries     = []string{"Real Estate", "Construction", "Interior Design", "Legal Services", "Other"}
	ClientTypes    = []string{"Individual", "Business"}
	ClientStatuses = []string{"Active", "Inactive"}
)

// ClientLocation is where a client is based
type ClientLocation struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// SocialLinks are a client's public profiles
type SocialLinks struct {
	LinkedIn string `json:"linkedin"`
	Twitter  string `json:"twitter"`
	Facebook string `json:"facebook"`
}

// LinkedRecord references a listing or project delivered for a client
type LinkedRecord struct {
	RecordID    uint   `json:"record_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
}

// ClientFields are the editable parts of a Client
type ClientFields struct {
	Name        string         `gorm:"not null" json:"name" binding:"required"`
	Email       string         `json:"email" binding:"omitempty,email"`
	Phone       string         `json:"phone" binding:"indian_phone"`
	CompanyName string         `json:"company_name"`
	Website     string         `json:"website" binding:"omitempty,url"`
	Industry    string         `json:"industry"`
	ClientType  string         `json:"client_type"`
	Image       string         `json:"image"`
	Location    ClientLocation `gorm:"serializer:json" json:"location"`
	SocialLinks SocialLinks    `gorm:"serializer:json" json:"social_links"`
	Listings    []LinkedRecord `gorm:"serializer:json" json:"listings" binding:"dive"`
	Projects    []LinkedRecord `gorm:"serializer:json" json:"projects" binding:"dive"`
	Status      string         `json:"status"`
	Visible     bool           `json:"visible"`
}

// Client is a customer of the consultancy
type Client struct {
	ID uint `gorm:"primarykey" json:"id"`
	ClientFields
	// Payments is the client's payment history, appended on verified payments.
	Payments  []ClientPayment `gorm:"foreignKey:ClientID" json:"payments,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ApplyDefaults fills fields left blank by the client
func (c *ClientFields) ApplyDefaults() {
	setDefault(&c.Industry, "Real Estate")
	setDefault(&c.ClientType, "Individual")
	setDefault(&c.Status, "Active")
	setDefault(&c.Location.Country, "India")
	if c.Listings == nil {
		c.Listings = []LinkedRecord{}
	}
	if c.Projects == nil {
		c.Projects = []LinkedRecord{}
	}
}

// Validate checks the enum fields
func (c *ClientFields) Validate() error {
	return firstError(
		utils.CheckEnum("industry", c.Industry, Industries),
		utils.CheckEnum("client_type", c.ClientType, ClientTypes),
		utils.CheckEnum("status", c.Status, ClientStatuses),
	)
}

// ClientPayment is one entry of a client's payment history. Each verified
// PaymentOrder produces exactly one entry.
type ClientPayment struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	ClientID       uint      `gorm:"index;not null" json:"client_id"`
	PaymentOrderID uint      `gorm:"uniqueIndex;not null" json:"payment_order_id"`
	ServiceID      *uint     `json:"service_id,omitempty"`
	PaymentID      string    `gorm:"not null" json:"payment_id"`
	OrderID        string    `gorm:"not null" json:"order_id"`
	Amount         int64     `gorm:"not null" json:"amount"`
	Currency       string    `gorm:"not null" json:"currency"`
	Status         string    `gorm:"not null" json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}
