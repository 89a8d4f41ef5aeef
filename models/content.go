package models

import (
	"time"

	"github.com/rk-consultants/rk-server/utils"
)

var (
	InquiryTypes = []string{"Buying", "Selling", "Investment"}
	HeardFrom    = []string{"Social Media", "Friend", "Website"}
)

// AuthorLocation is where a testimonial author lives
type AuthorLocation struct {
	Country string `json:"country" binding:"required"`
	State   string `json:"state" binding:"required"`
}

// Author wrote a testimonial
type Author struct {
	Name      string         `json:"name" binding:"required"`
	Location  AuthorLocation `json:"location"`
	AvatarURL string         `json:"avatar_url"`
}

// TestimonialFields are the editable parts of a Testimonial
type TestimonialFields struct {
	Rating       int    `gorm:"not null" json:"rating" binding:"required,min=1,max=5"`
	Title        string `gorm:"not null" json:"title" binding:"required"`
	Message      string `gorm:"not null" json:"message" binding:"required"`
	Author       Author `gorm:"serializer:json" json:"author"`
	ShowMoreLink string `json:"show_more_link"`
}

// Testimonial is a client review shown on the website
type Testimonial struct {
	ID uint `gorm:"primarykey" json:"id"`
	TestimonialFields
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatsFields are the editable counters of Stats
type StatsFields struct {
	HappyClients int `gorm:"not null" json:"happy_clients" binding:"gte=0"`
	Projects     int `gorm:"not null" json:"projects" binding:"gte=0"`
	DaysOfWork   int `gorm:"not null" json:"days_of_work" binding:"gte=0"`
}

// Stats are the headline counters on the home page
type Stats struct {
	ID uint `gorm:"primarykey" json:"id"`
	StatsFields
}

// Visitor is one counted website visit
type Visitor struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// GeneralFields are the site-wide settings: branding, contact details and policies
type GeneralFields struct {
	Logo           string `gorm:"not null" json:"logo" binding:"required"`
	Title          string `gorm:"not null" json:"title" binding:"required"`
	About          string `gorm:"not null" json:"about" binding:"required"`
	Contact        string `gorm:"not null" json:"contact" binding:"required"`
	Email          string `gorm:"not null" json:"email" binding:"required,email"`
	Phone          string `gorm:"not null" json:"phone" binding:"required"`
	Address        string `gorm:"not null" json:"address" binding:"required"`
	Facebook       string `gorm:"not null" json:"facebook" binding:"required"`
	Instagram      string `gorm:"not null" json:"instagram" binding:"required"`
	LinkedIn       string `gorm:"not null" json:"linkedin" binding:"required"`
	Terms          string `gorm:"not null" json:"terms" binding:"required"`
	Privacy        string `gorm:"not null" json:"privacy" binding:"required"`
	Youtube        string `json:"youtube"`
	ShippingPolicy string `json:"shipping_policy"`
	RefundPolicy   string `json:"refund_policy"`
}

// General holds the site-wide settings
type General struct {
	ID uint `gorm:"primarykey" json:"id"`
	GeneralFields
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactFields is what the website contact form submits
type ContactFields struct {
	FirstName   string `gorm:"not null" json:"first_name" binding:"required"`
	LastName    string `gorm:"not null" json:"last_name" binding:"required"`
	Email       string `gorm:"not null" json:"email" binding:"required,email"`
	Phone       string `gorm:"not null" json:"phone" binding:"required,indian_phone"`
	InquiryType string `gorm:"not null" json:"inquiry_type" binding:"required"`
	HeardFrom   string `gorm:"not null" json:"heard_from" binding:"required"`
	Message     string `gorm:"not null" json:"message" binding:"required"`
}

// Validate checks the enum fields
func (c *ContactFields) Validate() error {
	return firstError(
		utils.CheckEnum("inquiry_type", c.InquiryType, InquiryTypes),
		utils.CheckEnum("heard_from", c.HeardFrom, HeardFrom),
	)
}

// Contact is a submission of the website contact form
type Contact struct {
	ID uint `gorm:"primarykey" json:"id"`
	ContactFields
	EmailSent bool      `json:"email_sent"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All lists every model for migration
func All() []interface{} {
	return []interface{}{
		&User{},
		&Client{},
		&ClientPayment{},
		&Listing{},
		&Project{},
		&Service{},
		&Testimonial{},
		&Stats{},
		&Visitor{},
		&General{},
		&Contact{},
		&PaymentOrder{},
	}
}
