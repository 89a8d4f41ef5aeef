package models

import (
	"time"

	"github.com/rk-consultants/rk-server/utils"
	"gorm.io/gorm"
)

var (
	ProjectPropertyTypes    = []string{"Apartment", "Villa", "Office", "Land", "Shop", "Other"}
	ProjectTransactionTypes = []string{"Rent", "Sale"}
)

// ProjectFields are the editable parts of a Project
type ProjectFields struct {
	Title            string      `gorm:"not null" json:"title" binding:"required"`
	Description      string      `json:"description"`
	Contact          ContactInfo `gorm:"serializer:json" json:"contact"`
	Images           []string    `gorm:"serializer:json" json:"images"`
	Video            string      `json:"video"`
	VirtualTour      string      `json:"virtual_tour"`
	Brochure         string      `json:"brochure"`
	Visible          bool        `gorm:"index" json:"visible"`
	PropertyType     string      `gorm:"index" json:"property_type"`
	TransactionType  string      `json:"transaction_type"`
	FurnishingStatus string      `json:"furnishing_status"`
	Status           string      `json:"status"`
	Ownership        string      `json:"ownership"`
	Landmark         string      `json:"landmark"`
	Nearby           []string    `gorm:"serializer:json" json:"nearby"`
	Amenities        []string    `gorm:"serializer:json" json:"amenities"`
	Parking          string      `json:"parking"`
	Location         Location    `gorm:"serializer:json" json:"location"`
	Variants         []Variant   `gorm:"serializer:json" json:"variants" binding:"dive"`
}

// Project is a development showcased on the website
type Project struct {
	ID uint `gorm:"primarykey" json:"id"`
	ProjectFields
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`
	// City is copied out of Location so search can filter on a real column.
	City      string    `gorm:"index" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ApplyDefaults fills enum fields left blank by the client
func (p *ProjectFields) ApplyDefaults() {
	setDefault(&p.PropertyType, "Apartment")
	setDefault(&p.TransactionType, "Rent")
	setDefault(&p.FurnishingStatus, "Unfurnished")
	setDefault(&p.Status, "Available")
	setDefault(&p.Ownership, "Not Disclosed")
	for i := range p.Variants {
		p.Variants[i].ApplyDefaults()
	}
}

// Validate checks the enum fields
func (p *ProjectFields) Validate() error {
	return firstError(
		utils.CheckEnum("property_type", p.PropertyType, ProjectPropertyTypes),
		utils.CheckEnum("transaction_type", p.TransactionType, ProjectTransactionTypes),
		utils.CheckEnum("furnishing_status", p.FurnishingStatus, FurnishingStatuses),
		utils.CheckEnum("status", p.Status, PropertyStatuses),
	)
}

// PriceRange returns the lowest and highest variant price. ok is false when
// the project has no variants.
func (p *ProjectFields) PriceRange() (lo, hi float64, ok bool) {
	for i, v := range p.Variants {
		if i == 0 || v.Price < lo {
			lo = v.Price
		}
		if i == 0 || v.Price > hi {
			hi = v.Price
		}
	}
	return lo, hi, len(p.Variants) > 0
}

// BeforeSave keeps the searchable city column in step with Location
func (p *Project) BeforeSave(tx *gorm.DB) error {
	p.City = p.Location.City
	return nil
}
