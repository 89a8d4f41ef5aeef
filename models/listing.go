package models

import (
	"time"

	"github.com/rk-consultants/rk-server/utils"
)

var (
	ListingPropertyTypes   = []string{"Residential", "Commercial", "MAHA RERA", "Land", "Shop", "Other"}
	OccupationCertificates = []string{"Yes", "No", "Yes - But up to some floors"}
	ListingTransactionType = []string{"Lease", "Sale", "Both", "Other"}
	FurnishingStatuses     = []string{"Unfurnished", "Semi-Furnished", "Fully-Furnished"}
	PropertyStatuses       = []string{"Available", "Sold", "Rented", "Not Disclosed"}
	ParkingTypes           = []string{"Covered Stilt", "Covered Garage", "Open Fixed", "Open Not Fixed", "Mechanical", "None"}
	ApprovalStatuses       = []string{"Pending", "Approved", "Rejected"}
	BuildingAges           = []string{"Under Construction", "Less than 5 years", "5 years - 10 years", "More than 10 years"}
)

// Ownership identifies the owner of a listed property
type Ownership struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Number string `json:"number"`
}

// ListingFields are the editable parts of a Listing
type ListingFields struct {
	Title                 string      `gorm:"not null" json:"title" binding:"required"`
	Description           string      `json:"description"`
	Contact               ContactInfo `gorm:"serializer:json" json:"contact"`
	Images                []string    `gorm:"serializer:json" json:"images"`
	Video                 []string    `gorm:"serializer:json" json:"video"`
	VirtualTour           []string    `gorm:"serializer:json" json:"virtual_tour"`
	Brochure              []string    `gorm:"serializer:json" json:"brochure"`
	Visible               bool        `gorm:"index" json:"visible"`
	PropertyType          string      `json:"property_type"`
	OccupationCertificate string      `json:"occupation_certificate"`
	TransactionType       string      `json:"transaction_type"`
	FurnishingStatus      string      `json:"furnishing_status"`
	Status                string      `json:"status"`
	Ownership             Ownership   `gorm:"serializer:json" json:"ownership"`
	Landmark              string      `json:"landmark"`
	Nearby                []string    `gorm:"serializer:json" json:"nearby"`
	Amenities             []string    `gorm:"serializer:json" json:"amenities"`
	Parking               string      `json:"parking"`
	Location              Location    `gorm:"serializer:json" json:"location"`
	Approval              string      `json:"approval"`
	BuildingAge           string      `json:"building_age"`
	Elevator              bool        `json:"elevator"`
	CommissionAgreement   string      `json:"commission_agreement"`
	Variants              []Variant   `gorm:"serializer:json" json:"variants" binding:"dive"`
}

// Listing is a single property offered for sale or lease
type Listing struct {
	ID uint `gorm:"primarykey" json:"id"`
	ListingFields
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SlugParts returns the auxiliary slug parts: property type and city,
// with placeholders when either is blank.
func (l *ListingFields) SlugParts() []string {
	propertyType := l.PropertyType
	if propertyType == "" {
		propertyType = "property"
	}
	city := l.Location.City
	if city == "" {
		city = "city"
	}
	return []string{propertyType, city}
}

// ApplyDefaults fills enum fields left blank by the client
func (l *ListingFields) ApplyDefaults() {
	setDefault(&l.PropertyType, "Residential")
	setDefault(&l.OccupationCertificate, "No")
	setDefault(&l.TransactionType, "Lease")
	setDefault(&l.FurnishingStatus, "Unfurnished")
	setDefault(&l.Status, "Available")
	setDefault(&l.Parking, "None")
	setDefault(&l.Approval, "Pending")
	setDefault(&l.BuildingAge, "Under Construction")
	for i := range l.Variants {
		l.Variants[i].ApplyDefaults()
	}
}

// Validate checks the enum fields
func (l *ListingFields) Validate() error {
	return firstError(
		utils.CheckEnum("property_type", l.PropertyType, ListingPropertyTypes),
		utils.CheckEnum("occupation_certificate", l.OccupationCertificate, OccupationCertificates),
		utils.CheckEnum("transaction_type", l.TransactionType, ListingTransactionType),
		utils.CheckEnum("furnishing_status", l.FurnishingStatus, FurnishingStatuses),
		utils.CheckEnum("status", l.Status, PropertyStatuses),
		utils.CheckEnum("parking", l.Parking, ParkingTypes),
		utils.CheckEnum("approval", l.Approval, ApprovalStatuses),
		utils.CheckEnum("building_age", l.BuildingAge, BuildingAges),
	)
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
