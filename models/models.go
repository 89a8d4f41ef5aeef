package models

import "time"

// User is an account that can sign in to the admin panel
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// Location is an address with optional map coordinates
type Location struct {
	Street    string   `json:"street"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// ContactInfo is the phone/email pair shown on a listing or project
type ContactInfo struct {
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
}

// Variant is one unit configuration (2BHK, 3BHK...) of a listing or project
type Variant struct {
	BHK          string   `json:"bhk" binding:"required"`
	CarpetArea   string   `json:"carpet_area" binding:"required"`
	BuiltUpArea  string   `json:"built_up_area" binding:"required"`
	Facing       string   `json:"facing"`
	Price        float64  `json:"price" binding:"gte=0"`
	Currency     string   `json:"currency" binding:"iso_currency"`
	Bedrooms     int      `json:"bedrooms" binding:"gte=0"`
	Bathrooms    int      `json:"bathrooms" binding:"gte=0"`
	Images       []string `json:"images"`
	Video        string   `json:"video"`
	Balcony      int      `json:"balcony"`
	Floor        string   `json:"floor"`
	TotalFloors  string   `json:"total_floors"`
	Availability bool     `json:"availability"`
}

// ApplyDefaults fills the values a variant gets when the form leaves them out
func (v *Variant) ApplyDefaults() {
	if v.Facing == "" {
		v.Facing = "Not Specified"
	}
	if v.Currency == "" {
		v.Currency = "INR"
	}
	if v.Floor == "" {
		v.Floor = "Ground Floor"
	}
	if v.TotalFloors == "" {
		v.TotalFloors = "Not Specified"
	}
	if v.Images == nil {
		v.Images = []string{}
	}
}
