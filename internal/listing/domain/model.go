package domain

import "time"

type ListingType string

const (
	ListingTypeSale ListingType = "sale"
	ListingTypeRent ListingType = "rent"
)

// IsValid reports whether t is one of the supported listing types.
func (t ListingType) IsValid() bool {
	switch t {
	case ListingTypeSale, ListingTypeRent:
		return true
	}
	return false
}

// Listing is a property offered for sale or rent.
// OwnerRef is set once at creation and never changes afterwards.
type Listing struct {
	ID            string      `json:"_id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Address       string      `json:"address"`
	Type          ListingType `json:"type"`
	RegularPrice  float64     `json:"regularPrice"`
	DiscountPrice float64     `json:"discountPrice"`
	Bedrooms      int         `json:"bedrooms"`
	Bathrooms     int         `json:"bathrooms"`
	Furnished     bool        `json:"furnished"`
	Parking       bool        `json:"parking"`
	Offer         bool        `json:"offer"`
	ImageURLs     []string    `json:"imageUrls"`
	OwnerRef      string      `json:"userRef"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// ListingPatch carries a partial update. Nil fields are left unchanged.
type ListingPatch struct {
	Name          *string      `json:"name,omitempty"`
	Description   *string      `json:"description,omitempty"`
	Address       *string      `json:"address,omitempty"`
	Type          *ListingType `json:"type,omitempty"`
	RegularPrice  *float64     `json:"regularPrice,omitempty"`
	DiscountPrice *float64     `json:"discountPrice,omitempty"`
	Bedrooms      *int         `json:"bedrooms,omitempty"`
	Bathrooms     *int         `json:"bathrooms,omitempty"`
	Furnished     *bool        `json:"furnished,omitempty"`
	Parking       *bool        `json:"parking,omitempty"`
	Offer         *bool        `json:"offer,omitempty"`
	ImageURLs     *[]string    `json:"imageUrls,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ListingPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Address == nil && p.Type == nil &&
		p.RegularPrice == nil && p.DiscountPrice == nil && p.Bedrooms == nil && p.Bathrooms == nil &&
		p.Furnished == nil && p.Parking == nil && p.Offer == nil && p.ImageURLs == nil
}

// Apply copies the non-nil patch fields onto l.
func (p ListingPatch) Apply(l *Listing) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Address != nil {
		l.Address = *p.Address
	}
	if p.Type != nil {
		l.Type = *p.Type
	}
	if p.RegularPrice != nil {
		l.RegularPrice = *p.RegularPrice
	}
	if p.DiscountPrice != nil {
		l.DiscountPrice = *p.DiscountPrice
	}
	if p.Bedrooms != nil {
		l.Bedrooms = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		l.Bathrooms = *p.Bathrooms
	}
	if p.Furnished != nil {
		l.Furnished = *p.Furnished
	}
	if p.Parking != nil {
		l.Parking = *p.Parking
	}
	if p.Offer != nil {
		l.Offer = *p.Offer
	}
	if p.ImageURLs != nil {
		l.ImageURLs = append([]string(nil), (*p.ImageURLs)...)
	}
}

// UserContact is the public part of a user record shown to prospective tenants and buyers.
type UserContact struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
}
