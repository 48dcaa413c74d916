package usecase

import (
	"fmt"
	"strings"

	"github.com/Abdurahmanit/estate-marketplace/internal/listing/domain"
)

// CreateListingInput holds the caller-supplied attributes of a new listing.
// The owner is not part of it: ownership comes from the authenticated caller.
type CreateListingInput struct {
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Address       string             `json:"address"`
	Type          domain.ListingType `json:"type"`
	RegularPrice  float64            `json:"regularPrice"`
	DiscountPrice float64            `json:"discountPrice"`
	Bedrooms      int                `json:"bedrooms"`
	Bathrooms     int                `json:"bathrooms"`
	Furnished     bool               `json:"furnished"`
	Parking       bool               `json:"parking"`
	Offer         bool               `json:"offer"`
	ImageURLs     []string           `json:"imageUrls"`
}

func (in CreateListingInput) toListing(ownerID string) *domain.Listing {
	return &domain.Listing{
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		Address:       strings.TrimSpace(in.Address),
		Type:          in.Type,
		RegularPrice:  in.RegularPrice,
		DiscountPrice: in.DiscountPrice,
		Bedrooms:      in.Bedrooms,
		Bathrooms:     in.Bathrooms,
		Furnished:     in.Furnished,
		Parking:       in.Parking,
		Offer:         in.Offer,
		ImageURLs:     append([]string(nil), in.ImageURLs...),
		OwnerRef:      ownerID,
	}
}

// validateListing checks the invariants every stored listing must satisfy.
// Description and address are optional.
func validateListing(l *domain.Listing) error {
	switch {
	case l.OwnerRef == "":
		return fmt.Errorf("%w: user reference is required", domain.ErrInvalidListingData)
	case strings.TrimSpace(l.Name) == "":
		return fmt.Errorf("%w: name is required", domain.ErrInvalidListingData)
	case !l.Type.IsValid():
		return fmt.Errorf("%w: type must be %q or %q", domain.ErrInvalidListingData, domain.ListingTypeSale, domain.ListingTypeRent)
	case l.RegularPrice < 0 || l.DiscountPrice < 0:
		return fmt.Errorf("%w: prices must not be negative", domain.ErrInvalidListingData)
	case l.Bedrooms < 0 || l.Bathrooms < 0:
		return fmt.Errorf("%w: bedrooms and bathrooms must not be negative", domain.ErrInvalidListingData)
	case l.Offer && l.DiscountPrice > l.RegularPrice:
		return fmt.Errorf("%w: discount price must not exceed regular price", domain.ErrInvalidListingData)
	case len(l.ImageURLs) == 0:
		return fmt.Errorf("%w: at least one image url is required", domain.ErrInvalidListingData)
	}
	for _, u := range l.ImageURLs {
		if strings.TrimSpace(u) == "" {
			return fmt.Errorf("%w: image urls must not be empty", domain.ErrInvalidListingData)
		}
	}
	return nil
}
