package usecase

import (
	"testing"

	"github.com/Abdurahmanit/estate-marketplace/internal/listing/domain"
	"github.com/stretchr/testify/assert"
)

func validInput() CreateListingInput {
	return CreateListingInput{
		Name:         "Lakeview",
		Description:  "Two bedroom flat by the lake",
		Address:      "1 Shore Rd",
		Type:         domain.ListingTypeRent,
		RegularPrice: 1200,
		Bedrooms:     2,
		Bathrooms:    1,
		Furnished:    true,
		ImageURLs:    []string{"u1"},
	}
}

func TestValidateListing(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *CreateListingInput)
		owner   string
		wantErr bool
	}{
		{name: "valid", mutate: func(in *CreateListingInput) {}, owner: "user-1"},
		{name: "missing owner", mutate: func(in *CreateListingInput) {}, owner: "", wantErr: true},
		{name: "blank name", mutate: func(in *CreateListingInput) { in.Name = "   " }, owner: "user-1", wantErr: true},
		{name: "description and address are optional", mutate: func(in *CreateListingInput) {
			in.Description = ""
			in.Address = ""
		}, owner: "user-1"},
		{name: "unknown type", mutate: func(in *CreateListingInput) { in.Type = "lease" }, owner: "user-1", wantErr: true},
		{name: "negative price", mutate: func(in *CreateListingInput) { in.RegularPrice = -1 }, owner: "user-1", wantErr: true},
		{name: "negative bedrooms", mutate: func(in *CreateListingInput) { in.Bedrooms = -1 }, owner: "user-1", wantErr: true},
		{
			name: "discount above regular price on offer",
			mutate: func(in *CreateListingInput) {
				in.Offer = true
				in.DiscountPrice = 1500
			},
			owner:   "user-1",
			wantErr: true,
		},
		{
			name: "discount above regular price without offer",
			mutate: func(in *CreateListingInput) {
				in.DiscountPrice = 1500
			},
			owner: "user-1",
		},
		{name: "no images", mutate: func(in *CreateListingInput) { in.ImageURLs = nil }, owner: "user-1", wantErr: true},
		{name: "empty image url", mutate: func(in *CreateListingInput) { in.ImageURLs = []string{"u1", " "} }, owner: "user-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			err := validateListing(in.toListing(tt.owner))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidListingData)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCreateListingInput_ToListingTrimsAndCopies(t *testing.T) {
	in := validInput()
	in.Name = "  Lakeview  "

	l := in.toListing("user-1")
	in.ImageURLs[0] = "changed"

	assert.Equal(t, "Lakeview", l.Name)
	assert.Equal(t, "user-1", l.OwnerRef)
	assert.Equal(t, []string{"u1"}, l.ImageURLs)
}
