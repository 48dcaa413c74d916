package mongodb

import (
	"regexp"
	"time"

	"github.com/Abdurahmanit/estate-marketplace/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type listingDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Description   string             `bson:"description"`
	Address       string             `bson:"address"`
	Type          string             `bson:"type"`
	RegularPrice  float64            `bson:"regularPrice"`
	DiscountPrice float64            `bson:"discountPrice"`
	Bedrooms      int                `bson:"bedrooms"`
	Bathrooms     int                `bson:"bathrooms"`
	Furnished     bool               `bson:"furnished"`
	Parking       bool               `bson:"parking"`
	Offer         bool               `bson:"offer"`
	ImageURLs     []string           `bson:"imageUrls"`
	UserRef       string             `bson:"userRef"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// userDocument holds the public fields of the users collection owned by the auth service.
type userDocument struct {
	ID       primitive.ObjectID `bson:"_id"`
	Username string             `bson:"username"`
	Email    string             `bson:"email"`
	Avatar   string             `bson:"avatar,omitempty"`
}

func toListingDocument(l *domain.Listing) *listingDocument {
	return &listingDocument{
		Name:          l.Name,
		Description:   l.Description,
		Address:       l.Address,
		Type:          string(l.Type),
		RegularPrice:  l.RegularPrice,
		DiscountPrice: l.DiscountPrice,
		Bedrooms:      l.Bedrooms,
		Bathrooms:     l.Bathrooms,
		Furnished:     l.Furnished,
		Parking:       l.Parking,
		Offer:         l.Offer,
		ImageURLs:     l.ImageURLs,
		UserRef:       l.OwnerRef,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func (d *listingDocument) toDomain() *domain.Listing {
	images := d.ImageURLs
	if images == nil {
		images = []string{}
	}
	return &domain.Listing{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Description:   d.Description,
		Address:       d.Address,
		Type:          domain.ListingType(d.Type),
		RegularPrice:  d.RegularPrice,
		DiscountPrice: d.DiscountPrice,
		Bedrooms:      d.Bedrooms,
		Bathrooms:     d.Bathrooms,
		Furnished:     d.Furnished,
		Parking:       d.Parking,
		Offer:         d.Offer,
		ImageURLs:     images,
		OwnerRef:      d.UserRef,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func toDomainListings(docs []*listingDocument) []*domain.Listing {
	listings := make([]*domain.Listing, 0, len(docs))
	for _, doc := range docs {
		listings = append(listings, doc.toDomain())
	}
	return listings
}

func (d *userDocument) toDomain() *domain.UserContact {
	return &domain.UserContact{
		ID:       d.ID.Hex(),
		Username: d.Username,
		Email:    d.Email,
		Avatar:   d.Avatar,
	}
}

// patchToSet converts the non-nil fields of a patch into a $set document.
func patchToSet(p domain.ListingPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Address != nil {
		set["address"] = *p.Address
	}
	if p.Type != nil {
		set["type"] = string(*p.Type)
	}
	if p.RegularPrice != nil {
		set["regularPrice"] = *p.RegularPrice
	}
	if p.DiscountPrice != nil {
		set["discountPrice"] = *p.DiscountPrice
	}
	if p.Bedrooms != nil {
		set["bedrooms"] = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		set["bathrooms"] = *p.Bathrooms
	}
	if p.Furnished != nil {
		set["furnished"] = *p.Furnished
	}
	if p.Parking != nil {
		set["parking"] = *p.Parking
	}
	if p.Offer != nil {
		set["offer"] = *p.Offer
	}
	if p.ImageURLs != nil {
		set["imageUrls"] = *p.ImageURLs
	}
	return set
}

// buildFilter translates a QuerySpec into a MongoDB filter document.
func buildFilter(q domain.QuerySpec) bson.M {
	filter := bson.M{}
	if q.NameFilter != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(q.NameFilter), "$options": "i"}
	}
	if q.Offer != nil {
		filter["offer"] = *q.Offer
	}
	if q.Furnished != nil {
		filter["furnished"] = *q.Furnished
	}
	if q.Parking != nil {
		filter["parking"] = *q.Parking
	}
	if q.Type != "" {
		filter["type"] = q.Type
	}
	return filter
}

func buildSort(q domain.QuerySpec) bson.D {
	field := q.SortField
	if field == "" {
		field = "createdAt"
	}
	order := -1
	if q.SortOrder == domain.SortAsc {
		order = 1
	}
	return bson.D{{Key: field, Value: order}, {Key: "_id", Value: order}}
}
