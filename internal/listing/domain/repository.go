package domain

import (
	"context"
	"time"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	Find(ctx context.Context, query QuerySpec) ([]*Listing, error)
	FindByOwner(ctx context.Context, ownerRef string) ([]*Listing, error)
	UpdateByID(ctx context.Context, id string, patch ListingPatch) (*Listing, error)
	DeleteByID(ctx context.Context, id string) error
}

type UserRepository interface {
	FindContactByID(ctx context.Context, id string) (*UserContact, error)
}

// ListingCache is a best-effort read cache in front of the repository.
// GetListing returns (nil, nil) on a miss. SetListing never replaces a newer
// version (by UpdatedAt), and after DeleteListing it does not restore the entry.
type ListingCache interface {
	GetListing(ctx context.Context, id string) (*Listing, error)
	SetListing(ctx context.Context, listing *Listing) error
	DeleteListing(ctx context.Context, id string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

type Mailer interface {
	SendListingCreatedEmail(ctx context.Context, toEmail, listingName string) error
}

type Storage interface {
	Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error)
}

// ListingMetrics receives counters about successful mutations.
type ListingMetrics interface {
	ListingCreated()
	ListingUpdated()
	ListingDeleted()
	ObserveQuery(d time.Duration)
}
