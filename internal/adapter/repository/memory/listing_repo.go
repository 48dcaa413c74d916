package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Abdurahmanit/estate-marketplace/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListingRepository keeps listings in process memory. It mirrors the MongoDB
// repository closely enough to stand in for it in local runs and tests.
type ListingRepository struct {
	mu       sync.RWMutex
	listings map[string]*domain.Listing
	order    []string
	last     time.Time
	now      func() time.Time
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{
		listings: make(map[string]*domain.Listing),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	if listing == nil || listing.OwnerRef == "" {
		return fmt.Errorf("%w: user reference is required", domain.ErrInvalidListingData)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.tick()
	listing.ID = primitive.NewObjectIDFromTimestamp(now).Hex()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	r.listings[listing.ID] = clone(listing)
	r.order = append(r.order, listing.ID)
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return clone(l), nil
}

func (r *ListingRepository) Find(ctx context.Context, query domain.QuerySpec) ([]*domain.Listing, error) {
	r.mu.RLock()
	matched := make([]*domain.Listing, 0, len(r.order))
	for _, id := range r.order {
		if l := r.listings[id]; query.Matches(l) {
			matched = append(matched, clone(l))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		c := compareField(matched[i], matched[j], query.SortField)
		if c == 0 {
			c = strings.Compare(matched[i].ID, matched[j].ID)
		}
		if query.SortOrder == domain.SortAsc {
			return c < 0
		}
		return c > 0
	})

	if query.Offset >= len(matched) {
		return []*domain.Listing{}, nil
	}
	matched = matched[query.Offset:]
	if query.Limit > 0 && len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}
	return matched, nil
}

func (r *ListingRepository) FindByOwner(ctx context.Context, ownerRef string) ([]*domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Listing, 0)
	for i := len(r.order) - 1; i >= 0; i-- {
		if l := r.listings[r.order[i]]; l.OwnerRef == ownerRef {
			result = append(result, clone(l))
		}
	}
	return result, nil
}

func (r *ListingRepository) UpdateByID(ctx context.Context, id string, patch domain.ListingPatch) (*domain.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	patch.Apply(l)
	l.UpdatedAt = r.tick()
	return clone(l), nil
}

func (r *ListingRepository) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.listings[id]; !ok {
		return domain.ErrListingNotFound
	}
	delete(r.listings, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// tick returns the current time, strictly after any timestamp handed out before.
// Callers must hold the write lock.
func (r *ListingRepository) tick() time.Time {
	now := r.now()
	if !now.After(r.last) {
		now = r.last.Add(time.Microsecond)
	}
	r.last = now
	return now
}

func clone(l *domain.Listing) *domain.Listing {
	c := *l
	c.ImageURLs = append([]string(nil), l.ImageURLs...)
	return &c
}

// compareField returns -1, 0 or 1 comparing a and b on a sortable field.
// Unknown fields compare by creation time. Ties are broken by id in the caller,
// matching the _id tie-break of the MongoDB sort.
func compareField(a, b *domain.Listing, field string) int {
	switch field {
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "regularPrice":
		return compareFloat(a.RegularPrice, b.RegularPrice)
	case "discountPrice":
		return compareFloat(a.DiscountPrice, b.DiscountPrice)
	case "bedrooms":
		return compareFloat(float64(a.Bedrooms), float64(b.Bedrooms))
	case "bathrooms":
		return compareFloat(float64(a.Bathrooms), float64(b.Bathrooms))
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
