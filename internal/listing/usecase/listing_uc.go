package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/Abdurahmanit/estate-marketplace/internal/listing/domain"
	"github.com/Abdurahmanit/estate-marketplace/internal/platform/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	SubjectListingCreated = "listing.created"
	SubjectListingUpdated = "listing.updated"
	SubjectListingDeleted = "listing.deleted"
)

var tracer = otel.Tracer("estate-marketplace/listing-usecase")

// ListingUsecase implements the listing use cases on top of the repository.
// Cache, events, mail and metrics are side channels: their failures are logged, never returned.
type ListingUsecase struct {
	repo      domain.ListingRepository
	users     domain.UserRepository
	cache     domain.ListingCache
	publisher domain.EventPublisher
	mailer    domain.Mailer
	metrics   domain.ListingMetrics
	logger    *logger.Logger
	now       func() time.Time
}

type Option func(*ListingUsecase)

func WithUserRepository(users domain.UserRepository) Option {
	return func(uc *ListingUsecase) { uc.users = users }
}

func WithCache(c domain.ListingCache) Option {
	return func(uc *ListingUsecase) { uc.cache = c }
}

func WithPublisher(p domain.EventPublisher) Option {
	return func(uc *ListingUsecase) { uc.publisher = p }
}

func WithMailer(m domain.Mailer) Option {
	return func(uc *ListingUsecase) { uc.mailer = m }
}

func WithMetrics(m domain.ListingMetrics) Option {
	return func(uc *ListingUsecase) { uc.metrics = m }
}

func NewListingUsecase(repo domain.ListingRepository, log *logger.Logger, opts ...Option) *ListingUsecase {
	uc := &ListingUsecase{
		repo:      repo,
		cache:     noopCache{},
		publisher: noopPublisher{},
		metrics:   noopMetrics{},
		logger:    log.Named("ListingUsecase"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// CreateListing stores a new listing owned by ownerID, the authenticated caller.
func (uc *ListingUsecase) CreateListing(ctx context.Context, ownerID string, in CreateListingInput) (*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.CreateListing", oteltrace.WithAttributes(
		attribute.String("owner_id", ownerID),
		attribute.String("name", in.Name),
	))
	defer span.End()

	uc.logger.Info("Creating listing", zap.String("owner_id", ownerID), zap.String("name", in.Name))

	listing := in.toListing(ownerID)
	if err := validateListing(listing); err != nil {
		uc.logger.Warn("Rejected listing input", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	if err := uc.repo.Create(ctx, listing); err != nil {
		uc.logger.Error("Failed to create listing", zap.String("owner_id", ownerID), zap.Error(err))
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("listing_id", listing.ID))

	uc.cacheListing(ctx, listing)
	uc.publish(ctx, SubjectListingCreated, listingEvent(listing, uc.now()))
	uc.notifyOwner(ctx, listing)
	uc.metrics.ListingCreated()

	uc.logger.Info("Listing created", zap.String("listing_id", listing.ID), zap.String("owner_id", ownerID))
	return listing, nil
}

// GetListing returns one listing, reading through the cache.
func (uc *ListingUsecase) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.GetListing", oteltrace.WithAttributes(attribute.String("listing_id", id)))
	defer span.End()

	if cached, err := uc.cache.GetListing(ctx, id); err != nil {
		uc.logger.Warn("Cache lookup failed", zap.String("listing_id", id), zap.Error(err))
	} else if cached != nil {
		uc.logger.Debug("Cache hit", zap.String("listing_id", id))
		return cached, nil
	}

	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrListingNotFound) {
			uc.logger.Error("Failed to fetch listing", zap.String("listing_id", id), zap.Error(err))
			recordError(span, err)
		}
		return nil, err
	}

	uc.cacheListing(ctx, listing)
	return listing, nil
}

// ListListings runs a search. Malformed parameters never fail the request.
func (uc *ListingUsecase) ListListings(ctx context.Context, raw RawQuery) ([]*domain.Listing, error) {
	spec := TranslateQuery(raw)

	ctx, span := tracer.Start(ctx, "ListingUsecase.ListListings", oteltrace.WithAttributes(
		attribute.String("search_term", spec.NameFilter),
		attribute.String("type", spec.Type),
		attribute.String("sort", spec.SortField),
		attribute.String("order", spec.SortOrder.String()),
		attribute.Int("limit", spec.Limit),
		attribute.Int("offset", spec.Offset),
	))
	defer span.End()

	uc.logger.Debug("Searching listings", zap.Any("query", spec))

	start := time.Now()
	listings, err := uc.repo.Find(ctx, spec)
	uc.metrics.ObserveQuery(time.Since(start))
	if err != nil {
		uc.logger.Error("Failed to search listings", zap.Any("query", spec), zap.Error(err))
		recordError(span, err)
		return nil, err
	}
	if listings == nil {
		listings = []*domain.Listing{}
	}
	return listings, nil
}

// UpdateListing applies patch to the listing if callerID owns it.
// A missing listing is reported as not found before ownership is considered.
func (uc *ListingUsecase) UpdateListing(ctx context.Context, id, callerID string, patch domain.ListingPatch) (*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingUsecase.UpdateListing", oteltrace.WithAttributes(
		attribute.String("listing_id", id),
		attribute.String("caller_id", callerID),
	))
	defer span.End()

	uc.logger.Info("Updating listing", zap.String("listing_id", id), zap.String("caller_id", callerID))

	existing, err := uc.loadForMutation(ctx, id, callerID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	if patch.IsEmpty() {
		uc.logger.Info("No changes requested for listing", zap.String("listing_id", id))
		return existing, nil
	}

	merged := *existing
	patch.Apply(&merged)
	if err := validateListing(&merged); err != nil {
		uc.logger.Warn("Rejected listing patch", zap.String("listing_id", id), zap.Error(err))
		return nil, err
	}

	updated, err := uc.repo.UpdateByID(ctx, id, patch)
	if err != nil {
		uc.logger.Error("Failed to update listing", zap.String("listing_id", id), zap.Error(err))
		recordError(span, err)
		return nil, err
	}

	uc.refreshCached(ctx, updated)
	uc.publish(ctx, SubjectListingUpdated, listingEvent(updated, uc.now()))
	uc.metrics.ListingUpdated()

	uc.logger.Info("Listing updated", zap.String("listing_id", id))
	return updated, nil
}

// DeleteListing permanently removes the listing if callerID owns it.
func (uc *ListingUsecase) DeleteListing(ctx context.Context, id, callerID string) error {
	ctx, span := tracer.Start(ctx, "ListingUsecase.DeleteListing", oteltrace.WithAttributes(
		attribute.String("listing_id", id),
		attribute.String("caller_id", callerID),
	))
	defer span.End()

	uc.logger.Info("Deleting listing", zap.String("listing_id", id), zap.String("caller_id", callerID))

	existing, err := uc.loadForMutation(ctx, id, callerID)
	if err != nil {
		recordError(span, err)
		return err
	}

	if err := uc.repo.DeleteByID(ctx, id); err != nil {
		uc.logger.Error("Failed to delete listing", zap.String("listing_id", id), zap.Error(err))
		recordError(span, err)
		return err
	}

	uc.invalidate(ctx, id)
	uc.publish(ctx, SubjectListingDeleted, map[string]interface{}{
		"id":         id,
		"user_ref":   existing.OwnerRef,
		"deleted_at": uc.now().UTC().Format(time.RFC3339Nano),
	})
	uc.metrics.ListingDeleted()

	uc.logger.Info("Listing deleted", zap.String("listing_id", id))
	return nil
}

// ListOwnerListings returns every listing of ownerID. Users may only list their own listings.
func (uc *ListingUsecase) ListOwnerListings(ctx context.Context, ownerID, callerID string) ([]*domain.Listing, error) {
	if ownerID == "" || !sameUser(ownerID, callerID) {
		uc.logger.Warn("Forbidden owner listing lookup", zap.String("owner_id", ownerID), zap.String("caller_id", callerID))
		return nil, domain.ErrUnauthorized
	}

	listings, err := uc.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		uc.logger.Error("Failed to list owner listings", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}
	if listings == nil {
		listings = []*domain.Listing{}
	}
	return listings, nil
}

// GetOwnerContact returns the public contact details of a listing owner.
func (uc *ListingUsecase) GetOwnerContact(ctx context.Context, ownerID string) (*domain.UserContact, error) {
	if uc.users == nil {
		return nil, domain.ErrUserNotFound
	}
	contact, err := uc.users.FindContactByID(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			uc.logger.Error("Failed to fetch owner contact", zap.String("owner_id", ownerID), zap.Error(err))
		}
		return nil, err
	}
	return contact, nil
}

func (uc *ListingUsecase) loadForMutation(ctx context.Context, id, callerID string) (*domain.Listing, error) {
	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			uc.logger.Warn("Listing not found", zap.String("listing_id", id))
		} else {
			uc.logger.Error("Failed to find listing", zap.String("listing_id", id), zap.Error(err))
		}
		return nil, err
	}

	if err := AuthorizeOwner(callerID, listing); err != nil {
		uc.logger.Warn("Caller does not own listing",
			zap.String("listing_id", id), zap.String("owner_id", listing.OwnerRef), zap.String("caller_id", callerID))
		return nil, err
	}
	return listing, nil
}

func (uc *ListingUsecase) cacheListing(ctx context.Context, listing *domain.Listing) {
	if err := uc.cache.SetListing(ctx, listing); err != nil {
		uc.logger.Warn("Failed to cache listing", zap.String("listing_id", listing.ID), zap.Error(err))
	}
}

// refreshCached overwrites the cached copy with the updated listing. If that fails
// the entry is invalidated so no reader keeps the previous version.
func (uc *ListingUsecase) refreshCached(ctx context.Context, listing *domain.Listing) {
	if err := uc.cache.SetListing(ctx, listing); err != nil {
		uc.logger.Warn("Failed to refresh cached listing", zap.String("listing_id", listing.ID), zap.Error(err))
		uc.invalidate(ctx, listing.ID)
	}
}

func (uc *ListingUsecase) invalidate(ctx context.Context, id string) {
	if err := uc.cache.DeleteListing(ctx, id); err != nil {
		uc.logger.Warn("Failed to invalidate cached listing", zap.String("listing_id", id), zap.Error(err))
	}
}

func (uc *ListingUsecase) publish(ctx context.Context, subject string, data interface{}) {
	if err := uc.publisher.Publish(ctx, subject, data); err != nil {
		uc.logger.Warn("Failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}

func (uc *ListingUsecase) notifyOwner(ctx context.Context, listing *domain.Listing) {
	if uc.mailer == nil || uc.users == nil {
		return
	}
	contact, err := uc.users.FindContactByID(ctx, listing.OwnerRef)
	if err != nil || contact == nil || contact.Email == "" {
		uc.logger.Debug("Skipping listing created email", zap.String("owner_id", listing.OwnerRef), zap.Error(err))
		return
	}
	if err := uc.mailer.SendListingCreatedEmail(ctx, contact.Email, listing.Name); err != nil {
		uc.logger.Warn("Failed to send listing created email", zap.String("listing_id", listing.ID), zap.Error(err))
	}
}

func listingEvent(l *domain.Listing, at time.Time) map[string]interface{} {
	return map[string]interface{}{
		"id":            l.ID,
		"user_ref":      l.OwnerRef,
		"name":          l.Name,
		"type":          l.Type,
		"regular_price": l.RegularPrice,
		"offer":         l.Offer,
		"occurred_at":   at.UTC().Format(time.RFC3339Nano),
	}
}

func recordError(span oteltrace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
