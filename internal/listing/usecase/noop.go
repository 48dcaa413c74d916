package usecase

import (
	"context"
	"time"

	"github.com/Abdurahmanit/estate-marketplace/internal/listing/domain"
)

type noopCache struct{}

func (noopCache) GetListing(context.Context, string) (*domain.Listing, error) { return nil, nil }
func (noopCache) SetListing(context.Context, *domain.Listing) error         { return nil }
func (noopCache) DeleteListing(context.Context, string) error                { return nil }

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, interface{}) error { return nil }

type noopMetrics struct{}

func (noopMetrics) ListingCreated()            {}
func (noopMetrics) ListingUpdated()            {}
func (noopMetrics) ListingDeleted()            {}
func (noopMetrics) ObserveQuery(time.Duration) {}
