package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/estate-marketplace/internal/listing/domain"
	"github.com/Abdurahmanit/estate-marketplace/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const listingCollectionName = "listings"

// ListingRepository implements domain.ListingRepository using MongoDB.
type ListingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewListingRepository(db *mongo.Database, log *logger.Logger) *ListingRepository {
	return &ListingRepository{
		collection: db.Collection(listingCollectionName),
		logger:     log.Named("ListingRepository"),
	}
}

// EnsureIndexes creates the indexes used by owner lookups and searches.
func (r *ListingRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userRef", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		r.logger.Error("Failed to create indexes for listings collection", zap.Error(err))
		return fmt.Errorf("%w: create indexes: %v", domain.ErrStore, err)
	}
	r.logger.Info("Successfully ensured indexes for listings collection")
	return nil
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	if listing.OwnerRef == "" {
		return fmt.Errorf("%w: user reference is required", domain.ErrInvalidListingData)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	listing.CreatedAt = now
	listing.UpdatedAt = now

	doc := toListingDocument(listing)
	doc.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert listing into DB", zap.String("user_ref", listing.OwnerRef), zap.Error(err))
		return fmt.Errorf("%w: insert listing: %v", domain.ErrStore, err)
	}
	listing.ID = doc.ID.Hex()
	r.logger.Debug("Listing inserted", zap.String("listing_id", listing.ID))
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	var doc listingDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		r.logger.Error("Failed to get listing by ID from DB", zap.String("listing_id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: find listing: %v", domain.ErrStore, err)
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) Find(ctx context.Context, query domain.QuerySpec) ([]*domain.Listing, error) {
	findOptions := options.Find().
		SetSort(buildSort(query)).
		SetSkip(int64(query.Offset))
	if query.Limit > 0 {
		findOptions.SetLimit(int64(query.Limit))
	}

	return r.find(ctx, buildFilter(query), findOptions)
}

func (r *ListingRepository) FindByOwner(ctx context.Context, ownerRef string) ([]*domain.Listing, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return r.find(ctx, bson.M{"userRef": ownerRef}, findOptions)
}

func (r *ListingRepository) find(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]*domain.Listing, error) {
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		r.logger.Error("Failed to find listings in DB", zap.Any("filter", filter), zap.Error(err))
		return nil, fmt.Errorf("%w: find listings: %v", domain.ErrStore, err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode listings from DB", zap.Error(err))
		return nil, fmt.Errorf("%w: decode listings: %v", domain.ErrStore, err)
	}
	return toDomainListings(docs), nil
}

func (r *ListingRepository) UpdateByID(ctx context.Context, id string, patch domain.ListingPatch) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	update := bson.M{"$set": patchToSet(patch, time.Now().UTC().Truncate(time.Millisecond))}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc listingDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		r.logger.Error("Failed to update listing in DB", zap.String("listing_id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: update listing: %v", domain.ErrStore, err)
	}
	return doc.toDomain(), nil
}

func (r *ListingRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error("Failed to delete listing from DB", zap.String("listing_id", id), zap.Error(err))
		return fmt.Errorf("%w: delete listing: %v", domain.ErrStore, err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}
