//go:build integration

package mongodb

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/Abdurahmanit/estate-marketplace/internal/listing/domain"
	"github.com/Abdurahmanit/estate-marketplace/internal/platform/logger"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var testDB *mongo.Database

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "6.0",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}
	_ = resource.Expire(120)

	uri := fmt.Sprintf("mongodb://%s", resource.GetHostPort("27017/tcp"))

	var client *mongo.Client
	if err := pool.Retry(func() error {
		var errRetry error
		client, errRetry = Connect(context.Background(), ConnectOptions{URI: uri, ConnectTimeout: 5 * time.Second})
		return errRetry
	}); err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}
	testDB = client.Database("estate_test")

	code := m.Run()

	_ = client.Disconnect(context.Background())
	if err := pool.Purge(resource); err != nil {
		log.Printf("Could not purge MongoDB resource: %s", err)
	}
	os.Exit(code)
}

func newTestRepo(t *testing.T) *ListingRepository {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, testDB.Collection(listingCollectionName).Drop(ctx))
	repo := NewListingRepository(testDB, logger.NewNop())
	require.NoError(t, repo.EnsureIndexes(ctx))
	return repo
}

func lakeview() *domain.Listing {
	return &domain.Listing{
		Name:         "Lakeview",
		Type:         domain.ListingTypeRent,
		RegularPrice: 1200,
		Bedrooms:     2,
		Bathrooms:    1,
		Furnished:    true,
		ImageURLs:    []string{"u1"},
		OwnerRef:     "user-1",
	}
}

func TestListingRepository_Integration_CRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	l := lakeview()
	require.NoError(t, repo.Create(ctx, l))
	require.NotEmpty(t, l.ID)

	got, err := repo.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.Name, got.Name)
	assert.Equal(t, l.OwnerRef, got.OwnerRef)
	assert.True(t, l.CreatedAt.Equal(got.CreatedAt))

	beds := 3
	updated, err := repo.UpdateByID(ctx, l.ID, domain.ListingPatch{Bedrooms: &beds})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Bedrooms)
	assert.Equal(t, "Lakeview", updated.Name)

	require.NoError(t, repo.DeleteByID(ctx, l.ID))
	_, err = repo.FindByID(ctx, l.ID)
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
	assert.ErrorIs(t, repo.DeleteByID(ctx, l.ID), domain.ErrListingNotFound)

	_, err = repo.FindByID(ctx, "not-hex")
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}

func TestListingRepository_Integration_Find(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rent := lakeview()
	require.NoError(t, repo.Create(ctx, rent))
	sale := lakeview()
	sale.Name = "Hill (Villa)"
	sale.Type = domain.ListingTypeSale
	sale.Offer = true
	sale.RegularPrice = 900000
	sale.DiscountPrice = 850000
	require.NoError(t, repo.Create(ctx, sale))

	got, err := repo.Find(ctx, domain.QuerySpec{Type: "rent", SortField: "createdAt", SortOrder: domain.SortDesc, Limit: 9})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rent.ID, got[0].ID)

	got, err = repo.Find(ctx, domain.QuerySpec{NameFilter: "hill (", SortField: "createdAt", Limit: 9})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, sale.ID, got[0].ID)

	got, err = repo.Find(ctx, domain.QuerySpec{SortField: "regularPrice", SortOrder: domain.SortAsc, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, sale.ID, got[0].ID)

	owned, err := repo.FindByOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, owned, 2)
}

func TestUserRepository_Integration_FindContactByID(t *testing.T) {
	ctx := context.Background()
	users := testDB.Collection("users")
	require.NoError(t, users.Drop(ctx))

	res, err := users.InsertOne(ctx, bson.M{"username": "alice", "email": "alice@example.com", "password": "hash"})
	require.NoError(t, err)

	repo := NewUserRepository(testDB, logger.NewNop())
	id := res.InsertedID.(primitive.ObjectID).Hex()

	contact, err := repo.FindContactByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", contact.Username)
	assert.Equal(t, "alice@example.com", contact.Email)

	_, err = repo.FindContactByID(ctx, "000000000000000000000000")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
