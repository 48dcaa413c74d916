package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/estate-marketplace/internal/listing/domain"
	"github.com/Abdurahmanit/estate-marketplace/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// UserRepository reads contact details from the users collection. It never writes to it.
type UserRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewUserRepository(db *mongo.Database, log *logger.Logger) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
		logger:     log.Named("UserRepository"),
	}
}

func (r *UserRepository) FindContactByID(ctx context.Context, id string) (*domain.UserContact, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		r.logger.Debug("Invalid user id", zap.String("user_id", id))
		return nil, domain.ErrUserNotFound
	}

	projection := options.FindOne().SetProjection(bson.M{"username": 1, "email": 1, "avatar": 1})

	var doc userDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}, projection).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.logger.Info("User not found", zap.String("user_id", id))
			return nil, domain.ErrUserNotFound
		}
		r.logger.Error("Failed to find user", zap.String("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: find user: %v", domain.ErrStore, err)
	}
	return doc.toDomain(), nil
}
