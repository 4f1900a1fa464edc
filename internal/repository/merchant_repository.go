package repository

import (
	"context"
	"time"

	"diancan_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MerchantRepository — accès aux comptes commerçants
type MerchantRepository interface {
	Create(ctx context.Context, merchant *models.Merchant) error
	FindByUsername(ctx context.Context, username string) (*models.Merchant, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Merchant, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Merchant, error)
}

type MongoMerchantRepository struct {
	collection *mongo.Collection
}

func NewMongoMerchantRepository(db *mongo.Database) *MongoMerchantRepository {
	return &MongoMerchantRepository{collection: db.Collection("merchants")}
}

func (r *MongoMerchantRepository) Create(ctx context.Context, merchant *models.Merchant) error {
	now := time.Now()
	merchant.ID = primitive.NewObjectID()
	merchant.CreatedAt = now
	merchant.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, merchant)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateUsername
	}
	return err
}

func (r *MongoMerchantRepository) FindByUsername(ctx context.Context, username string) (*models.Merchant, error) {
	var merchant models.Merchant
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&merchant)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *MongoMerchantRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Merchant, error) {
	var merchant models.Merchant
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&merchant)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *MongoMerchantRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Merchant, error) {
	result := make(map[primitive.ObjectID]models.Merchant, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var merchants []models.Merchant
	if err := cursor.All(ctx, &merchants); err != nil {
		return nil, err
	}
	for _, m := range merchants {
		result[m.ID] = m
	}
	return result, nil
}
