package repository

import (
	"context"
	"time"

	"diancan_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Filtre de disponibilité du listing public : flag à true, ou absent (anciennes données)
func availableFilter() bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"isAvailable": true},
		bson.M{"isAvailable": bson.M{"$exists": false}},
	}}
}

// MenuRepository — accès au catalogue des plats
type MenuRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	FindPublic(ctx context.Context, category string) ([]models.MenuItem, error)
	FindAvailableByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.MenuItem, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error)
	FindByMerchant(ctx context.Context, merchantID primitive.ObjectID) ([]models.MenuItem, error)
	Update(ctx context.Context, item *models.MenuItem) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MongoMenuRepository struct {
	collection *mongo.Collection
}

func NewMongoMenuRepository(db *mongo.Database) *MongoMenuRepository {
	return &MongoMenuRepository{collection: db.Collection("menu_items")}
}

func (r *MongoMenuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	now := time.Now()
	item.ID = primitive.NewObjectID()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, item)
	return err
}

func (r *MongoMenuRepository) FindPublic(ctx context.Context, category string) ([]models.MenuItem, error) {
	filter := availableFilter()
	if category != "" && category != models.CategoryAll {
		filter["category"] = category
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []models.MenuItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoMenuRepository) FindAvailableByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.MenuItem, error) {
	if len(ids) == 0 {
		return []models.MenuItem{}, nil
	}

	filter := availableFilter()
	filter["_id"] = bson.M{"$in": ids}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []models.MenuItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoMenuRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *MongoMenuRepository) FindByMerchant(ctx context.Context, merchantID primitive.ObjectID) ([]models.MenuItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"merchantId": merchantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []models.MenuItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoMenuRepository) Update(ctx context.Context, item *models.MenuItem) error {
	item.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": item.ID}, item)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoMenuRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
