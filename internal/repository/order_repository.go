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

// OrderRepository — registre des commandes
type OrderRepository interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByMerchant(ctx context.Context, merchantID primitive.ObjectID, status string) ([]models.Order, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

type MongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{collection: db.Collection("orders")}
}

// Insert persiste la commande. L'index unique sur orderNumber fait échouer
// l'insertion en cas de doublon plutôt que d'écraser silencieusement.
func (r *MongoOrderRepository) Insert(ctx context.Context, order *models.Order) error {
	now := time.Now()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = now
	order.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, order)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateOrderNumber
	}
	return err
}

func (r *MongoOrderRepository) FindByMerchant(ctx context.Context, merchantID primitive.ObjectID, status string) ([]models.Order, error) {
	filter := bson.M{"merchantId": merchantID}
	if status != "" && status != models.StatusAll {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
