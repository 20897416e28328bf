package repository

import (
	"context"
	"errors"
	"time"

	"techzone-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindBySkuID(ctx context.Context, skuID string) (*models.Product, error)
	// DecrementStock atomically subtracts quantity from a SKU's stock and
	// returns the new count. Fails with ErrInsufficientStock rather than
	// letting stock go negative under concurrent decrements.
	DecrementStock(ctx context.Context, skuID string, quantity int) (int, error)
	AddReview(ctx context.Context, productID string, review models.Feedback, avgRating float64) error
	RemoveReview(ctx context.Context, productID, reviewID string, avgRating float64) error
}

// MongoProductRepository implements ProductRepository using mongo-driver
type MongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{
		collection: db.Collection("products"),
	}
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySkuID finds the product owning the given SKU.
func (r *MongoProductRepository) FindBySkuID(ctx context.Context, skuID string) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"sku_details._id": skuID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *MongoProductRepository) DecrementStock(ctx context.Context, skuID string, quantity int) (int, error) {
	filter := bson.M{
		"sku_details": bson.M{
			"$elemMatch": bson.M{
				"_id":   skuID,
				"stock": bson.M{"$gte": quantity},
			},
		},
	}
	update := bson.M{
		"$inc": bson.M{"sku_details.$.stock": -quantity},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var product models.Product
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Either the SKU does not exist or the condition failed;
			// distinguish so underflow surfaces as a conflict.
			if _, ferr := r.FindBySkuID(ctx, skuID); ferr != nil {
				return 0, ferr
			}
			return 0, ErrInsufficientStock
		}
		return 0, err
	}

	sku := product.SkuByID(skuID)
	if sku == nil {
		return 0, ErrNotFound
	}
	return sku.Stock, nil
}

func (r *MongoProductRepository) AddReview(ctx context.Context, productID string, review models.Feedback, avgRating float64) error {
	filter := bson.M{"_id": productID}
	update := bson.M{
		"$set":  bson.M{"avg_rating": avgRating, "updated_at": time.Now().UTC()},
		"$push": bson.M{"feedback_details": review},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProductRepository) RemoveReview(ctx context.Context, productID, reviewID string, avgRating float64) error {
	filter := bson.M{"_id": productID}
	update := bson.M{
		"$set":  bson.M{"avg_rating": avgRating, "updated_at": time.Now().UTC()},
		"$pull": bson.M{"feedback_details": bson.M{"_id": reviewID}},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
