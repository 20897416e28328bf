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

// LicenseRepository defines the interface for the per-SKU license pool.
type LicenseRepository interface {
	Create(ctx context.Context, license *models.License) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.License, error)
	FindBySku(ctx context.Context, skuID string) ([]models.License, error)
	CountUnsold(ctx context.Context, skuID string) (int64, error)
	UpdateKey(ctx context.Context, id, licenseKey string) (*models.License, error)
	// ClaimUnsold atomically claims up to limit unsold licenses for the
	// given SKU, marking each sold and stamping it with the order id in a
	// single conditional update per row. Returns fewer than limit if the
	// pool is short; never claims the same row twice concurrently.
	ClaimUnsold(ctx context.Context, skuID string, limit int, orderID string) ([]models.License, error)
	MarkSold(ctx context.Context, licenseIDs []string, orderID string) error
	// MarkAllUnsoldAsSold sweeps any remaining unsold licenses for a SKU
	// whose stock has reached zero.
	MarkAllUnsoldAsSold(ctx context.Context, skuID, orderID string) error
}

// MongoLicenseRepository implements LicenseRepository using mongo-driver
type MongoLicenseRepository struct {
	collection *mongo.Collection
}

func NewMongoLicenseRepository(db *mongo.Database) *MongoLicenseRepository {
	return &MongoLicenseRepository{
		collection: db.Collection("licenses"),
	}
}

func (r *MongoLicenseRepository) Create(ctx context.Context, license *models.License) error {
	if license.CreatedAt.IsZero() {
		license.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, license)
	return err
}

func (r *MongoLicenseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoLicenseRepository) FindByID(ctx context.Context, id string) (*models.License, error) {
	var license models.License
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&license)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &license, nil
}

func (r *MongoLicenseRepository) FindBySku(ctx context.Context, skuID string) ([]models.License, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"product_sku": skuID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var licenses []models.License
	if err := cursor.All(ctx, &licenses); err != nil {
		return nil, err
	}
	return licenses, nil
}

func (r *MongoLicenseRepository) CountUnsold(ctx context.Context, skuID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"product_sku": skuID, "is_sold": false})
}

func (r *MongoLicenseRepository) UpdateKey(ctx context.Context, id, licenseKey string) (*models.License, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var license models.License
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"license_key": licenseKey}},
		opts,
	).Decode(&license)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &license, nil
}

func (r *MongoLicenseRepository) ClaimUnsold(ctx context.Context, skuID string, limit int, orderID string) ([]models.License, error) {
	claimed := make([]models.License, 0, limit)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	// One conditional update per row: the is_sold filter guarantees two
	// concurrent claimers never get the same license.
	for i := 0; i < limit; i++ {
		var license models.License
		err := r.collection.FindOneAndUpdate(ctx,
			bson.M{"product_sku": skuID, "is_sold": false},
			bson.M{"$set": bson.M{"is_sold": true, "order_id": orderID}},
			opts,
		).Decode(&license)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				break // pool exhausted
			}
			return claimed, err
		}
		claimed = append(claimed, license)
	}

	return claimed, nil
}

func (r *MongoLicenseRepository) MarkSold(ctx context.Context, licenseIDs []string, orderID string) error {
	if len(licenseIDs) == 0 {
		return nil
	}
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": licenseIDs}},
		bson.M{"$set": bson.M{"is_sold": true, "order_id": orderID}},
	)
	return err
}

func (r *MongoLicenseRepository) MarkAllUnsoldAsSold(ctx context.Context, skuID, orderID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"product_sku": skuID, "is_sold": false},
		bson.M{"$set": bson.M{"is_sold": true, "order_id": orderID}},
	)
	return err
}
