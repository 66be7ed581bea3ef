package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ndthang/techmart/app/models"
	"github.com/ndthang/techmart/pkg/metrics"
)

// CartRepository handles the cart collection.
type CartRepository struct {
	coll *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{coll: db.Collection("cart")}
}

// ByUser returns all cart rows belonging to a user.
func (r *CartRepository) ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error) {
	defer metrics.ObserveMongoOp("cart", "find", time.Now())

	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.CartItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID returns a single cart row.
func (r *CartRepository) FindByID(ctx context.Context, id string) (models.CartItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.CartItem{}, ErrNotFound
	}
	defer metrics.ObserveMongoOp("cart", "find_one", time.Now())

	var item models.CartItem
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&item)
	return item, mapErr(err)
}

// Add inserts a cart row and fills in its id.
func (r *CartRepository) Add(ctx context.Context, item *models.CartItem) error {
	defer metrics.ObserveMongoOp("cart", "insert_one", time.Now())

	res, err := r.coll.InsertOne(ctx, item)
	if err != nil {
		return err
	}
	item.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// SetQuantity updates quantity and total_price on one row in a single write.
// The unit price snapshot is never touched.
func (r *CartRepository) SetQuantity(ctx context.Context, id string, quantity int, totalPrice float64) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	defer metrics.ObserveMongoOp("cart", "update_one", time.Now())

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"quantity": quantity, "total_price": totalPrice},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one cart row.
func (r *CartRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	defer metrics.ObserveMongoOp("cart", "delete_one", time.Now())

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
