package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ndthang/techmart/app/models"
	"github.com/ndthang/techmart/pkg/metrics"
)

// OrderRepository handles the orders and order_details collections.
type OrderRepository struct {
	client  *mongo.Client
	orders  *mongo.Collection
	details *mongo.Collection
	cart    *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		client:  db.Client(),
		orders:  db.Collection("orders"),
		details: db.Collection("order_details"),
		cart:    db.Collection("cart"),
	}
}

// Place runs the whole checkout write set in one multi-document transaction:
// insert the order, insert one detail per cart row, clear the user's cart.
// Either all three land or none do.
func (r *OrderRepository) Place(ctx context.Context, order *models.Order, details []models.OrderDetail) error {
	defer metrics.ObserveMongoOp("orders", "place_txn", time.Now())

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	docs := make([]interface{}, len(details))
	for i := range details {
		docs[i] = details[i]
	}

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.orders.InsertOne(sc, order)
		if err != nil {
			return nil, err
		}
		order.ID = res.InsertedID.(primitive.ObjectID)

		if _, err := r.details.InsertMany(sc, docs); err != nil {
			return nil, err
		}
		if _, err := r.cart.DeleteMany(sc, bson.M{"user_id": order.UserID}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// FindByIdempotencyKey returns the order previously created under key.
func (r *OrderRepository) FindByIdempotencyKey(ctx context.Context, key string) (models.Order, error) {
	defer metrics.ObserveMongoOp("orders", "find_one", time.Now())

	var order models.Order
	err := r.orders.FindOne(ctx, bson.M{"idempotency_key": key}).Decode(&order)
	return order, mapErr(err)
}

// FindByCode returns an order by its order code.
func (r *OrderRepository) FindByCode(ctx context.Context, code string) (models.Order, error) {
	defer metrics.ObserveMongoOp("orders", "find_one", time.Now())

	var order models.Order
	err := r.orders.FindOne(ctx, bson.M{"order_code": code}).Decode(&order)
	return order, mapErr(err)
}

// ByUser returns a user's orders, newest first.
func (r *OrderRepository) ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

// All returns every order, newest first.
func (r *OrderRepository) All(ctx context.Context) ([]models.Order, error) {
	return r.find(ctx, bson.M{})
}

// ByStatusInRange returns orders with the given status created in [from, to].
func (r *OrderRepository) ByStatusInRange(ctx context.Context, status int, from, to time.Time) ([]models.Order, error) {
	return r.find(ctx, bson.M{
		"status":     status,
		"created_at": bson.M{"$gte": from, "$lte": to},
	})
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	defer metrics.ObserveMongoOp("orders", "find", time.Now())

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var orders []models.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// DetailsByCode returns the detail rows of one order.
func (r *OrderRepository) DetailsByCode(ctx context.Context, code string) ([]models.OrderDetail, error) {
	defer metrics.ObserveMongoOp("order_details", "find", time.Now())

	cur, err := r.details.Find(ctx, bson.M{"order_code": code})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var details []models.OrderDetail
	if err := cur.All(ctx, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// UpdateStatus sets the status of one order by id.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	defer metrics.ObserveMongoOp("orders", "update_one", time.Now())

	res, err := r.orders.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an order and its detail rows.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	defer metrics.ObserveMongoOp("orders", "delete_one", time.Now())

	var order models.Order
	if err := r.orders.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&order); err != nil {
		return mapErr(err)
	}
	_, err = r.details.DeleteMany(ctx, bson.M{"order_code": order.OrderCode})
	return err
}
