package repositories

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ndthang/techmart/app/models"
	"github.com/ndthang/techmart/pkg/metrics"
)

// ProductRepository handles the products collection.
type ProductRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection("products")}
}

// All returns every product.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	return r.find(ctx, bson.M{})
}

// ByType returns products whose type matches exactly (case-sensitive).
func (r *ProductRepository) ByType(ctx context.Context, productType string) ([]models.Product, error) {
	return r.find(ctx, bson.M{"type": productType})
}

// Search returns products whose name contains term, case-insensitively.
// The term is quoted so regex metacharacters match literally.
func (r *ProductRepository) Search(ctx context.Context, term string) ([]models.Product, error) {
	return r.find(ctx, bson.M{
		"name": bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"},
	})
}

func (r *ProductRepository) find(ctx context.Context, filter bson.M) ([]models.Product, error) {
	defer metrics.ObserveMongoOp("products", "find", time.Now())

	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FindByID returns a single product by hex id.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, ErrNotFound
	}
	defer metrics.ObserveMongoOp("products", "find_one", time.Now())

	var p models.Product
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	return p, mapErr(err)
}

// FindByIDs fetches the products for a set of ids in one query.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	defer metrics.ObserveMongoOp("products", "find", time.Now())

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Create persists a new product document and fills in its id.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveMongoOp("products", "insert_one", time.Now())

	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Update applies a partial update to the named fields.
func (r *ProductRepository) Update(ctx context.Context, id string, fields bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	defer metrics.ObserveMongoOp("products", "update_one", time.Now())

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a product document.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	defer metrics.ObserveMongoOp("products", "delete_one", time.Now())

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
