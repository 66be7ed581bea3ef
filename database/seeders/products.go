package seeders

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ndthang/techmart/app/models"
)

func init() {
	Register("products", SeedProducts)
}

// SeedProducts inserts a small starter catalog when the collection is empty.
func SeedProducts(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection("products")

	n, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	products := []interface{}{
		models.Product{
			Name:        "Aurora X1",
			Type:        "phone",
			Price:       699,
			Description: "6.1\" OLED, 128GB, dual camera.",
		},
		models.Product{
			Name:        "Aurora X1 Pro",
			Type:        "phone",
			Price:       999,
			Description: "6.7\" OLED, 256GB, triple camera.",
		},
		models.Product{
			Name:        "Pulse Buds",
			Type:        "accessory",
			Price:       129,
			Description: "Wireless earbuds with noise cancelling.",
		},
		models.Product{
			Name:        "VoltCharge 30W",
			Type:        "accessory",
			Price:       39,
			Description: "30W USB-C fast charger.",
		},
	}
	_, err = coll.InsertMany(ctx, products)
	return err
}
