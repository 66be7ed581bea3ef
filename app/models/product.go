package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Product is a document in the products collection. The image is stored
// inline as base64; GET /api/products/{id}/image decodes and serves it.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"  json:"id"`
	Name        string             `bson:"name"           json:"name"`
	Type        string             `bson:"type"           json:"type"`
	Price       float64            `bson:"price"          json:"price"`
	Description string             `bson:"description"    json:"description"`
	ImageBase64 string             `bson:"image_base64"   json:"image_base64,omitempty"`
}
