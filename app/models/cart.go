package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// CartItem is a document in the cart collection. UnitPrice is snapshotted
// from the product at add time and never updated afterwards; TotalPrice is
// always Quantity * UnitPrice.
type CartItem struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id"       json:"user_id"`
	ProductID  primitive.ObjectID `bson:"product_id"    json:"product_id"`
	Quantity   int                `bson:"quantity"      json:"quantity"`
	UnitPrice  float64            `bson:"unit_price"    json:"unit_price"`
	TotalPrice float64            `bson:"total_price"   json:"total_price"`
}
