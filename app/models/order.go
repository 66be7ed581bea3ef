package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status values. One canonical enumeration is used everywhere; the
// customer and admin surfaces render the same states.
const (
	StatusProcessing = 1
	StatusProcessed  = 2
	StatusCancelled  = 3
	StatusCompleted  = 4
)

var statusLabels = map[int]string{
	StatusProcessing: "processing",
	StatusProcessed:  "processed",
	StatusCancelled:  "cancelled",
	StatusCompleted:  "completed",
}

// StatusLabel returns the display label for a status code, or "unknown".
func StatusLabel(status int) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return "unknown"
}

// ValidStatus reports whether status is one of the four order states.
func ValidStatus(status int) bool {
	_, ok := statusLabels[status]
	return ok
}

// Order is a document in the orders collection. OrderCode is a UUID and
// doubles as the join key to order_details. IdempotencyKey is set when the
// client supplied an Idempotency-Key header at checkout; a unique sparse
// index makes replays return the original order.
type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"             json:"id"`
	OrderCode      string             `bson:"order_code"                json:"order_code"`
	UserID         primitive.ObjectID `bson:"user_id"                   json:"user_id"`
	Status         int                `bson:"status"                    json:"status"`
	TotalsPrice    float64            `bson:"totals_price"              json:"totals_price"`
	IdempotencyKey string             `bson:"idempotency_key,omitempty" json:"-"`
	CreatedAt      time.Time          `bson:"created_at"                json:"created_at"`
}

// OrderDetail is a document in the order_details collection, one per cart
// row at checkout time. TotalPrice carries over the cart row's snapshot.
type OrderDetail struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderCode  string             `bson:"order_code"    json:"order_code"`
	ProductID  primitive.ObjectID `bson:"product_id"    json:"product_id"`
	UserID     primitive.ObjectID `bson:"user_id"       json:"user_id"`
	Quantity   int                `bson:"quantity"      json:"quantity"`
	TotalPrice float64            `bson:"total_price"   json:"total_price"`
}
