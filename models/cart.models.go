package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine is one product entry in a user's cart. A stored line always
// has Quantity >= 1; a delta that drives it to zero removes the line.
type CartLine struct {
	ProductID primitive.ObjectID `bson:"p_id" json:"p_id"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// ResolvedCartLine is a cart line with its product reference resolved
// to the full product document, returned by the cart read endpoint.
type ResolvedCartLine struct {
	Product  Product `bson:"product" json:"p_id"`
	Quantity int     `bson:"quantity" json:"quantity"`
}

// CartTotal sums the quantities of all lines.
func CartTotal(lines []CartLine) int {
	total := 0
	for _, line := range lines {
		total += line.Quantity
	}
	return total
}
