// Package cart reconciles a user's cart lines against a requested
// quantity delta for one product.
package cart

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"boardshop/apperr"
	"boardshop/models"
)

// Catalog resolves a product id to its document. Implementations return
// an apperr.NotFound error when the product does not exist.
type Catalog interface {
	Product(ctx context.Context, id primitive.ObjectID) (models.Product, error)
}

// Apply computes the cart that results from adding delta to the quantity
// of productID. The input slice is never mutated; line order is kept.
//
//   - productID must be a valid ObjectID hex, else InvalidReference.
//   - An existing line's quantity becomes q+delta; at or below zero the
//     line is removed.
//   - A new line requires the product to exist and be marked for sale,
//     and delta must be positive.
func Apply(ctx context.Context, lines []models.CartLine, productID string, delta int, catalog Catalog) ([]models.CartLine, error) {
	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, apperr.New(apperr.InvalidReference, "product id format is invalid")
	}

	next := make([]models.CartLine, len(lines))
	copy(next, lines)

	for i, line := range next {
		if line.ProductID != id {
			continue
		}
		quantity := line.Quantity + delta
		if quantity <= 0 {
			return append(next[:i], next[i+1:]...), nil
		}
		next[i].Quantity = quantity
		return next, nil
	}

	// Not in the cart yet: this path is an add, so the delta must be
	// positive and the product must be sellable.
	if delta <= 0 {
		return nil, apperr.Validation([]apperr.FieldError{
			{Field: "quantity", Message: "quantity must be positive"},
		})
	}
	product, err := catalog.Product(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.Sell {
		return nil, apperr.New(apperr.ProductNotSellable, "product is no longer for sale")
	}

	return append(next, models.CartLine{ProductID: product.ID, Quantity: delta}), nil
}
