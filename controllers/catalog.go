package controllers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"boardshop/apperr"
	"boardshop/models"
)

// mongoCatalog adapts the products collection to the cart reconciler's
// Catalog port.
type mongoCatalog struct {
	coll *mongo.Collection
}

func (c mongoCatalog) Product(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var product models.Product
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		return models.Product{}, apperr.FromMongo(err, "product not found")
	}
	return product, nil
}
