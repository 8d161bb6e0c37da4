package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"boardshop/apperr"
)

// Product represents a catalog item. Sell marks whether it may be added
// to a cart; unlisted products stay readable by admins.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image" json:"image"`
	Sell        bool               `bson:"sell" json:"sell"`
	Category    string             `bson:"category" json:"category"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (p Product) Validate() []apperr.FieldError {
	var errs []apperr.FieldError
	if p.Name == "" {
		errs = append(errs, apperr.FieldError{Field: "name", Message: "product name is required"})
	}
	if p.Price < 0 {
		errs = append(errs, apperr.FieldError{Field: "price", Message: "product price cannot be negative"})
	}
	if p.Description == "" {
		errs = append(errs, apperr.FieldError{Field: "description", Message: "product description is required"})
	}
	if p.Image == "" {
		errs = append(errs, apperr.FieldError{Field: "image", Message: "product image is required"})
	}
	if p.Category == "" {
		errs = append(errs, apperr.FieldError{Field: "category", Message: "product category is required"})
	}
	return errs
}
