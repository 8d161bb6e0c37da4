package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"boardshop/apperr"
)

// Board represents an announcement board entry.
type Board struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image" json:"image"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (b Board) Validate() []apperr.FieldError {
	var errs []apperr.FieldError
	if b.Name == "" {
		errs = append(errs, apperr.FieldError{Field: "name", Message: "board name is required"})
	}
	if b.Description == "" {
		errs = append(errs, apperr.FieldError{Field: "description", Message: "board description is required"})
	}
	if b.Image == "" {
		errs = append(errs, apperr.FieldError{Field: "image", Message: "board image is required"})
	}
	return errs
}
