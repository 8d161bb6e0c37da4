package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"boardshop/apperr"
)

// Article represents a published article.
type Article struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	Author    string             `bson:"author" json:"author"`
	URL       string             `bson:"url" json:"url"`
	Image     string             `bson:"image" json:"image"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (a Article) Validate() []apperr.FieldError {
	var errs []apperr.FieldError
	if a.Title == "" {
		errs = append(errs, apperr.FieldError{Field: "title", Message: "article title is required"})
	}
	if a.Content == "" {
		errs = append(errs, apperr.FieldError{Field: "content", Message: "article content is required"})
	}
	if a.Author == "" {
		errs = append(errs, apperr.FieldError{Field: "author", Message: "article author is required"})
	}
	if a.URL == "" {
		errs = append(errs, apperr.FieldError{Field: "url", Message: "article url is required"})
	}
	if a.Image == "" {
		errs = append(errs, apperr.FieldError{Field: "image", Message: "article image is required"})
	}
	return errs
}
