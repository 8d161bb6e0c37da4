package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"boardshop/apperr"
	"boardshop/listing"
	"boardshop/middleware"
	"boardshop/models"
	"boardshop/utils"
)

var (
	articleSearchFields = []string{"title", "content"}
	articleSortFields   = []string{"createdAt", "title", "author"}
)

// ArticleController handles article-related requests
type ArticleController struct {
	Collection *mongo.Collection
}

// NewArticleController creates a new ArticleController
func NewArticleController(client *mongo.Client) *ArticleController {
	return &ArticleController{
		Collection: client.Database("boardshop").Collection("articles"),
	}
}

// Create adds an article from a multipart form with an image upload.
func (ac *ArticleController) Create(w http.ResponseWriter, r *http.Request, principal middleware.Principal) {
	image, err := utils.SaveImage(r)
	if err != nil {
		if errors.Is(err, utils.ErrNoImage) || errors.Is(err, utils.ErrBadImage) {
			respondError(w, apperr.Validation([]apperr.FieldError{
				{Field: "image", Message: "article image is required"},
			}))
			return
		}
		respondError(w, apperr.Wrap(apperr.Unknown, "unknown error", err))
		return
	}

	now := time.Now()
	article := models.Article{
		Title:     r.FormValue("title"),
		Content:   r.FormValue("content"),
		Author:    r.FormValue("author"),
		URL:       r.FormValue("url"),
		Image:     image,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if fieldErrs := article.Validate(); len(fieldErrs) > 0 {
		respondError(w, apperr.Validation(fieldErrs))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := ac.Collection.InsertOne(ctx, article)
	if err != nil {
		respondError(w, apperr.FromMongo(err, "article not found"))
		return
	}
	article.ID = result.InsertedID.(primitive.ObjectID)

	utils.WriteOK(w, "article created", article)
}

// Get lists articles for the public page with an exact filtered count.
func (ac *ArticleController) Get(w http.ResponseWriter, r *http.Request) {
	listCollection[models.Article](w, r, ac.Collection, articleSearchFields, articleSortFields, nil, listing.CountExact)
}

// GetAll lists articles for the admin page with an estimated total.
func (ac *ArticleController) GetAll(w http.ResponseWriter, r *http.Request, principal middleware.Principal) {
	listCollection[models.Article](w, r, ac.Collection, articleSearchFields, articleSortFields, nil, listing.CountEstimated)
}

// GetByID returns one article.
func (ac *ArticleController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, apperr.New(apperr.InvalidReference, "article id format is invalid"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var article models.Article
	if err := ac.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&article); err != nil {
		respondError(w, apperr.FromMongo(err, "article not found"))
		return
	}
	utils.WriteOK(w, "", article)
}

// Edit updates an article's fields; the image is replaced only when a
// new file is uploaded.
func (ac *ArticleController) Edit(w http.ResponseWriter, r *http.Request, principal middleware.Principal) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, apperr.New(apperr.InvalidReference, "article id format is invalid"))
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	image, err := utils.SaveImage(r)
	switch {
	case err == nil:
		set["image"] = image
	case errors.Is(err, utils.ErrNoImage):
		// keep the current image
	case errors.Is(err, utils.ErrBadImage):
		respondError(w, apperr.Validation([]apperr.FieldError{
			{Field: "image", Message: "unsupported image type"},
		}))
		return
	default:
		respondError(w, apperr.Wrap(apperr.Unknown, "unknown error", err))
		return
	}
	for _, field := range []string{"title", "content", "author", "url"} {
		if value := r.FormValue(field); value != "" {
			set[field] = value
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := ac.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		respondError(w, apperr.FromMongo(err, "article not found"))
		return
	}
	if res.MatchedCount == 0 {
		respondError(w, apperr.New(apperr.NotFound, "article not found"))
		return
	}
	utils.WriteOK(w, "article updated", nil)
}

// Remove deletes an article.
func (ac *ArticleController) Remove(w http.ResponseWriter, r *http.Request, principal middleware.Principal) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, apperr.New(apperr.InvalidReference, "article id format is invalid"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := ac.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		respondError(w, apperr.FromMongo(err, "article not found"))
		return
	}
	if res.DeletedCount == 0 {
		respondError(w, apperr.New(apperr.NotFound, "article not found"))
		return
	}
	utils.WriteOK(w, "article deleted", nil)
}
