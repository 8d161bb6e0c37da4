package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
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
	productSearchFields = []string{"name", "description"}
	productSortFields   = []string{"createdAt", "name", "price"}
)

// ProductController handles catalog requests
type ProductController struct {
	Collection *mongo.Collection
}

// NewProductController creates a new ProductController
func NewProductController(client *mongo.Client) *ProductController {
	return &ProductController{
		Collection: client.Database("boardshop").Collection("products"),
	}
}

// productFromForm builds a product from multipart form values.
func productFromForm(r *http.Request, image string) (models.Product, []apperr.FieldError) {
	price, priceErr := strconv.ParseFloat(r.FormValue("price"), 64)

	now := time.Now()
	product := models.Product{
		Name:        r.FormValue("name"),
		Price:       price,
		Description: r.FormValue("description"),
		Image:       image,
		Sell:        r.FormValue("sell") == "true",
		Category:    r.FormValue("category"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	fieldErrs := product.Validate()
	if priceErr != nil {
		fieldErrs = append([]apperr.FieldError{
			{Field: "price", Message: "product price must be a number"},
		}, fieldErrs...)
	}
	return product, fieldErrs
}

// Create adds a product (Admin only).
func (pc *ProductController) Create(w http.ResponseWriter, r *http.Request, principal middleware.Principal) {
	image, err := utils.SaveImage(r)
	if err != nil {
		if errors.Is(err, utils.ErrNoImage) || errors.Is(err, utils.ErrBadImage) {
			respondError(w, apperr.Validation([]apperr.FieldError{
				{Field: "image", Message: "product image is required"},
			}))
			return
		}
		respondError(w, apperr.Wrap(apperr.Unknown, "unknown error", err))
		return
	}

	product, fieldErrs := productFromForm(r, image)
	if len(fieldErrs) > 0 {
		respondError(w, apperr.Validation(fieldErrs))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := pc.Collection.InsertOne(ctx, product)
	if err != nil {
		respondError(w, apperr.FromMongo(err, "product not found"))
		return
	}
	product.ID = result.InsertedID.(primitive.ObjectID)

	utils.WriteOK(w, "product created", product)
}

// Get lists sellable products for the shop page with an exact filtered
// count; unlisted products never appear here.
func (pc *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	listCollection[models.Product](w, r, pc.Collection, productSearchFields, productSortFields, bson.M{"sell": true}, listing.CountExact)
}

// GetAll lists every product for the admin page with an estimated total.
func (pc *ProductController) GetAll(w http.ResponseWriter, r *http.Request, principal middleware.Principal) {
	listCollection[models.Product](w, r, pc.Collection, productSearchFields, productSortFields, nil, listing.CountEstimated)
}

// GetByID returns one sellable product.
func (pc *ProductController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, apperr.New(apperr.InvalidReference, "product id format is invalid"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := pc.Collection.FindOne(ctx, bson.M{"_id": id, "sell": true}).Decode(&product); err != nil {
		respondError(w, apperr.FromMongo(err, "product not found"))
		return
	}
	utils.WriteOK(w, "", product)
}

// Edit updates a product (Admin only); the image is replaced only when
// a new file is uploaded.
func (pc *ProductController) Edit(w http.ResponseWriter, r *http.Request, principal middleware.Principal) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, apperr.New(apperr.InvalidReference, "product id format is invalid"))
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
	for _, field := range []string{"name", "description", "category"} {
		if value := r.FormValue(field); value != "" {
			set[field] = value
		}
	}
	if priceStr := r.FormValue("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			respondError(w, apperr.Validation([]apperr.FieldError{
				{Field: "price", Message: "product price must be a non-negative number"},
			}))
			return
		}
		set["price"] = price
	}
	if sellStr := r.FormValue("sell"); sellStr != "" {
		set["sell"] = sellStr == "true"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := pc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		respondError(w, apperr.FromMongo(err, "product not found"))
		return
	}
	if res.MatchedCount == 0 {
		respondError(w, apperr.New(apperr.NotFound, "product not found"))
		return
	}
	utils.WriteOK(w, "product updated", nil)
}

// Remove deletes a product (Admin only).
func (pc *ProductController) Remove(w http.ResponseWriter, r *http.Request, principal middleware.Principal) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, apperr.New(apperr.InvalidReference, "product id format is invalid"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := pc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		respondError(w, apperr.FromMongo(err, "product not found"))
		return
	}
	if res.DeletedCount == 0 {
		respondError(w, apperr.New(apperr.NotFound, "product not found"))
		return
	}
	utils.WriteOK(w, "product deleted", nil)
}
