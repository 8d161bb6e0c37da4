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

// boardSearchFields are the text fields listing searches match against;
// boardSortFields are the fields a listing may sort by.
var (
	boardSearchFields = []string{"name", "description"}
	boardSortFields   = []string{"createdAt", "name"}
)

// BoardController handles board-related requests
type BoardController struct {
	Collection *mongo.Collection
}

// NewBoardController creates a new BoardController
func NewBoardController(client *mongo.Client) *BoardController {
	return &BoardController{
		Collection: client.Database("boardshop").Collection("boards"),
	}
}

// Create adds a board from a multipart form with an image upload.
func (bc *BoardController) Create(w http.ResponseWriter, r *http.Request, principal middleware.Principal) {
	image, err := utils.SaveImage(r)
	if err != nil {
		if errors.Is(err, utils.ErrNoImage) || errors.Is(err, utils.ErrBadImage) {
			respondError(w, apperr.Validation([]apperr.FieldError{
				{Field: "image", Message: "board image is required"},
			}))
			return
		}
		respondError(w, apperr.Wrap(apperr.Unknown, "unknown error", err))
		return
	}

	now := time.Now()
	board := models.Board{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Image:       image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if fieldErrs := board.Validate(); len(fieldErrs) > 0 {
		respondError(w, apperr.Validation(fieldErrs))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := bc.Collection.InsertOne(ctx, board)
	if err != nil {
		respondError(w, apperr.FromMongo(err, "board not found"))
		return
	}
	board.ID = result.InsertedID.(primitive.ObjectID)

	utils.WriteOK(w, "board created", board)
}

// Get lists boards for the public page. The total is an exact count of
// documents matching the search filter.
func (bc *BoardController) Get(w http.ResponseWriter, r *http.Request) {
	listCollection[models.Board](w, r, bc.Collection, boardSearchFields, boardSortFields, nil, listing.CountExact)
}

// GetAll lists boards for the admin page. The total is the estimated
// collection size; cheap, and admins rarely filter.
func (bc *BoardController) GetAll(w http.ResponseWriter, r *http.Request, principal middleware.Principal) {
	listCollection[models.Board](w, r, bc.Collection, boardSearchFields, boardSortFields, nil, listing.CountEstimated)
}

// GetByID returns one board.
func (bc *BoardController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, apperr.New(apperr.InvalidReference, "board id format is invalid"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var board models.Board
	if err := bc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&board); err != nil {
		respondError(w, apperr.FromMongo(err, "board not found"))
		return
	}
	utils.WriteOK(w, "", board)
}

// Edit updates a board's fields; the image is replaced only when a new
// file is uploaded.
func (bc *BoardController) Edit(w http.ResponseWriter, r *http.Request, principal middleware.Principal) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, apperr.New(apperr.InvalidReference, "board id format is invalid"))
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
	if name := r.FormValue("name"); name != "" {
		set["name"] = name
	}
	if description := r.FormValue("description"); description != "" {
		set["description"] = description
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := bc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		respondError(w, apperr.FromMongo(err, "board not found"))
		return
	}
	if res.MatchedCount == 0 {
		respondError(w, apperr.New(apperr.NotFound, "board not found"))
		return
	}
	utils.WriteOK(w, "board updated", nil)
}

// Remove deletes a board.
func (bc *BoardController) Remove(w http.ResponseWriter, r *http.Request, principal middleware.Principal) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, apperr.New(apperr.InvalidReference, "board id format is invalid"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := bc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		respondError(w, apperr.FromMongo(err, "board not found"))
		return
	}
	if res.DeletedCount == 0 {
		respondError(w, apperr.New(apperr.NotFound, "board not found"))
		return
	}
	utils.WriteOK(w, "board deleted", nil)
}
