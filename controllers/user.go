package controllers

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"boardshop/apperr"
	"boardshop/cart"
	"boardshop/middleware"
	"boardshop/models"
	"boardshop/utils"
)

// editCartRetries bounds the optimistic-versioning loop for concurrent
// cart writes to the same user document.
const editCartRetries = 3

// UserController handles registration, sessions, profile and cart.
type UserController struct {
	Users        *mongo.Collection
	Products     *mongo.Collection
	EmailService *utils.EmailService
}

// NewUserController creates a new UserController with EmailService
func NewUserController(client *mongo.Client, emailService *utils.EmailService) *UserController {
	db := client.Database("boardshop")
	return &UserController{
		Users:        db.Collection("users"),
		Products:     db.Collection("products"),
		EmailService: emailService,
	}
}

// profilePayload is the profile shape returned by login, profile and
// profile-update responses. Cart is the aggregate line quantity.
type profilePayload struct {
	Account string `json:"account"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Cart    int    `json:"cart"`
	Name    string `json:"name,omitempty"`
	Age     int    `json:"age,omitempty"`
	Job     string `json:"job,omitempty"`
	Gender  string `json:"gender,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

func newProfilePayload(user models.User) profilePayload {
	return profilePayload{
		Account: user.Account,
		Email:   user.Email,
		Role:    user.Role,
		Cart:    models.CartTotal(user.Cart),
		Name:    user.Name,
		Age:     user.Age,
		Job:     user.Job,
		Gender:  user.Gender,
		Phone:   user.Phone,
		Address: user.Address,
	}
}

// registrationRequest is the registration body. models.User never
// decodes a password from JSON; this is the one place one is accepted.
type registrationRequest struct {
	Account  string `json:"account"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req registrationRequest) user() models.User {
	return models.User{
		Account:  req.Account,
		Email:    req.Email,
		Password: req.Password,
	}
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req registrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteFail(w, http.StatusBadRequest, "invalid input")
		return
	}

	user := req.user()
	if fieldErrs := user.Validate(); len(fieldErrs) > 0 {
		respondError(w, apperr.Validation(fieldErrs))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, apperr.Wrap(apperr.Unknown, "unknown error", err))
		return
	}

	now := time.Now()
	user.Password = string(hashedPassword)
	user.Role = "user"
	user.Tokens = []string{}
	user.Cart = []models.CartLine{}
	user.CartVersion = 0
	user.CreatedAt = now
	user.UpdatedAt = now

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := uc.Users.InsertOne(ctx, user); err != nil {
		ae := apperr.FromMongo(err, "user not found")
		if ae.Kind == apperr.DuplicateKey {
			ae.Message = duplicateRegistrationMessage(err)
		}
		respondError(w, ae)
		return
	}

	if err := uc.EmailService.SendWelcomeEmail(user.Email, user.Account); err != nil {
		log.Printf("welcome email to %s failed: %v", user.Email, err)
	}

	utils.WriteOK(w, "", nil)
}

// duplicateRegistrationMessage names the unique index a duplicate-key
// write tripped. Mongo write errors carry "index: <name>" in their
// message; anything unrecognizable stays generic.
func duplicateRegistrationMessage(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "index: account"):
		return "account already registered"
	case strings.Contains(msg, "index: email"):
		return "email already registered"
	}
	return "already registered"
}

// Login authenticates by account and password, issues a token and
// persists it on the user document.
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Account  string `json:"account"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		utils.WriteFail(w, http.StatusBadRequest, "invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := uc.Users.FindOne(ctx, bson.M{"account": creds.Account}).Decode(&user)
	if err != nil {
		utils.WriteFail(w, http.StatusUnauthorized, "account or password incorrect")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		utils.WriteFail(w, http.StatusUnauthorized, "account or password incorrect")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex())
	if err != nil {
		respondError(w, apperr.Wrap(apperr.Unknown, "unknown error", err))
		return
	}
	_, err = uc.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$push": bson.M{"tokens": token}})
	if err != nil {
		respondError(w, apperr.FromMongo(err, "user not found"))
		return
	}

	result := struct {
		Token string `json:"token"`
		profilePayload
	}{Token: token, profilePayload: newProfilePayload(user)}
	utils.WriteOK(w, "", result)
}

// Extend rotates the presented token in place and returns the new one.
func (uc *UserController) Extend(w http.ResponseWriter, r *http.Request, principal middleware.Principal) {
	token, err := utils.GenerateJWT(principal.User.ID.Hex())
	if err != nil {
		respondError(w, apperr.Wrap(apperr.Unknown, "unknown error", err))
		return
	}

	tokens := make([]string, len(principal.User.Tokens))
	copy(tokens, principal.User.Tokens)
	for i, t := range tokens {
		if t == principal.Token {
			tokens[i] = token
			break
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = uc.Users.UpdateOne(ctx, bson.M{"_id": principal.User.ID}, bson.M{"$set": bson.M{"tokens": tokens}})
	if err != nil {
		respondError(w, apperr.FromMongo(err, "user not found"))
		return
	}
	utils.WriteOK(w, "", token)
}

// Logout revokes the presented token.
func (uc *UserController) Logout(w http.ResponseWriter, r *http.Request, principal middleware.Principal) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := uc.Users.UpdateOne(ctx, bson.M{"_id": principal.User.ID}, bson.M{"$pull": bson.M{"tokens": principal.Token}})
	if err != nil {
		respondError(w, apperr.FromMongo(err, "user not found"))
		return
	}
	utils.WriteOK(w, "", nil)
}

// Profile returns the authenticated user's profile.
func (uc *UserController) Profile(w http.ResponseWriter, r *http.Request, principal middleware.Principal) {
	utils.WriteOK(w, "", newProfilePayload(principal.User))
}

// profileAllowedFields is the closed set of profile fields a user may
// update. Anything else fails the whole request before any mutation.
var profileAllowedFields = map[string]bool{
	"name":    true,
	"email":   true,
	"age":     true,
	"job":     true,
	"gender":  true,
	"phone":   true,
	"address": true,
}

// profileUpdateDoc turns a decoded update body into a $set document,
// rejecting disallowed fields and invalid values.
func profileUpdateDoc(updates map[string]any) (bson.M, error) {
	for key := range updates {
		if !profileAllowedFields[key] {
			return nil, apperr.New(apperr.DisallowedField, "field not allowed: "+key)
		}
	}

	set := bson.M{}
	for key, value := range updates {
		switch key {
		case "age":
			age, ok := value.(float64)
			if !ok || age < 0 || age != math.Trunc(age) {
				return nil, apperr.Validation([]apperr.FieldError{
					{Field: "age", Message: "age must be a non-negative integer"},
				})
			}
			set[key] = int(age)
		case "email":
			email, ok := value.(string)
			if !ok || !models.ValidEmail(email) {
				return nil, apperr.Validation([]apperr.FieldError{
					{Field: "email", Message: "email format is invalid"},
				})
			}
			set[key] = email
		default:
			s, ok := value.(string)
			if !ok {
				return nil, apperr.Validation([]apperr.FieldError{
					{Field: key, Message: key + " must be a string"},
				})
			}
			set[key] = s
		}
	}
	set["updatedAt"] = time.Now()
	return set, nil
}

// UpdateProfile applies an allow-listed partial update and returns the
// updated profile.
func (uc *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request, principal middleware.Principal) {
	var updates map[string]any
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		utils.WriteFail(w, http.StatusBadRequest, "invalid input")
		return
	}

	set, err := profileUpdateDoc(updates)
	if err != nil {
		respondError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err = uc.Users.FindOneAndUpdate(
		ctx,
		bson.M{"_id": principal.User.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		respondError(w, apperr.FromMongo(err, "user not found"))
		return
	}

	utils.WriteOK(w, "", newProfilePayload(user))
}

// EditCart applies a quantity delta for one product to the caller's
// cart and responds with the new aggregate quantity. Writes go through
// per-user optimistic versioning so concurrent edits cannot clobber
// each other.
func (uc *UserController) EditCart(w http.ResponseWriter, r *http.Request, principal middleware.Principal) {
	var req struct {
		Product  string `json:"product"`
		Quantity int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteFail(w, http.StatusBadRequest, "invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	catalog := mongoCatalog{coll: uc.Products}
	user := principal.User
	for attempt := 0; attempt < editCartRetries; attempt++ {
		if attempt > 0 {
			if err := uc.Users.FindOne(ctx, bson.M{"_id": principal.User.ID}).Decode(&user); err != nil {
				respondError(w, apperr.FromMongo(err, "user not found"))
				return
			}
		}

		lines, err := cart.Apply(ctx, user.Cart, req.Product, req.Quantity, catalog)
		if err != nil {
			respondError(w, err)
			return
		}

		res, err := uc.Users.UpdateOne(
			ctx,
			bson.M{"_id": user.ID, "cart_version": user.CartVersion},
			bson.M{"$set": bson.M{"cart": lines}, "$inc": bson.M{"cart_version": 1}},
		)
		if err != nil {
			respondError(w, apperr.FromMongo(err, "user not found"))
			return
		}
		if res.MatchedCount == 1 {
			utils.WriteOK(w, "", models.CartTotal(lines))
			return
		}
		// Version moved under us; reload and reconcile again.
	}

	utils.WriteFail(w, http.StatusInternalServerError, "unknown error")
}

// GetCart returns the full cart with product references resolved to
// product documents, preserving line order.
func (uc *UserController) GetCart(w http.ResponseWriter, r *http.Request, principal middleware.Principal) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err := uc.Users.FindOne(ctx, bson.M{"_id": principal.User.ID}).Decode(&user)
	if err != nil {
		respondError(w, apperr.FromMongo(err, "user not found"))
		return
	}

	ids := make([]any, 0, len(user.Cart))
	for _, line := range user.Cart {
		ids = append(ids, line.ProductID)
	}

	products := map[string]models.Product{}
	if len(ids) > 0 {
		cursor, err := uc.Products.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			respondError(w, apperr.Wrap(apperr.Unknown, "unknown error", err))
			return
		}
		defer cursor.Close(ctx)
		for cursor.Next(ctx) {
			var product models.Product
			if err := cursor.Decode(&product); err != nil {
				respondError(w, apperr.Wrap(apperr.Unknown, "unknown error", err))
				return
			}
			products[product.ID.Hex()] = product
		}
		if err := cursor.Err(); err != nil {
			respondError(w, apperr.Wrap(apperr.Unknown, "unknown error", err))
			return
		}
	}

	utils.WriteOK(w, "", resolveCartLines(user.Cart, products))
}

// resolveCartLines joins cart lines with their product documents,
// preserving line order. A line whose product has since been removed
// from the catalog is omitted.
func resolveCartLines(lines []models.CartLine, products map[string]models.Product) []models.ResolvedCartLine {
	resolved := []models.ResolvedCartLine{}
	for _, line := range lines {
		product, ok := products[line.ProductID.Hex()]
		if !ok {
			continue
		}
		resolved = append(resolved, models.ResolvedCartLine{Product: product, Quantity: line.Quantity})
	}
	return resolved
}
