package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"boardshop/models"
	"boardshop/utils"
)

// Principal is the authenticated caller, resolved once per request and
// passed to handlers as an explicit argument rather than through the
// request context.
type Principal struct {
	User  models.User
	Token string
}

// AuthedHandler is a handler that requires an authenticated principal.
type AuthedHandler func(w http.ResponseWriter, r *http.Request, principal Principal)

// Auth verifies bearer tokens against both the JWT signature and the
// token list persisted on the user document.
type Auth struct {
	Users *mongo.Collection
}

func NewAuth(client *mongo.Client) *Auth {
	return &Auth{Users: client.Database("boardshop").Collection("users")}
}

// ErrNoBearer is returned when the Authorization header is missing or
// not in "Bearer <token>" form.
var ErrNoBearer = errors.New("invalid authorization header")

// BearerToken extracts the bearer token from a request.
func BearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrNoBearer
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrNoBearer
	}
	return parts[1], nil
}

// Required wraps an AuthedHandler, rejecting requests whose token does
// not verify or is no longer on the user's token list.
func (a *Auth) Required(next AuthedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := a.resolve(w, r)
		if !ok {
			return
		}
		next(w, r, principal)
	}
}

// Admin behaves like Required and additionally demands the admin role.
func (a *Auth) Admin(next AuthedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := a.resolve(w, r)
		if !ok {
			return
		}
		if principal.User.Role != "admin" {
			utils.WriteFail(w, http.StatusForbidden, "admins only")
			return
		}
		next(w, r, principal)
	}
}

func (a *Auth) resolve(w http.ResponseWriter, r *http.Request) (Principal, bool) {
	tokenStr, err := BearerToken(r)
	if err != nil {
		utils.WriteFail(w, http.StatusUnauthorized, "authorization header missing or malformed")
		return Principal{}, false
	}

	claims, err := utils.ParseJWT(tokenStr)
	if err != nil {
		utils.WriteFail(w, http.StatusUnauthorized, "invalid token")
		return Principal{}, false
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		utils.WriteFail(w, http.StatusUnauthorized, "invalid token")
		return Principal{}, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user models.User
	err = a.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		utils.WriteFail(w, http.StatusUnauthorized, "invalid token")
		return Principal{}, false
	}
	if !TokenOnRecord(user.Tokens, tokenStr) {
		utils.WriteFail(w, http.StatusUnauthorized, "invalid token")
		return Principal{}, false
	}

	return Principal{User: user, Token: tokenStr}, true
}

// TokenOnRecord reports whether token is among the user's live tokens.
func TokenOnRecord(tokens []string, token string) bool {
	for _, t := range tokens {
		if t == token {
			return true
		}
	}
	return false
}
