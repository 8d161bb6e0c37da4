package models

import (
	"net/mail"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"boardshop/apperr"
)

// User represents a user in the system. The cart is embedded in the
// user document; CartVersion guards concurrent cart writes.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Account     string             `bson:"account" json:"account"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password,omitempty" json:"-"`
	Tokens      []string           `bson:"tokens" json:"-"`
	Cart        []CartLine         `bson:"cart" json:"-"`
	CartVersion int64              `bson:"cart_version" json:"-"`
	Role        string             `bson:"role" json:"role"` // "user" or "admin"
	Name        string             `bson:"name,omitempty" json:"name,omitempty"`
	Age         int                `bson:"age,omitempty" json:"age,omitempty"`
	Job         string             `bson:"job,omitempty" json:"job,omitempty"`
	Gender      string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Validate checks the registration fields and returns every failure in
// field order. Callers surface only the first message.
func (u User) Validate() []apperr.FieldError {
	var errs []apperr.FieldError
	if u.Account == "" {
		errs = append(errs, apperr.FieldError{Field: "account", Message: "account is required"})
	} else if len(u.Account) < 4 || len(u.Account) > 20 {
		errs = append(errs, apperr.FieldError{Field: "account", Message: "account must be 4 to 20 characters"})
	}
	if u.Email == "" {
		errs = append(errs, apperr.FieldError{Field: "email", Message: "email is required"})
	} else if !ValidEmail(u.Email) {
		errs = append(errs, apperr.FieldError{Field: "email", Message: "email format is invalid"})
	}
	if u.Password == "" {
		errs = append(errs, apperr.FieldError{Field: "password", Message: "password is required"})
	} else if len(u.Password) < 4 || len(u.Password) > 20 {
		errs = append(errs, apperr.FieldError{Field: "password", Message: "password must be 4 to 20 characters"})
	}
	return errs
}

// ValidEmail reports whether s parses as a bare mail address.
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
