package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestValidationSurfacesFirstField(t *testing.T) {
	err := Validation([]FieldError{
		{Field: "account", Message: "account is required"},
		{Field: "email", Message: "email format is invalid"},
	})

	assert.Equal(t, ValidationFailed, err.Kind)
	assert.Equal(t, "account is required", err.Message)
	// The full ordered list stays available internally.
	assert.Len(t, err.Fields, 2)
	assert.Equal(t, "email", err.Fields[1].Field)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, NotFound, KindOf(New(NotFound, "board not found")))
	assert.Equal(t, Unknown, KindOf(errors.New("driver exploded")))
	assert.Equal(t, Unknown, KindOf(nil))
}

func TestFromMongoNoDocuments(t *testing.T) {
	err := FromMongo(mongo.ErrNoDocuments, "product not found")
	assert.Equal(t, NotFound, err.Kind)
	assert.Equal(t, "product not found", err.Message)
	assert.True(t, errors.Is(err, mongo.ErrNoDocuments))
}

func TestFromMongoDuplicateKey(t *testing.T) {
	dup := mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}},
	}
	err := FromMongo(dup, "user not found")
	assert.Equal(t, DuplicateKey, err.Kind)
}

func TestFromMongoUnrecognized(t *testing.T) {
	err := FromMongo(errors.New("socket closed"), "board not found")
	assert.Equal(t, Unknown, err.Kind)
	// The caller-facing message never carries driver detail.
	assert.Equal(t, "unknown error", err.Message)
}
