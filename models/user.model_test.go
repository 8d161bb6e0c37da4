package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name       string
		user       User
		wantFields []string
	}{
		{
			name: "valid user",
			user: User{Account: "caesar", Email: "caesar@example.com", Password: "secret"},
		},
		{
			name:       "everything missing, order preserved",
			user:       User{},
			wantFields: []string{"account", "email", "password"},
		},
		{
			name:       "short account",
			user:       User{Account: "ab", Email: "a@b.com", Password: "secret"},
			wantFields: []string{"account"},
		},
		{
			name:       "bad email",
			user:       User{Account: "caesar", Email: "not-an-email", Password: "secret"},
			wantFields: []string{"email"},
		},
		{
			name:       "password too long",
			user:       User{Account: "caesar", Email: "a@b.com", Password: "123456789012345678901"},
			wantFields: []string{"password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.user.Validate()
			require.Len(t, errs, len(tt.wantFields))
			for i, field := range tt.wantFields {
				assert.Equal(t, field, errs[i].Field)
				assert.NotEmpty(t, errs[i].Message)
			}
		})
	}
}

func TestCartTotal(t *testing.T) {
	assert.Equal(t, 0, CartTotal(nil))
	assert.Equal(t, 5, CartTotal([]CartLine{{Quantity: 2}, {Quantity: 3}}))
}
