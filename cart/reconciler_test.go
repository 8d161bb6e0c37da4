package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"boardshop/apperr"
	"boardshop/models"
)

// fakeCatalog serves products from a map, like a tiny in-memory store.
type fakeCatalog struct {
	products map[primitive.ObjectID]models.Product
}

func (f fakeCatalog) Product(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return models.Product{}, apperr.New(apperr.NotFound, "product not found")
	}
	return product, nil
}

func newFakeCatalog(products ...models.Product) fakeCatalog {
	catalog := fakeCatalog{products: map[primitive.ObjectID]models.Product{}}
	for _, p := range products {
		catalog.products[p.ID] = p
	}
	return catalog
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	sellable := models.Product{ID: primitive.NewObjectID(), Name: "keyboard", Sell: true}
	unlisted := models.Product{ID: primitive.NewObjectID(), Name: "retired", Sell: false}
	missing := primitive.NewObjectID()
	catalog := newFakeCatalog(sellable, unlisted)

	tests := []struct {
		name      string
		lines     []models.CartLine
		productID string
		delta     int
		want      []models.CartLine
		wantKind  apperr.Kind
	}{
		{
			name:      "add new sellable product",
			lines:     nil,
			productID: sellable.ID.Hex(),
			delta:     3,
			want:      []models.CartLine{{ProductID: sellable.ID, Quantity: 3}},
		},
		{
			name:      "increment existing line",
			lines:     []models.CartLine{{ProductID: sellable.ID, Quantity: 2}},
			productID: sellable.ID.Hex(),
			delta:     1,
			want:      []models.CartLine{{ProductID: sellable.ID, Quantity: 3}},
		},
		{
			name:      "decrement below zero removes line",
			lines:     []models.CartLine{{ProductID: sellable.ID, Quantity: 2}},
			productID: sellable.ID.Hex(),
			delta:     -5,
			want:      []models.CartLine{},
		},
		{
			name:      "decrement to exactly zero removes line",
			lines:     []models.CartLine{{ProductID: sellable.ID, Quantity: 2}},
			productID: sellable.ID.Hex(),
			delta:     -2,
			want:      []models.CartLine{},
		},
		{
			name:      "existing line skips catalog checks",
			lines:     []models.CartLine{{ProductID: unlisted.ID, Quantity: 1}},
			productID: unlisted.ID.Hex(),
			delta:     2,
			want:      []models.CartLine{{ProductID: unlisted.ID, Quantity: 3}},
		},
		{
			name:      "malformed product id",
			lines:     nil,
			productID: "abc",
			delta:     1,
			wantKind:  apperr.InvalidReference,
		},
		{
			name:      "well-formed but unknown product id",
			lines:     nil,
			productID: missing.Hex(),
			delta:     1,
			wantKind:  apperr.NotFound,
		},
		{
			name:      "product not for sale",
			lines:     nil,
			productID: unlisted.ID.Hex(),
			delta:     1,
			wantKind:  apperr.ProductNotSellable,
		},
		{
			name:      "non-positive initial add rejected",
			lines:     nil,
			productID: sellable.ID.Hex(),
			delta:     0,
			wantKind:  apperr.ValidationFailed,
		},
		{
			name:      "negative initial add rejected",
			lines:     nil,
			productID: sellable.ID.Hex(),
			delta:     -2,
			wantKind:  apperr.ValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(ctx, tt.lines, tt.productID, tt.delta, catalog)
			if tt.wantKind != apperr.Unknown {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	ctx := context.Background()
	product := models.Product{ID: primitive.NewObjectID(), Sell: true}
	catalog := newFakeCatalog(product)

	lines := []models.CartLine{{ProductID: product.ID, Quantity: 2}}

	_, err := Apply(ctx, lines, product.ID.Hex(), 5, catalog)
	require.NoError(t, err)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestApplyInverse(t *testing.T) {
	ctx := context.Background()
	a := models.Product{ID: primitive.NewObjectID(), Sell: true}
	b := models.Product{ID: primitive.NewObjectID(), Sell: true}
	catalog := newFakeCatalog(a, b)

	start := []models.CartLine{
		{ProductID: a.ID, Quantity: 4},
		{ProductID: b.ID, Quantity: 1},
	}

	// Applying +q then -q to an existing line restores the cart.
	for _, q := range []int{1, 2, 3} {
		up, err := Apply(ctx, start, a.ID.Hex(), q, catalog)
		require.NoError(t, err)
		down, err := Apply(ctx, up, a.ID.Hex(), -q, catalog)
		require.NoError(t, err)
		assert.Equal(t, start, down)
	}
}

func TestApplyFailureLeavesCartUsable(t *testing.T) {
	ctx := context.Background()
	unlisted := models.Product{ID: primitive.NewObjectID(), Sell: false}
	catalog := newFakeCatalog(unlisted)

	lines := []models.CartLine{{ProductID: primitive.NewObjectID(), Quantity: 1}}
	got, err := Apply(ctx, lines, unlisted.ID.Hex(), 1, catalog)
	require.Error(t, err)
	assert.Nil(t, got)
	// The caller's cart is untouched on failure.
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestTotalNeverNegative(t *testing.T) {
	ctx := context.Background()
	product := models.Product{ID: primitive.NewObjectID(), Sell: true}
	catalog := newFakeCatalog(product)

	lines := []models.CartLine{{ProductID: product.ID, Quantity: 2}}
	got, err := Apply(ctx, lines, product.ID.Hex(), -5, catalog)
	require.NoError(t, err)
	assert.Equal(t, 0, models.CartTotal(got))
	assert.Empty(t, got)
}
