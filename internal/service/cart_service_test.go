package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bean4896/hessen-custom/internal/catalog"
	"github.com/bean4896/hessen-custom/internal/pricing"
	"github.com/bean4896/hessen-custom/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartServiceForTest() (*CartService, *mockCartRepository, *mockCartCache) {
	repo := &mockCartRepository{}
	cc := &mockCartCache{}
	return NewCartService(repo, cc, catalog.Default()), repo, cc
}

func testConfiguration() catalog.Configuration {
	return catalog.Configuration{
		Material:  "oakwood",
		Finish:    "natural",
		Size:      "queen",
		Headboard: "panel",
		Base:      "platform",
	}
}

func TestGetCart_EmptyForNewSession(t *testing.T) {
	svc, _, _ := newCartServiceForTest()

	cart, err := svc.GetCart(context.Background(), "session-1")

	require.NoError(t, err)
	assert.Equal(t, "session-1", cart.SessionID)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems())
}

func TestGetCart_CorruptStoredCartFallsBackToEmpty(t *testing.T) {
	svc, repo, _ := newCartServiceForTest()
	repo.getErr = fmt.Errorf("%w: bad bson", repository.ErrCartCorrupt)

	cart, err := svc.GetCart(context.Background(), "session-1")

	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestGetCart_MissPopulatesCache(t *testing.T) {
	svc, _, cc := newCartServiceForTest()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", "bedframe", testConfiguration(), 1)
	require.NoError(t, err)
	require.Nil(t, cc.cart, "mutation invalidates the cached entry")

	cart, err := svc.GetCart(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, 1, cc.setCalls)
	require.NotNil(t, cc.cart)
	assert.Equal(t, cart.Subtotal(), cc.cart.Subtotal())
}

func TestGetCart_HitDoesNotRewriteCache(t *testing.T) {
	svc, _, cc := newCartServiceForTest()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", "bedframe", testConfiguration(), 1)
	require.NoError(t, err)
	_, err = svc.GetCart(ctx, "session-1") // miss fills the cache
	require.NoError(t, err)
	setsAfterFill := cc.setCalls

	_, err = svc.GetCart(ctx, "session-1") // hit
	require.NoError(t, err)
	assert.Equal(t, setsAfterFill, cc.setCalls, "a hit must not rewrite the entry")
}

func TestGetCart_ReadDoesNotResurrectInvalidatedEntry(t *testing.T) {
	svc, _, cc := newCartServiceForTest()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", "bedframe", testConfiguration(), 1)
	require.NoError(t, err)
	_, err = svc.GetCart(ctx, "session-1")
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, "session-1", "bedframe", testConfiguration(), 1)
	require.NoError(t, err)
	assert.Nil(t, cc.cart, "the earlier read must not re-cache past the invalidation")

	cart, err := svc.GetCart(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestAddItem_PricesAtAddTime(t *testing.T) {
	svc, _, _ := newCartServiceForTest()

	cart, err := svc.AddItem(context.Background(), "session-1", "bedframe", testConfiguration(), 1)

	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	// oakwood +299, queen +250
	assert.Equal(t, pricing.BasePrice+299+250, cart.Items[0].UnitPrice)
	assert.NotEmpty(t, cart.Items[0].ID)
}

func TestAddItem_MergesIdenticalConfiguration(t *testing.T) {
	svc, _, _ := newCartServiceForTest()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", "bedframe", testConfiguration(), 2)
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, "session-1", "bedframe", testConfiguration(), 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 5, cart.TotalItems())
}

func TestAddItem_DifferentConfigurationGetsOwnRow(t *testing.T) {
	svc, _, _ := newCartServiceForTest()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", "bedframe", testConfiguration(), 1)
	require.NoError(t, err)

	other := testConfiguration()
	other.Size = "king"
	cart, err := svc.AddItem(ctx, "session-1", "bedframe", other, 1)
	require.NoError(t, err)

	assert.Len(t, cart.Items, 2)
}

func TestAddItem_OptionalOrderStillMerges(t *testing.T) {
	svc, _, _ := newCartServiceForTest()
	ctx := context.Background()

	a := testConfiguration()
	a.Optional = []string{"mattress", "bedding"}
	b := testConfiguration()
	b.Optional = []string{"bedding", "mattress"}

	_, err := svc.AddItem(ctx, "session-1", "bedframe", a, 1)
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, "session-1", "bedframe", b, 1)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestUpdateQuantity_ZeroRemovesItem(t *testing.T) {
	svc, _, _ := newCartServiceForTest()
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "session-1", "bedframe", testConfiguration(), 2)
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = svc.UpdateQuantity(ctx, "session-1", itemID, 0)

	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestUpdateQuantity_MissingItemIsNoOp(t *testing.T) {
	svc, _, _ := newCartServiceForTest()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", "bedframe", testConfiguration(), 2)
	require.NoError(t, err)

	cart, err := svc.UpdateQuantity(ctx, "session-1", "no-such-item", 7)

	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestRemoveItem_MissingItemIsNoOp(t *testing.T) {
	svc, _, _ := newCartServiceForTest()
	ctx := context.Background()

	before, err := svc.AddItem(ctx, "session-1", "bedframe", testConfiguration(), 2)
	require.NoError(t, err)
	subtotal := before.Subtotal()

	cart, err := svc.RemoveItem(ctx, "session-1", "no-such-item")

	require.NoError(t, err)
	assert.Equal(t, subtotal, cart.Subtotal())
}

func TestSubtotal_MatchesRecomputationAfterMutations(t *testing.T) {
	svc, _, _ := newCartServiceForTest()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", "bedframe", testConfiguration(), 2)
	require.NoError(t, err)

	other := testConfiguration()
	other.Material = "hinoki"
	cart, err := svc.AddItem(ctx, "session-1", "bedframe", other, 1)
	require.NoError(t, err)

	cart, err = svc.UpdateQuantity(ctx, "session-1", cart.Items[0].ID, 3)
	require.NoError(t, err)

	expected := 0.0
	for _, item := range cart.Items {
		expected += item.UnitPrice * float64(item.Quantity)
	}
	assert.Equal(t, expected, cart.Subtotal())
}

func TestClear(t *testing.T) {
	svc, repo, _ := newCartServiceForTest()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "session-1", "bedframe", testConfiguration(), 2)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "session-1"))

	assert.Nil(t, repo.cart)

	cart, err := svc.GetCart(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestClear_MissingCartIsNoOp(t *testing.T) {
	svc, _, _ := newCartServiceForTest()

	assert.NoError(t, svc.Clear(context.Background(), "never-seen"))
}
