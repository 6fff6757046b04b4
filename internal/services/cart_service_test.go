package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradepost/internal/domain"
	"tradepost/internal/repos"
	"tradepost/internal/services"
)

func TestCartAddAndRemove(t *testing.T) {
	e := newEnv(t)
	seller := e.user(t, "seller", 0)
	buyer := e.user(t, "buyer", domain.Cents(10000))
	lid := e.listing(t, seller, domain.Cents(1000), 3)

	cart := services.NewCartService(e.carts, e.listings)

	require.NoError(t, cart.Add(buyer, lid, 2))

	rows, err := cart.View(buyer)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, lid, rows[0].ListingID)
	assert.Equal(t, 2, rows[0].Qty)
	assert.Equal(t, domain.Cents(1000), rows[0].Price)

	// same pair again is rejected, not merged
	assert.ErrorIs(t, cart.Add(buyer, lid, 1), domain.ErrDuplicateCartItem)

	require.NoError(t, cart.Remove(buyer, lid))
	assert.ErrorIs(t, cart.Remove(buyer, lid), domain.ErrNotFound)
}

func TestCartAddValidatesListingAndQty(t *testing.T) {
	e := newEnv(t)
	seller := e.user(t, "seller", 0)
	buyer := e.user(t, "buyer", domain.Cents(10000))
	lid := e.listing(t, seller, domain.Cents(1000), 3)

	cart := services.NewCartService(e.carts, e.listings)

	assert.ErrorIs(t, cart.Add(buyer, 9999, 1), domain.ErrValidation)
	assert.ErrorIs(t, cart.Add(buyer, lid, 4), domain.ErrValidation)
}

func TestReviewRatingBounds(t *testing.T) {
	e := newEnv(t)
	seller := e.user(t, "seller", 0)
	buyer := e.user(t, "buyer", domain.Cents(10000))
	lid := e.listing(t, seller, domain.Cents(1000), 3)

	reviews := services.NewReviewService(repos.NewReviewRepo(e.db), e.listings)

	_, err := reviews.Post(buyer, lid, 0, "meh")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = reviews.Post(buyer, lid, 6, "wow")
	assert.ErrorIs(t, err, domain.ErrValidation)

	id, err := reviews.Post(buyer, lid, 5, "great radio")
	require.NoError(t, err)
	assert.NotZero(t, id)

	got, err := reviews.List(lid)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Rating)
}
