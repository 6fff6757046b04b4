package services_test

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"tradepost/internal/domain"
	"tradepost/internal/repos"
	"tradepost/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// one connection: each modernc :memory: connection is its own database
	db.SetMaxOpenConns(1)
	require.NoError(t, repos.EnsureSchema(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type env struct {
	db       *sqlx.DB
	users    *repos.UserRepo
	listings *repos.ListingRepo
	wallet   *repos.WalletRepo
	txns     *repos.TxnRepo
	carts    *repos.CartRepo
	orders   *services.OrderService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := memdb(t)
	e := &env{
		db:       db,
		users:    repos.NewUserRepo(db),
		listings: repos.NewListingRepo(db),
		wallet:   repos.NewWalletRepo(db),
		txns:     repos.NewTxnRepo(db),
		carts:    repos.NewCartRepo(db),
	}
	e.orders = services.NewOrderService(db, e.users, e.listings, e.wallet, e.txns, e.carts, 24*time.Hour)
	return e
}

func (e *env) user(t *testing.T, name string, balance domain.Cents) int64 {
	t.Helper()
	id, err := e.users.Create(name, "irrelevant-hash", balance)
	require.NoError(t, err)
	return id
}

func (e *env) listing(t *testing.T, owner int64, price domain.Cents, qty int) int64 {
	t.Helper()
	id, err := e.listings.Create(owner, "Game Boy Color", "tested", price, "", qty)
	require.NoError(t, err)
	return id
}

func (e *env) balance(t *testing.T, id int64) domain.Cents {
	t.Helper()
	c, err := e.wallet.Balance(id)
	require.NoError(t, err)
	return c
}

func buy(listingID, buyerID int64, qty int) services.PurchaseInput {
	return services.PurchaseInput{
		ListingID:       listingID,
		BuyerID:         buyerID,
		Quantity:        qty,
		ShippingAddress: "1 Main St",
	}
}

func TestPurchaseScenario(t *testing.T) {
	// listing price=10, qty=5; buyer balance=100; buy 3, then cancel.
	e := newEnv(t)
	seller := e.user(t, "seller", 0)
	buyer := e.user(t, "buyer", domain.Cents(10000))
	lid := e.listing(t, seller, domain.Cents(1000), 5)

	purchasedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e.orders.Now = func() time.Time { return purchasedAt }

	res, err := e.orders.Purchase(buy(lid, buyer, 3))
	require.NoError(t, err)
	assert.NotZero(t, res.TransactionID)
	assert.NotEmpty(t, res.Ref)

	wantEstimate := purchasedAt.AddDate(0, 0, 2+int(lid%4)).Format("2006-01-02")
	assert.Equal(t, wantEstimate, res.DeliveryEstimate)

	assert.Equal(t, domain.Cents(7000), e.balance(t, buyer))
	assert.Equal(t, domain.Cents(3000), e.balance(t, seller))

	l, err := e.listings.ByID(lid)
	require.NoError(t, err)
	assert.Equal(t, 2, l.Quantity)
	assert.False(t, l.IsSold)

	txn, err := e.txns.ByID(res.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, txn.Status)
	assert.Equal(t, domain.Cents(1000), txn.Price)
	assert.Equal(t, purchasedAt.Format(time.RFC3339), txn.PurchasedAt)

	// cancel inside the window restores everything exactly
	e.orders.Now = func() time.Time { return purchasedAt.Add(time.Hour) }
	require.NoError(t, e.orders.Cancel(res.TransactionID))

	assert.Equal(t, domain.Cents(10000), e.balance(t, buyer))
	assert.Equal(t, domain.Cents(0), e.balance(t, seller))
	l, err = e.listings.ByID(lid)
	require.NoError(t, err)
	assert.Equal(t, 5, l.Quantity)
	assert.False(t, l.IsSold)
	txn, err = e.txns.ByID(res.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, txn.Status)
}

func TestPurchasePriceSnapshotSurvivesEdit(t *testing.T) {
	e := newEnv(t)
	seller := e.user(t, "seller", 0)
	buyer := e.user(t, "buyer", domain.Cents(10000))
	lid := e.listing(t, seller, domain.Cents(1000), 5)

	res, err := e.orders.Purchase(buy(lid, buyer, 1))
	require.NoError(t, err)

	// seller triples the price afterwards; the refund still uses the snapshot
	require.NoError(t, e.listings.Update(lid, "Game Boy Color", "tested", domain.Cents(3000), ""))

	require.NoError(t, e.orders.Cancel(res.TransactionID))
	assert.Equal(t, domain.Cents(10000), e.balance(t, buyer))
	assert.Equal(t, domain.Cents(0), e.balance(t, seller))
}

func TestPurchaseInsufficientInventory(t *testing.T) {
	e := newEnv(t)
	seller := e.user(t, "seller", 0)
	buyer := e.user(t, "buyer", domain.Cents(10000))
	lid := e.listing(t, seller, domain.Cents(1000), 2)

	_, err := e.orders.Purchase(buy(lid, buyer, 3))
	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)

	// nothing moved
	assert.Equal(t, domain.Cents(10000), e.balance(t, buyer))
	l, _ := e.listings.ByID(lid)
	assert.Equal(t, 2, l.Quantity)

	// missing listing maps to the same error
	_, err = e.orders.Purchase(buy(9999, buyer, 1))
	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
}

func TestPurchaseInsufficientBalance(t *testing.T) {
	e := newEnv(t)
	seller := e.user(t, "seller", 0)
	buyer := e.user(t, "buyer", domain.Cents(2999))
	lid := e.listing(t, seller, domain.Cents(1000), 5)

	_, err := e.orders.Purchase(buy(lid, buyer, 3))
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	assert.Equal(t, domain.Cents(2999), e.balance(t, buyer))
	assert.Equal(t, domain.Cents(0), e.balance(t, seller))
	l, _ := e.listings.ByID(lid)
	assert.Equal(t, 5, l.Quantity)
}

func TestPurchaseInvalidParty(t *testing.T) {
	e := newEnv(t)
	seller := e.user(t, "seller", 0)
	lid := e.listing(t, seller, domain.Cents(1000), 5)

	_, err := e.orders.Purchase(buy(lid, 9999, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidParty)
}

func TestPurchaseMarksSoldOut(t *testing.T) {
	e := newEnv(t)
	seller := e.user(t, "seller", 0)
	buyer := e.user(t, "buyer", domain.Cents(10000))
	lid := e.listing(t, seller, domain.Cents(1000), 2)

	_, err := e.orders.Purchase(buy(lid, buyer, 2))
	require.NoError(t, err)

	l, err := e.listings.ByID(lid)
	require.NoError(t, err)
	assert.Equal(t, 0, l.Quantity)
	assert.True(t, l.IsSold)
}

func TestPurchaseClearsCartItem(t *testing.T) {
	e := newEnv(t)
	seller := e.user(t, "seller", 0)
	buyer := e.user(t, "buyer", domain.Cents(10000))
	lid := e.listing(t, seller, domain.Cents(1000), 5)
	require.NoError(t, e.carts.Add(buyer, lid, 2))

	_, err := e.orders.Purchase(buy(lid, buyer, 2))
	require.NoError(t, err)

	rows, err := e.carts.ListByUser(buyer)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestPurchaseIdempotentReplay(t *testing.T) {
	e := newEnv(t)
	seller := e.user(t, "seller", 0)
	buyer := e.user(t, "buyer", domain.Cents(10000))
	lid := e.listing(t, seller, domain.Cents(1000), 5)

	in := buy(lid, buyer, 2)
	in.IdempotencyKey = "retry-abc"

	first, err := e.orders.Purchase(in)
	require.NoError(t, err)
	second, err := e.orders.Purchase(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// charged exactly once
	assert.Equal(t, domain.Cents(8000), e.balance(t, buyer))
	l, _ := e.listings.ByID(lid)
	assert.Equal(t, 3, l.Quantity)
}

func TestCancelTwice(t *testing.T) {
	e := newEnv(t)
	seller := e.user(t, "seller", 0)
	buyer := e.user(t, "buyer", domain.Cents(10000))
	lid := e.listing(t, seller, domain.Cents(1000), 5)

	res, err := e.orders.Purchase(buy(lid, buyer, 1))
	require.NoError(t, err)

	require.NoError(t, e.orders.Cancel(res.TransactionID))
	err = e.orders.Cancel(res.TransactionID)
	assert.ErrorIs(t, err, domain.ErrCancellationNotAllowed)

	// the double cancel must not refund twice
	assert.Equal(t, domain.Cents(10000), e.balance(t, buyer))
	assert.Equal(t, domain.Cents(0), e.balance(t, seller))
}

func TestCancelUnknownTransaction(t *testing.T) {
	e := newEnv(t)
	assert.ErrorIs(t, e.orders.Cancel(424242), domain.ErrNotFound)
}

func TestCancelWindow(t *testing.T) {
	e := newEnv(t)
	seller := e.user(t, "seller", 0)
	buyer := e.user(t, "buyer", domain.Cents(10000))
	lid := e.listing(t, seller, domain.Cents(1000), 5)

	purchasedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e.orders.Now = func() time.Time { return purchasedAt }

	first, err := e.orders.Purchase(buy(lid, buyer, 1))
	require.NoError(t, err)
	second, err := e.orders.Purchase(buy(lid, buyer, 1))
	require.NoError(t, err)

	// 23h59m: still inside the window
	e.orders.Now = func() time.Time { return purchasedAt.Add(24*time.Hour - time.Minute) }
	assert.NoError(t, e.orders.Cancel(first.TransactionID))

	// 24h + 1s: expired, nothing refunded
	e.orders.Now = func() time.Time { return purchasedAt.Add(24*time.Hour + time.Second) }
	err = e.orders.Cancel(second.TransactionID)
	assert.ErrorIs(t, err, domain.ErrCancellationWindowExpired)

	txn, err := e.txns.ByID(second.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, txn.Status)
}

func TestCancelIntegrityFailure(t *testing.T) {
	e := newEnv(t)
	seller := e.user(t, "seller", 0)
	buyer := e.user(t, "buyer", domain.Cents(10000))
	lid := e.listing(t, seller, domain.Cents(1000), 5)

	res, err := e.orders.Purchase(buy(lid, buyer, 1))
	require.NoError(t, err)

	// the listing vanishes underneath the transaction
	_, err = e.db.Exec(`DELETE FROM listings WHERE id = ?`, lid)
	require.NoError(t, err)

	err = e.orders.Cancel(res.TransactionID)
	assert.ErrorIs(t, err, domain.ErrIntegrity)

	// abort before any mutation: balances and status untouched
	assert.Equal(t, domain.Cents(9000), e.balance(t, buyer))
	assert.Equal(t, domain.Cents(1000), e.balance(t, seller))
	txn, err := e.txns.ByID(res.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, txn.Status)
}

func TestConcurrentPurchaseLastUnit(t *testing.T) {
	e := newEnv(t)
	seller := e.user(t, "seller", 0)
	a := e.user(t, "buyer_a", domain.Cents(10000))
	b := e.user(t, "buyer_b", domain.Cents(10000))
	lid := e.listing(t, seller, domain.Cents(1000), 1)

	errs := make([]error, 2)
	var g errgroup.Group
	for i, buyer := range []int64{a, b} {
		i, buyer := i, buyer
		g.Go(func() error {
			_, errs[i] = e.orders.Purchase(buy(lid, buyer, 1))
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
			lost++
		}
	}
	assert.Equal(t, 1, won, "exactly one purchase must win the last unit")
	assert.Equal(t, 1, lost)

	l, err := e.listings.ByID(lid)
	require.NoError(t, err)
	assert.Equal(t, 0, l.Quantity)
	assert.True(t, l.IsSold)
	assert.Equal(t, domain.Cents(1000), e.balance(t, seller))
}
