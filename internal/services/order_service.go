package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"tradepost/internal/domain"
	"tradepost/internal/repos"
)

// OrderService orchestrates the purchase and cancellation lifecycle. Every
// operation runs inside a single database transaction: balances, inventory,
// the transaction record, and cart cleanup commit together or not at all.
type OrderService struct {
	DB       *sqlx.DB
	Users    *repos.UserRepo
	Listings *repos.ListingRepo
	Wallet   *repos.WalletRepo
	Txns     *repos.TxnRepo
	Carts    *repos.CartRepo
	Policy   CancellationPolicy

	// Now is swapped out in tests to pin the clock.
	Now func() time.Time
}

func NewOrderService(db *sqlx.DB, users *repos.UserRepo, listings *repos.ListingRepo,
	wallet *repos.WalletRepo, txns *repos.TxnRepo, carts *repos.CartRepo,
	window time.Duration) *OrderService {
	return &OrderService{
		DB:       db,
		Users:    users,
		Listings: listings,
		Wallet:   wallet,
		Txns:     txns,
		Carts:    carts,
		Policy:   CancellationPolicy{Window: window},
		Now:      time.Now,
	}
}

type PurchaseInput struct {
	ListingID       int64
	BuyerID         int64
	Quantity        int
	ShippingAddress string
	// IdempotencyKey, when set, makes retries replay the original
	// purchase instead of charging again.
	IdempotencyKey string
}

type PurchaseResult struct {
	TransactionID    int64  `json:"transaction_id"`
	Ref              string `json:"ref"`
	DeliveryEstimate string `json:"delivery_estimate"`
}

// Purchase executes the buy flow. Preconditions are checked in order and
// the first failure wins; effects are atomic.
func (s *OrderService) Purchase(in PurchaseInput) (PurchaseResult, error) {
	if in.Quantity < 1 {
		return PurchaseResult{}, fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
	}
	if in.ShippingAddress == "" {
		return PurchaseResult{}, fmt.Errorf("%w: shipping address required", domain.ErrValidation)
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return PurchaseResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if in.IdempotencyKey != "" {
		prev, err := s.Txns.ByIdempotencyKey(tx, in.IdempotencyKey)
		switch {
		case err == nil:
			return PurchaseResult{prev.ID, prev.PublicRef, prev.DeliveryEstimate}, nil
		case !errors.Is(err, domain.ErrNotFound):
			return PurchaseResult{}, err
		}
	}

	l, err := s.Listings.Lookup(tx, in.ListingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return PurchaseResult{}, fmt.Errorf("%w: listing %d", domain.ErrInsufficientInventory, in.ListingID)
		}
		return PurchaseResult{}, err
	}
	if l.Quantity < in.Quantity {
		return PurchaseResult{}, fmt.Errorf("%w: listing %d has %d", domain.ErrInsufficientInventory, l.ID, l.Quantity)
	}

	buyer, err := s.Users.Lookup(tx, in.BuyerID)
	if err != nil {
		return PurchaseResult{}, asParty(err)
	}
	if _, err := s.Users.Lookup(tx, l.UserID); err != nil {
		return PurchaseResult{}, asParty(err)
	}

	total := l.Price.Mul(in.Quantity)
	if buyer.Balance < total {
		return PurchaseResult{}, fmt.Errorf("%w: need %s, have %s", domain.ErrInsufficientBalance, total, buyer.Balance)
	}

	// Guarded updates re-check quantity and balance at write time, so a
	// concurrent purchase that slipped past the reads above still fails
	// cleanly instead of overselling or overdrawing.
	if err := s.Listings.Reserve(tx, l.ID, in.Quantity); err != nil {
		return PurchaseResult{}, err
	}
	if err := s.Wallet.Transfer(tx, buyer.ID, l.UserID, total); err != nil {
		return PurchaseResult{}, err
	}

	now := s.Now().UTC()
	t := &domain.Transaction{
		PublicRef:        uuid.NewString(),
		BuyerID:          buyer.ID,
		SellerID:         l.UserID,
		ListingID:        l.ID,
		Price:            l.Price,
		Quantity:         in.Quantity,
		ShippingAddress:  in.ShippingAddress,
		DeliveryEstimate: deliveryEstimate(now, l.ID),
		PurchasedAt:      now.Format(time.RFC3339),
		Status:           domain.StatusInProgress,
	}
	if in.IdempotencyKey != "" {
		t.IdempotencyKey = sql.NullString{String: in.IdempotencyKey, Valid: true}
	}
	id, err := s.Txns.Create(tx, t)
	if err != nil {
		return PurchaseResult{}, err
	}

	if err := s.Carts.ClearForListing(tx, buyer.ID, l.ID); err != nil {
		return PurchaseResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return PurchaseResult{}, err
	}
	return PurchaseResult{id, t.PublicRef, t.DeliveryEstimate}, nil
}

// Cancel reverses a purchase within the cancellation window: refund,
// inventory restore, and the single status flip, all in one transaction.
func (s *OrderService) Cancel(transactionID int64) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	t, err := s.Txns.Lookup(tx, transactionID)
	if err != nil {
		return err
	}
	if t.Status != domain.StatusInProgress {
		return fmt.Errorf("%w: status %s", domain.ErrCancellationNotAllowed, t.Status)
	}

	purchased, err := t.PurchasedTime()
	if err != nil {
		return fmt.Errorf("%w: transaction %d has unparseable purchase time", domain.ErrIntegrity, t.ID)
	}
	if !s.Policy.Allowed(s.Now().UTC(), purchased) {
		return domain.ErrCancellationWindowExpired
	}

	// All three referenced rows must still exist before anything mutates;
	// a missing one means the store lost data and the cancel aborts loudly.
	if _, err := s.Users.Lookup(tx, t.BuyerID); err != nil {
		return asIntegrity(err)
	}
	if _, err := s.Users.Lookup(tx, t.SellerID); err != nil {
		return asIntegrity(err)
	}
	if _, err := s.Listings.Lookup(tx, t.ListingID); err != nil {
		return asIntegrity(err)
	}

	if err := s.Wallet.Reverse(tx, t.SellerID, t.BuyerID, t.Total()); err != nil {
		return err
	}
	if err := s.Listings.Release(tx, t.ListingID, t.Quantity); err != nil {
		return err
	}
	if err := s.Txns.MarkCancelled(tx, t.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// deliveryEstimate spreads estimates over 2-5 days keyed off the listing id.
func deliveryEstimate(purchasedAt time.Time, listingID int64) string {
	days := 2 + int(listingID%4)
	return purchasedAt.AddDate(0, 0, days).Format("2006-01-02")
}

func asParty(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidParty, err)
	}
	return err
}

func asIntegrity(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %v", domain.ErrIntegrity, err)
	}
	return err
}
