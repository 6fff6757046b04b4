package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tradepost/internal/domain"
)

// TxnRepo persists purchase transactions. Rows are append-only except for
// the single IN_PROGRESS -> CANCELLED status flip; nothing is ever deleted.
type TxnRepo struct{ db *sqlx.DB }

func NewTxnRepo(db *sqlx.DB) *TxnRepo { return &TxnRepo{db: db} }

const txnCols = `id, public_ref, buyer_id, seller_id, listing_id, price_cents,
	quantity, shipping_address, delivery_estimate, purchased_at, status, idempotency_key`

func (r *TxnRepo) Create(e sqlx.Ext, t *domain.Transaction) (int64, error) {
	res, err := e.Exec(`
		INSERT INTO transactions
		  (public_ref, buyer_id, seller_id, listing_id, price_cents, quantity,
		   shipping_address, delivery_estimate, purchased_at, status, idempotency_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.PublicRef, t.BuyerID, t.SellerID, t.ListingID, t.Price, t.Quantity,
		t.ShippingAddress, t.DeliveryEstimate, t.PurchasedAt, t.Status, t.IdempotencyKey)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *TxnRepo) ByID(id int64) (domain.Transaction, error) {
	return r.Lookup(r.db, id)
}

// Lookup runs against the given executor so callers can join an open
// transaction.
func (r *TxnRepo) Lookup(e sqlx.Ext, id int64) (domain.Transaction, error) {
	var t domain.Transaction
	err := sqlx.Get(e, &t, `SELECT `+txnCols+` FROM transactions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Transaction{}, fmt.Errorf("%w: transaction %d", domain.ErrNotFound, id)
	}
	return t, err
}

// ByIdempotencyKey finds an earlier purchase recorded under the same key,
// so client retries replay the original result instead of double-charging.
func (r *TxnRepo) ByIdempotencyKey(e sqlx.Ext, key string) (domain.Transaction, error) {
	var t domain.Transaction
	err := sqlx.Get(e, &t, `SELECT `+txnCols+` FROM transactions WHERE idempotency_key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Transaction{}, fmt.Errorf("%w: idempotency key", domain.ErrNotFound)
	}
	return t, err
}

// MarkCancelled flips status with a compare-and-swap on the current state;
// a second cancellation matches no row and fails.
func (r *TxnRepo) MarkCancelled(e sqlx.Ext, id int64) error {
	res, err := e.Exec(`
		UPDATE transactions SET status = ?
		WHERE id = ? AND status = ?
	`, domain.StatusCancelled, id, domain.StatusInProgress)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: transaction %d", domain.ErrCancellationNotAllowed, id)
	}
	return nil
}

func (r *TxnRepo) ListByBuyer(userID int64) ([]domain.Transaction, error) {
	out := []domain.Transaction{}
	err := r.db.Select(&out, `
		SELECT `+txnCols+` FROM transactions
		WHERE buyer_id = ?
		ORDER BY purchased_at DESC`, userID)
	return out, err
}

func (r *TxnRepo) ListBySeller(userID int64) ([]domain.Transaction, error) {
	out := []domain.Transaction{}
	err := r.db.Select(&out, `
		SELECT `+txnCols+` FROM transactions
		WHERE seller_id = ?
		ORDER BY purchased_at DESC`, userID)
	return out, err
}
