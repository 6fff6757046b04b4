package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"tradepost/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// CartRow is a cart item joined with its listing for display.
type CartRow struct {
	ListingID int64        `db:"listing_id" json:"listing_id"`
	Title     string       `db:"title" json:"title"`
	Price     domain.Cents `db:"price_cents" json:"price"`
	ImageURL  string       `db:"image_url" json:"image_url"`
	Qty       int          `db:"qty" json:"quantity"`
	Available int          `db:"available" json:"available"`
}

// Add inserts the (user, listing) pair; a pair already in the cart is
// rejected rather than merged, matching the product behavior.
func (r *CartRepo) Add(userID, listingID int64, qty int) error {
	res, err := r.db.Exec(`
		INSERT INTO cart_items(user_id, listing_id, qty)
		VALUES(?, ?, ?)
		ON CONFLICT(user_id, listing_id) DO NOTHING
	`, userID, listingID, qty)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: listing %d", domain.ErrDuplicateCartItem, listingID)
	}
	return nil
}

func (r *CartRepo) Remove(userID, listingID int64) error {
	res, err := r.db.Exec(`DELETE FROM cart_items WHERE user_id = ? AND listing_id = ?`, userID, listingID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: cart item", domain.ErrNotFound)
	}
	return nil
}

func (r *CartRepo) ListByUser(userID int64) ([]CartRow, error) {
	out := []CartRow{}
	err := r.db.Select(&out, `
		SELECT ci.listing_id, l.title, l.price_cents, l.image_url, ci.qty,
		       l.quantity AS available
		FROM cart_items ci JOIN listings l ON l.id = ci.listing_id
		WHERE ci.user_id = ?
		ORDER BY ci.created_at`, userID)
	return out, err
}

// ClearForListing deletes the buyer's cart entry for a listing as part of
// the purchase transaction. No row is not an error: buying without ever
// carting the item is normal.
func (r *CartRepo) ClearForListing(e sqlx.Ext, userID, listingID int64) error {
	_, err := e.Exec(`DELETE FROM cart_items WHERE user_id = ? AND listing_id = ?`, userID, listingID)
	return err
}
