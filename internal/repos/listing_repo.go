package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tradepost/internal/domain"
)

type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

const listingCols = `id, user_id, title, description, price_cents, image_url, quantity, is_sold, created_at`

func (r *ListingRepo) Create(userID int64, title, description string, price domain.Cents, imageURL string, qty int) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO listings(user_id, title, description, price_cents, image_url, quantity)
		VALUES(?, ?, ?, ?, ?, ?)
	`, userID, title, description, price, imageURL, qty)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *ListingRepo) ByID(id int64) (domain.Listing, error) {
	return r.Lookup(r.db, id)
}

// Lookup runs against the given executor so callers can join an open
// transaction.
func (r *ListingRepo) Lookup(e sqlx.Ext, id int64) (domain.Listing, error) {
	var l domain.Listing
	err := sqlx.Get(e, &l, `SELECT `+listingCols+` FROM listings WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Listing{}, fmt.Errorf("%w: listing %d", domain.ErrNotFound, id)
	}
	return l, err
}

// ListOpen returns listings still available for purchase.
func (r *ListingRepo) ListOpen() ([]domain.Listing, error) {
	out := []domain.Listing{}
	err := r.db.Select(&out, `
		SELECT `+listingCols+` FROM listings
		WHERE is_sold = 0
		ORDER BY created_at DESC`)
	return out, err
}

// Random returns up to n random open listings (front-page shuffle).
func (r *ListingRepo) Random(n int) ([]domain.Listing, error) {
	out := []domain.Listing{}
	err := r.db.Select(&out, `
		SELECT `+listingCols+` FROM listings
		WHERE is_sold = 0
		ORDER BY RANDOM() LIMIT ?`, n)
	return out, err
}

func (r *ListingRepo) Update(id int64, title, description string, price domain.Cents, imageURL string) error {
	res, err := r.db.Exec(`
		UPDATE listings SET title = ?, description = ?, price_cents = ?, image_url = ?
		WHERE id = ?
	`, title, description, price, imageURL, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: listing %d", domain.ErrNotFound, id)
	}
	return nil
}

func (r *ListingRepo) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM listings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: listing %d", domain.ErrNotFound, id)
	}
	return nil
}

// Reserve decrements quantity by qty if enough stock exists, flipping
// is_sold when the listing empties. The guard (`quantity >= ?`) is what
// keeps two concurrent purchases from overselling: only one UPDATE can
// match the last units.
func (r *ListingRepo) Reserve(e sqlx.Ext, id int64, qty int) error {
	res, err := e.Exec(`
		UPDATE listings
		SET quantity = quantity - ?,
		    is_sold  = CASE WHEN quantity - ? <= 0 THEN 1 ELSE 0 END
		WHERE id = ? AND quantity >= ?
	`, qty, qty, id, qty)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: listing %d, want %d", domain.ErrInsufficientInventory, id, qty)
	}
	return nil
}

// Release returns qty units to the listing. Quantity > 0 implies not sold,
// so is_sold is always cleared.
func (r *ListingRepo) Release(e sqlx.Ext, id int64, qty int) error {
	res, err := e.Exec(`
		UPDATE listings SET quantity = quantity + ?, is_sold = 0
		WHERE id = ?
	`, qty, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: listing %d", domain.ErrIntegrity, id)
	}
	return nil
}
