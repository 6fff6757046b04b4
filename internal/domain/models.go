package domain

import (
	"database/sql"
	"time"
)

// Transaction statuses. A transaction moves IN_PROGRESS -> CANCELLED at
// most once; there are no other transitions.
const (
	StatusInProgress = "IN_PROGRESS"
	StatusCancelled  = "CANCELLED"
)

type User struct {
	ID        int64  `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	Hash      string `db:"password_hash" json:"-"`
	Balance   Cents  `db:"balance_cents" json:"balance"`
	CreatedAt string `db:"created_at" json:"-"`
}

type Listing struct {
	ID          int64  `db:"id" json:"id"`
	UserID      int64  `db:"user_id" json:"user_id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	Price       Cents  `db:"price_cents" json:"price"`
	ImageURL    string `db:"image_url" json:"image_url"`
	Quantity    int    `db:"quantity" json:"quantity"`
	IsSold      bool   `db:"is_sold" json:"is_sold"`
	CreatedAt   string `db:"created_at" json:"-"`
}

// Transaction is the record of a purchase. Price is a snapshot of the
// listing price at purchase time; later price edits never touch it.
type Transaction struct {
	ID               int64          `db:"id" json:"transaction_id"`
	PublicRef        string         `db:"public_ref" json:"ref"`
	BuyerID          int64          `db:"buyer_id" json:"buyer_id"`
	SellerID         int64          `db:"seller_id" json:"seller_id"`
	ListingID        int64          `db:"listing_id" json:"listing_id"`
	Price            Cents          `db:"price_cents" json:"price"`
	Quantity         int            `db:"quantity" json:"quantity"`
	ShippingAddress  string         `db:"shipping_address" json:"shipping_address"`
	DeliveryEstimate string         `db:"delivery_estimate" json:"delivery_estimate"`
	PurchasedAt      string         `db:"purchased_at" json:"purchased_at"`
	Status           string         `db:"status" json:"status"`
	IdempotencyKey   sql.NullString `db:"idempotency_key" json:"-"`
}

// PurchasedTime parses the stored RFC3339 purchase instant.
func (t Transaction) PurchasedTime() (time.Time, error) {
	return time.Parse(time.RFC3339, t.PurchasedAt)
}

func (t Transaction) Total() Cents { return t.Price.Mul(t.Quantity) }

type CartItem struct {
	UserID    int64  `db:"user_id" json:"user_id"`
	ListingID int64  `db:"listing_id" json:"listing_id"`
	Quantity  int    `db:"qty" json:"quantity"`
	CreatedAt string `db:"created_at" json:"-"`
}

type Review struct {
	ID        int64  `db:"id" json:"id"`
	UserID    int64  `db:"user_id" json:"user_id"`
	ListingID int64  `db:"listing_id" json:"listing_id"`
	Rating    int    `db:"rating" json:"rating"`
	Comment   string `db:"comment" json:"comment"`
	CreatedAt string `db:"created_at" json:"timestamp"`
}
