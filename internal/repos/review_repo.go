package repos

import (
	"github.com/jmoiron/sqlx"

	"tradepost/internal/domain"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

func (r *ReviewRepo) Create(userID, listingID int64, rating int, comment string) (int64, error) {
	res, err := r.db.Exec(`
		INSERT INTO reviews(user_id, listing_id, rating, comment)
		VALUES(?, ?, ?, ?)
	`, userID, listingID, rating, comment)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *ReviewRepo) ListByListing(listingID int64) ([]domain.Review, error) {
	out := []domain.Review{}
	err := r.db.Select(&out, `
		SELECT id, user_id, listing_id, rating, comment, created_at
		FROM reviews
		WHERE listing_id = ?
		ORDER BY created_at DESC`, listingID)
	return out, err
}
