package services

import (
	"fmt"

	"tradepost/internal/domain"
	"tradepost/internal/repos"
	"tradepost/internal/validate"
)

type ReviewService struct {
	Reviews  *repos.ReviewRepo
	Listings *repos.ListingRepo
}

func NewReviewService(reviews *repos.ReviewRepo, listings *repos.ListingRepo) *ReviewService {
	return &ReviewService{Reviews: reviews, Listings: listings}
}

func (s *ReviewService) Post(userID, listingID int64, rating int, comment string) (int64, error) {
	if !validate.Rating(rating) {
		return 0, fmt.Errorf("%w: rating must be 1-5", domain.ErrValidation)
	}
	if _, err := s.Listings.ByID(listingID); err != nil {
		return 0, err
	}
	return s.Reviews.Create(userID, listingID, rating, validate.Comment(comment))
}

func (s *ReviewService) List(listingID int64) ([]domain.Review, error) {
	return s.Reviews.ListByListing(listingID)
}
