package services

import (
	"errors"
	"fmt"

	"tradepost/internal/domain"
	"tradepost/internal/repos"
)

type CartService struct {
	Carts    *repos.CartRepo
	Listings *repos.ListingRepo
}

func NewCartService(carts *repos.CartRepo, listings *repos.ListingRepo) *CartService {
	return &CartService{Carts: carts, Listings: listings}
}

// Add puts a listing in the user's cart. Asking for more than the listing
// currently has is rejected up front; the purchase re-checks anyway.
func (s *CartService) Add(userID, listingID int64, qty int) error {
	if qty < 1 {
		qty = 1
	}
	l, err := s.Listings.ByID(listingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: unknown listing", domain.ErrValidation)
		}
		return err
	}
	if qty > l.Quantity {
		return fmt.Errorf("%w: only %d available", domain.ErrValidation, l.Quantity)
	}
	return s.Carts.Add(userID, listingID, qty)
}

func (s *CartService) Remove(userID, listingID int64) error {
	return s.Carts.Remove(userID, listingID)
}

func (s *CartService) View(userID int64) ([]repos.CartRow, error) {
	return s.Carts.ListByUser(userID)
}
