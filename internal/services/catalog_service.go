package services

import (
	"fmt"

	"tradepost/internal/domain"
	"tradepost/internal/repos"
)

type CatalogService struct {
	Listings *repos.ListingRepo
}

func NewCatalogService(listings *repos.ListingRepo) *CatalogService {
	return &CatalogService{Listings: listings}
}

func (s *CatalogService) Create(userID int64, title, description string, price domain.Cents, imageURL string, qty int) (int64, error) {
	if price <= 0 {
		return 0, fmt.Errorf("%w: price must be positive", domain.ErrValidation)
	}
	if qty < 1 {
		qty = 1
	}
	return s.Listings.Create(userID, title, description, price, imageURL, qty)
}

func (s *CatalogService) Get(id int64) (domain.Listing, error) {
	return s.Listings.ByID(id)
}

func (s *CatalogService) ListOpen() ([]domain.Listing, error) {
	return s.Listings.ListOpen()
}

func (s *CatalogService) Random(n int) ([]domain.Listing, error) {
	if n <= 0 || n > 20 {
		n = 5
	}
	return s.Listings.Random(n)
}

// Update edits a listing's presentation and price. Only the owner may edit;
// price edits never touch existing transactions, which carry a snapshot.
func (s *CatalogService) Update(listingID, userID int64, title, description string, price domain.Cents, imageURL string) error {
	l, err := s.Listings.ByID(listingID)
	if err != nil {
		return err
	}
	if l.UserID != userID {
		return fmt.Errorf("%w: listing %d", domain.ErrForbidden, listingID)
	}
	if title == "" {
		title = l.Title
	}
	if description == "" {
		description = l.Description
	}
	if price <= 0 {
		price = l.Price
	}
	if imageURL == "" {
		imageURL = l.ImageURL
	}
	return s.Listings.Update(listingID, title, description, price, imageURL)
}

func (s *CatalogService) Delete(listingID, userID int64) error {
	l, err := s.Listings.ByID(listingID)
	if err != nil {
		return err
	}
	if l.UserID != userID {
		return fmt.Errorf("%w: listing %d", domain.ErrForbidden, listingID)
	}
	return s.Listings.Delete(listingID)
}
