package services

import (
	"tradepost/internal/domain"
	"tradepost/internal/repos"
)

type ProfileService struct {
	Users *repos.UserRepo
	Txns  *repos.TxnRepo
}

func NewProfileService(users *repos.UserRepo, txns *repos.TxnRepo) *ProfileService {
	return &ProfileService{Users: users, Txns: txns}
}

type ProfileView struct {
	Username  string               `json:"username"`
	Balance   domain.Cents         `json:"balance"`
	Purchases []domain.Transaction `json:"purchases"`
	Sales     []domain.Transaction `json:"sales"`
}

func (s *ProfileService) Get(userID int64) (ProfileView, error) {
	u, err := s.Users.ByID(userID)
	if err != nil {
		return ProfileView{}, err
	}
	purchases, err := s.Txns.ListByBuyer(userID)
	if err != nil {
		return ProfileView{}, err
	}
	sales, err := s.Txns.ListBySeller(userID)
	if err != nil {
		return ProfileView{}, err
	}
	return ProfileView{
		Username:  u.Username,
		Balance:   u.Balance,
		Purchases: purchases,
		Sales:     sales,
	}, nil
}
