package services

import (
	"fmt"

	"tradepost/internal/domain"
	"tradepost/internal/repos"
)

type WalletService struct {
	Wallet *repos.WalletRepo
}

func NewWalletService(wallet *repos.WalletRepo) *WalletService {
	return &WalletService{Wallet: wallet}
}

// Deposit tops up a wallet and returns the new balance.
func (s *WalletService) Deposit(userID int64, amount domain.Cents) (domain.Cents, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: deposit must be positive", domain.ErrValidation)
	}
	if err := s.Wallet.Deposit(userID, amount); err != nil {
		return 0, err
	}
	return s.Wallet.Balance(userID)
}
