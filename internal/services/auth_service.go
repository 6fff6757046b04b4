package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"tradepost/internal/domain"
	"tradepost/internal/repos"
)

var ErrBadCreds = errors.New("invalid username or password")

type AuthService struct {
	Users *repos.UserRepo
	// StartingBalance is credited to every new account.
	StartingBalance domain.Cents
}

func (s *AuthService) Signup(username, password string) (int64, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return 0, err
	}
	return s.Users.Create(username, string(h), s.StartingBalance)
}

func (s *AuthService) Login(username, password string) (domain.User, error) {
	u, err := s.Users.ByUsername(username)
	if err != nil {
		return domain.User{}, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return domain.User{}, ErrBadCreds
	}
	return u, nil
}
