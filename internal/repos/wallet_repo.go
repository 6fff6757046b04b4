package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"tradepost/internal/domain"
)

// WalletRepo applies paired debit/credit mutations. Money only ever moves
// between two accounts; every debit here has a matching credit in the same
// statement pair, and callers run both inside one transaction.
type WalletRepo struct{ db *sqlx.DB }

func NewWalletRepo(db *sqlx.DB) *WalletRepo { return &WalletRepo{db: db} }

// Transfer debits `from` and credits `to` as a unit. The debit is guarded:
// if it would make the balance negative no row matches and the transfer
// fails with domain.ErrInsufficientBalance, leaving nothing mutated.
func (r *WalletRepo) Transfer(e sqlx.Ext, from, to int64, amount domain.Cents) error {
	res, err := e.Exec(`
		UPDATE users SET balance_cents = balance_cents - ?
		WHERE id = ? AND balance_cents >= ?
	`, amount, from, amount)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: user %d cannot cover %s", domain.ErrInsufficientBalance, from, amount)
	}
	return r.credit(e, to, amount)
}

// Reverse moves money back without a balance guard: a refund must go
// through even if the seller has since spent the funds, which can leave
// the seller negative.
func (r *WalletRepo) Reverse(e sqlx.Ext, from, to int64, amount domain.Cents) error {
	res, err := e.Exec(`UPDATE users SET balance_cents = balance_cents - ? WHERE id = ?`, amount, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: user %d", domain.ErrIntegrity, from)
	}
	return r.credit(e, to, amount)
}

func (r *WalletRepo) credit(e sqlx.Ext, id int64, amount domain.Cents) error {
	res, err := e.Exec(`UPDATE users SET balance_cents = balance_cents + ? WHERE id = ?`, amount, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: user %d", domain.ErrIntegrity, id)
	}
	return nil
}

// Deposit adds funds outside any purchase flow (top-up endpoint).
func (r *WalletRepo) Deposit(userID int64, amount domain.Cents) error {
	res, err := r.db.Exec(`UPDATE users SET balance_cents = balance_cents + ? WHERE id = ?`, amount, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: user %d", domain.ErrNotFound, userID)
	}
	return nil
}

func (r *WalletRepo) Balance(userID int64) (domain.Cents, error) {
	var c domain.Cents
	if err := r.db.Get(&c, `SELECT balance_cents FROM users WHERE id = ?`, userID); err != nil {
		return 0, err
	}
	return c, nil
}
