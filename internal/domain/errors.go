package domain

import "errors"

// Sentinel errors for the marketplace. Services and repos wrap these with
// context via fmt.Errorf("%w: ..."); handlers match with errors.Is to pick
// the HTTP status.
var (
	// ErrValidation covers bad input shape or range.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientInventory is returned when a purchase asks for more
	// units than the listing has. A missing listing maps here too.
	ErrInsufficientInventory = errors.New("not enough quantity available")

	// ErrInsufficientBalance is returned when the buyer cannot cover the
	// total price.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidParty is returned when the buyer or seller row is missing
	// at purchase time.
	ErrInvalidParty = errors.New("invalid buyer or seller")

	// ErrCancellationNotAllowed is returned when the transaction is not in
	// a cancellable state (already cancelled or otherwise terminal).
	ErrCancellationNotAllowed = errors.New("transaction cannot be cancelled")

	// ErrCancellationWindowExpired is returned when the cancellation
	// window has passed.
	ErrCancellationWindowExpired = errors.New("cancellation window expired")

	// ErrIntegrity signals that rows referenced by a transaction vanished.
	// It indicates a storage bug and is never silently swallowed.
	ErrIntegrity = errors.New("referenced records missing")

	// ErrForbidden is returned when a user acts on a listing they do not own.
	ErrForbidden = errors.New("not allowed")

	// ErrUsernameTaken is returned on signup with an existing username.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrDuplicateCartItem is returned when the (user, listing) pair is
	// already in the cart.
	ErrDuplicateCartItem = errors.New("item already in cart")
)
