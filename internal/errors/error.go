package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrEmptyCart       = errors.New("cart is empty, nothing to checkout")
	ErrUnauthenticated = errors.New("missing authentication token")
	ErrStaleStock      = errors.New("quantity exceeds available stock")
	ErrTokenInvalid    = errors.New("invalid token")
	ErrIllegalStatus   = errors.New("illegal order status transition")
)

// CheckoutError wraps the backend or transport failure that aborted a
// checkout attempt. The cart is guaranteed untouched when it is returned.
type CheckoutError struct {
	Cause error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout failed with error=%s", e.Cause)
}

func (e *CheckoutError) Unwrap() error { return e.Cause }
