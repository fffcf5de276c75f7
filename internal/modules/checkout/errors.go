package checkout

import "errors"

// ErrEmptyCart blocks checkout and order placement on an empty cart.
var ErrEmptyCart = errors.New("checkout: cart is empty")
