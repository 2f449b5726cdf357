package bitcoin

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPayload is returned when a payload cannot be represented in
	// the requested address form.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrInvalidSecretKey is returned for scalars that are zero, not 32
	// bytes long, or not below the secp256k1 group order.
	ErrInvalidSecretKey = errors.New("invalid secret key")

	ErrInvalidPublicKey = errors.New("invalid public key")
)

// ParseError reports an address string that is not valid for any known
// format and network.
type ParseError struct {
	Address string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse address %q: %v", e.Address, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
