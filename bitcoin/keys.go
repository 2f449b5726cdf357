package bitcoin

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const secretKeySize = 32

// SecretKey is a non-zero secp256k1 scalar. Its formatted forms never
// reveal the key; use Bytes or WIF when the raw material is needed.
type SecretKey struct {
	scalar secp256k1.ModNScalar
}

// SecretKeyFromBytes parses a 32 byte big-endian scalar.
func SecretKeyFromBytes(b []byte) (*SecretKey, error) {
	if len(b) != secretKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSecretKey, secretKeySize, len(b))
	}
	var k SecretKey
	if overflow := k.scalar.SetByteSlice(b); overflow {
		k.scalar.Zero()
		return nil, fmt.Errorf("%w: scalar not below group order", ErrInvalidSecretKey)
	}
	if k.scalar.IsZero() {
		return nil, fmt.Errorf("%w: zero scalar", ErrInvalidSecretKey)
	}
	return &k, nil
}

func SecretKeyFromHex(s string) (*SecretKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecretKey, err)
	}
	defer zeroBytes(b)
	return SecretKeyFromBytes(b)
}

func GenerateSecretKey() (*SecretKey, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	defer priv.Zero()
	return &SecretKey{scalar: priv.Key}, nil
}

func (k *SecretKey) valid() bool {
	return k != nil && !k.scalar.IsZero()
}

// PubKey returns the matching public key, or nil for a zeroed key.
func (k *SecretKey) PubKey() *btcec.PublicKey {
	if !k.valid() {
		return nil
	}
	priv := secp256k1.NewPrivateKey(&k.scalar)
	defer priv.Zero()
	return priv.PubKey()
}

// Bytes returns a copy of the 32 byte scalar. Callers own the returned
// buffer and should clear it when done.
func (k *SecretKey) Bytes() []byte {
	b := k.scalar.Bytes()
	out := make([]byte, secretKeySize)
	copy(out, b[:])
	zeroBytes(b[:])
	return out
}

// WIF wraps a copy of the key for import into a node wallet. The caller
// owns the copy and should clear it with wif.PrivKey.Zero().
func (k *SecretKey) WIF(network Network) (*btcutil.WIF, error) {
	if !k.valid() {
		return nil, ErrInvalidSecretKey
	}
	priv := secp256k1.NewPrivateKey(&k.scalar)
	wif, err := btcutil.NewWIF(priv, network.Params(), true)
	if err != nil {
		priv.Zero()
		return nil, fmt.Errorf("failed to encode wif: %w", err)
	}
	return wif, nil
}

// Zero clears the key. A zeroed key is rejected by every operation.
func (k *SecretKey) Zero() {
	if k != nil {
		k.scalar.Zero()
	}
}

func (k *SecretKey) Equal(o *SecretKey) bool {
	if k == nil || o == nil {
		return k == o
	}
	return k.scalar.Equals(&o.scalar)
}

func (k *SecretKey) String() string {
	return "SecretKey(redacted)"
}

// Format keeps %x, %v and friends from printing the scalar.
func (k *SecretKey) Format(f fmt.State, _ rune) {
	_, _ = f.Write([]byte(k.String()))
}

// ParsePublicKey accepts compressed or uncompressed SEC encodings.
func ParsePublicKey(b []byte) (*btcec.PublicKey, error) {
	pub, err := btcec.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return pub, nil
}

func ParsePublicKeyHex(s string) (*btcec.PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return ParsePublicKey(b)
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
