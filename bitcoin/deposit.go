package bitcoin

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// DeriveDepositSecretKey computes the deposit key d = v * c mod n from the
// vault key v and the request key c.
func DeriveDepositSecretKey(vault, request *SecretKey) (*SecretKey, error) {
	if !vault.valid() || !request.valid() {
		return nil, ErrInvalidSecretKey
	}
	var d secp256k1.ModNScalar
	d.Mul2(&vault.scalar, &request.scalar)
	if d.IsZero() {
		return nil, ErrInvalidSecretKey
	}
	return &SecretKey{scalar: d}, nil
}

// DeriveDepositPublicKey computes D = V * c. It matches the public key of
// DeriveDepositSecretKey(v, c) without access to v.
func DeriveDepositPublicKey(vault *btcec.PublicKey, request *SecretKey) (*btcec.PublicKey, error) {
	if vault == nil || !vault.IsOnCurve() {
		return nil, ErrInvalidPublicKey
	}
	if !request.valid() {
		return nil, ErrInvalidSecretKey
	}

	var point, result secp256k1.JacobianPoint
	vault.AsJacobian(&point)
	secp256k1.ScalarMultNonConst(&request.scalar, &point, &result)
	if (result.X.IsZero() && result.Y.IsZero()) || result.Z.IsZero() {
		return nil, ErrInvalidPublicKey
	}
	result.ToAffine()
	return secp256k1.NewPublicKey(&result.X, &result.Y), nil
}

// WithDepositKey derives d and hands it to fn. d is zeroed once fn returns.
func WithDepositKey(vault, request *SecretKey, fn func(*SecretKey) error) error {
	d, err := DeriveDepositSecretKey(vault, request)
	if err != nil {
		return err
	}
	defer d.Zero()
	return fn(d)
}

// DepositPayload is the P2WPKH payload of the deposit public key.
func DepositPayload(vault *btcec.PublicKey, request *SecretKey) (Payload, error) {
	pub, err := DeriveDepositPublicKey(vault, request)
	if err != nil {
		return Payload{}, err
	}
	return PayloadFromPublicKey(pub)
}
