package vault

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	log "github.com/sirupsen/logrus"
	"github.com/vsc-eco/vsc-btc-vault/bitcoin"
	"github.com/vsc-eco/vsc-btc-vault/schemas"
)

var (
	ErrWrongVault         = errors.New("request addressed to another vault")
	ErrRequestConflict    = errors.New("request id already used with different parameters")
	ErrDerivationMismatch = errors.New("secret and public deposit derivations disagree")
	ErrInvalidRequest     = errors.New("invalid issue request")
)

// Config holds vault service settings
type Config struct {
	VaultID       string
	Network       bitcoin.Network
	AddressFormat bitcoin.AddressFormat
}

// Service derives deposit addresses for issue requests and hands the
// matching keys to the wallet.
type Service struct {
	cfg      Config
	key      *bitcoin.SecretKey
	pub      *btcec.PublicKey
	codec    bitcoin.AnyCodec
	wallet   Wallet
	registry *Registry
	issueMu  sync.Mutex
	logger   *log.Entry
}

// NewService creates a new vault service. The service takes ownership of
// key and clears it on Close.
func NewService(cfg Config, key *bitcoin.SecretKey, wallet Wallet) (*Service, error) {
	if cfg.VaultID == "" {
		return nil, errors.New("vault id is required")
	}
	pub := key.PubKey()
	if pub == nil {
		return nil, bitcoin.ErrInvalidSecretKey
	}
	codec, err := bitcoin.CodecByName(cfg.AddressFormat)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		wallet = &NopWallet{}
	}

	return &Service{
		cfg:      cfg,
		key:      key,
		pub:      pub,
		codec:    codec,
		wallet:   wallet,
		registry: NewRegistry(),
		logger: log.WithFields(log.Fields{
			"module":  "vault",
			"vault":   cfg.VaultID,
			"network": cfg.Network.String(),
		}),
	}, nil
}

func (s *Service) VaultID() string { return s.cfg.VaultID }

func (s *Service) Network() bitcoin.Network { return s.cfg.Network }

func (s *Service) Format() bitcoin.AddressFormat { return s.codec.Format() }

func (s *Service) PublicKey() *btcec.PublicKey { return s.pub }

func (s *Service) Registry() *Registry { return s.registry }

// DepositAddress renders the deposit address for a secure id using only the
// vault public key.
func (s *Service) DepositAddress(secureID []byte) (string, error) {
	c, err := bitcoin.SecretKeyFromBytes(secureID)
	if err != nil {
		return "", err
	}
	defer c.Zero()

	payload, err := bitcoin.DepositPayload(s.pub, c)
	if err != nil {
		return "", err
	}
	return s.render(payload)
}

func (s *Service) render(payload bitcoin.Payload) (string, error) {
	addr, err := s.codec.FromPayload(payload)
	if err != nil {
		return "", err
	}
	return addr.EncodeStr(s.cfg.Network)
}

// HandleIssue accepts an issue request: it derives the deposit key, checks
// it against the public derivation, imports it into the wallet and records
// the deposit. Repeating a request returns the recorded deposit.
func (s *Service) HandleIssue(ctx context.Context, req *schemas.IssueRequest) (*Deposit, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if req.Vault != s.cfg.VaultID {
		return nil, fmt.Errorf("%w: %s", ErrWrongVault, req.Vault)
	}

	s.issueMu.Lock()
	defer s.issueMu.Unlock()

	if existing, ok := s.registry.Get(req.ID); ok {
		if existing.SecureID != req.SecureID || existing.Amount != req.Amount {
			return nil, fmt.Errorf("%w: %s", ErrRequestConflict, req.ID)
		}
		return &existing, nil
	}

	secureID, err := req.SecureIDBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	c, err := bitcoin.SecretKeyFromBytes(secureID)
	if err != nil {
		return nil, err
	}
	defer c.Zero()

	expected, err := bitcoin.DepositPayload(s.pub, c)
	if err != nil {
		return nil, err
	}
	address, err := s.render(expected)
	if err != nil {
		return nil, err
	}

	label := req.Hash().String()
	err = bitcoin.WithDepositKey(s.key, c, func(d *bitcoin.SecretKey) error {
		derived, err := bitcoin.PayloadFromPublicKey(d.PubKey())
		if err != nil {
			return err
		}
		if !derived.Equal(expected) {
			return ErrDerivationMismatch
		}
		return s.wallet.ImportKey(ctx, d, label)
	})
	if err != nil {
		s.logger.WithFields(log.Fields{"request": req.ID, "err": err}).Error("failed to accept issue request")
		return nil, err
	}

	deposit := Deposit{
		RequestID: req.ID,
		Vault:     req.Vault,
		Requester: req.Requester,
		SecureID:  req.SecureID,
		Address:   address,
		Format:    string(s.codec.Format()),
		Network:   s.cfg.Network.String(),
		Amount:    req.Amount,
		Label:     label,
		CreatedAt: time.Now().UTC(),
	}
	s.registry.Record(deposit)

	s.logger.WithFields(log.Fields{
		"request": req.ID,
		"address": address,
		"amount":  req.Amount,
	}).Info("issue request accepted")
	return &deposit, nil
}

// ConvertAddress re-encodes addr through the named codec for network.
func ConvertAddress(addr string, format bitcoin.AddressFormat, network bitcoin.Network) (string, error) {
	codec, err := bitcoin.CodecByName(format)
	if err != nil {
		return "", err
	}
	partial, err := codec.DecodeStr(addr)
	if err != nil {
		return "", err
	}
	return partial.EncodeStr(network)
}

// PublicKeyHex is the compressed vault public key.
func (s *Service) PublicKeyHex() string {
	return hex.EncodeToString(s.pub.SerializeCompressed())
}

// Close clears the vault key. The service must not be used afterwards.
func (s *Service) Close() {
	s.issueMu.Lock()
	defer s.issueMu.Unlock()
	s.key.Zero()
}
