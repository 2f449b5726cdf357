package bitcoin

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
)

// PayloadKind discriminates the authorization condition a Payload encodes.
type PayloadKind uint8

const (
	PubkeyHash PayloadKind = iota + 1
	ScriptHash
	WitnessProgram
)

const (
	hash160Size = 20
	hash256Size = 32

	minWitnessProgramSize = 2
	maxWitnessProgramSize = 40
	maxWitnessVersion     = 16
)

func (k PayloadKind) String() string {
	switch k {
	case PubkeyHash:
		return "pubkeyhash"
	case ScriptHash:
		return "scripthash"
	case WitnessProgram:
		return "witnessprogram"
	}
	return fmt.Sprintf("payloadkind(%d)", uint8(k))
}

// Payload is the network independent part of a Bitcoin address. The zero
// value is not a valid payload.
type Payload struct {
	kind    PayloadKind
	version byte
	data    []byte
}

// NewPubkeyHashPayload returns a P2PKH payload for a 20 byte key hash.
func NewPubkeyHashPayload(hash []byte) (Payload, error) {
	if len(hash) != hash160Size {
		return Payload{}, fmt.Errorf("%w: pubkey hash must be %d bytes, got %d", ErrInvalidPayload, hash160Size, len(hash))
	}
	return Payload{kind: PubkeyHash, data: bytes.Clone(hash)}, nil
}

// NewScriptHashPayload returns a P2SH payload for a 20 byte script hash.
func NewScriptHashPayload(hash []byte) (Payload, error) {
	if len(hash) != hash160Size {
		return Payload{}, fmt.Errorf("%w: script hash must be %d bytes, got %d", ErrInvalidPayload, hash160Size, len(hash))
	}
	return Payload{kind: ScriptHash, data: bytes.Clone(hash)}, nil
}

// NewWitnessPayload returns a segwit payload. Version 0 programs must be a
// key hash (20 bytes) or a script hash (32 bytes).
func NewWitnessPayload(version byte, program []byte) (Payload, error) {
	if version > maxWitnessVersion {
		return Payload{}, fmt.Errorf("%w: witness version %d", ErrInvalidPayload, version)
	}
	if len(program) < minWitnessProgramSize || len(program) > maxWitnessProgramSize {
		return Payload{}, fmt.Errorf("%w: witness program length %d", ErrInvalidPayload, len(program))
	}
	if version == 0 && len(program) != hash160Size && len(program) != hash256Size {
		return Payload{}, fmt.Errorf("%w: v0 witness program length %d", ErrInvalidPayload, len(program))
	}
	return Payload{kind: WitnessProgram, version: version, data: bytes.Clone(program)}, nil
}

// PayloadFromPublicKey returns the P2WPKH payload of the compressed key.
func PayloadFromPublicKey(pub *btcec.PublicKey) (Payload, error) {
	if pub == nil {
		return Payload{}, ErrInvalidPublicKey
	}
	return NewWitnessPayload(0, btcutil.Hash160(pub.SerializeCompressed()))
}

// PayloadFromScript derives the payload locked by an output script. Scripts
// that are not P2PKH, P2SH or a witness program yield ErrInvalidPayload.
func PayloadFromScript(script []byte) (Payload, error) {
	switch {
	case txscript.IsPayToPubKeyHash(script):
		return NewPubkeyHashPayload(script[3:23])
	case txscript.IsPayToScriptHash(script):
		return NewScriptHashPayload(script[2:22])
	case txscript.IsWitnessProgram(script):
		version, program, err := txscript.ExtractWitnessProgramInfo(script)
		if err != nil {
			return Payload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return NewWitnessPayload(byte(version), program)
	}
	return Payload{}, fmt.Errorf("%w: unsupported output script %x", ErrInvalidPayload, script)
}

func (p Payload) Kind() PayloadKind { return p.kind }

// WitnessVersion is only meaningful for WitnessProgram payloads.
func (p Payload) WitnessVersion() byte { return p.version }

// Bytes returns a copy of the hash or witness program.
func (p Payload) Bytes() []byte { return bytes.Clone(p.data) }

func (p Payload) IsValid() bool {
	switch p.kind {
	case PubkeyHash, ScriptHash:
		return len(p.data) == hash160Size
	case WitnessProgram:
		_, err := NewWitnessPayload(p.version, p.data)
		return err == nil
	}
	return false
}

func (p Payload) Equal(other Payload) bool {
	return p.kind == other.kind && p.version == other.version && bytes.Equal(p.data, other.data)
}

// Script builds the output script locked to this payload.
func (p Payload) Script() ([]byte, error) {
	if !p.IsValid() {
		return nil, ErrInvalidPayload
	}
	switch p.kind {
	case PubkeyHash:
		return p2pkhScript(p.data)
	case ScriptHash:
		return p2shScript(p.data)
	default:
		return witnessScript(p.version, p.data)
	}
}

// ToAddress pairs the payload with a network.
func (p Payload) ToAddress(network Network) (Address, error) {
	if !p.IsValid() {
		return Address{}, ErrInvalidPayload
	}
	return Address{payload: p, network: network}, nil
}

func (p Payload) EncodeStr(network Network) (string, error) {
	addr, err := p.ToAddress(network)
	if err != nil {
		return "", err
	}
	return addr.Encode()
}

func (p Payload) String() string {
	if p.kind == WitnessProgram {
		return fmt.Sprintf("%s(v%d:%s)", p.kind, p.version, hex.EncodeToString(p.data))
	}
	return fmt.Sprintf("%s(%s)", p.kind, hex.EncodeToString(p.data))
}
