package bitcoin

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// CompactKind enumerates the script kinds the bridge ledger stores natively.
type CompactKind uint8

const (
	P2PKH CompactKind = iota + 1
	P2SH
	P2WPKHv0
	P2WSHv0
)

func (k CompactKind) String() string {
	switch k {
	case P2PKH:
		return "p2pkh"
	case P2SH:
		return "p2sh"
	case P2WPKHv0:
		return "p2wpkhv0"
	case P2WSHv0:
		return "p2wshv0"
	}
	return fmt.Sprintf("compactkind(%d)", uint8(k))
}

func (k CompactKind) hashSize() int {
	if k == P2WSHv0 {
		return hash256Size
	}
	return hash160Size
}

// CompactAddress is the ledger's fixed-size address representation. It is
// comparable and can be used as a map key.
type CompactAddress struct {
	kind CompactKind
	hash [hash256Size]byte
}

func NewP2PKH(hash [20]byte) CompactAddress    { return newCompact(P2PKH, hash[:]) }
func NewP2SH(hash [20]byte) CompactAddress     { return newCompact(P2SH, hash[:]) }
func NewP2WPKHv0(hash [20]byte) CompactAddress { return newCompact(P2WPKHv0, hash[:]) }
func NewP2WSHv0(hash [32]byte) CompactAddress  { return newCompact(P2WSHv0, hash[:]) }

func newCompact(kind CompactKind, hash []byte) CompactAddress {
	a := CompactAddress{kind: kind}
	copy(a.hash[:], hash)
	return a
}

// CompactFromPayload maps a payload onto the compact variant set. Witness
// programs other than v0 key and script hashes are not representable.
func CompactFromPayload(p Payload) (CompactAddress, error) {
	if !p.IsValid() {
		return CompactAddress{}, ErrInvalidPayload
	}
	switch p.kind {
	case PubkeyHash:
		return newCompact(P2PKH, p.data), nil
	case ScriptHash:
		return newCompact(P2SH, p.data), nil
	}
	if p.version != 0 {
		return CompactAddress{}, fmt.Errorf("%w: witness version %d", ErrInvalidPayload, p.version)
	}
	switch len(p.data) {
	case hash160Size:
		return newCompact(P2WPKHv0, p.data), nil
	case hash256Size:
		return newCompact(P2WSHv0, p.data), nil
	}
	return CompactAddress{}, fmt.Errorf("%w: witness program length %d", ErrInvalidPayload, len(p.data))
}

// DecodeCompact parses an address string into its compact form.
func DecodeCompact(s string) (CompactAddress, error) {
	addr, err := ParseAddress(s)
	if err != nil {
		return CompactAddress{}, err
	}
	return CompactFromPayload(addr.payload)
}

func (a CompactAddress) Kind() CompactKind { return a.kind }

// Hash returns the 20 or 32 byte hash, depending on the kind.
func (a CompactAddress) Hash() []byte {
	return bytes.Clone(a.hash[:a.kind.hashSize()])
}

// Compare orders by kind, then by hash bytes.
func (a CompactAddress) Compare(b CompactAddress) int {
	switch {
	case a.kind < b.kind:
		return -1
	case a.kind > b.kind:
		return 1
	}
	return bytes.Compare(a.hash[:], b.hash[:])
}

// ToAddress builds the output script for the variant and derives the
// canonical payload back from that script.
func (a CompactAddress) ToAddress(network Network) (Address, error) {
	var (
		script []byte
		err    error
	)
	hash := a.hash[:a.kind.hashSize()]
	switch a.kind {
	case P2PKH:
		script, err = p2pkhScript(hash)
	case P2SH:
		script, err = p2shScript(hash)
	case P2WPKHv0, P2WSHv0:
		script, err = witnessScript(0, hash)
	default:
		return Address{}, ErrInvalidPayload
	}
	if err != nil {
		return Address{}, fmt.Errorf("failed to build %s script: %w", a.kind, err)
	}

	payload, err := PayloadFromScript(script)
	if err != nil {
		return Address{}, err
	}
	return Address{payload: payload, network: network}, nil
}

func (a CompactAddress) EncodeStr(network Network) (string, error) {
	addr, err := a.ToAddress(network)
	if err != nil {
		return "", err
	}
	return addr.Encode()
}

func (a CompactAddress) String() string {
	return fmt.Sprintf("%s(%s)", a.kind, hex.EncodeToString(a.hash[:a.kind.hashSize()]))
}
