package bitcoin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/txscript"
)

// Address is a Payload bound to a Network. It fully determines the string
// form and is only created through Payload.ToAddress or ParseAddress.
type Address struct {
	payload Payload
	network Network
}

func (a Address) Payload() Payload { return a.payload }

func (a Address) Network() Network { return a.network }

// Encode renders the address. Key and script hashes use Base58Check, v0
// witness programs Bech32 and later versions Bech32m.
func (a Address) Encode() (string, error) {
	addr, err := a.btcutilAddress()
	if err == nil {
		return addr.EncodeAddress(), nil
	}
	if !errors.Is(err, errUnsupportedWitness) {
		return "", err
	}
	return encodeSegwit(a.network.Params().Bech32HRPSegwit, a.payload.version, a.payload.data)
}

func (a Address) String() string {
	s, err := a.Encode()
	if err != nil {
		return "<invalid address>"
	}
	return s
}

var errUnsupportedWitness = errors.New("witness program not covered by btcutil")

func (a Address) btcutilAddress() (btcutil.Address, error) {
	p := a.payload
	if !p.IsValid() {
		return nil, ErrInvalidPayload
	}
	params := a.network.Params()
	switch {
	case p.kind == PubkeyHash:
		return btcutil.NewAddressPubKeyHash(p.data, params)
	case p.kind == ScriptHash:
		return btcutil.NewAddressScriptHashFromHash(p.data, params)
	case p.version == 0 && len(p.data) == hash160Size:
		return btcutil.NewAddressWitnessPubKeyHash(p.data, params)
	case p.version == 0 && len(p.data) == hash256Size:
		return btcutil.NewAddressWitnessScriptHash(p.data, params)
	case p.version == 1 && len(p.data) == hash256Size:
		return btcutil.NewAddressTaproot(p.data, params)
	}
	return nil, errUnsupportedWitness
}

// ParseAddress decodes an address string, detecting its network from the
// prefix.
func ParseAddress(s string) (Address, error) {
	var lastErr error
	for _, network := range detectionOrder {
		params := network.Params()
		decoded, err := btcutil.DecodeAddress(s, params)
		if err != nil {
			lastErr = err
			continue
		}
		if !decoded.IsForNet(params) {
			continue
		}
		script, err := txscript.PayToAddrScript(decoded)
		if err != nil {
			return Address{}, &ParseError{Address: s, Err: err}
		}
		payload, err := PayloadFromScript(script)
		if err != nil {
			return Address{}, &ParseError{Address: s, Err: err}
		}
		// btcutil maps any 20 byte program to a v0 key hash.
		if payload.kind == WitnessProgram {
			if _, version, _, err := decodeSegwit(s); err != nil || version != payload.version {
				break
			}
		}
		return Address{payload: payload, network: network}, nil
	}

	if addr, err := parseSegwit(s); err == nil {
		return addr, nil
	} else if lastErr == nil {
		lastErr = err
	}
	return Address{}, &ParseError{Address: s, Err: lastErr}
}

// parseSegwit handles witness programs btcutil does not decode, such as
// versions 2 through 16.
func parseSegwit(s string) (Address, error) {
	hrp, version, program, err := decodeSegwit(s)
	if err != nil {
		return Address{}, err
	}
	for _, network := range detectionOrder {
		if hrp != network.Params().Bech32HRPSegwit {
			continue
		}
		payload, err := NewWitnessPayload(version, program)
		if err != nil {
			return Address{}, err
		}
		return Address{payload: payload, network: network}, nil
	}
	return Address{}, fmt.Errorf("unknown segwit prefix %q", hrp)
}

func decodeSegwit(s string) (string, byte, []byte, error) {
	hrp, data, encoding, err := bech32.DecodeGeneric(s)
	if err != nil {
		return "", 0, nil, err
	}
	if len(data) == 0 {
		return "", 0, nil, errors.New("empty segwit data")
	}
	version := data[0]
	switch {
	case version == 0 && encoding != bech32.Version0:
		return "", 0, nil, errors.New("witness version 0 requires bech32")
	case version > 0 && encoding != bech32.VersionM:
		return "", 0, nil, errors.New("witness version 1+ requires bech32m")
	}
	program, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return "", 0, nil, err
	}
	return strings.ToLower(hrp), version, program, nil
}

func encodeSegwit(hrp string, version byte, program []byte) (string, error) {
	converted, err := bech32.ConvertBits(program, 8, 5, true)
	if err != nil {
		return "", err
	}
	data := append([]byte{version}, converted...)
	if version == 0 {
		return bech32.Encode(hrp, data)
	}
	return bech32.EncodeM(hrp, data)
}
