package bitcoin

import "fmt"

// PartialAddress is any address representation that can be bound to a
// network and rendered. Payload and CompactAddress implement it.
type PartialAddress interface {
	ToAddress(network Network) (Address, error)
	EncodeStr(network Network) (string, error)
}

// Codec constructs a PartialAddress variant set from payloads and strings.
type Codec[T PartialAddress] interface {
	FromPayload(p Payload) (T, error)
	DecodeStr(s string) (T, error)
}

// PayloadCodec is the chain-agnostic baseline codec.
type PayloadCodec struct{}

func (PayloadCodec) FromPayload(p Payload) (Payload, error) {
	if !p.IsValid() {
		return Payload{}, ErrInvalidPayload
	}
	return p, nil
}

func (PayloadCodec) DecodeStr(s string) (Payload, error) {
	addr, err := ParseAddress(s)
	if err != nil {
		return Payload{}, err
	}
	return addr.payload, nil
}

// CompactCodec maps addresses onto the ledger's compact variant set.
type CompactCodec struct{}

func (CompactCodec) FromPayload(p Payload) (CompactAddress, error) {
	return CompactFromPayload(p)
}

func (CompactCodec) DecodeStr(s string) (CompactAddress, error) {
	return DecodeCompact(s)
}

var (
	_ PartialAddress        = Payload{}
	_ PartialAddress        = CompactAddress{}
	_ Codec[Payload]        = PayloadCodec{}
	_ Codec[CompactAddress] = CompactCodec{}
)

// AddressFormat names a codec so it can be selected from configuration.
type AddressFormat string

const (
	FormatPayload AddressFormat = "payload"
	FormatCompact AddressFormat = "compact"
)

// AnyCodec is a Codec with the variant type erased.
type AnyCodec interface {
	Format() AddressFormat
	FromPayload(p Payload) (PartialAddress, error)
	DecodeStr(s string) (PartialAddress, error)
}

type namedCodec[T PartialAddress] struct {
	format AddressFormat
	codec  Codec[T]
}

func (c namedCodec[T]) Format() AddressFormat { return c.format }

func (c namedCodec[T]) FromPayload(p Payload) (PartialAddress, error) {
	v, err := c.codec.FromPayload(p)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (c namedCodec[T]) DecodeStr(s string) (PartialAddress, error) {
	v, err := c.codec.DecodeStr(s)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// CodecByName returns the codec for a configured format. An empty name
// selects the payload codec.
func CodecByName(name AddressFormat) (AnyCodec, error) {
	switch name {
	case "", FormatPayload:
		return namedCodec[Payload]{format: FormatPayload, codec: PayloadCodec{}}, nil
	case FormatCompact:
		return namedCodec[CompactAddress]{format: FormatCompact, codec: CompactCodec{}}, nil
	}
	return nil, fmt.Errorf("unknown address format %q", name)
}
