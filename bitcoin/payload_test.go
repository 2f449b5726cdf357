package bitcoin

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

const generatorHash160 = "751e76e8199196d454941c45d1b3a323f1433bd6"

func TestNewPayload_Validation(t *testing.T) {
	hash20 := make([]byte, 20)
	hash32 := make([]byte, 32)

	_, err := NewPubkeyHashPayload(hash20)
	assert.NoError(t, err)
	_, err = NewPubkeyHashPayload(hash32)
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = NewScriptHashPayload(hash20[:19])
	assert.ErrorIs(t, err, ErrInvalidPayload)

	tests := []struct {
		name    string
		version byte
		size    int
		valid   bool
	}{
		{"v0 key hash", 0, 20, true},
		{"v0 script hash", 0, 32, true},
		{"v0 odd length", 0, 25, false},
		{"v1 taproot", 1, 32, true},
		{"v1 short", 1, 2, true},
		{"v16 max", 16, 40, true},
		{"too short", 1, 1, false},
		{"too long", 1, 41, false},
		{"bad version", 17, 32, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewWitnessPayload(tt.version, make([]byte, tt.size))
			if tt.valid {
				require.NoError(t, err)
				assert.True(t, p.IsValid())
				assert.Equal(t, tt.version, p.WitnessVersion())
			} else {
				assert.ErrorIs(t, err, ErrInvalidPayload)
			}
		})
	}
}

func TestPayload_ZeroValueInvalid(t *testing.T) {
	var p Payload
	assert.False(t, p.IsValid())

	_, err := p.Script()
	assert.ErrorIs(t, err, ErrInvalidPayload)
	_, err = p.ToAddress(Mainnet)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestPayloadFromPublicKey(t *testing.T) {
	key, err := SecretKeyFromHex("0000000000000000000000000000000000000000000000000000000000000001")
	require.NoError(t, err)

	p, err := PayloadFromPublicKey(key.PubKey())
	require.NoError(t, err)
	assert.Equal(t, WitnessProgram, p.Kind())
	assert.Equal(t, byte(0), p.WitnessVersion())
	assert.Equal(t, generatorHash160, hex.EncodeToString(p.Bytes()))

	_, err = PayloadFromPublicKey(nil)
	assert.ErrorIs(t, err, ErrInvalidPublicKey)
}

func TestPayload_ScriptRoundTrip(t *testing.T) {
	hash := mustHex(t, generatorHash160)

	pkh, err := NewPubkeyHashPayload(hash)
	require.NoError(t, err)
	sh, err := NewScriptHashPayload(hash)
	require.NoError(t, err)
	wpkh, err := NewWitnessPayload(0, hash)
	require.NoError(t, err)
	wsh, err := NewWitnessPayload(0, make([]byte, 32))
	require.NoError(t, err)
	v16, err := NewWitnessPayload(16, hash[:2])
	require.NoError(t, err)

	tests := []struct {
		name    string
		payload Payload
		script  string
	}{
		{"p2pkh", pkh, "76a914" + generatorHash160 + "88ac"},
		{"p2sh", sh, "a914" + generatorHash160 + "87"},
		{"p2wpkh", wpkh, "0014" + generatorHash160},
		{"p2wsh", wsh, "0020" + hex.EncodeToString(make([]byte, 32))},
		{"v16", v16, "6002751e"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script, err := tt.payload.Script()
			require.NoError(t, err)
			assert.Equal(t, tt.script, hex.EncodeToString(script))

			derived, err := PayloadFromScript(script)
			require.NoError(t, err)
			assert.True(t, derived.Equal(tt.payload))
		})
	}
}

func TestPayloadFromScript_NonStandard(t *testing.T) {
	scripts := []string{
		"",
		"6a0401020304", // OP_RETURN
		"21" + "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798" + "ac", // P2PK
	}
	for _, s := range scripts {
		_, err := PayloadFromScript(mustHex(t, s))
		assert.True(t, errors.Is(err, ErrInvalidPayload), "script %q", s)
	}
}

func TestPayload_BytesIsCopy(t *testing.T) {
	hash := mustHex(t, generatorHash160)
	p, err := NewPubkeyHashPayload(hash)
	require.NoError(t, err)

	hash[0] = 0xff
	b := p.Bytes()
	b[1] = 0xff
	assert.Equal(t, generatorHash160, hex.EncodeToString(p.Bytes()))
}
