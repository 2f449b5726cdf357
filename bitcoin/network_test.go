package bitcoin

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNetwork(t *testing.T) {
	tests := []struct {
		input    string
		expected Network
	}{
		{"mainnet", Mainnet},
		{"main", Mainnet},
		{"bitcoin", Mainnet},
		{"Testnet", Testnet},
		{"testnet3", Testnet},
		{" regtest ", Regtest},
		{"signet", Signet},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, err := ParseNetwork(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n)
		})
	}

	_, err := ParseNetwork("litecoin")
	assert.Error(t, err)
}

func TestNetwork_Params(t *testing.T) {
	assert.Equal(t, chaincfg.MainNetParams.Name, Mainnet.Params().Name)
	assert.Equal(t, chaincfg.TestNet3Params.Name, Testnet.Params().Name)
	assert.Equal(t, "bcrt", Regtest.Params().Bech32HRPSegwit)
	assert.Equal(t, chaincfg.SigNetParams.Name, Signet.Params().Name)
}

func TestNetwork_Text(t *testing.T) {
	for _, n := range []Network{Mainnet, Testnet, Regtest, Signet} {
		text, err := n.MarshalText()
		require.NoError(t, err)

		var decoded Network
		require.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, n, decoded)
	}

	var n Network
	assert.Error(t, n.UnmarshalText([]byte("nope")))
}
