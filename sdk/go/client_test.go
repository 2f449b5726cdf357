package vaultsdk

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsc-eco/vsc-btc-vault/bitcoin"
	"github.com/vsc-eco/vsc-btc-vault/schemas"
	"github.com/vsc-eco/vsc-btc-vault/services/vault"
)

const testVaultID = "vault-alice"

func scalarHex(n int) string {
	return fmt.Sprintf("%064x", n)
}

func newTestVault(t *testing.T) (*vault.Service, *httptest.Server) {
	t.Helper()
	key, err := bitcoin.SecretKeyFromHex(scalarHex(7))
	require.NoError(t, err)

	svc, err := vault.NewService(vault.Config{
		VaultID: testVaultID,
		Network: bitcoin.Regtest,
	}, key, nil)
	require.NoError(t, err)

	server := httptest.NewServer(vault.NewServer(svc, "0").Handler())
	t.Cleanup(server.Close)
	return svc, server
}

func TestClient_Flow(t *testing.T) {
	svc, server := newTestVault(t)
	client := NewClient(Config{Endpoint: server.URL})
	ctx := context.Background()

	require.NoError(t, client.Health(ctx))

	info, err := client.Vault(ctx)
	require.NoError(t, err)
	assert.Equal(t, testVaultID, info.VaultID)
	assert.Equal(t, svc.PublicKeyHex(), info.PublicKey)

	address, err := client.DepositAddress(ctx, scalarHex(3))
	require.NoError(t, err)

	deposit, err := client.Issue(ctx, &schemas.IssueRequest{
		RequestType:   schemas.IssueRequestType,
		SchemaVersion: schemas.IssueRequestVersion,
		ID:            "issue-1",
		Vault:         testVaultID,
		Requester:     "bob",
		SecureID:      scalarHex(3),
		Amount:        1000,
	})
	require.NoError(t, err)
	assert.Equal(t, address, deposit.Address)

	fetched, err := client.Deposit(ctx, "issue-1")
	require.NoError(t, err)
	assert.Equal(t, deposit.Address, fetched.Address)

	all, err := client.Deposits(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	converted, err := client.ConvertAddress(ctx, address, "compact", "regtest")
	require.NoError(t, err)
	assert.Equal(t, address, converted)
}

func TestClient_Errors(t *testing.T) {
	_, server := newTestVault(t)
	client := NewClient(Config{Endpoint: server.URL})
	ctx := context.Background()

	_, err := client.Deposit(ctx, "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)

	_, err = client.DepositAddress(ctx, "zz")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.Message)

	down := NewClient(Config{Endpoint: "http://127.0.0.1:1"})
	assert.Error(t, down.Health(ctx))
}
