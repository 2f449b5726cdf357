package vaultsdk

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/hasura/go-graphql-client"
	log "github.com/sirupsen/logrus"
	"github.com/vsc-eco/vsc-btc-vault/bitcoin"
	"github.com/vsc-eco/vsc-btc-vault/schemas"
	"github.com/vsc-eco/vsc-btc-vault/services/vault"
)

// LedgerClient reads issue requests and vault registrations from the
// ledger's GraphQL API.
type LedgerClient struct {
	client *graphql.Client
	logger *log.Entry
}

var _ vault.RequestSource = (*LedgerClient)(nil)

// NewLedgerClient creates a GraphQL client. A nil httpClient uses
// http.DefaultClient.
func NewLedgerClient(endpoint string, httpClient *http.Client) *LedgerClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &LedgerClient{
		client: graphql.NewClient(endpoint, httpClient),
		logger: log.WithFields(log.Fields{"module": "ledger", "endpoint": endpoint}),
	}
}

// IssueRequest fetches and validates an issue request by id
func (c *LedgerClient) IssueRequest(ctx context.Context, id string) (*schemas.IssueRequest, error) {
	var query struct {
		IssueRequest *struct {
			ID        graphql.String `graphql:"id"`
			Vault     graphql.String `graphql:"vault"`
			Requester graphql.String `graphql:"requester"`
			SecureID  graphql.String `graphql:"secureId"`
			Amount    graphql.String `graphql:"amount"`
		} `graphql:"issueRequest(id: $id)"`
	}

	err := c.client.Query(ctx, &query, map[string]interface{}{
		"id": graphql.String(id),
	})
	if err != nil {
		c.logger.WithFields(log.Fields{"request": id, "err": err}).Debug("issue request query failed")
		return nil, fmt.Errorf("failed to query issue request %s: %w", id, err)
	}
	if query.IssueRequest == nil {
		return nil, fmt.Errorf("issue request %s not found", id)
	}

	amount, err := strconv.ParseUint(string(query.IssueRequest.Amount), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid amount for issue request %s: %w", id, err)
	}

	req := &schemas.IssueRequest{
		RequestType:   schemas.IssueRequestType,
		SchemaVersion: schemas.IssueRequestVersion,
		ID:            string(query.IssueRequest.ID),
		Vault:         string(query.IssueRequest.Vault),
		Requester:     string(query.IssueRequest.Requester),
		SecureID:      string(query.IssueRequest.SecureID),
		Amount:        amount,
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("ledger returned invalid issue request %s: %w", id, err)
	}
	return req, nil
}

// VaultPublicKey returns the registered public key of a vault
func (c *LedgerClient) VaultPublicKey(ctx context.Context, vaultID string) (*btcec.PublicKey, error) {
	var query struct {
		Vault *struct {
			PublicKey graphql.String `graphql:"publicKey"`
		} `graphql:"vault(id: $id)"`
	}

	err := c.client.Query(ctx, &query, map[string]interface{}{
		"id": graphql.String(vaultID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query vault %s: %w", vaultID, err)
	}
	if query.Vault == nil {
		return nil, fmt.Errorf("vault %s not found", vaultID)
	}
	return bitcoin.ParsePublicKeyHex(string(query.Vault.PublicKey))
}
