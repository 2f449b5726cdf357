package vaultsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vsc-eco/vsc-btc-vault/schemas"
	"github.com/vsc-eco/vsc-btc-vault/services/vault"
)

// Client provides SDK methods for the vault HTTP API
type Client struct {
	config     Config
	httpClient *http.Client
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// NewClient creates a new vault API client
func NewClient(config Config) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// APIError is a non-2xx response from the vault.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vault returned status %d: %s", e.StatusCode, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.Endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to query vault: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(resp.Body)
		msg := string(bytes.TrimSpace(raw))
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// Health checks the vault is up
func (c *Client) Health(ctx context.Context) error {
	var resp map[string]string
	if err := c.do(ctx, "GET", "/health", nil, &resp); err != nil {
		return err
	}
	if resp["status"] != "healthy" {
		return fmt.Errorf("vault unhealthy: %s", resp["status"])
	}
	return nil
}

// Vault returns the vault's identity and public key
func (c *Client) Vault(ctx context.Context) (*vault.VaultInfo, error) {
	var info vault.VaultInfo
	if err := c.do(ctx, "GET", "/api/v1/vault", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// DepositAddress asks the vault for the deposit address of a secure id
func (c *Client) DepositAddress(ctx context.Context, secureID string) (string, error) {
	var resp vault.DepositAddressResponse
	if err := c.do(ctx, "POST", "/api/v1/deposit-address", vault.DepositAddressRequest{SecureID: secureID}, &resp); err != nil {
		return "", err
	}
	return resp.Address, nil
}

// Issue submits an issue request to the vault
func (c *Client) Issue(ctx context.Context, req *schemas.IssueRequest) (*vault.Deposit, error) {
	var deposit vault.Deposit
	if err := c.do(ctx, "POST", "/api/v1/issue", req, &deposit); err != nil {
		return nil, err
	}
	return &deposit, nil
}

// Deposit fetches an accepted deposit by request id
func (c *Client) Deposit(ctx context.Context, requestID string) (*vault.Deposit, error) {
	var deposit vault.Deposit
	if err := c.do(ctx, "GET", "/api/v1/deposits/"+url.PathEscape(requestID), nil, &deposit); err != nil {
		return nil, err
	}
	return &deposit, nil
}

// Deposits lists all accepted deposits
func (c *Client) Deposits(ctx context.Context) ([]vault.Deposit, error) {
	var deposits []vault.Deposit
	if err := c.do(ctx, "GET", "/api/v1/deposits", nil, &deposits); err != nil {
		return nil, err
	}
	return deposits, nil
}

// ConvertAddress re-encodes an address through the vault
func (c *Client) ConvertAddress(ctx context.Context, address, format, network string) (string, error) {
	var resp vault.ConvertResponse
	req := vault.ConvertRequest{Address: address, Format: format, Network: network}
	if err := c.do(ctx, "POST", "/api/v1/address/convert", req, &resp); err != nil {
		return "", err
	}
	return resp.Address, nil
}
