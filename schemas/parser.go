package schemas

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ParseFromJSON parses an IssueRequest from JSON bytes
func ParseFromJSON(data []byte) (*IssueRequest, error) {
	var req IssueRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &req, nil
}

// ParseFromQueryParams parses an IssueRequest from URL query parameters
func ParseFromQueryParams(query string) (*IssueRequest, error) {
	values, err := url.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query string: %w", err)
	}

	req := &IssueRequest{
		RequestType:   values.Get("type"),
		SchemaVersion: values.Get("version"),
		ID:            values.Get("id"),
		Vault:         values.Get("vault"),
		Requester:     values.Get("requester"),
		SecureID:      values.Get("secure_id"),
	}

	if amountStr := values.Get("amount"); amountStr != "" {
		amount, err := strconv.ParseUint(amountStr, 10, 64)
		if err != nil {
			return nil, &ValidationError{Field: "amount", Message: fmt.Sprintf("invalid amount %q", amountStr)}
		}
		req.Amount = amount
	}

	// Parse metadata (if present as JSON string)
	if metadataStr := values.Get("metadata"); metadataStr != "" {
		var metadata map[string]interface{}
		if err := json.Unmarshal([]byte(metadataStr), &metadata); err == nil {
			req.Metadata = metadata
		}
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return req, nil
}

// ParseFromMemo parses an IssueRequest from a memo string
// It first tries to parse as JSON, then falls back to URL query parameters
func ParseFromMemo(memo string) (*IssueRequest, error) {
	memo = strings.TrimSpace(memo)

	if strings.HasPrefix(memo, "{") && strings.HasSuffix(memo, "}") {
		return ParseFromJSON([]byte(memo))
	}

	return ParseFromQueryParams(memo)
}
