package schemas

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	IssueRequestType    = "issue"
	IssueRequestVersion = "1.0.0"

	secureIDSize = 32
)

// Request represents a generic bridge request
type Request interface {
	Type() string
	Version() string
	Validate() error
}

// IssueRequest asks a vault to accept a BTC deposit. The secure id is the
// per-request one-time scalar used to derive the deposit address.
type IssueRequest struct {
	RequestType   string                 `json:"type"`
	SchemaVersion string                 `json:"version"`
	ID            string                 `json:"id"`
	Vault         string                 `json:"vault"`
	Requester     string                 `json:"requester"`
	SecureID      string                 `json:"secure_id"`
	Amount        uint64                 `json:"amount"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

var _ Request = IssueRequest{}

// Type returns the request type
func (r IssueRequest) Type() string {
	return r.RequestType
}

// Version returns the request version
func (r IssueRequest) Version() string {
	return r.SchemaVersion
}

// Validate performs basic validation on the request
func (r IssueRequest) Validate() error {
	if r.RequestType == "" {
		return &ValidationError{Field: "type", Message: "type is required"}
	}
	if r.RequestType != IssueRequestType {
		return &ValidationError{Field: "type", Message: fmt.Sprintf("unsupported request type %q", r.RequestType)}
	}
	if r.SchemaVersion == "" {
		return &ValidationError{Field: "version", Message: "version is required"}
	}
	if r.ID == "" {
		return &ValidationError{Field: "id", Message: "id is required"}
	}
	if r.Vault == "" {
		return &ValidationError{Field: "vault", Message: "vault is required"}
	}
	if r.Requester == "" {
		return &ValidationError{Field: "requester", Message: "requester is required"}
	}
	if _, err := r.SecureIDBytes(); err != nil {
		return err
	}
	if r.Amount == 0 {
		return &ValidationError{Field: "amount", Message: "amount must be positive"}
	}
	return nil
}

// SecureIDBytes decodes the 32 byte secure id.
func (r IssueRequest) SecureIDBytes() ([]byte, error) {
	if r.SecureID == "" {
		return nil, &ValidationError{Field: "secure_id", Message: "secure_id is required"}
	}
	b, err := hex.DecodeString(r.SecureID)
	if err != nil || len(b) != secureIDSize {
		return nil, &ValidationError{Field: "secure_id", Message: "secure_id must be 32 bytes of hex"}
	}
	return b, nil
}

// Hash returns the wallet label hash of the request id.
func (r IssueRequest) Hash() chainhash.Hash {
	return RequestHash(r.ID)
}

// ToJSON serializes the request to JSON bytes
func (r IssueRequest) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// RequestHash is the double SHA-256 of a request id.
func RequestHash(id string) chainhash.Hash {
	return chainhash.DoubleHashH([]byte(id))
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}
